package repository

import (
	"context"
	"errors"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
var ErrTransactionExisted = errors.New("TRANSACTION_EXISTED")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	Update(ctx context.Context, transaction *model.Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Transaction, error)
	FindUnpublishedPayouts(ctx context.Context, limit int) ([]model.Transaction, error)
	CountUnpublishedPayouts(ctx context.Context) (int64, error)
}

type Transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &Transaction{db: db}
}

func (t *Transaction) Create(ctx context.Context, transaction *model.Transaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(transaction).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExisted
	}

	return err
}

// Update writes the non-zero fields of transaction to the row with the same
// transaction id.
func (t *Transaction) Update(ctx context.Context, transaction *model.Transaction) error {
	db := GetTx(ctx, t.db)
	result := db.Model(&model.Transaction{}).
		Where("transaction_id = ?", transaction.TransactionID).
		Updates(transaction)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (t *Transaction) GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	var transaction model.Transaction

	err := GetTx(ctx, t.db).Where("transaction_id = ?", transactionID).First(&transaction).Error
	if err == nil {
		return &transaction, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *Transaction) FindByUserID(ctx context.Context, userID int64) ([]model.Transaction, error) {
	var transactions []model.Transaction

	err := GetTx(ctx, t.db).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (t *Transaction) FindUnpublishedPayouts(ctx context.Context, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction

	err := GetTx(ctx, t.db).Where("type = ? AND status = ? AND published = ?",
		model.TransactionTypePayout, model.TransactionStatusSuccess, false).
		Order("id ASC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (t *Transaction) CountUnpublishedPayouts(ctx context.Context) (int64, error) {
	var count int64

	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Where("type = ? AND status = ? AND published = ?",
			model.TransactionTypePayout, model.TransactionStatusSuccess, false).
		Count(&count).Error

	return count, err
}
