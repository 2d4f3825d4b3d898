package repository

import (
	"context"
	"errors"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvestmentNotFound = errors.New("INVESTMENT_NOT_FOUND")
var ErrInvestmentDuplicate = errors.New("INVESTMENT_DUPLICATE")

type InvestmentRepository interface {
	Create(ctx context.Context, investment *model.Investment) error
	Save(ctx context.Context, investment *model.Investment) error
	GetByID(ctx context.Context, id int64) (*model.Investment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Investment, error)

	FindByUserID(ctx context.Context, userID int64) ([]model.Investment, error)
	FindByMovieID(ctx context.Context, movieID int64) ([]model.Investment, error)
	FindByProducerID(ctx context.Context, producerID int64) ([]model.Investment, error)
	FindByProducerAndMovie(ctx context.Context, producerID, movieID int64) ([]model.Investment, error)
	FindByMovieAndStatus(ctx context.Context, movieID int64, status model.InvestmentStatus) ([]model.Investment, error)
	FindUnpaidConfirmedByMovie(ctx context.Context, movieID int64) ([]model.Investment, error)
	FindUnpaidConfirmed(ctx context.Context) ([]model.Investment, error)
	FindMovieIDsByUser(ctx context.Context, userID int64) ([]int64, error)

	SumConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error)
	SumConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	SumConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error)
	CountConfirmedByMovie(ctx context.Context, movieID int64) (int64, error)
	CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error)
}

type Investment struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) InvestmentRepository {
	return &Investment{db: db}
}

func (i *Investment) Create(ctx context.Context, investment *model.Investment) error {
	db := GetTx(ctx, i.db)
	err := db.Create(investment).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrInvestmentDuplicate
	}

	return err
}

func (i *Investment) Save(ctx context.Context, investment *model.Investment) error {
	db := GetTx(ctx, i.db)
	return db.Save(investment).Error
}

func (i *Investment) GetByID(ctx context.Context, id int64) (*model.Investment, error) {
	return i.first(GetTx(ctx, i.db).Where("id = ?", id))
}

func (i *Investment) GetByTransactionID(ctx context.Context, transactionID string) (*model.Investment, error) {
	return i.first(GetTx(ctx, i.db).Where("transaction_id = ?", transactionID))
}

func (i *Investment) first(query *gorm.DB) (*model.Investment, error) {
	var investment model.Investment

	err := query.First(&investment).Error
	if err == nil {
		return &investment, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvestmentNotFound
	}

	return nil, err
}

func (i *Investment) FindByUserID(ctx context.Context, userID int64) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("user_id = ?", userID))
}

func (i *Investment) FindByMovieID(ctx context.Context, movieID int64) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("movie_id = ?", movieID))
}

func (i *Investment) FindByProducerID(ctx context.Context, producerID int64) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("producer_id = ?", producerID))
}

func (i *Investment) FindByProducerAndMovie(ctx context.Context, producerID, movieID int64) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("producer_id = ? AND movie_id = ?", producerID, movieID))
}

func (i *Investment) FindByMovieAndStatus(ctx context.Context, movieID int64,
	status model.InvestmentStatus) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("movie_id = ? AND status = ?", movieID, status))
}

func (i *Investment) FindUnpaidConfirmedByMovie(ctx context.Context, movieID int64) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("movie_id = ? AND status = ? AND return_paid = ?",
		movieID, model.InvestmentStatusConfirmed, false))
}

func (i *Investment) FindUnpaidConfirmed(ctx context.Context) ([]model.Investment, error) {
	return i.find(GetTx(ctx, i.db).Where("status = ? AND return_paid = ?", model.InvestmentStatusConfirmed, false))
}

func (i *Investment) find(query *gorm.DB) ([]model.Investment, error) {
	var investments []model.Investment

	err := query.Order("investment_date ASC, id ASC").Find(&investments).Error
	if err != nil {
		return nil, err
	}

	return investments, nil
}

func (i *Investment) FindMovieIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	var movieIDs []int64

	err := GetTx(ctx, i.db).Model(&model.Investment{}).
		Distinct("movie_id").
		Where("user_id = ? AND status IN ?", userID, model.HoldingStatuses).
		Order("movie_id").
		Pluck("movie_id", &movieIDs).Error
	if err != nil {
		return nil, err
	}

	return movieIDs, nil
}

func (i *Investment) SumConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error) {
	return i.sum(GetTx(ctx, i.db).Where("movie_id = ? AND status = ?", movieID, model.InvestmentStatusConfirmed))
}

func (i *Investment) SumConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return i.sum(GetTx(ctx, i.db).Where("user_id = ? AND status = ?", userID, model.InvestmentStatusConfirmed))
}

func (i *Investment) SumConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error) {
	return i.sum(GetTx(ctx, i.db).Where("producer_id = ? AND status = ?", producerID, model.InvestmentStatusConfirmed))
}

func (i *Investment) sum(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal

	err := query.Model(&model.Investment{}).Select("SUM(amount)").Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal, nil
}

func (i *Investment) CountConfirmedByMovie(ctx context.Context, movieID int64) (int64, error) {
	var count int64

	err := GetTx(ctx, i.db).Model(&model.Investment{}).
		Where("movie_id = ? AND status = ?", movieID, model.InvestmentStatusConfirmed).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (i *Investment) CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error) {
	var count int64

	err := GetTx(ctx, i.db).Model(&model.Investment{}).
		Where("producer_id = ? AND status = ?", producerID, model.InvestmentStatusConfirmed).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
