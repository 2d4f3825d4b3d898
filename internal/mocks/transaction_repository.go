package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (t *TransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	args := t.Called(ctx, transaction)
	return args.Error(0)
}

func (t *TransactionRepository) Update(ctx context.Context, transaction *model.Transaction) error {
	args := t.Called(ctx, transaction)
	return args.Error(0)
}

func (t *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	args := t.Called(ctx, transactionID)
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (t *TransactionRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Transaction, error) {
	args := t.Called(ctx, userID)
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (t *TransactionRepository) FindUnpublishedPayouts(ctx context.Context, limit int) ([]model.Transaction, error) {
	args := t.Called(ctx, limit)
	return args.Get(0).([]model.Transaction), args.Error(1)
}

func (t *TransactionRepository) CountUnpublishedPayouts(ctx context.Context) (int64, error) {
	args := t.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
