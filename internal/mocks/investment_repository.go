package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type InvestmentRepository struct {
	mock.Mock
}

func (i *InvestmentRepository) Create(ctx context.Context, investment *model.Investment) error {
	args := i.Called(ctx, investment)
	return args.Error(0)
}

func (i *InvestmentRepository) Save(ctx context.Context, investment *model.Investment) error {
	args := i.Called(ctx, investment)
	return args.Error(0)
}

func (i *InvestmentRepository) GetByID(ctx context.Context, id int64) (*model.Investment, error) {
	args := i.Called(ctx, id)
	return args.Get(0).(*model.Investment), args.Error(1)
}

func (i *InvestmentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Investment, error) {
	args := i.Called(ctx, transactionID)
	return args.Get(0).(*model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Investment, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindByMovieID(ctx context.Context, movieID int64) ([]model.Investment, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindByProducerID(ctx context.Context, producerID int64) ([]model.Investment, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindByProducerAndMovie(ctx context.Context, producerID, movieID int64) ([]model.Investment, error) {
	args := i.Called(ctx, producerID, movieID)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindByMovieAndStatus(ctx context.Context, movieID int64,
	status model.InvestmentStatus) ([]model.Investment, error) {
	args := i.Called(ctx, movieID, status)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindUnpaidConfirmedByMovie(ctx context.Context, movieID int64) ([]model.Investment, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindUnpaidConfirmed(ctx context.Context) ([]model.Investment, error) {
	args := i.Called(ctx)
	return args.Get(0).([]model.Investment), args.Error(1)
}

func (i *InvestmentRepository) FindMovieIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).([]int64), args.Error(1)
}

func (i *InvestmentRepository) SumConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentRepository) SumConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentRepository) SumConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentRepository) CountConfirmedByMovie(ctx context.Context, movieID int64) (int64, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).(int64), args.Error(1)
}

func (i *InvestmentRepository) CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).(int64), args.Error(1)
}
