package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type InvestmentService struct {
	mock.Mock
}

func (i *InvestmentService) Create(ctx context.Context, cmd service.CreateInvestmentCommand) (service.Investment, error) {
	args := i.Called(ctx, cmd)
	return args.Get(0).(service.Investment), args.Error(1)
}

func (i *InvestmentService) Confirm(ctx context.Context, transactionID string) (service.Investment, error) {
	args := i.Called(ctx, transactionID)
	return args.Get(0).(service.Investment), args.Error(1)
}

func (i *InvestmentService) Cancel(ctx context.Context, cmd service.CancelInvestmentCommand) (service.Investment, error) {
	args := i.Called(ctx, cmd)
	return args.Get(0).(service.Investment), args.Error(1)
}

func (i *InvestmentService) GetByID(ctx context.Context, id int64) (service.Investment, error) {
	args := i.Called(ctx, id)
	return args.Get(0).(service.Investment), args.Error(1)
}

func (i *InvestmentService) GetByTransactionID(ctx context.Context, transactionID string) (service.Investment, error) {
	args := i.Called(ctx, transactionID)
	return args.Get(0).(service.Investment), args.Error(1)
}

func (i *InvestmentService) GetTransaction(ctx context.Context, transactionID string) (service.Transaction, error) {
	args := i.Called(ctx, transactionID)
	return args.Get(0).(service.Transaction), args.Error(1)
}

func (i *InvestmentService) ListByUser(ctx context.Context, userID int64) ([]service.Investment, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListByMovie(ctx context.Context, movieID int64) ([]service.Investment, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListConfirmedByMovie(ctx context.Context, movieID int64) ([]service.Investment, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListByProducer(ctx context.Context, producerID int64) ([]service.Investment, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListUnpaidReturns(ctx context.Context) ([]service.Investment, error) {
	args := i.Called(ctx)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListUnpaidReturnsByMovie(ctx context.Context, movieID int64) ([]service.Investment, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).([]service.Investment), args.Error(1)
}

func (i *InvestmentService) ListTransactionsByUser(ctx context.Context, userID int64) ([]service.Transaction, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).([]service.Transaction), args.Error(1)
}

func (i *InvestmentService) MovieIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).([]int64), args.Error(1)
}

func (i *InvestmentService) TotalConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentService) TotalConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentService) TotalConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (i *InvestmentService) CountInvestorsByMovie(ctx context.Context, movieID int64) (int64, error) {
	args := i.Called(ctx, movieID)
	return args.Get(0).(int64), args.Error(1)
}

func (i *InvestmentService) CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error) {
	args := i.Called(ctx, producerID)
	return args.Get(0).(int64), args.Error(1)
}

func (i *InvestmentService) MovieInvestors(ctx context.Context, producerID, movieID int64) (service.MovieInvestorsResponse, error) {
	args := i.Called(ctx, producerID, movieID)
	return args.Get(0).(service.MovieInvestorsResponse), args.Error(1)
}
