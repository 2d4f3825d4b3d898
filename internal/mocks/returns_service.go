package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/service"
	"github.com/stretchr/testify/mock"
)

type ReturnsService struct {
	mock.Mock
}

func (r *ReturnsService) ProcessReturns(ctx context.Context, cmd service.ProcessReturnsCommand) (service.ProcessReturnsResponse, error) {
	args := r.Called(ctx, cmd)
	return args.Get(0).(service.ProcessReturnsResponse), args.Error(1)
}

func (r *ReturnsService) ProcessReturnsForProducer(ctx context.Context,
	cmd service.ProducerReturnsCommand) (service.ProducerReturnsResponse, error) {
	args := r.Called(ctx, cmd)
	return args.Get(0).(service.ProducerReturnsResponse), args.Error(1)
}

func (r *ReturnsService) ProcessReturnsForAllProducerMovies(ctx context.Context,
	cmd service.BulkReturnsCommand) (service.BulkReturnsResponse, error) {
	args := r.Called(ctx, cmd)
	return args.Get(0).(service.BulkReturnsResponse), args.Error(1)
}

func (r *ReturnsService) UpdateCollectionAndDistribute(ctx context.Context,
	cmd service.UpdateCollectionCommand) (service.CollectionReport, error) {
	args := r.Called(ctx, cmd)
	return args.Get(0).(service.CollectionReport), args.Error(1)
}

func (r *ReturnsService) GetReturnSummaryForProducer(ctx context.Context,
	producerID int64) (service.ProducerReturnSummary, error) {
	args := r.Called(ctx, producerID)
	return args.Get(0).(service.ProducerReturnSummary), args.Error(1)
}
