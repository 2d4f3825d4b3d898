package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/service"
	"github.com/stretchr/testify/mock"
)

type PayoutQueueService struct {
	mock.Mock
}

func (p *PayoutQueueService) FindPayoutsToQueue(ctx context.Context, limit int) ([]service.PayoutCommand, error) {
	args := p.Called(ctx, limit)
	return args.Get(0).([]service.PayoutCommand), args.Error(1)
}

func (p *PayoutQueueService) MarkPayoutAsQueued(ctx context.Context, transactionID string) error {
	args := p.Called(ctx, transactionID)
	return args.Error(0)
}
