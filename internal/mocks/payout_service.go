package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/service"
	"github.com/stretchr/testify/mock"
)

type PayoutService struct {
	mock.Mock
}

func (p *PayoutService) Credit(ctx context.Context, cmd service.PayoutCommand) error {
	args := p.Called(ctx, cmd)
	return args.Error(0)
}
