package mocks

import (
	"context"

	"github.com/Behyna/cinefund/internal/service"
	"github.com/stretchr/testify/mock"
)

type WalletService struct {
	mock.Mock
}

func (w *WalletService) Credit(ctx context.Context, cmd service.CreditPayoutCommand) (string, error) {
	args := w.Called(ctx, cmd)
	return args.String(0), args.Error(1)
}
