package mocks

import (
	"context"

	"github.com/Behyna/cinefund/pkg/walletgateway"
	"github.com/stretchr/testify/mock"
)

type WalletGateway struct {
	mock.Mock
}

func (w *WalletGateway) Credit(ctx context.Context, request walletgateway.CreditRequest) (walletgateway.CreditResponse, error) {
	args := w.Called(ctx, request)
	return args.Get(0).(walletgateway.CreditResponse), args.Error(1)
}
