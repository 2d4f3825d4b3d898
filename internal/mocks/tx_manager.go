package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockTxKey string

// TxManager runs fn with a derived context so tests can tell work done inside
// the unit of work from work done outside it.
type TxManager struct {
	mock.Mock
}

func (t *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := t.Called(ctx, fn)

	if args.Error(0) != nil {
		return args.Error(0)
	}

	txCtx := context.WithValue(ctx, mockTxKey("tx"), "mock_tx")
	return fn(txCtx)
}
