package mocks

import (
	"context"

	"github.com/Behyna/cinefund/pkg/movieclient"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MovieClient struct {
	mock.Mock
}

func (m *MovieClient) GetMovie(ctx context.Context, movieID int64) (movieclient.Movie, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).(movieclient.Movie), args.Error(1)
}

func (m *MovieClient) UpdateRaisedAmount(ctx context.Context, movieID int64, amount decimal.Decimal) (movieclient.Movie, error) {
	args := m.Called(ctx, movieID, amount)
	return args.Get(0).(movieclient.Movie), args.Error(1)
}
