package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/mocks"
	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const movieID = int64(7)
const producerID = int64(3)

var txCtx = mock.AnythingOfType("*context.valueCtx")

type returnsFixture struct {
	investmentRepo  *mocks.InvestmentRepository
	transactionRepo *mocks.TransactionRepository
	txManager       *mocks.TxManager
	metrics         *metrics.Metrics
	svc             service.ReturnsService

	saved   []model.Investment
	created []model.Transaction
}

func newReturnsFixture() *returnsFixture {
	f := &returnsFixture{
		investmentRepo:  &mocks.InvestmentRepository{},
		transactionRepo: &mocks.TransactionRepository{},
		txManager:       &mocks.TxManager{},
		metrics:         metrics.NewMetrics(prometheus.NewRegistry()),
	}

	f.svc = service.NewReturnsService(f.investmentRepo, f.transactionRepo, f.txManager, f.metrics, zap.NewNop())

	return f
}

func (f *returnsFixture) expectTx() {
	f.txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
}

func (f *returnsFixture) expectWrites() {
	f.investmentRepo.On("Save", txCtx, mock.AnythingOfType("*model.Investment")).
		Run(func(args mock.Arguments) {
			f.saved = append(f.saved, *args.Get(1).(*model.Investment))
		}).Return(nil)

	f.transactionRepo.On("Create", txCtx, mock.AnythingOfType("*model.Transaction")).
		Run(func(args mock.Arguments) {
			f.created = append(f.created, *args.Get(1).(*model.Transaction))
		}).Return(nil)
}

func confirmed(id, userID int64, amount string) model.Investment {
	return model.Investment{
		ID:            id,
		UserID:        userID,
		MovieID:       movieID,
		ProducerID:    producerID,
		Amount:        dec(amount),
		TransactionID: "TXN_TEST" + amount,
		Status:        model.InvestmentStatusConfirmed,
		MovieTitle:    "Monsoon",
	}
}

func errorCode(t *testing.T, err error) string {
	t.Helper()

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr), "expected service error, got %v", err)
	return serviceErr.Code
}

func TestReturns_ProcessReturns(t *testing.T) {
	ctx := context.Background()

	t.Run("distributes revenue proportionally", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		investments := []model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return(investments, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)

		resp, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.InvestmentsProcessed)
		assertDecimal(t, "400", resp.TotalInvestment)
		assertDecimal(t, "40", resp.TotalDistributed)
		require.Len(t, resp.Payouts, 2)
		assertDecimal(t, "10", resp.Payouts[0].Amount)
		assertDecimal(t, "0.25", resp.Payouts[0].Ratio)
		assertDecimal(t, "30", resp.Payouts[1].Amount)
		assertDecimal(t, "0.75", resp.Payouts[1].Ratio)

		require.Len(t, f.saved, 2)
		for i, inv := range f.saved {
			assert.Equal(t, model.InvestmentStatusReturnPaid, inv.Status)
			assert.True(t, inv.ReturnPaid)
			assert.NotNil(t, inv.ReturnPaymentDate)
			assertDecimal(t, resp.Payouts[i].Amount.String(), inv.ActualReturnAmount)
		}

		require.Len(t, f.created, 2)
		for i, tx := range f.created {
			assert.Equal(t, model.TransactionTypePayout, tx.Type)
			assert.Equal(t, model.TransactionStatusSuccess, tx.Status)
			assert.NotNil(t, tx.CompletedAt)
			assert.True(t, strings.HasPrefix(tx.TransactionID, service.PayoutTxPrefix))
			assert.Equal(t, "Return payment for movie: Monsoon", tx.Description)
			assert.Equal(t, movieID, tx.MovieID)
			assert.Equal(t, producerID, tx.ProducerID)
			assert.Equal(t, investments[i].UserID, tx.UserID)
			assertDecimal(t, resp.Payouts[i].Amount.String(), tx.Amount)
			assert.Equal(t, tx.TransactionID, resp.Payouts[i].TransactionID)
		}

		assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.PayoutsTotal.WithLabelValues("revenue")))

		f.investmentRepo.AssertExpectations(t)
		f.transactionRepo.AssertExpectations(t)
		f.txManager.AssertExpectations(t)
	})

	t.Run("keeps per investor rounding drift", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		investments := []model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "100"), confirmed(3, 13, "100")}
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return(investments, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("300"), nil)

		resp, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("100")})

		require.NoError(t, err)
		for _, p := range resp.Payouts {
			assertDecimal(t, "33.3333", p.Amount)
			assertDecimal(t, "33.33", p.StoredAmount)
		}
		assertDecimal(t, "99.9999", resp.TotalDistributed)
		assertDecimal(t, "99.99", resp.TotalStored)
	})

	t.Run("ratio uses all confirmed investments as denominator", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).
			Return([]model.Investment{confirmed(2, 12, "300")}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)

		resp, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		require.NoError(t, err)
		require.Len(t, resp.Payouts, 1)
		assertDecimal(t, "30", resp.Payouts[0].Amount)
	})

	t.Run("fails with no eligible investments and writes nothing", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return([]model.Investment{}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(decimal.Zero, nil)

		_, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		assert.ErrorIs(t, err, service.ErrNoEligibleInvestments)
		assert.Equal(t, constants.ErrCodeNoEligibleInvestments, errorCode(t, err))
		assert.Equal(t, float64(1), testutil.ToFloat64(
			f.metrics.ReturnsProcessingErrors.WithLabelValues("revenue", constants.ErrCodeNoEligibleInvestments)))

		f.investmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects non positive revenue", func(t *testing.T) {
		for _, revenue := range []string{"0", "-10"} {
			f := newReturnsFixture()

			_, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec(revenue)})

			assert.ErrorIs(t, err, service.ErrInvalidAmount)
			assert.Equal(t, constants.ErrCodeInvalidAmount, errorCode(t, err))
			f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		}
	})

	t.Run("aborts on first failed write", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		dbErr := errors.New("deadlock found")
		investments := []model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return(investments, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)
		f.investmentRepo.On("Save", txCtx, mock.AnythingOfType("*model.Investment")).Return(nil).Once()
		f.investmentRepo.On("Save", txCtx, mock.AnythingOfType("*model.Investment")).Return(dbErr).Once()
		f.transactionRepo.On("Create", txCtx, mock.AnythingOfType("*model.Transaction")).Return(nil).Once()

		_, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, service.ErrCodeDatabase, errorCode(t, err))
		f.investmentRepo.AssertNumberOfCalls(t, "Save", 2)
		f.transactionRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("maps duplicate payout id", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).
			Return([]model.Investment{confirmed(1, 11, "100")}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("100"), nil)
		f.investmentRepo.On("Save", txCtx, mock.AnythingOfType("*model.Investment")).Return(nil)
		f.transactionRepo.On("Create", txCtx, mock.AnythingOfType("*model.Transaction")).
			Return(repository.ErrTransactionExisted)

		_, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		assert.Equal(t, constants.ErrCodeDuplicateTransaction, errorCode(t, err))
	})

	t.Run("propagates unit of work failure", func(t *testing.T) {
		f := newReturnsFixture()
		commitErr := errors.New("commit failed")
		f.txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(commitErr)

		_, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("40")})

		assert.ErrorIs(t, err, commitErr)
	})
}

func TestReturns_UpdateCollectionAndDistribute(t *testing.T) {
	ctx := context.Background()
	collectionDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cmd := func(amount string, auto bool) service.UpdateCollectionCommand {
		return service.UpdateCollectionCommand{
			ProducerID:       producerID,
			MovieID:          movieID,
			CollectionAmount: dec(amount),
			CollectionDate:   collectionDate,
			Notes:            "opening week",
			AutoDistribute:   auto,
		}
	}

	t.Run("distributes principal plus profit share", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return([]model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}, nil)

		report, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd("500", true))

		require.NoError(t, err)
		assert.True(t, report.ReturnsDistributed)
		assert.Equal(t, 2, report.InvestmentsProcessed)
		assertDecimal(t, "400", report.TotalInvestment)
		assertDecimal(t, "100", report.Profit)
		assert.Equal(t, service.MsgReturnsDistributed, report.Message)
		assert.Equal(t, collectionDate, report.CollectionDate)
		assert.False(t, report.ProcessedAt.IsZero())

		require.Len(t, f.saved, 2)
		assertDecimal(t, "125", f.saved[0].ActualReturnAmount)
		assertDecimal(t, "375", f.saved[1].ActualReturnAmount)
		assert.Equal(t, model.InvestmentStatusReturnPaid, f.saved[0].Status)

		require.Len(t, f.created, 2)
		assertDecimal(t, "125", f.created[0].Amount)
		assertDecimal(t, "375", f.created[1].Amount)
		assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.PayoutsTotal.WithLabelValues("collection")))
	})

	t.Run("reports loss without writes", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return([]model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}, nil)

		report, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd("350", true))

		require.NoError(t, err)
		assert.False(t, report.ReturnsDistributed)
		assert.Equal(t, 0, report.InvestmentsProcessed)
		assertDecimal(t, "-50", report.Profit)
		assert.Equal(t, "Collection updated but no profit to distribute. Loss: 50.00", report.Message)

		f.investmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("break even is not distributed", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return([]model.Investment{confirmed(1, 11, "400")}, nil)

		report, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd("400", true))

		require.NoError(t, err)
		assert.False(t, report.ReturnsDistributed)
		assert.Equal(t, "Collection updated but no profit to distribute. Loss: 0.00", report.Message)
	})

	t.Run("auto distribution disabled", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return([]model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}, nil)

		report, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd("500", false))

		require.NoError(t, err)
		assert.False(t, report.ReturnsDistributed)
		assertDecimal(t, "100", report.Profit)
		assert.Equal(t, service.MsgAutoDistributionDisabled, report.Message)
		assert.Contains(t, report.Message, "Auto-distribution disabled.")

		f.investmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.transactionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("fails with no confirmed investments", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return([]model.Investment{}, nil)

		_, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd("500", true))

		assert.Equal(t, constants.ErrCodeNoEligibleInvestments, errorCode(t, err))
	})

	for _, amount := range []string{"-1", "0"} {
		t.Run("rejects non positive collection "+amount, func(t *testing.T) {
			f := newReturnsFixture()

			_, err := f.svc.UpdateCollectionAndDistribute(ctx, cmd(amount, true))

			assert.ErrorIs(t, err, service.ErrInvalidAmount)
			assert.Equal(t, constants.ErrCodeInvalidAmount, errorCode(t, err))
			f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		})
	}
}

// The revenue path skips investments already flagged as paid while the
// collection path overwrites them. Both behaviours are pinned here.
func TestReturns_PaidInvestmentHandlingDiffersBetweenEntryPoints(t *testing.T) {
	ctx := context.Background()
	paidAt := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	stale := func() []model.Investment {
		first := confirmed(1, 11, "100")
		first.ReturnPaid = true
		first.ActualReturnAmount = dec("10")
		first.ReturnPaymentDate = &paidAt

		second := confirmed(2, 12, "300")
		second.ReturnPaid = true
		second.ActualReturnAmount = dec("30")
		second.ReturnPaymentDate = &paidAt

		return []model.Investment{first, second}
	}

	t.Run("revenue path leaves paid amounts untouched", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return([]model.Investment{}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)

		resp, err := f.svc.ProcessReturns(ctx, service.ProcessReturnsCommand{MovieID: movieID, TotalRevenue: dec("80")})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.InvestmentsProcessed)
		assertDecimal(t, "0", resp.TotalDistributed)
		f.investmentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("collection path overwrites paid amounts", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		f.investmentRepo.On("FindByMovieAndStatus", txCtx, movieID, model.InvestmentStatusConfirmed).
			Return(stale(), nil)

		report, err := f.svc.UpdateCollectionAndDistribute(ctx, service.UpdateCollectionCommand{
			ProducerID:       producerID,
			MovieID:          movieID,
			CollectionAmount: dec("800"),
			AutoDistribute:   true,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, report.InvestmentsProcessed)
		require.Len(t, f.saved, 2)
		assertDecimal(t, "200", f.saved[0].ActualReturnAmount)
		assertDecimal(t, "600", f.saved[1].ActualReturnAmount)
		assert.True(t, f.saved[0].ReturnPaymentDate.After(paidAt))
		assert.Len(t, f.created, 2)
	})
}

func TestReturns_ProcessReturnsForProducer(t *testing.T) {
	ctx := context.Background()

	t.Run("distributes when producer owns the movie", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		investments := []model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}
		f.investmentRepo.On("FindByProducerAndMovie", txCtx, producerID, movieID).Return(investments, nil)
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).Return(investments, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)

		resp, err := f.svc.ProcessReturnsForProducer(ctx, service.ProducerReturnsCommand{
			ProducerID:   producerID,
			MovieID:      movieID,
			TotalRevenue: dec("40"),
			Notes:        "week one",
		})

		require.NoError(t, err)
		assert.Equal(t, producerID, resp.ProducerID)
		assert.Equal(t, "week one", resp.Notes)
		assert.Equal(t, 2, resp.InvestmentsProcessed)
		assertDecimal(t, "40", resp.TotalDistributed)
	})

	t.Run("fails when producer has no investments for movie", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByProducerAndMovie", txCtx, producerID, movieID).Return([]model.Investment{}, nil)

		_, err := f.svc.ProcessReturnsForProducer(ctx, service.ProducerReturnsCommand{
			ProducerID:   producerID,
			MovieID:      movieID,
			TotalRevenue: dec("40"),
		})

		assert.ErrorIs(t, err, service.ErrNoProducerInvestments)
		assert.Equal(t, constants.ErrCodeNoProducerInvestments, errorCode(t, err))
		f.investmentRepo.AssertNotCalled(t, "FindUnpaidConfirmedByMovie", mock.Anything, mock.Anything)
	})

	t.Run("rejects non positive revenue", func(t *testing.T) {
		f := newReturnsFixture()

		_, err := f.svc.ProcessReturnsForProducer(ctx, service.ProducerReturnsCommand{
			ProducerID: producerID,
			MovieID:    movieID,
		})

		assert.Equal(t, constants.ErrCodeInvalidAmount, errorCode(t, err))
	})
}

func TestReturns_ProcessReturnsForAllProducerMovies(t *testing.T) {
	ctx := context.Background()

	other := func(id, userID, movie int64, amount string) model.Investment {
		inv := confirmed(id, userID, amount)
		inv.MovieID = movie
		return inv
	}

	t.Run("processes movies with revenue in id order", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		f.investmentRepo.On("FindByProducerID", txCtx, producerID).Return([]model.Investment{
			other(5, 11, 9, "200"),
			confirmed(1, 11, "100"),
			other(6, 12, 12, "50"),
			confirmed(2, 12, "300"),
		}, nil)

		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).
			Return([]model.Investment{confirmed(1, 11, "100"), confirmed(2, 12, "300")}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("400"), nil)
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, int64(9)).
			Return([]model.Investment{other(5, 11, 9, "200")}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, int64(9)).Return(dec("200"), nil)

		resp, err := f.svc.ProcessReturnsForAllProducerMovies(ctx, service.BulkReturnsCommand{
			ProducerID: producerID,
			Revenues: map[int64]decimal.Decimal{
				movieID:   dec("40"),
				int64(9):  dec("20"),
				int64(99): dec("1000"),
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalMovies)
		require.Len(t, resp.Movies, 2)
		assert.Equal(t, movieID, resp.Movies[0].MovieID)
		assert.Equal(t, int64(9), resp.Movies[1].MovieID)
		assert.Equal(t, 3, resp.TotalInvestmentsProcessed)
		assertDecimal(t, "60", resp.TotalRevenueProcessed)
		f.txManager.AssertNumberOfCalls(t, "WithTx", 1)
		f.investmentRepo.AssertNotCalled(t, "FindUnpaidConfirmedByMovie", mock.Anything, int64(12))
	})

	t.Run("fails when producer has no investments", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()

		f.investmentRepo.On("FindByProducerID", txCtx, producerID).Return([]model.Investment{}, nil)

		_, err := f.svc.ProcessReturnsForAllProducerMovies(ctx, service.BulkReturnsCommand{
			ProducerID: producerID,
			Revenues:   map[int64]decimal.Decimal{movieID: dec("40")},
		})

		assert.Equal(t, constants.ErrCodeNoProducerInvestments, errorCode(t, err))
	})

	t.Run("rejects any non positive revenue before loading", func(t *testing.T) {
		f := newReturnsFixture()

		_, err := f.svc.ProcessReturnsForAllProducerMovies(ctx, service.BulkReturnsCommand{
			ProducerID: producerID,
			Revenues:   map[int64]decimal.Decimal{movieID: dec("40"), int64(9): decimal.Zero},
		})

		assert.Equal(t, constants.ErrCodeInvalidAmount, errorCode(t, err))
		f.investmentRepo.AssertNotCalled(t, "FindByProducerID", mock.Anything, mock.Anything)
	})

	t.Run("loads producer investments inside the unit of work", func(t *testing.T) {
		f := newReturnsFixture()
		dbErr := errors.New("connection reset")
		f.txManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)

		f.investmentRepo.On("FindByProducerID", txCtx, producerID).Return([]model.Investment(nil), dbErr)

		_, err := f.svc.ProcessReturnsForAllProducerMovies(ctx, service.BulkReturnsCommand{
			ProducerID: producerID,
			Revenues:   map[int64]decimal.Decimal{movieID: dec("40")},
		})

		assert.ErrorIs(t, err, dbErr)
		f.txManager.AssertNumberOfCalls(t, "WithTx", 1)
		f.investmentRepo.AssertNotCalled(t, "FindByProducerID", ctx, producerID)
	})

	t.Run("one failing movie fails the batch", func(t *testing.T) {
		f := newReturnsFixture()
		f.expectTx()
		f.expectWrites()

		f.investmentRepo.On("FindByProducerID", txCtx, producerID).
			Return([]model.Investment{confirmed(1, 11, "100"), other(5, 11, 9, "200")}, nil)
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, movieID).
			Return([]model.Investment{confirmed(1, 11, "100")}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, movieID).Return(dec("100"), nil)
		f.investmentRepo.On("FindUnpaidConfirmedByMovie", txCtx, int64(9)).Return([]model.Investment{}, nil)
		f.investmentRepo.On("SumConfirmedByMovie", txCtx, int64(9)).Return(decimal.Zero, nil)

		_, err := f.svc.ProcessReturnsForAllProducerMovies(ctx, service.BulkReturnsCommand{
			ProducerID: producerID,
			Revenues:   map[int64]decimal.Decimal{movieID: dec("40"), int64(9): dec("20")},
		})

		assert.Equal(t, constants.ErrCodeNoEligibleInvestments, errorCode(t, err))
	})
}

func TestReturns_GetReturnSummaryForProducer(t *testing.T) {
	f := newReturnsFixture()

	paidAt := time.Now()
	paid := confirmed(1, 11, "100")
	paid.MarkReturnPaid(dec("10"), paidAt)

	laterMovie := confirmed(3, 13, "50")
	laterMovie.MovieID = 12
	laterMovie.MovieTitle = "Harbour"

	f.investmentRepo.On("FindByProducerID", mock.Anything, producerID).
		Return([]model.Investment{laterMovie, paid, confirmed(2, 12, "300")}, nil)

	summary, err := f.svc.GetReturnSummaryForProducer(context.Background(), producerID)

	require.NoError(t, err)
	assert.Equal(t, producerID, summary.ProducerID)
	assert.Equal(t, 3, summary.TotalInvestments)
	assert.Equal(t, 1, summary.PaidReturns)
	assert.Equal(t, 2, summary.UnpaidReturns)
	assertDecimal(t, "450", summary.TotalInvestmentAmount)
	assertDecimal(t, "10", summary.TotalReturnsPaid)

	require.Len(t, summary.Movies, 2)
	assert.Equal(t, movieID, summary.Movies[0].MovieID)
	assert.Equal(t, 2, summary.Movies[0].TotalInvestments)
	assertDecimal(t, "400", summary.Movies[0].TotalAmount)
	assert.Equal(t, 1, summary.Movies[0].PaidReturns)
	assert.Equal(t, int64(12), summary.Movies[1].MovieID)
	assert.Equal(t, "Harbour", summary.Movies[1].MovieTitle)
}
