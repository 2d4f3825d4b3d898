package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	returnsSourceRevenue    = "revenue"
	returnsSourceCollection = "collection"
)

const (
	MsgReturnsDistributed       = "Collection updated and returns distributed successfully"
	MsgNoProfitToDistribute     = "Collection updated but no profit to distribute. Loss: %s"
	MsgAutoDistributionDisabled = "Collection updated. Auto-distribution disabled."
)

type ReturnsService interface {
	ProcessReturns(ctx context.Context, cmd ProcessReturnsCommand) (ProcessReturnsResponse, error)
	ProcessReturnsForProducer(ctx context.Context, cmd ProducerReturnsCommand) (ProducerReturnsResponse, error)
	ProcessReturnsForAllProducerMovies(ctx context.Context, cmd BulkReturnsCommand) (BulkReturnsResponse, error)
	UpdateCollectionAndDistribute(ctx context.Context, cmd UpdateCollectionCommand) (CollectionReport, error)
	GetReturnSummaryForProducer(ctx context.Context, producerID int64) (ProducerReturnSummary, error)
}

type Returns struct {
	investmentRepo  repository.InvestmentRepository
	transactionRepo repository.TransactionRepository
	txManager       repository.TxManager
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewReturnsService(investmentRepo repository.InvestmentRepository, transactionRepo repository.TransactionRepository,
	txManager repository.TxManager, metrics *metrics.Metrics, logger *zap.Logger) ReturnsService {
	return &Returns{investmentRepo: investmentRepo, transactionRepo: transactionRepo, txManager: txManager,
		metrics: metrics, logger: logger}
}

// ProcessReturns splits totalRevenue across the movie's unpaid confirmed
// investments in proportion to their amounts. All writes happen in one unit
// of work.
func (r *Returns) ProcessReturns(ctx context.Context, cmd ProcessReturnsCommand) (ProcessReturnsResponse, error) {
	r.logger.Info("Processing returns",
		zap.Int64("movieID", cmd.MovieID),
		zap.Stringer("totalRevenue", cmd.TotalRevenue))

	if !cmd.TotalRevenue.IsPositive() {
		r.logger.Warn("Rejected returns with non-positive revenue",
			zap.Int64("movieID", cmd.MovieID),
			zap.Stringer("totalRevenue", cmd.TotalRevenue))
		return ProcessReturnsResponse{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	start := time.Now()

	var resp ProcessReturnsResponse
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		resp, err = r.distributeRevenue(ctx, cmd.MovieID, cmd.TotalRevenue)
		return err
	})

	r.observe(returnsSourceRevenue, start, err)
	if err != nil {
		return ProcessReturnsResponse{}, err
	}

	r.metrics.RecordPayouts(returnsSourceRevenue, len(resp.Payouts), resp.TotalDistributed)

	r.logger.Info("Returns processed",
		zap.Int64("movieID", cmd.MovieID),
		zap.Int("investmentsProcessed", resp.InvestmentsProcessed),
		zap.Stringer("totalDistributed", resp.TotalDistributed))

	return resp, nil
}

func (r *Returns) ProcessReturnsForProducer(ctx context.Context,
	cmd ProducerReturnsCommand) (ProducerReturnsResponse, error) {
	if !cmd.TotalRevenue.IsPositive() {
		return ProducerReturnsResponse{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	start := time.Now()

	var resp ProcessReturnsResponse
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		owned, err := r.investmentRepo.FindByProducerAndMovie(ctx, cmd.ProducerID, cmd.MovieID)
		if err != nil {
			r.logger.Error("Failed to load producer investments",
				zap.Int64("producerID", cmd.ProducerID),
				zap.Int64("movieID", cmd.MovieID),
				zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}

		if len(owned) == 0 {
			r.logger.Warn("Producer has no investments for movie",
				zap.Int64("producerID", cmd.ProducerID),
				zap.Int64("movieID", cmd.MovieID))
			return NewServiceError(constants.ErrCodeNoProducerInvestments, ErrNoProducerInvestments)
		}

		resp, err = r.distributeRevenue(ctx, cmd.MovieID, cmd.TotalRevenue)
		return err
	})

	r.observe(returnsSourceRevenue, start, err)
	if err != nil {
		return ProducerReturnsResponse{}, err
	}

	r.metrics.RecordPayouts(returnsSourceRevenue, len(resp.Payouts), resp.TotalDistributed)

	return ProducerReturnsResponse{ProducerID: cmd.ProducerID, Notes: cmd.Notes, ProcessReturnsResponse: resp}, nil
}

// ProcessReturnsForAllProducerMovies distributes revenue for every movie of the
// producer that has an entry in cmd.Revenues. Movies are processed in id order
// and a failure on any movie rolls back all of them.
func (r *Returns) ProcessReturnsForAllProducerMovies(ctx context.Context,
	cmd BulkReturnsCommand) (BulkReturnsResponse, error) {
	for movieID, revenue := range cmd.Revenues {
		if !revenue.IsPositive() {
			r.logger.Warn("Rejected bulk returns with non-positive revenue",
				zap.Int64("producerID", cmd.ProducerID),
				zap.Int64("movieID", movieID))
			return BulkReturnsResponse{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
		}
	}

	start := time.Now()

	resp := BulkReturnsResponse{
		ProducerID:            cmd.ProducerID,
		Movies:                make([]ProcessReturnsResponse, 0),
		TotalRevenueProcessed: decimal.Zero,
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		movieIDs, err := r.producerMoviesWithRevenue(ctx, cmd)
		if err != nil {
			return err
		}

		for _, movieID := range movieIDs {
			movieResp, err := r.distributeRevenue(ctx, movieID, cmd.Revenues[movieID])
			if err != nil {
				r.logger.Error("Bulk returns failed for movie",
					zap.Int64("producerID", cmd.ProducerID),
					zap.Int64("movieID", movieID),
					zap.Error(err))
				return err
			}

			resp.Movies = append(resp.Movies, movieResp)
			resp.TotalRevenueProcessed = resp.TotalRevenueProcessed.Add(movieResp.TotalRevenue)
			resp.TotalInvestmentsProcessed += movieResp.InvestmentsProcessed
		}
		return nil
	})

	r.observe(returnsSourceRevenue, start, err)
	if err != nil {
		return BulkReturnsResponse{}, err
	}

	for _, movieResp := range resp.Movies {
		r.metrics.RecordPayouts(returnsSourceRevenue, len(movieResp.Payouts), movieResp.TotalDistributed)
	}

	resp.TotalMovies = len(resp.Movies)
	resp.ProcessedAt = time.Now()

	return resp, nil
}

// producerMoviesWithRevenue returns, in ascending order, the producer's movie
// ids that have an entry in cmd.Revenues.
func (r *Returns) producerMoviesWithRevenue(ctx context.Context, cmd BulkReturnsCommand) ([]int64, error) {
	investments, err := r.investmentRepo.FindByProducerID(ctx, cmd.ProducerID)
	if err != nil {
		r.logger.Error("Failed to load producer investments",
			zap.Int64("producerID", cmd.ProducerID),
			zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	if len(investments) == 0 {
		return nil, NewServiceError(constants.ErrCodeNoProducerInvestments, ErrNoProducerInvestments)
	}

	movieIDs := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, inv := range investments {
		if _, ok := cmd.Revenues[inv.MovieID]; ok && !seen[inv.MovieID] {
			seen[inv.MovieID] = true
			movieIDs = append(movieIDs, inv.MovieID)
		}
	}
	sort.Slice(movieIDs, func(i, j int) bool { return movieIDs[i] < movieIDs[j] })

	return movieIDs, nil
}

// UpdateCollectionAndDistribute records a box-office collection and, when it
// exceeds the confirmed investment, pays every confirmed investment its
// principal plus a proportional share of the profit. Unlike ProcessReturns it
// does not skip investments already flagged as paid.
func (r *Returns) UpdateCollectionAndDistribute(ctx context.Context,
	cmd UpdateCollectionCommand) (CollectionReport, error) {
	r.logger.Info("Updating movie collection",
		zap.Int64("producerID", cmd.ProducerID),
		zap.Int64("movieID", cmd.MovieID),
		zap.Stringer("collectionAmount", cmd.CollectionAmount),
		zap.Bool("autoDistribute", cmd.AutoDistribute))

	if !cmd.CollectionAmount.IsPositive() {
		return CollectionReport{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	start := time.Now()

	var report CollectionReport
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		investments, err := r.investmentRepo.FindByMovieAndStatus(ctx, cmd.MovieID, model.InvestmentStatusConfirmed)
		if err != nil {
			r.logger.Error("Failed to load confirmed investments",
				zap.Int64("movieID", cmd.MovieID),
				zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}

		if len(investments) == 0 {
			r.logger.Warn("No confirmed investments for movie", zap.Int64("movieID", cmd.MovieID))
			return NewServiceError(constants.ErrCodeNoEligibleInvestments, ErrNoEligibleInvestments)
		}

		total := decimal.Zero
		for _, inv := range investments {
			total = total.Add(inv.Amount)
		}

		profit := cmd.CollectionAmount.Sub(total)

		report = CollectionReport{
			MovieID:          cmd.MovieID,
			ProducerID:       cmd.ProducerID,
			CollectionAmount: cmd.CollectionAmount,
			CollectionDate:   cmd.CollectionDate,
			Notes:            cmd.Notes,
			TotalInvestment:  total,
			Profit:           profit,
		}

		if !profit.IsPositive() {
			report.Message = fmt.Sprintf(MsgNoProfitToDistribute, profit.Abs().StringFixed(2))
			return nil
		}

		if !cmd.AutoDistribute {
			report.Message = MsgAutoDistributionDisabled
			return nil
		}

		now := time.Now()
		for i := range investments {
			inv := &investments[i]
			ratio := ShareRatio(inv.Amount, total)
			amount := ProfitShare(inv.Amount, total, profit)

			payout, err := r.payInvestor(ctx, inv, ratio, amount, now)
			if err != nil {
				return err
			}

			report.Payouts = append(report.Payouts, payout)
		}

		report.ReturnsDistributed = true
		report.InvestmentsProcessed = len(report.Payouts)
		report.Message = MsgReturnsDistributed

		return nil
	})

	r.observe(returnsSourceCollection, start, err)
	if err != nil {
		return CollectionReport{}, err
	}

	report.ProcessedAt = time.Now()

	if report.ReturnsDistributed {
		distributed := decimal.Zero
		for _, p := range report.Payouts {
			distributed = distributed.Add(p.Amount)
		}
		r.metrics.RecordPayouts(returnsSourceCollection, len(report.Payouts), distributed)
	}

	r.logger.Info("Movie collection updated",
		zap.Int64("movieID", cmd.MovieID),
		zap.Stringer("profit", report.Profit),
		zap.Bool("returnsDistributed", report.ReturnsDistributed),
		zap.Int("investmentsProcessed", report.InvestmentsProcessed))

	return report, nil
}

func (r *Returns) GetReturnSummaryForProducer(ctx context.Context, producerID int64) (ProducerReturnSummary, error) {
	investments, err := r.investmentRepo.FindByProducerID(ctx, producerID)
	if err != nil {
		r.logger.Error("Failed to load producer investments",
			zap.Int64("producerID", producerID),
			zap.Error(err))
		return ProducerReturnSummary{}, NewServiceError(ErrCodeDatabase, err)
	}

	summary := ProducerReturnSummary{
		ProducerID:            producerID,
		TotalInvestments:      len(investments),
		TotalInvestmentAmount: decimal.Zero,
		TotalReturnsPaid:      decimal.Zero,
		Movies:                make([]MovieReturnSummary, 0),
	}

	byMovie := make(map[int64]*MovieReturnSummary)
	order := make([]int64, 0)

	for _, inv := range investments {
		movie, ok := byMovie[inv.MovieID]
		if !ok {
			movie = &MovieReturnSummary{
				MovieID:          inv.MovieID,
				MovieTitle:       inv.MovieTitle,
				TotalAmount:      decimal.Zero,
				TotalReturnsPaid: decimal.Zero,
			}
			byMovie[inv.MovieID] = movie
			order = append(order, inv.MovieID)
		}

		summary.TotalInvestmentAmount = summary.TotalInvestmentAmount.Add(inv.Amount)
		movie.TotalInvestments++
		movie.TotalAmount = movie.TotalAmount.Add(inv.Amount)

		if inv.ReturnPaid {
			summary.PaidReturns++
			summary.TotalReturnsPaid = summary.TotalReturnsPaid.Add(inv.ActualReturnAmount)
			movie.PaidReturns++
			movie.TotalReturnsPaid = movie.TotalReturnsPaid.Add(inv.ActualReturnAmount)
		}
	}

	summary.UnpaidReturns = summary.TotalInvestments - summary.PaidReturns

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, movieID := range order {
		summary.Movies = append(summary.Movies, *byMovie[movieID])
	}

	return summary, nil
}

func (r *Returns) distributeRevenue(ctx context.Context, movieID int64,
	revenue decimal.Decimal) (ProcessReturnsResponse, error) {
	investments, err := r.investmentRepo.FindUnpaidConfirmedByMovie(ctx, movieID)
	if err != nil {
		r.logger.Error("Failed to load unpaid investments",
			zap.Int64("movieID", movieID),
			zap.Error(err))
		return ProcessReturnsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	total, err := r.investmentRepo.SumConfirmedByMovie(ctx, movieID)
	if err != nil {
		r.logger.Error("Failed to sum confirmed investments",
			zap.Int64("movieID", movieID),
			zap.Error(err))
		return ProcessReturnsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	if !total.IsPositive() {
		r.logger.Warn("No confirmed investments for movie", zap.Int64("movieID", movieID))
		return ProcessReturnsResponse{}, NewServiceError(constants.ErrCodeNoEligibleInvestments,
			ErrNoEligibleInvestments)
	}

	now := time.Now()
	resp := ProcessReturnsResponse{
		MovieID:          movieID,
		TotalRevenue:     revenue,
		TotalInvestment:  total,
		TotalDistributed: decimal.Zero,
		TotalStored:      decimal.Zero,
		Payouts:          make([]Payout, 0, len(investments)),
		ProcessedAt:      now,
	}

	for i := range investments {
		inv := &investments[i]
		ratio := ShareRatio(inv.Amount, total)
		amount := RevenueShare(inv.Amount, total, revenue)

		payout, err := r.payInvestor(ctx, inv, ratio, amount, now)
		if err != nil {
			return ProcessReturnsResponse{}, err
		}

		resp.Payouts = append(resp.Payouts, payout)
		resp.TotalDistributed = resp.TotalDistributed.Add(amount)
		resp.TotalStored = resp.TotalStored.Add(payout.StoredAmount)
	}

	resp.InvestmentsProcessed = len(resp.Payouts)

	return resp, nil
}

// payInvestor marks inv as paid with amount and records the PAYOUT transaction.
func (r *Returns) payInvestor(ctx context.Context, inv *model.Investment, ratio, amount decimal.Decimal,
	paidAt time.Time) (Payout, error) {
	inv.MarkReturnPaid(amount, paidAt)

	if err := r.investmentRepo.Save(ctx, inv); err != nil {
		r.logger.Error("Failed to mark investment as paid",
			zap.Int64("investmentID", inv.ID),
			zap.Error(err))
		return Payout{}, NewServiceError(ErrCodeDatabase, err)
	}

	completedAt := paidAt
	tx := &model.Transaction{
		TransactionID: newTransactionID(PayoutTxPrefix),
		UserID:        inv.UserID,
		MovieID:       inv.MovieID,
		ProducerID:    inv.ProducerID,
		Amount:        amount,
		Type:          model.TransactionTypePayout,
		Status:        model.TransactionStatusSuccess,
		Description:   fmt.Sprintf("Return payment for movie: %s", movieTitle(inv)),
		CreatedAt:     paidAt,
		CompletedAt:   &completedAt,
	}

	if err := r.transactionRepo.Create(ctx, tx); err != nil {
		r.logger.Error("Failed to create payout transaction",
			zap.Int64("investmentID", inv.ID),
			zap.String("transactionID", tx.TransactionID),
			zap.Error(err))

		if errors.Is(err, repository.ErrTransactionExisted) {
			return Payout{}, NewServiceError(constants.ErrCodeDuplicateTransaction, ErrDuplicateTransaction)
		}

		return Payout{}, NewServiceError(ErrCodeDatabase, err)
	}

	return Payout{
		InvestmentID:  inv.ID,
		UserID:        inv.UserID,
		TransactionID: tx.TransactionID,
		Invested:      inv.Amount,
		Ratio:         ratio,
		Amount:        amount,
		StoredAmount:  StoredAmount(amount),
	}, nil
}

func (r *Returns) observe(source string, start time.Time, err error) {
	if err == nil {
		r.metrics.RecordReturnsRun(source, "success", time.Since(start))
		return
	}

	code := constants.ErrCodeInternalError
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		code = serviceErr.Code
	}

	r.metrics.RecordReturnsRun(source, "error", time.Since(start))
	r.metrics.RecordReturnsError(source, code)
}

func movieTitle(inv *model.Investment) string {
	if inv.MovieTitle != "" {
		return inv.MovieTitle
	}
	return fmt.Sprintf("Movie %d", inv.MovieID)
}
