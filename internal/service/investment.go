package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/pkg/movieclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultCancelReason = "Cancelled by user"

type InvestmentService interface {
	Create(ctx context.Context, cmd CreateInvestmentCommand) (Investment, error)
	Confirm(ctx context.Context, transactionID string) (Investment, error)
	Cancel(ctx context.Context, cmd CancelInvestmentCommand) (Investment, error)

	GetByID(ctx context.Context, id int64) (Investment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (Investment, error)
	GetTransaction(ctx context.Context, transactionID string) (Transaction, error)

	ListByUser(ctx context.Context, userID int64) ([]Investment, error)
	ListByMovie(ctx context.Context, movieID int64) ([]Investment, error)
	ListConfirmedByMovie(ctx context.Context, movieID int64) ([]Investment, error)
	ListByProducer(ctx context.Context, producerID int64) ([]Investment, error)
	ListUnpaidReturns(ctx context.Context) ([]Investment, error)
	ListUnpaidReturnsByMovie(ctx context.Context, movieID int64) ([]Investment, error)
	ListTransactionsByUser(ctx context.Context, userID int64) ([]Transaction, error)
	MovieIDsByUser(ctx context.Context, userID int64) ([]int64, error)

	TotalConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error)
	TotalConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error)
	CountInvestorsByMovie(ctx context.Context, movieID int64) (int64, error)
	CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error)
	MovieInvestors(ctx context.Context, producerID, movieID int64) (MovieInvestorsResponse, error)
}

type InvestmentManager struct {
	investmentRepo  repository.InvestmentRepository
	transactionRepo repository.TransactionRepository
	txManager       repository.TxManager
	movies          movieclient.MovieClient
	moviesEnabled   bool
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewInvestmentService(investmentRepo repository.InvestmentRepository,
	transactionRepo repository.TransactionRepository, txManager repository.TxManager,
	movies movieclient.MovieClient, cfg *config.Config, metrics *metrics.Metrics, logger *zap.Logger) InvestmentService {
	return &InvestmentManager{investmentRepo: investmentRepo, transactionRepo: transactionRepo,
		txManager: txManager, movies: movies, moviesEnabled: cfg.Movie.Enable, metrics: metrics, logger: logger}
}

func (s *InvestmentManager) Create(ctx context.Context, cmd CreateInvestmentCommand) (Investment, error) {
	if !cmd.Amount.IsPositive() {
		return Investment{}, NewServiceError(constants.ErrCodeInvalidAmount, ErrInvalidAmount)
	}

	if s.moviesEnabled {
		if err := s.applyMovie(ctx, &cmd); err != nil {
			return Investment{}, err
		}
	}

	now := time.Now()
	inv := &model.Investment{
		UserID:                   cmd.UserID,
		MovieID:                  cmd.MovieID,
		ProducerID:               cmd.ProducerID,
		Amount:                   cmd.Amount,
		Currency:                 orDefault(cmd.Currency, model.DefaultCurrency),
		TransactionID:            newTransactionID(InvestmentTxPrefix),
		Status:                   model.InvestmentStatusPending,
		UserName:                 orDefault(cmd.UserName, fmt.Sprintf("User %d", cmd.UserID)),
		MovieTitle:               orDefault(cmd.MovieTitle, fmt.Sprintf("Movie %d", cmd.MovieID)),
		ProducerName:             orDefault(cmd.ProducerName, fmt.Sprintf("Producer %d", cmd.ProducerID)),
		ExpectedReturnPercentage: cmd.ExpectedReturnPercentage,
		ActualReturnAmount:       decimal.Zero,
		InvestmentDate:           now,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if inv.ExpectedReturnPercentage == nil {
		pct := model.DefaultExpectedReturnPercentage
		inv.ExpectedReturnPercentage = &pct
	}

	tx := &model.Transaction{
		TransactionID: inv.TransactionID,
		UserID:        inv.UserID,
		MovieID:       inv.MovieID,
		ProducerID:    inv.ProducerID,
		Amount:        inv.Amount,
		Type:          model.TransactionTypeInvestment,
		Status:        model.TransactionStatusPending,
		Description:   fmt.Sprintf("Investment in movie: %s", inv.MovieTitle),
		CreatedAt:     now,
	}
	if cmd.PaymentMethod != "" {
		method := cmd.PaymentMethod
		tx.PaymentMethod = &method
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.investmentRepo.Create(ctx, inv); err != nil {
			return s.writeError("Failed to create investment", inv.TransactionID, err)
		}

		if err := s.transactionRepo.Create(ctx, tx); err != nil {
			return s.writeError("Failed to create investment transaction", inv.TransactionID, err)
		}

		return nil
	})
	if err != nil {
		return Investment{}, err
	}

	s.metrics.RecordInvestment(string(model.InvestmentStatusPending))

	s.logger.Info("Investment created",
		zap.String("transactionID", inv.TransactionID),
		zap.Int64("userID", inv.UserID),
		zap.Int64("movieID", inv.MovieID),
		zap.Stringer("amount", inv.Amount))

	return newInvestment(inv), nil
}

// Confirm moves a PENDING investment to CONFIRMED and marks its transaction
// SUCCESS. The movie's raised amount is pushed afterwards on a best-effort basis.
func (s *InvestmentManager) Confirm(ctx context.Context, transactionID string) (Investment, error) {
	var inv *model.Investment

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.loadInvestment(ctx, transactionID)
		if err != nil {
			return err
		}

		if !inv.CanConfirm() {
			s.logger.Warn("Investment not in confirmable state",
				zap.String("transactionID", transactionID),
				zap.String("status", string(inv.Status)))
			return NewServiceError(constants.ErrCodeInvalidState,
				fmt.Errorf("%w: cannot confirm investment in status %s", ErrInvalidState, inv.Status))
		}

		now := time.Now()
		inv.Status = model.InvestmentStatusConfirmed
		inv.UpdatedAt = now

		if err := s.investmentRepo.Save(ctx, inv); err != nil {
			s.logger.Error("Failed to confirm investment",
				zap.String("transactionID", transactionID),
				zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}

		return s.updateTransaction(ctx, &model.Transaction{
			TransactionID: transactionID,
			Status:        model.TransactionStatusSuccess,
			CompletedAt:   &now,
		})
	})
	if err != nil {
		return Investment{}, err
	}

	s.metrics.RecordInvestment(string(model.InvestmentStatusConfirmed))
	s.metrics.RecordInvestedAmount(inv.Amount)

	s.logger.Info("Investment confirmed",
		zap.String("transactionID", transactionID),
		zap.Int64("movieID", inv.MovieID),
		zap.Stringer("amount", inv.Amount))

	if s.moviesEnabled {
		s.pushRaisedAmount(ctx, inv)
	}

	return newInvestment(inv), nil
}

// Cancel is only allowed while the investment is PENDING. The matching
// INVESTMENT transaction is cancelled, or created as cancelled when missing.
func (s *InvestmentManager) Cancel(ctx context.Context, cmd CancelInvestmentCommand) (Investment, error) {
	reason := orDefault(cmd.Reason, DefaultCancelReason)

	var inv *model.Investment

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.loadInvestment(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}

		if err := cancellable(inv); err != nil {
			s.logger.Warn("Investment not cancellable",
				zap.String("transactionID", cmd.TransactionID),
				zap.String("status", string(inv.Status)))
			return NewServiceError(constants.ErrCodeInvalidState, err)
		}

		now := time.Now()
		inv.Status = model.InvestmentStatusCancelled
		inv.UpdatedAt = now

		if err := s.investmentRepo.Save(ctx, inv); err != nil {
			s.logger.Error("Failed to cancel investment",
				zap.String("transactionID", cmd.TransactionID),
				zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}

		_, err = s.transactionRepo.GetByTransactionID(ctx, cmd.TransactionID)
		switch {
		case err == nil:
			return s.updateTransaction(ctx, &model.Transaction{
				TransactionID: cmd.TransactionID,
				Status:        model.TransactionStatusCancelled,
				FailureReason: &reason,
				CompletedAt:   &now,
			})

		case errors.Is(err, repository.ErrTransactionNotFound):
			s.logger.Warn("Investment transaction missing, recording cancellation",
				zap.String("transactionID", cmd.TransactionID))
			tx := &model.Transaction{
				TransactionID: cmd.TransactionID,
				UserID:        inv.UserID,
				MovieID:       inv.MovieID,
				ProducerID:    inv.ProducerID,
				Amount:        inv.Amount,
				Type:          model.TransactionTypeInvestment,
				Status:        model.TransactionStatusCancelled,
				FailureReason: &reason,
				Description:   fmt.Sprintf("Investment cancelled for movie: %s", movieTitle(inv)),
				CreatedAt:     now,
				CompletedAt:   &now,
			}
			if err := s.transactionRepo.Create(ctx, tx); err != nil {
				return s.writeError("Failed to record cancelled transaction", cmd.TransactionID, err)
			}
			return nil

		default:
			s.logger.Error("Failed to load investment transaction",
				zap.String("transactionID", cmd.TransactionID),
				zap.Error(err))
			return NewServiceError(ErrCodeDatabase, err)
		}
	})
	if err != nil {
		return Investment{}, err
	}

	s.metrics.RecordInvestment(string(model.InvestmentStatusCancelled))

	s.logger.Info("Investment cancelled",
		zap.String("transactionID", cmd.TransactionID),
		zap.String("reason", reason))

	return newInvestment(inv), nil
}

func cancellable(inv *model.Investment) error {
	switch inv.Status {
	case model.InvestmentStatusPending:
		return nil
	case model.InvestmentStatusConfirmed:
		return fmt.Errorf("%w: cannot cancel a confirmed investment", ErrInvalidState)
	case model.InvestmentStatusCancelled:
		return fmt.Errorf("%w: investment is already cancelled", ErrInvalidState)
	default:
		return fmt.Errorf("%w: cannot cancel investment in status %s", ErrInvalidState, inv.Status)
	}
}

func (s *InvestmentManager) GetByID(ctx context.Context, id int64) (Investment, error) {
	inv, err := s.investmentRepo.GetByID(ctx, id)
	if err != nil {
		return Investment{}, s.readError(err)
	}

	return newInvestment(inv), nil
}

func (s *InvestmentManager) GetByTransactionID(ctx context.Context, transactionID string) (Investment, error) {
	inv, err := s.loadInvestment(ctx, transactionID)
	if err != nil {
		return Investment{}, err
	}

	return newInvestment(inv), nil
}

func (s *InvestmentManager) GetTransaction(ctx context.Context, transactionID string) (Transaction, error) {
	tx, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return Transaction{}, NewServiceError(constants.ErrCodeTransactionNotFound, ErrTransactionNotFound)
		}
		return Transaction{}, NewServiceError(ErrCodeDatabase, err)
	}

	return newTransaction(tx), nil
}

func (s *InvestmentManager) ListByUser(ctx context.Context, userID int64) ([]Investment, error) {
	return s.list(s.investmentRepo.FindByUserID(ctx, userID))
}

func (s *InvestmentManager) ListByMovie(ctx context.Context, movieID int64) ([]Investment, error) {
	return s.list(s.investmentRepo.FindByMovieID(ctx, movieID))
}

func (s *InvestmentManager) ListConfirmedByMovie(ctx context.Context, movieID int64) ([]Investment, error) {
	return s.list(s.investmentRepo.FindByMovieAndStatus(ctx, movieID, model.InvestmentStatusConfirmed))
}

func (s *InvestmentManager) ListByProducer(ctx context.Context, producerID int64) ([]Investment, error) {
	return s.list(s.investmentRepo.FindByProducerID(ctx, producerID))
}

func (s *InvestmentManager) ListUnpaidReturns(ctx context.Context) ([]Investment, error) {
	return s.list(s.investmentRepo.FindUnpaidConfirmed(ctx))
}

func (s *InvestmentManager) ListUnpaidReturnsByMovie(ctx context.Context, movieID int64) ([]Investment, error) {
	return s.list(s.investmentRepo.FindUnpaidConfirmedByMovie(ctx, movieID))
}

func (s *InvestmentManager) list(investments []model.Investment, err error) ([]Investment, error) {
	if err != nil {
		s.logger.Error("Failed to list investments", zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	return newInvestments(investments), nil
}

func (s *InvestmentManager) ListTransactionsByUser(ctx context.Context, userID int64) ([]Transaction, error) {
	transactions, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Int64("userID", userID), zap.Error(err))
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	result := make([]Transaction, 0, len(transactions))
	for i := range transactions {
		result = append(result, newTransaction(&transactions[i]))
	}

	return result, nil
}

func (s *InvestmentManager) MovieIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	movieIDs, err := s.investmentRepo.FindMovieIDsByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError(ErrCodeDatabase, err)
	}

	return movieIDs, nil
}

func (s *InvestmentManager) TotalConfirmedByMovie(ctx context.Context, movieID int64) (decimal.Decimal, error) {
	return s.total(s.investmentRepo.SumConfirmedByMovie(ctx, movieID))
}

func (s *InvestmentManager) TotalConfirmedByUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.total(s.investmentRepo.SumConfirmedByUser(ctx, userID))
}

func (s *InvestmentManager) TotalConfirmedByProducer(ctx context.Context, producerID int64) (decimal.Decimal, error) {
	return s.total(s.investmentRepo.SumConfirmedByProducer(ctx, producerID))
}

func (s *InvestmentManager) total(sum decimal.Decimal, err error) (decimal.Decimal, error) {
	if err != nil {
		return decimal.Zero, NewServiceError(ErrCodeDatabase, err)
	}
	return sum, nil
}

func (s *InvestmentManager) CountInvestorsByMovie(ctx context.Context, movieID int64) (int64, error) {
	count, err := s.investmentRepo.CountConfirmedByMovie(ctx, movieID)
	if err != nil {
		return 0, NewServiceError(ErrCodeDatabase, err)
	}
	return count, nil
}

func (s *InvestmentManager) CountUniqueInvestorsByProducer(ctx context.Context, producerID int64) (int64, error) {
	count, err := s.investmentRepo.CountUniqueInvestorsByProducer(ctx, producerID)
	if err != nil {
		return 0, NewServiceError(ErrCodeDatabase, err)
	}
	return count, nil
}

func (s *InvestmentManager) MovieInvestors(ctx context.Context, producerID, movieID int64) (MovieInvestorsResponse, error) {
	investments, err := s.investmentRepo.FindByProducerAndMovie(ctx, producerID, movieID)
	if err != nil {
		return MovieInvestorsResponse{}, NewServiceError(ErrCodeDatabase, err)
	}

	resp := MovieInvestorsResponse{
		MovieID:         movieID,
		ProducerID:      producerID,
		TotalInvestment: decimal.Zero,
		Investments:     make([]Investment, 0, len(investments)),
	}

	investors := make(map[int64]struct{})
	for i := range investments {
		inv := &investments[i]
		if inv.Status != model.InvestmentStatusConfirmed && inv.Status != model.InvestmentStatusReturnPaid {
			continue
		}

		investors[inv.UserID] = struct{}{}
		resp.TotalInvestment = resp.TotalInvestment.Add(inv.Amount)
		resp.Investments = append(resp.Investments, newInvestment(inv))
	}
	resp.InvestorCount = int64(len(investors))

	return resp, nil
}

func (s *InvestmentManager) loadInvestment(ctx context.Context, transactionID string) (*model.Investment, error) {
	inv, err := s.investmentRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, repository.ErrInvestmentNotFound) {
			s.logger.Error("Failed to load investment",
				zap.String("transactionID", transactionID),
				zap.Error(err))
		}
		return nil, s.readError(err)
	}

	return inv, nil
}

func (s *InvestmentManager) readError(err error) error {
	if errors.Is(err, repository.ErrInvestmentNotFound) {
		return NewServiceError(constants.ErrCodeInvestmentNotFound, ErrInvestmentNotFound)
	}
	return NewServiceError(ErrCodeDatabase, err)
}

func (s *InvestmentManager) writeError(msg, transactionID string, err error) error {
	s.logger.Error(msg, zap.String("transactionID", transactionID), zap.Error(err))

	if errors.Is(err, repository.ErrInvestmentDuplicate) || errors.Is(err, repository.ErrTransactionExisted) {
		return NewServiceError(constants.ErrCodeDuplicateTransaction, ErrDuplicateTransaction)
	}

	return NewServiceError(ErrCodeDatabase, err)
}

func (s *InvestmentManager) updateTransaction(ctx context.Context, tx *model.Transaction) error {
	err := s.transactionRepo.Update(ctx, tx)
	if err == nil {
		return nil
	}

	s.logger.Error("Failed to update investment transaction",
		zap.String("transactionID", tx.TransactionID),
		zap.String("status", string(tx.Status)),
		zap.Error(err))

	if errors.Is(err, repository.ErrNoRowsAffected) {
		return NewServiceError(constants.ErrCodeTransactionNotFound, ErrTransactionNotFound)
	}

	return NewServiceError(ErrCodeDatabase, err)
}

// applyMovie checks the movie is open for funding and fills missing
// producer and title details from it.
func (s *InvestmentManager) applyMovie(ctx context.Context, cmd *CreateInvestmentCommand) error {
	movie, err := s.movies.GetMovie(ctx, cmd.MovieID)
	if err != nil {
		if errors.Is(err, movieclient.ErrMovieNotFound) {
			return NewServiceError(constants.ErrCodeMovieNotFound, ErrMovieNotFound)
		}

		s.logger.Error("Movie service lookup failed",
			zap.Int64("movieID", cmd.MovieID),
			zap.Error(err))
		return NewServiceError(constants.ErrCodeMovieServiceError, err)
	}

	if !movie.AcceptsInvestment() {
		s.logger.Warn("Movie not accepting investments",
			zap.Int64("movieID", cmd.MovieID),
			zap.String("status", movie.Status))
		return NewServiceError(constants.ErrCodeMovieNotFundable, ErrMovieNotFundable)
	}

	if cmd.ProducerID == 0 {
		cmd.ProducerID = movie.ProducerID
	}
	cmd.MovieTitle = orDefault(cmd.MovieTitle, movie.Title)
	cmd.ProducerName = orDefault(cmd.ProducerName, movie.ProducerName)

	return nil
}

func (s *InvestmentManager) pushRaisedAmount(ctx context.Context, inv *model.Investment) {
	movie, err := s.movies.UpdateRaisedAmount(ctx, inv.MovieID, inv.Amount)
	if err != nil {
		s.logger.Warn("Failed to update movie raised amount",
			zap.Int64("movieID", inv.MovieID),
			zap.String("transactionID", inv.TransactionID),
			zap.Error(err))
		return
	}

	if movie.IsFundingComplete() {
		s.logger.Info("Movie funding complete",
			zap.Int64("movieID", movie.ID),
			zap.Stringer("raisedAmount", movie.RaisedAmount))
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
