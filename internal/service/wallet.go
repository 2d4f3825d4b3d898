package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Behyna/cinefund/internal/config"
	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/metrics"
	"github.com/Behyna/cinefund/pkg/walletgateway"
	"go.uber.org/zap"
)

// WalletService credits investor wallets. It returns the wallet-side
// reference of the credit.
type WalletService interface {
	Credit(ctx context.Context, cmd CreditPayoutCommand) (string, error)
}

type Wallet struct {
	gateway  walletgateway.WalletGateway
	maxRetry int
	backoff  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewWalletService(gateway walletgateway.WalletGateway, config *config.Config, metrics *metrics.Metrics,
	logger *zap.Logger) WalletService {
	maxRetry := config.Wallet.MaxRetries
	if maxRetry < 1 {
		maxRetry = 1
	}

	return &Wallet{gateway: gateway, maxRetry: maxRetry, backoff: config.Wallet.RetryBackoff, metrics: metrics,
		logger: logger}
}

func (w *Wallet) Credit(ctx context.Context, cmd CreditPayoutCommand) (string, error) {
	request := walletgateway.CreditRequest{
		UserID:         cmd.UserID,
		Amount:         cmd.Amount,
		IdempotencyKey: cmd.IdempotencyKey,
		Description:    cmd.Description,
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxRetry; attempt++ {
		resp, err := w.gateway.Credit(ctx, request)
		if err == nil {
			reference := strconv.FormatInt(resp.Result.TransactionID, 10)
			w.metrics.RecordWalletCredit("success")

			w.logger.Info("Wallet credited successfully",
				zap.String("userID", cmd.UserID),
				zap.Int("attempt", attempt),
				zap.String("idempotencyKey", cmd.IdempotencyKey),
				zap.String("walletReference", reference))

			return reference, nil
		}

		if errors.Is(err, walletgateway.ErrDuplicateRequest) {
			w.metrics.RecordWalletCredit("duplicate")
			w.logger.Info("Wallet credit already applied",
				zap.String("userID", cmd.UserID),
				zap.String("idempotencyKey", cmd.IdempotencyKey))

			return cmd.IdempotencyKey, nil
		}

		w.logger.Warn("Wallet credit attempt failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("userID", cmd.UserID))

		if errors.Is(err, walletgateway.ErrUserNotFound) {
			w.metrics.RecordWalletCredit("user_not_found")
			w.logger.Error("Non-retryable error encountered",
				zap.Error(err),
				zap.String("userID", cmd.UserID))

			return "", NewServiceError(constants.ErrCodeUserNotFound, err)
		}

		if errors.Is(err, walletgateway.ErrValidationFailed) {
			w.metrics.RecordWalletCredit("rejected")
			w.logger.Error("Wallet rejected credit request",
				zap.Error(err),
				zap.String("userID", cmd.UserID))

			return "", NewServiceError(constants.ErrCodeValidationFailed, err)
		}

		lastErr = err

		if attempt < w.maxRetry {
			if err := w.wait(ctx); err != nil {
				lastErr = err
				break
			}
		}
	}

	w.metrics.RecordWalletCredit("failed")

	if errors.Is(lastErr, walletgateway.ErrTimeout) {
		w.logger.Error("Wallet credit attempts timed out",
			zap.Error(lastErr),
			zap.Int("maxRetries", w.maxRetry),
			zap.String("userID", cmd.UserID))

		return "", NewServiceError(ErrCodeCreditTimeout, lastErr)
	}

	w.logger.Error("Wallet service unavailable after all retries",
		zap.Error(lastErr),
		zap.Int("maxRetries", w.maxRetry),
		zap.String("userID", cmd.UserID))

	return "", NewServiceError(ErrCodeWalletServiceError, lastErr)
}

func (w *Wallet) wait(ctx context.Context) error {
	if w.backoff <= 0 {
		return nil
	}

	timer := time.NewTimer(w.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
