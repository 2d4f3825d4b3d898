package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Behyna/cinefund/internal/constants"
	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/internal/repository"
	"github.com/Behyna/cinefund/pkg/mq"
	"go.uber.org/zap"
)

// PayoutService moves a recorded return payout into the investor's wallet.
// Returned errors wrapped with mq.Temporary are requeued by the consumer.
type PayoutService interface {
	Credit(ctx context.Context, cmd PayoutCommand) error
}

type PayoutCredit struct {
	transactionRepo repository.TransactionRepository
	wallet          WalletService
	logger          *zap.Logger
}

func NewPayoutService(transactionRepo repository.TransactionRepository, wallet WalletService,
	logger *zap.Logger) PayoutService {
	return &PayoutCredit{transactionRepo: transactionRepo, wallet: wallet, logger: logger}
}

func PayoutIdempotencyKey(transactionID string) string {
	return fmt.Sprintf("payout-%s", transactionID)
}

func (p *PayoutCredit) Credit(ctx context.Context, cmd PayoutCommand) error {
	p.logger.Info("Processing payout credit",
		zap.String("transactionID", cmd.TransactionID),
		zap.Int64("userID", cmd.UserID),
		zap.Int64("movieID", cmd.MovieID),
		zap.Stringer("amount", cmd.Amount))

	tx, err := p.getCreditableTransaction(ctx, cmd.TransactionID)
	if err != nil {
		p.logger.Debug("Payout not processable",
			zap.String("transactionID", cmd.TransactionID),
			zap.Error(err))

		if errors.Is(err, ErrDatabase) {
			return mq.Temporary(err)
		}

		return nil
	}

	if !tx.Amount.Equal(cmd.Amount) {
		p.logger.Warn("Payout message amount differs from ledger, crediting ledger amount",
			zap.String("transactionID", cmd.TransactionID),
			zap.Stringer("messageAmount", cmd.Amount),
			zap.Stringer("ledgerAmount", tx.Amount))
	}

	reference, err := p.wallet.Credit(ctx, CreditPayoutCommand{
		UserID:         strconv.FormatInt(tx.UserID, 10),
		Amount:         tx.Amount,
		IdempotencyKey: PayoutIdempotencyKey(tx.TransactionID),
		Description:    tx.Description,
	})
	if err == nil {
		update := model.Transaction{
			TransactionID:          tx.TransactionID,
			PaymentGatewayResponse: &reference,
		}

		if err := p.transactionRepo.Update(ctx, &update); err != nil {
			p.logger.Error("Wallet credited but database update failed",
				zap.String("transactionID", tx.TransactionID),
				zap.Error(err))
			return mq.Temporary(err)
		}

		p.logger.Info("Payout credited successfully",
			zap.String("transactionID", tx.TransactionID),
			zap.String("walletReference", reference))
		return nil
	}

	p.logger.Warn("Wallet credit failed",
		zap.String("transactionID", tx.TransactionID),
		zap.Error(err))

	var serviceErr Error
	if errors.As(err, &serviceErr) && isPermanentCreditFailure(serviceErr.Code) {
		p.logger.Info("Permanent payout failure",
			zap.String("transactionID", tx.TransactionID),
			zap.String("reason", serviceErr.Code))

		reason := serviceErr.Code
		update := model.Transaction{
			TransactionID: tx.TransactionID,
			FailureReason: &reason,
		}
		if err := p.transactionRepo.Update(ctx, &update); err != nil {
			p.logger.Error("Failed to record payout failure reason",
				zap.String("transactionID", tx.TransactionID),
				zap.Error(err))
		}

		return nil
	}

	p.logger.Debug("Temporary payout failure, will retry",
		zap.String("transactionID", tx.TransactionID),
		zap.String("reason", serviceErr.Code))

	return mq.Temporary(err)
}

func isPermanentCreditFailure(code string) bool {
	return code == constants.ErrCodeUserNotFound || code == constants.ErrCodeValidationFailed
}

func (p *PayoutCredit) getCreditableTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	tx, err := p.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}

		return nil, ErrDatabase
	}

	if tx.Type != model.TransactionTypePayout {
		p.logger.Error("Transaction is not a payout",
			zap.String("transactionID", transactionID),
			zap.String("type", string(tx.Type)))
		return nil, ErrUnknownTransactionType
	}

	if tx.Status != model.TransactionStatusSuccess {
		p.logger.Warn("Payout not in creditable state",
			zap.String("transactionID", transactionID),
			zap.String("status", string(tx.Status)))
		return nil, ErrPayoutInvalidState
	}

	if tx.PaymentGatewayResponse != nil && *tx.PaymentGatewayResponse != "" {
		p.logger.Info("Payout already credited", zap.String("transactionID", transactionID))
		return nil, ErrPayoutAlreadyCredited
	}

	return tx, nil
}
