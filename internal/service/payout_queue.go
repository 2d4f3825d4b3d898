package service

import (
	"context"
	"time"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/Behyna/cinefund/internal/repository"
	"go.uber.org/zap"
)

type PayoutQueueService interface {
	FindPayoutsToQueue(ctx context.Context, limit int) ([]PayoutCommand, error)
	MarkPayoutAsQueued(ctx context.Context, transactionID string) error
}

type payoutQueue struct {
	transactions repository.TransactionRepository
	logger       *zap.Logger
}

func NewPayoutQueueService(transactionRepo repository.TransactionRepository, logger *zap.Logger) PayoutQueueService {
	return &payoutQueue{transactions: transactionRepo, logger: logger}
}

func (p *payoutQueue) FindPayoutsToQueue(ctx context.Context, limit int) ([]PayoutCommand, error) {
	p.logger.Debug("Finding payouts to publish", zap.Int("batchSize", limit))

	transactions, err := p.transactions.FindUnpublishedPayouts(ctx, limit)
	if err != nil {
		p.logger.Error("Failed to find unpublished payouts", zap.Error(err))
		return nil, err
	}

	if len(transactions) == 0 {
		p.logger.Debug("No payouts found to publish")
		return nil, nil
	}

	commands := make([]PayoutCommand, 0, len(transactions))
	for _, tx := range transactions {
		commands = append(commands, PayoutCommand{
			TransactionID: tx.TransactionID,
			UserID:        tx.UserID,
			MovieID:       tx.MovieID,
			Amount:        tx.Amount,
		})
	}

	return commands, nil
}

func (p *payoutQueue) MarkPayoutAsQueued(ctx context.Context, transactionID string) error {
	publishedAt := time.Now()
	tx := model.Transaction{
		TransactionID: transactionID,
		Published:     true,
		PublishedAt:   &publishedAt,
	}

	if err := p.transactions.Update(ctx, &tx); err != nil {
		p.logger.Error("Failed to mark payout as published",
			zap.Error(err), zap.String("transactionID", transactionID))
		return err
	}

	p.logger.Debug("Successfully marked payout as published", zap.String("transactionID", transactionID))

	return nil
}
