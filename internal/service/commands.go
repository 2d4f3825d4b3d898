package service

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateInvestmentCommand struct {
	UserID                   int64
	MovieID                  int64
	ProducerID               int64
	Amount                   decimal.Decimal
	Currency                 string
	PaymentMethod            string
	UserName                 string
	MovieTitle               string
	ProducerName             string
	ExpectedReturnPercentage *decimal.Decimal
}

type CancelInvestmentCommand struct {
	TransactionID string
	Reason        string
}

// ProcessReturnsCommand is also the body of funding.returns messages.
type ProcessReturnsCommand struct {
	MovieID      int64           `json:"movie_id"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type ProducerReturnsCommand struct {
	ProducerID   int64
	MovieID      int64
	TotalRevenue decimal.Decimal
	Notes        string
}

type BulkReturnsCommand struct {
	ProducerID int64
	Revenues   map[int64]decimal.Decimal
}

type UpdateCollectionCommand struct {
	ProducerID       int64
	MovieID          int64
	CollectionAmount decimal.Decimal
	CollectionDate   time.Time
	Notes            string
	AutoDistribute   bool
}

type CreditPayoutCommand struct {
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	Description    string          `json:"description"`
}

// PayoutCommand is the body of funding.payout messages.
type PayoutCommand struct {
	TransactionID string          `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	MovieID       int64           `json:"movie_id"`
	Amount        decimal.Decimal `json:"amount"`
}
