package service

import (
	"time"

	"github.com/Behyna/cinefund/internal/model"
	"github.com/shopspring/decimal"
)

// Payout carries the computed Amount at full precision and StoredAmount as
// written to the investment and transaction rows.
type Payout struct {
	InvestmentID  int64           `json:"investment_id"`
	UserID        int64           `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Invested      decimal.Decimal `json:"invested"`
	Ratio         decimal.Decimal `json:"ratio"`
	Amount        decimal.Decimal `json:"amount"`
	StoredAmount  decimal.Decimal `json:"stored_amount"`
}

type ProcessReturnsResponse struct {
	MovieID              int64           `json:"movie_id"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalInvestment      decimal.Decimal `json:"total_investment"`
	InvestmentsProcessed int             `json:"investments_processed"`
	TotalDistributed     decimal.Decimal `json:"total_distributed"`
	TotalStored          decimal.Decimal `json:"total_stored"`
	Payouts              []Payout        `json:"payouts"`
	ProcessedAt          time.Time       `json:"processed_at"`
}

type ProducerReturnsResponse struct {
	ProducerID int64  `json:"producer_id"`
	Notes      string `json:"notes,omitempty"`
	ProcessReturnsResponse
}

type BulkReturnsResponse struct {
	ProducerID                int64                    `json:"producer_id"`
	Movies                    []ProcessReturnsResponse `json:"movies"`
	TotalMovies               int                      `json:"total_movies"`
	TotalRevenueProcessed     decimal.Decimal          `json:"total_revenue_processed"`
	TotalInvestmentsProcessed int                      `json:"total_investments_processed"`
	ProcessedAt               time.Time                `json:"processed_at"`
}

type CollectionReport struct {
	MovieID              int64           `json:"movie_id"`
	ProducerID           int64           `json:"producer_id"`
	CollectionAmount     decimal.Decimal `json:"collection_amount"`
	CollectionDate       time.Time       `json:"collection_date"`
	Notes                string          `json:"notes,omitempty"`
	TotalInvestment      decimal.Decimal `json:"total_investment"`
	Profit               decimal.Decimal `json:"profit"`
	ReturnsDistributed   bool            `json:"returns_distributed"`
	InvestmentsProcessed int             `json:"investments_processed"`
	Payouts              []Payout        `json:"payouts,omitempty"`
	Message              string          `json:"message"`
	ProcessedAt          time.Time       `json:"processed_at"`
}

type MovieReturnSummary struct {
	MovieID          int64           `json:"movie_id"`
	MovieTitle       string          `json:"movie_title"`
	TotalInvestments int             `json:"total_investments"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaidReturns      int             `json:"paid_returns"`
	TotalReturnsPaid decimal.Decimal `json:"total_returns_paid"`
}

type ProducerReturnSummary struct {
	ProducerID            int64                `json:"producer_id"`
	TotalInvestments      int                  `json:"total_investments"`
	TotalInvestmentAmount decimal.Decimal      `json:"total_investment_amount"`
	PaidReturns           int                  `json:"paid_returns"`
	UnpaidReturns         int                  `json:"unpaid_returns"`
	TotalReturnsPaid      decimal.Decimal      `json:"total_returns_paid"`
	Movies                []MovieReturnSummary `json:"movies"`
}

type MovieInvestorsResponse struct {
	MovieID         int64           `json:"movie_id"`
	ProducerID      int64           `json:"producer_id"`
	InvestorCount   int64           `json:"investor_count"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	Investments     []Investment    `json:"investments"`
}

type Investment struct {
	ID                       int64            `json:"id"`
	UserID                   int64            `json:"user_id"`
	MovieID                  int64            `json:"movie_id"`
	ProducerID               int64            `json:"producer_id"`
	Amount                   decimal.Decimal  `json:"amount"`
	Currency                 string           `json:"currency"`
	TransactionID            string           `json:"transaction_id"`
	Status                   string           `json:"status"`
	UserName                 string           `json:"user_name"`
	MovieTitle               string           `json:"movie_title"`
	ProducerName             string           `json:"producer_name"`
	ExpectedReturnPercentage *decimal.Decimal `json:"expected_return_percentage,omitempty"`
	ExpectedReturn           decimal.Decimal  `json:"expected_return"`
	ActualReturnAmount       decimal.Decimal  `json:"actual_return_amount"`
	ReturnPaid               bool             `json:"return_paid"`
	ReturnPaymentDate        *time.Time       `json:"return_payment_date,omitempty"`
	InvestmentDate           time.Time        `json:"investment_date"`
}

type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	MovieID       int64           `json:"movie_id"`
	ProducerID    int64           `json:"producer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func newInvestment(inv *model.Investment) Investment {
	return Investment{
		ID:                       inv.ID,
		UserID:                   inv.UserID,
		MovieID:                  inv.MovieID,
		ProducerID:               inv.ProducerID,
		Amount:                   inv.Amount,
		Currency:                 inv.Currency,
		TransactionID:            inv.TransactionID,
		Status:                   string(inv.Status),
		UserName:                 inv.UserName,
		MovieTitle:               inv.MovieTitle,
		ProducerName:             inv.ProducerName,
		ExpectedReturnPercentage: inv.ExpectedReturnPercentage,
		ExpectedReturn:           inv.ExpectedReturn(),
		ActualReturnAmount:       inv.ActualReturnAmount,
		ReturnPaid:               inv.ReturnPaid,
		ReturnPaymentDate:        inv.ReturnPaymentDate,
		InvestmentDate:           inv.InvestmentDate,
	}
}

func newInvestments(investments []model.Investment) []Investment {
	result := make([]Investment, 0, len(investments))
	for i := range investments {
		result = append(result, newInvestment(&investments[i]))
	}
	return result
}

func newTransaction(tx *model.Transaction) Transaction {
	return Transaction{
		TransactionID: tx.TransactionID,
		UserID:        tx.UserID,
		MovieID:       tx.MovieID,
		ProducerID:    tx.ProducerID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt,
		CompletedAt:   tx.CompletedAt,
	}
}
