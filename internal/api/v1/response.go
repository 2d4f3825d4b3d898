package v1

import (
	"github.com/Behyna/cinefund/internal/service"
	"github.com/shopspring/decimal"
)

type InvestmentsResponse struct {
	Investments []service.Investment `json:"investments"`
	Count       int                  `json:"count"`
}

type UserInvestmentsResponse struct {
	UserID      int64                `json:"user_id"`
	Investments []service.Investment `json:"investments"`
	Count       int                  `json:"count"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
}

type UserMoviesResponse struct {
	UserID   int64   `json:"user_id"`
	MovieIDs []int64 `json:"movie_ids"`
	Count    int     `json:"count"`
}

type MovieInvestmentsResponse struct {
	MovieID       int64                `json:"movie_id"`
	Investments   []service.Investment `json:"investments"`
	Count         int                  `json:"count"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	InvestorCount int64                `json:"investor_count"`
}

type ProducerInvestorsResponse struct {
	ProducerID            int64           `json:"producer_id"`
	TotalInvestmentAmount decimal.Decimal `json:"total_investment_amount"`
	UniqueInvestorCount   int64           `json:"unique_investor_count"`
}

type QueuedReturnsResponse struct {
	MovieID      int64           `json:"movie_id"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Queue        string          `json:"queue"`
}
