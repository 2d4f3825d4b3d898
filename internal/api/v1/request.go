package v1

import "github.com/shopspring/decimal"

const bulkMovieKeyPrefix = "movie_"

type InvestRequest struct {
	UserID                   int64            `json:"user_id" validate:"required,gt=0"`
	MovieID                  int64            `json:"movie_id" validate:"required,gt=0"`
	ProducerID               int64            `json:"producer_id" validate:"gte=0"`
	Amount                   decimal.Decimal  `json:"amount" validate:"decimal_gt0,money"`
	Currency                 string           `json:"currency" validate:"omitempty,len=3,alpha"`
	PaymentMethod            string           `json:"payment_method" validate:"omitempty,max=50"`
	UserName                 string           `json:"user_name" validate:"omitempty,max=255"`
	MovieTitle               string           `json:"movie_title" validate:"omitempty,max=255"`
	ProducerName             string           `json:"producer_name" validate:"omitempty,max=255"`
	ExpectedReturnPercentage *decimal.Decimal `json:"expected_return_percentage" validate:"omitempty,money"`
}

type CollectionRequest struct {
	CollectionAmount decimal.Decimal `json:"collection_amount" validate:"decimal_gt0,money"`
	CollectionDate   string          `json:"collection_date" validate:"omitempty,datetime=2006-01-02"`
	Notes            string          `json:"notes" validate:"omitempty,max=1000"`
	// AutoDistributeReturns defaults to true when omitted.
	AutoDistributeReturns *bool `json:"auto_distribute_returns"`
}

type ProducerReturnsRequest struct {
	TotalRevenue decimal.Decimal `json:"total_revenue" validate:"decimal_gt0"`
	Notes        string          `json:"notes" validate:"omitempty,max=1000"`
}

// BulkReturnsRequest maps "movie_<id>" keys to that movie's revenue.
type BulkReturnsRequest struct {
	Revenues map[string]decimal.Decimal `json:"revenues" validate:"required,min=1,dive,keys,startswith=movie_,endkeys,decimal_gt0"`
}
