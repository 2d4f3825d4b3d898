package walletgateway

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditResponse is the wallet service envelope for an applied credit.
type CreditResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message,omitempty"`
	TrackID string       `json:"x_track_id,omitempty"`
	Result  CreditResult `json:"result"`
}

type CreditResult struct {
	TransactionID int64           `json:"transaction_id"`
	Balance       decimal.Decimal `json:"user_balance"`
	CreditedAt    time.Time       `json:"transaction_time"`
}
