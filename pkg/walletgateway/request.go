package walletgateway

import "github.com/shopspring/decimal"

type CreditRequest struct {
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	Description    string          `json:"description,omitempty"`
}
