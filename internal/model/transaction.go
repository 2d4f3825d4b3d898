package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeInvestment   TransactionType = "INVESTMENT"
	TransactionTypePayout       TransactionType = "PAYOUT"
	TransactionTypeRefund       TransactionType = "REFUND"
	TransactionTypeWalletCredit TransactionType = "WALLET_CREDIT"
	TransactionTypeWalletDebit  TransactionType = "WALLET_DEBIT"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusSuccess   TransactionStatus = "SUCCESS"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

type Transaction struct {
	ID                     int64             `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	TransactionID          string            `gorm:"column:transaction_id;type:varchar(64);uniqueIndex;not null;<-:create"`
	UserID                 int64             `gorm:"column:user_id;not null;index:idx_transaction_user"`
	MovieID                int64             `gorm:"column:movie_id"`
	ProducerID             int64             `gorm:"column:producer_id"`
	Amount                 decimal.Decimal   `gorm:"column:amount;type:decimal(19,2);not null"`
	Type                   TransactionType   `gorm:"column:type;type:varchar(20);not null;index:idx_transaction_outbox"`
	Status                 TransactionStatus `gorm:"column:status;type:varchar(20);not null;index:idx_transaction_outbox"`
	PaymentMethod          *string           `gorm:"column:payment_method"`
	FailureReason          *string           `gorm:"column:failure_reason;type:text"`
	Description            string            `gorm:"column:description"`
	PaymentGatewayResponse *string           `gorm:"column:payment_gateway_response;type:text"`
	Published              bool              `gorm:"column:published;default:false;not null;index:idx_transaction_outbox"`
	PublishedAt            *time.Time        `gorm:"column:published_at"`
	CreatedAt              time.Time         `gorm:"column:created_at"`
	CompletedAt            *time.Time        `gorm:"column:completed_at"`
}
