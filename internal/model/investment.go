package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusPending    InvestmentStatus = "PENDING"
	InvestmentStatusConfirmed  InvestmentStatus = "CONFIRMED"
	InvestmentStatusCancelled  InvestmentStatus = "CANCELLED"
	InvestmentStatusRefunded   InvestmentStatus = "REFUNDED"
	InvestmentStatusReturnPaid InvestmentStatus = "RETURN_PAID"
)

// HoldingStatuses are the statuses under which a user still holds a stake in a
// movie. A paid return does not end the stake.
var HoldingStatuses = []InvestmentStatus{InvestmentStatusConfirmed, InvestmentStatusReturnPaid}

func (s InvestmentStatus) IsHolding() bool {
	for _, holding := range HoldingStatuses {
		if s == holding {
			return true
		}
	}
	return false
}

const DefaultCurrency = "INR"

var DefaultExpectedReturnPercentage = decimal.NewFromInt(15)

type Investment struct {
	ID                       int64            `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	UserID                   int64            `gorm:"column:user_id;not null;index:idx_investment_user"`
	MovieID                  int64            `gorm:"column:movie_id;not null;index:idx_investment_movie_status"`
	ProducerID               int64            `gorm:"column:producer_id;not null;index:idx_investment_producer"`
	Amount                   decimal.Decimal  `gorm:"column:amount;type:decimal(19,2);not null"`
	Currency                 string           `gorm:"column:currency;type:varchar(3);default:'INR';not null"`
	TransactionID            string           `gorm:"column:transaction_id;type:varchar(64);uniqueIndex;not null;<-:create"`
	Status                   InvestmentStatus `gorm:"column:status;type:varchar(20);not null;index:idx_investment_movie_status"`
	UserName                 string           `gorm:"column:user_name"`
	MovieTitle               string           `gorm:"column:movie_title"`
	ProducerName             string           `gorm:"column:producer_name"`
	ExpectedReturnPercentage *decimal.Decimal `gorm:"column:expected_return_percentage;type:decimal(5,2)"`
	ActualReturnAmount       decimal.Decimal  `gorm:"column:actual_return_amount;type:decimal(19,2);default:0;not null"`
	ReturnPaid               bool             `gorm:"column:return_paid;default:false;not null"`
	ReturnPaymentDate        *time.Time       `gorm:"column:return_payment_date"`
	InvestmentDate           time.Time        `gorm:"column:investment_date;not null"`
	CreatedAt                time.Time        `gorm:"column:created_at"`
	UpdatedAt                time.Time        `gorm:"column:updated_at"`
}

func (i *Investment) CanConfirm() bool {
	return i.Status == InvestmentStatusPending
}

func (i *Investment) CanCancel() bool {
	return i.Status == InvestmentStatusPending
}

// ExpectedReturn is the principal plus the expected percentage on top of it.
func (i *Investment) ExpectedReturn() decimal.Decimal {
	if i.ExpectedReturnPercentage == nil {
		return i.Amount
	}

	gain := i.Amount.Mul(*i.ExpectedReturnPercentage).Div(decimal.NewFromInt(100))
	return i.Amount.Add(gain)
}

// MarkReturnPaid moves a confirmed investment to RETURN_PAID with the given payout.
func (i *Investment) MarkReturnPaid(amount decimal.Decimal, paidAt time.Time) {
	i.ActualReturnAmount = amount
	i.ReturnPaid = true
	i.ReturnPaymentDate = &paidAt
	i.Status = InvestmentStatusReturnPaid
	i.UpdatedAt = paidAt
}
