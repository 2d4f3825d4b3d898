package movieclient

import "github.com/shopspring/decimal"

const (
	StatusFunding        = "FUNDING"
	StatusProduction     = "PRODUCTION"
	StatusPostProduction = "POST_PRODUCTION"
	StatusReleased       = "RELEASED"
	StatusCancelled      = "CANCELLED"
)

type Movie struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	ProducerID   int64           `json:"producerId"`
	ProducerName string          `json:"producerName"`
	Budget       decimal.Decimal `json:"budget"`
	RaisedAmount decimal.Decimal `json:"raisedAmount"`
	Status       string          `json:"status"`
}

func (m Movie) IsFundingComplete() bool {
	return m.RaisedAmount.GreaterThanOrEqual(m.Budget)
}

// AcceptsInvestment reports whether the movie is still raising money.
func (m Movie) AcceptsInvestment() bool {
	return m.Status == StatusFunding && !m.IsFundingComplete()
}
