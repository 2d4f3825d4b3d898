package constants

const (
	QueueReturns = "funding.returns"
	QueuePayout  = "funding.payout"
)
