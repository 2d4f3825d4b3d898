package constants

const MessageErrorFormat = "The '%s' field is invalid"

const (
	MsgInvestmentCreated   = "Investment created successfully"
	MsgInvestmentConfirmed = "Investment confirmed successfully"
	MsgInvestmentCancelled = "Investment cancelled successfully"
	MsgReturnsProcessed    = "Returns processed successfully"
	MsgReturnsQueued       = "Returns processing queued"
)
