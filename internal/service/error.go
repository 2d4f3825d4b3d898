package service

import "errors"

const (
	ErrCodeCreditTimeout      = "CREDIT_TIMEOUT"
	ErrCodeWalletServiceError = "WALLET_SERVICE_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
)

var (
	ErrInvestmentNotFound     = errors.New("INVESTMENT_NOT_FOUND")
	ErrTransactionNotFound    = errors.New("TRANSACTION_NOT_FOUND")
	ErrMovieNotFound          = errors.New("MOVIE_NOT_FOUND")
	ErrInvalidState           = errors.New("INVALID_STATE")
	ErrNoEligibleInvestments  = errors.New("NO_ELIGIBLE_INVESTMENTS")
	ErrNoProducerInvestments  = errors.New("NO_PRODUCER_INVESTMENTS")
	ErrInvalidAmount          = errors.New("INVALID_AMOUNT")
	ErrMovieNotFundable       = errors.New("MOVIE_NOT_FUNDABLE")
	ErrDuplicateTransaction   = errors.New("DUPLICATE_TRANSACTION")
	ErrPayoutInvalidState     = errors.New("PAYOUT_INVALID_STATE")
	ErrPayoutAlreadyCredited  = errors.New("PAYOUT_ALREADY_CREDITED")
	ErrUnknownTransactionType = errors.New("UNKNOWN_TRANSACTION_TYPE")
	ErrDatabase               = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
