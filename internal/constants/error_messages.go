package constants

import "net/http"

const (
	ErrCodeInvestmentNotFound    = "INVESTMENT_NOT_FOUND"
	ErrCodeTransactionNotFound   = "TRANSACTION_NOT_FOUND"
	ErrCodeMovieNotFound         = "MOVIE_NOT_FOUND"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeDuplicateTransaction  = "DUPLICATE_TRANSACTION"
	ErrCodeNoEligibleInvestments = "NO_ELIGIBLE_INVESTMENTS"
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeMovieNotFundable      = "MOVIE_NOT_FUNDABLE"
	ErrCodeMovieServiceError     = "MOVIE_SERVICE_ERROR"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody    = "INVALID_REQUEST_BODY"
	ErrCodeInvalidPathParam      = "INVALID_PATH_PARAM"
	ErrCodeInternalError         = "INTERNAL_ERROR"
	ErrCodeNoProducerInvestments = "NO_PRODUCER_INVESTMENTS"
	ErrCodeQueueUnavailable      = "QUEUE_UNAVAILABLE"
)

const (
	ErrMsgInvestmentNotFound    = "investment not found"
	ErrMsgTransactionNotFound   = "transaction not found"
	ErrMsgMovieNotFound         = "movie not found"
	ErrMsgUserNotFound          = "user not found"
	ErrMsgInvalidState          = "operation not allowed in the current investment status"
	ErrMsgDuplicateTransaction  = "duplicate transaction"
	ErrMsgNoEligibleInvestments = "no confirmed investments found for this movie"
	ErrMsgInvalidAmount         = "amount must be greater than zero"
	ErrMsgMovieNotFundable      = "movie is not open for funding"
	ErrMsgMovieServiceError     = "movie service unavailable"
	ErrMsgValidationFailed      = "validation failed"
	ErrMsgInvalidRequestBody    = "failed to parse request body"
	ErrMsgInvalidPathParam      = "invalid path parameter"
	ErrMsgInternalError         = "Internal server error"
	ErrMsgNoProducerInvestments = "no investments found for this producer"
	ErrMsgQueueUnavailable      = "returns queue unavailable"
)

var errorMessages = map[string]string{
	ErrCodeInvestmentNotFound:    ErrMsgInvestmentNotFound,
	ErrCodeTransactionNotFound:   ErrMsgTransactionNotFound,
	ErrCodeMovieNotFound:         ErrMsgMovieNotFound,
	ErrCodeUserNotFound:          ErrMsgUserNotFound,
	ErrCodeInvalidState:          ErrMsgInvalidState,
	ErrCodeDuplicateTransaction:  ErrMsgDuplicateTransaction,
	ErrCodeNoEligibleInvestments: ErrMsgNoEligibleInvestments,
	ErrCodeInvalidAmount:         ErrMsgInvalidAmount,
	ErrCodeMovieNotFundable:      ErrMsgMovieNotFundable,
	ErrCodeMovieServiceError:     ErrMsgMovieServiceError,
	ErrCodeValidationFailed:      ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:    ErrMsgInvalidRequestBody,
	ErrCodeInvalidPathParam:      ErrMsgInvalidPathParam,
	ErrCodeInternalError:         ErrMsgInternalError,
	ErrCodeNoProducerInvestments: ErrMsgNoProducerInvestments,
	ErrCodeQueueUnavailable:      ErrMsgQueueUnavailable,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeInvalidPathParam:
		return http.StatusBadRequest
	case ErrCodeInvestmentNotFound, ErrCodeTransactionNotFound, ErrCodeMovieNotFound, ErrCodeUserNotFound,
		ErrCodeNoProducerInvestments:
		return http.StatusNotFound
	case ErrCodeInvalidState, ErrCodeDuplicateTransaction:
		return http.StatusConflict
	case ErrCodeNoEligibleInvestments, ErrCodeInvalidAmount, ErrCodeMovieNotFundable, ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeMovieServiceError:
		return http.StatusBadGateway
	case ErrCodeQueueUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
