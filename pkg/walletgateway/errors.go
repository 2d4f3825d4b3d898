package walletgateway

import (
	"errors"
	"net/http"
)

const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServerError      = "SERVER_ERROR"
)

var (
	ErrValidationFailed = errors.New(ErrCodeValidationFailed)
	ErrUserNotFound     = errors.New(ErrCodeUserNotFound)
	ErrDuplicateRequest = errors.New(ErrCodeDuplicateRequest)
	ErrTimeout          = errors.New(ErrCodeTimeout)
	ErrServerError      = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	http.StatusNotFound:            ErrUserNotFound,
	http.StatusUnprocessableEntity: ErrValidationFailed,
	http.StatusConflict:            ErrDuplicateRequest,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
