package movieclient

import "errors"

var (
	ErrMovieNotFound = errors.New("MOVIE_NOT_FOUND")
	ErrBadRequest    = errors.New("BAD_REQUEST")
	ErrTimeout       = errors.New("TIMEOUT")
	ErrServerError   = errors.New("SERVER_ERROR")
)

func mapStatusToError(statusCode int) error {
	switch statusCode {
	case 404:
		return ErrMovieNotFound
	case 400, 422:
		return ErrBadRequest
	default:
		return ErrServerError
	}
}
