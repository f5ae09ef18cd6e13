package apperror

import (
	"errors"
	"net/http"
)

// HTTPStatus maps any error to a status code. Errors that are not *Error are internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	return GetHTTPStatus(e.Kind)
}

func GetHTTPStatus(kind Kind) int {

	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict, AlreadyExists:
		return http.StatusConflict
	case Unauthorised:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case RequestTimeout:
		return http.StatusGatewayTimeout
	case Dependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
