package server

import "net/http"

// actionError pairs a user-facing message with the HTTP status it maps
// to. Every action failure reaches the client as {ok:false, error:...}.
type actionError struct {
	status  int
	message string
}

func (e *actionError) Error() string {
	return e.message
}

func errValidation(message string) error {
	return &actionError{status: http.StatusBadRequest, message: message}
}

func errUnauthorized(message string) error {
	return &actionError{status: http.StatusUnauthorized, message: message}
}

func errForbidden(message string) error {
	return &actionError{status: http.StatusForbidden, message: message}
}

func errNotFound(message string) error {
	return &actionError{status: http.StatusNotFound, message: message}
}

func errConflict(message string) error {
	return &actionError{status: http.StatusConflict, message: message}
}

func errCatalog(message string) error {
	return &actionError{status: http.StatusUnprocessableEntity, message: message}
}
