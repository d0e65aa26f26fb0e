package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indica que la operación requiere sesión y no hay token.
	// Se retorna ANTES de tocar la red.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// SubmissionError representa una respuesta no-2xx del API remoto.
// Status 0 significa fallo de transporte (sin respuesta HTTP).
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		if e.Message != "" {
			return fmt.Sprintf("submission failed: %s", e.Message)
		}
		return "submission failed: network error"
	}
	if e.Message == "" {
		return fmt.Sprintf("submission failed: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("submission failed: status=%d message=%s", e.StatusCode, e.Message)
}

// AsSubmissionError ayuda a los callers a recuperar el status sin castear a mano.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
