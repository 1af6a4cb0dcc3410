package httputil

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when a remote call answers with a non-success status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Body)
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// CheckStatus returns a *StatusError for non-2xx responses. body is
// truncated so error messages stay readable.
func CheckStatus(op string, resp *http.Response, body []byte) error {
	if IsSuccess(resp.StatusCode) {
		return nil
	}
	const maxBody = 256
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &StatusError{Op: op, Code: resp.StatusCode, Body: string(body)}
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
