package fenixv24

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the vendor reports success but the
	// payload contains no zones. Callers may treat this as "no data yet"
	// and poll again later.
	ErrEmptyResponse = errors.New("no zones in response")

	// ErrUnknownDevice is returned when a command references a device id
	// that does not appear in the latest zone snapshot.
	ErrUnknownDevice = errors.New("unknown device")
)

// AuthError indicates that the vendor rejected our credentials or returned
// a token response we could not use. It is fatal: retrying with the same
// credentials will not help.
type AuthError struct {
	Status int // HTTP status, 0 when the response was malformed
	Msg    string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Msg)
	}
	return "authentication failed: " + e.Msg
}

// APIError indicates that the vendor accepted the request at the transport
// level but rejected it semantically. Code and Key come from the response
// envelope verbatim.
type APIError struct {
	Code string
	Key  string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%s): %s", e.Code, e.Key, strings.TrimSpace(e.Msg))
}

// NetworkError indicates a transport-level failure: timeout, refused
// connection, or a body that was not the expected JSON envelope.
// These are transient; callers may retry with their own backoff.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a caller-supplied parameter was rejected before
// any network traffic was issued.
type ValidationError struct {
	Param string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Msg)
}
