package common

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrAuthentication    = errors.New("authentication error")
	ErrTransport         = errors.New("transport error")
	ErrMalformedResponse = errors.New("malformed response")
)

// ConfigurationError reports a required credential or endpoint that is missing,
// or a provider that was configured twice.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// AuthenticationError is returned when the token endpoint answers with anything but 200.
type AuthenticationError struct {
	StatusCode int
	Body       []byte
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("error %d: unable to authenticate with the token endpoint", e.StatusCode)
}

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// TransportError wraps a network-level failure. The transport's own error
// (usually a *url.Error) stays reachable through errors.As.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// MalformedResponseError is a successful response whose body cannot be used:
// invalid JSON or a missing required field.
type MalformedResponseError struct {
	Reason string
	Body   []byte
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
