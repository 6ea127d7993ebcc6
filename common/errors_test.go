package common_test

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/guarzo/nequiapi/common"
)

func TestErrorKinds_Is(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target error
	}{
		{"configuration", &common.ConfigurationError{Field: "clientID", Reason: "is required"}, common.ErrConfiguration},
		{"authentication", &common.AuthenticationError{StatusCode: 401}, common.ErrAuthentication},
		{"transport", &common.TransportError{Op: "POST", URL: "http://x", Err: errors.New("refused")}, common.ErrTransport},
		{"malformed", &common.MalformedResponseError{Reason: "missing access_token"}, common.ErrMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if !errors.Is(wrapped, tc.target) {
				t.Errorf("expected errors.Is(%v, %v)", wrapped, tc.target)
			}
			if errors.Is(wrapped, common.ErrConfiguration) && tc.target != common.ErrConfiguration {
				t.Errorf("%s should not match ErrConfiguration", tc.name)
			}
		})
	}
}

func TestAuthenticationError_Status(t *testing.T) {
	err := fmt.Errorf("token: %w", &common.AuthenticationError{StatusCode: 403})

	var authErr *common.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatal("expected AuthenticationError")
	}
	if authErr.StatusCode != 403 {
		t.Errorf("expected 403, got %d", authErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in message, got %s", err.Error())
	}
}

func TestTransportError_UnwrapsURLError(t *testing.T) {
	inner := &url.Error{Op: "Post", URL: "http://127.0.0.1:1", Err: errors.New("connection refused")}
	err := &common.TransportError{Op: "POST", URL: inner.URL, Err: inner}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatal("expected *url.Error to be reachable")
	}
	if urlErr != inner {
		t.Error("expected the original *url.Error")
	}
}
