package common

import "context"

// TokenSource yields a bearer value ready for the Authorization header.
// The auth module's TokenProvider is the production implementation; tests
// can substitute a fixed value.
type TokenSource interface {
	// GetValidToken returns a currently valid token, authenticating first if needed.
	// With includeType it returns "<tokenType> <token>", otherwise the bare token.
	GetValidToken(ctx context.Context, includeType bool) (string, error)
}
