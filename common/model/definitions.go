package model

import (
	"encoding/json"
	"math"
	"time"
)

// JSONUnmarshal is the single place wire payloads are decoded.
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// ----------------------------------------------------------------------
// Token endpoint
// ----------------------------------------------------------------------

// TokenResponse is the body of a 200 from the client-credentials endpoint.
// Fields are pointers so a missing field can be told apart from a zero value.
type TokenResponse struct {
	AccessToken *string `json:"access_token"`
	TokenType   *string `json:"token_type"`
	ExpiresIn   *int64  `json:"expires_in"`
}

// MissingField names the first required field absent from the response, or "".
func (r TokenResponse) MissingField() string {
	switch {
	case r.AccessToken == nil || *r.AccessToken == "":
		return "access_token"
	case r.TokenType == nil || *r.TokenType == "":
		return "token_type"
	case r.ExpiresIn == nil:
		return "expires_in"
	}
	return ""
}

// MaxExpiresIn is the largest expires_in, in seconds, that fits in a time.Duration.
const MaxExpiresIn = math.MaxInt64 / int64(time.Second)

// Lifetime converts expires_in to a duration.
func (r TokenResponse) Lifetime() time.Duration {
	if r.ExpiresIn == nil {
		return 0
	}
	return time.Duration(*r.ExpiresIn) * time.Second
}

// StoredToken is the persisted form of a cached token.
type StoredToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ----------------------------------------------------------------------
// Gateway
// ----------------------------------------------------------------------

// GatewayResponse is a gateway JSON reply, kept verbatim.
type GatewayResponse = json.RawMessage
