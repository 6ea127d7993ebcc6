package auth

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestIsValid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		token *oauth2.Token
		want  bool
	}{
		{"no token", nil, false},
		{"no expiry", &oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}, false},
		{"future expiry", &oauth2.Token{AccessToken: "abc", Expiry: now.Add(time.Second)}, true},
		{"expiry equals now", &oauth2.Token{AccessToken: "abc", Expiry: now}, false},
		{"past expiry", &oauth2.Token{AccessToken: "abc", Expiry: now.Add(-time.Nanosecond)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewTokenProvider(WithClock(func() time.Time { return now }))
			p.token = tc.token
			if got := p.isValid(); got != tc.want {
				t.Errorf("isValid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTokenURL(t *testing.T) {
	p := NewTokenProvider()
	if err := p.Configure("id", "secret", "https://oauth.example.com/token", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := p.tokenURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://oauth.example.com/token?grant_type=client_credentials" {
		t.Errorf("unexpected token URL %s", got)
	}
}

func TestStoreKey_OmitsSecret(t *testing.T) {
	p := NewTokenProvider()
	_ = p.Configure("id", "very-secret", "https://oauth.example.com/token", "")
	if key := p.storeKey(); key != "nequi:token:https://oauth.example.com/token|id" {
		t.Errorf("unexpected key %s", key)
	}
}
