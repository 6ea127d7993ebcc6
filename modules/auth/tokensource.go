package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

type providerTokenSource struct {
	ctx context.Context
	p   *TokenProvider
}

// TokenSource adapts the provider to oauth2.TokenSource. ctx is used for any
// authentication round-trip the source triggers.
func (p *TokenProvider) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &providerTokenSource{ctx: ctx, p: p}
}

func (s *providerTokenSource) Token() (*oauth2.Token, error) {
	return s.p.validToken(s.ctx)
}

// Client returns an *http.Client that sets the Authorization header on every
// request from this provider's token.
func (p *TokenProvider) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, p.TokenSource(ctx))
}
