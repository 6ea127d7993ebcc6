// Package auth manages the client-credentials token used to call the agents gateway.
package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/guarzo/nequiapi/common"
	"github.com/guarzo/nequiapi/common/model"
)

// DefaultGrantType is used when no grant type is configured.
const DefaultGrantType = "client_credentials"

var _ common.TokenSource = (*TokenProvider)(nil)

// TokenProvider owns one set of client credentials and the token obtained with them.
// It authenticates lazily: a round-trip happens only when a caller asks for a token
// and the cached one is absent or expired. All token state is guarded by mu, so
// concurrent callers that find the token expired trigger a single authentication.
type TokenProvider struct {
	mu sync.Mutex

	configured   bool
	clientID     string
	clientSecret string
	authURI      string
	grantType    string

	token *oauth2.Token

	httpClient common.HttpClient
	store      TokenStore
	metrics    *common.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Option customizes a TokenProvider.
type Option func(*TokenProvider)

// WithHTTPClient sets the transport used to reach the token endpoint.
func WithHTTPClient(c common.HttpClient) Option {
	return func(p *TokenProvider) { p.httpClient = c }
}

// WithLogger sets the logger. Credentials and tokens are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(p *TokenProvider) { p.logger = common.LoggerOrNop(l) }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *TokenProvider) { p.now = now }
}

// WithStore enables persisting the token across provider instances or processes.
func WithStore(s TokenStore) Option {
	return func(p *TokenProvider) { p.store = s }
}

// WithMetrics records token requests on m.
func WithMetrics(m *common.Metrics) Option {
	return func(p *TokenProvider) { p.metrics = m }
}

// NewTokenProvider returns an unconfigured provider. Call Configure or
// ConfigureFromEnvironment before asking for tokens.
func NewTokenProvider(opts ...Option) *TokenProvider {
	p := &TokenProvider{
		grantType: DefaultGrantType,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = common.NewHttpClient(common.DefaultUserAgent, nil, common.DefaultTimeout)
	}
	return p
}

// GetValidToken returns a token that is valid at the time of return. With
// includeType the result is "<tokenType> <token>", ready for an Authorization header.
func (p *TokenProvider) GetValidToken(ctx context.Context, includeType bool) (string, error) {
	tok, err := p.validToken(ctx)
	if err != nil {
		return "", err
	}
	if includeType {
		return fmt.Sprintf("%s %s", tok.TokenType, tok.AccessToken), nil
	}
	return tok.AccessToken, nil
}

// Token is GetValidToken with the token type included.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	return p.GetValidToken(ctx, true)
}

// Refresh authenticates unconditionally. On failure the previous token, if any, is kept.
func (p *TokenProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.authenticate(ctx); err != nil {
		p.metrics.RecordAuth(common.ResultFailure)
		return err
	}
	p.metrics.RecordAuth(common.ResultSuccess)
	return nil
}

// Invalidate drops the cached token so the next call authenticates again.
func (p *TokenProvider) Invalidate(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = nil
	if p.store != nil {
		if err := p.store.Delete(ctx, p.storeKey()); err != nil {
			p.logger.Warn("failed to delete persisted token", zap.Error(err))
		}
	}
}

// validToken is the check-then-authenticate-then-store sequence, run under mu.
// It returns a copy so callers never share the cached pointer.
func (p *TokenProvider) validToken(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isValid() {
		p.logger.Debug("using cached token")
		p.metrics.RecordAuth(common.ResultCached)
		return copyToken(p.token), nil
	}

	if err := p.validate(); err != nil {
		p.metrics.RecordAuth(common.ResultFailure)
		return nil, err
	}

	if p.loadFromStore(ctx) {
		p.metrics.RecordAuth(common.ResultCached)
		return copyToken(p.token), nil
	}

	if err := p.authenticate(ctx); err != nil {
		p.metrics.RecordAuth(common.ResultFailure)
		return nil, err
	}
	p.metrics.RecordAuth(common.ResultSuccess)
	return copyToken(p.token), nil
}

// isValid reports whether the cached token expires strictly after now.
func (p *TokenProvider) isValid() bool {
	if p.token == nil || p.token.Expiry.IsZero() {
		return false
	}
	return p.token.Expiry.After(p.now())
}

func (p *TokenProvider) validate() error {
	switch {
	case p.authURI == "":
		return &common.ConfigurationError{Field: "authURI", Reason: "is required"}
	case p.clientID == "":
		return &common.ConfigurationError{Field: "clientID", Reason: "is required"}
	case p.clientSecret == "":
		return &common.ConfigurationError{Field: "clientSecret", Reason: "is required"}
	}
	return nil
}

// tokenURL builds <authURI>?grant_type=<grantType>.
func (p *TokenProvider) tokenURL() (string, error) {
	u, err := url.Parse(p.authURI)
	if err != nil {
		return "", &common.ConfigurationError{Field: "authURI", Reason: fmt.Sprintf("is not a valid URL: %v", err)}
	}
	grantType := p.grantType
	if grantType == "" {
		grantType = DefaultGrantType
	}
	q := u.Query()
	q.Set("grant_type", grantType)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// authenticate performs one round-trip to the token endpoint and, only on full
// success, replaces the cached token. Caller must hold mu.
func (p *TokenProvider) authenticate(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}
	endpoint, err := p.tokenURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("token request failed", zap.String(common.KeyAuthURI, p.authURI), zap.Error(err))
		return &common.TransportError{Op: http.MethodPost, URL: p.authURI, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.TransportError{Op: http.MethodPost, URL: p.authURI, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Error("token endpoint rejected credentials",
			zap.String(common.KeyAuthURI, p.authURI),
			zap.Int(common.KeyStatus, resp.StatusCode))
		return &common.AuthenticationError{StatusCode: resp.StatusCode, Body: body}
	}

	var tr model.TokenResponse
	if err := model.JSONUnmarshal(body, &tr); err != nil {
		return &common.MalformedResponseError{Reason: "token response is not valid JSON", Body: body, Err: err}
	}
	if field := tr.MissingField(); field != "" {
		return &common.MalformedResponseError{Reason: "token response is missing " + field, Body: body}
	}
	if *tr.ExpiresIn <= 0 {
		return &common.MalformedResponseError{Reason: fmt.Sprintf("token response has non-positive expires_in %d", *tr.ExpiresIn), Body: body}
	}
	if *tr.ExpiresIn > model.MaxExpiresIn {
		return &common.MalformedResponseError{Reason: fmt.Sprintf("token response expires_in %d is out of range", *tr.ExpiresIn), Body: body}
	}

	p.token = &oauth2.Token{
		AccessToken: *tr.AccessToken,
		TokenType:   *tr.TokenType,
		Expiry:      p.now().Add(tr.Lifetime()),
	}
	p.logger.Info("authenticated with token endpoint",
		zap.String(common.KeyAuthURI, p.authURI),
		zap.Int64(common.KeyExpiresIn, *tr.ExpiresIn))

	p.saveToStore(ctx)
	return nil
}

func copyToken(t *oauth2.Token) *oauth2.Token {
	c := *t
	return &c
}
