package auth

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/guarzo/nequiapi/common"
	"github.com/guarzo/nequiapi/common/model"
)

// TokenStore persists a token outside the provider, so a restarted process
// (or a second provider for the same credentials) can reuse it until it expires.
// Implementations return found=false for unknown keys; the provider checks expiry itself.
type TokenStore interface {
	Load(ctx context.Context, key string) (tok *oauth2.Token, found bool, err error)
	Save(ctx context.Context, key string, tok *oauth2.Token) error
	Delete(ctx context.Context, key string) error
}

// storeKey identifies the credentials a token belongs to. The secret is left out.
func (p *TokenProvider) storeKey() string {
	return "nequi:token:" + p.authURI + "|" + p.clientID
}

// loadFromStore adopts a persisted token that is still valid. Caller must hold mu.
func (p *TokenProvider) loadFromStore(ctx context.Context) bool {
	if p.store == nil {
		return false
	}
	tok, found, err := p.store.Load(ctx, p.storeKey())
	if err != nil {
		p.logger.Warn("failed to load persisted token", zap.Error(err))
		return false
	}
	if !found || tok == nil || tok.AccessToken == "" || tok.TokenType == "" || !tok.Expiry.After(p.now()) {
		return false
	}
	p.token = tok
	p.logger.Debug("using persisted token")
	return true
}

// saveToStore persists the current token. Failures are logged only; the
// in-memory token stays authoritative. Caller must hold mu.
func (p *TokenProvider) saveToStore(ctx context.Context) {
	if p.store == nil || p.token == nil {
		return
	}
	if err := p.store.Save(ctx, p.storeKey(), p.token); err != nil {
		p.logger.Warn("failed to persist token", zap.Error(err))
	}
}

// ---------------------------------------------------
// CacheRepository-backed store
// ---------------------------------------------------

type cacheTokenStore struct {
	cache common.CacheRepository
	now   func() time.Time
}

var _ TokenStore = (*cacheTokenStore)(nil)

// NewCacheTokenStore keeps tokens in a CacheRepository; entries expire with the token.
func NewCacheTokenStore(cache common.CacheRepository) TokenStore {
	return &cacheTokenStore{cache: cache, now: time.Now}
}

func (s *cacheTokenStore) Load(_ context.Context, key string) (*oauth2.Token, bool, error) {
	data, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	var st model.StoredToken
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, err
	}
	return &oauth2.Token{AccessToken: st.AccessToken, TokenType: st.TokenType, Expiry: st.ExpiresAt}, true, nil
}

func (s *cacheTokenStore) Save(_ context.Context, key string, tok *oauth2.Token) error {
	data, err := json.Marshal(model.StoredToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresAt:   tok.Expiry,
	})
	if err != nil {
		return err
	}
	ttl := tok.Expiry.Sub(s.now())
	if ttl <= 0 {
		s.cache.Delete(key)
		return nil
	}
	s.cache.Set(key, data, ttl)
	return nil
}

func (s *cacheTokenStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
