package auth

import (
	"os"

	"go.uber.org/zap"

	"github.com/guarzo/nequiapi/common"
)

// Environment variables read by ConfigureFromEnvironment. Each one falls back
// to the same name with legacyEnvPrefix.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvAuthURI      = "AUTH_URI"
	EnvGrantType    = "AUTH_GRANT_TYPE"

	legacyEnvPrefix = "NEQUI_"
)

// Configure sets the credentials and the token endpoint. It may be called once;
// credentials are immutable afterwards. An empty grantType means DefaultGrantType.
func (p *TokenProvider) Configure(clientID, clientSecret, authURI, grantType string) error {
	switch {
	case clientID == "":
		return &common.ConfigurationError{Field: "clientID", Reason: "is required"}
	case clientSecret == "":
		return &common.ConfigurationError{Field: "clientSecret", Reason: "is required"}
	case authURI == "":
		return &common.ConfigurationError{Field: "authURI", Reason: "is required"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setCredentials(clientID, clientSecret, authURI, grantType)
}

// ConfigureFromEnvironment reads the credentials from the environment. Missing
// variables are left empty; the error for them surfaces on the first token request.
func (p *TokenProvider) ConfigureFromEnvironment() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.setCredentials(
		lookupEnv(EnvClientID),
		lookupEnv(EnvClientSecret),
		lookupEnv(EnvAuthURI),
		lookupEnv(EnvGrantType),
	)
	if err == nil {
		p.logger.Debug("configured from environment", zap.String(common.KeyAuthURI, p.authURI))
	}
	return err
}

// setCredentials stores the configuration once. Caller must hold mu.
func (p *TokenProvider) setCredentials(clientID, clientSecret, authURI, grantType string) error {
	if p.configured {
		return &common.ConfigurationError{Reason: "provider is already configured"}
	}
	if grantType == "" {
		grantType = DefaultGrantType
	}
	p.clientID = clientID
	p.clientSecret = clientSecret
	p.authURI = authURI
	p.grantType = grantType
	p.configured = true
	return nil
}

func lookupEnv(name string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return os.Getenv(legacyEnvPrefix + name)
}
