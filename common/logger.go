package common

import "go.uber.org/zap"

// Standard log field keys, so token and gateway logs can be queried together.
const (
	KeyOperation = "operation"
	KeyPath      = "path"
	KeyStatus    = "status"
	KeyRequestID = "request_id"
	KeyExpiresIn = "expires_in"
	KeyAuthURI   = "auth_uri"
	KeyDuration  = "duration"
)

// LoggerOrNop returns l, or a no-op logger when l is nil.
func LoggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
