package middleware

import (
	"bijouterie_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// Authenticator validates a session token taken from the access cookie.
type Authenticator interface {
	Authenticate(token string) (*structs.AuthClaims, error)
}

// RateCounter increments the request counter of an ip/endpoint pair within a window.
type RateCounter interface {
	IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	rateCounter RateCounter
	auth        Authenticator
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, rateCounter RateCounter, auth Authenticator) *Middleware {
	return &Middleware{
		logger:      logger,
		cfg:         cfg,
		rateCounter: rateCounter,
		auth:        auth,
	}
}
