package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidToken    = errors.New("invalid auth token")
	ErrEmptySubject    = errors.New("token subject must not be empty")
	ErrUnknownStrategy = errors.New("unknown token strategy")
)

const defaultTTL = 24 * time.Hour

// Strategy issues and verifies bearer tokens carrying the acting identity.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

func (o Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return defaultTTL
	}
	return o.TTL
}

// New builds the strategy registered under name.
func New(name, secret string, opts Options) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", hmacName:
		return NewHMACStrategy(secret, opts)
	case pasetoName:
		return NewPasetoStrategy(secret, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
