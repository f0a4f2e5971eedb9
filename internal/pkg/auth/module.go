package auth

import (
	"github.com/polkiloo/orderstatus/internal/config"
	"go.uber.org/fx"
)

// Module provides the configured token strategy via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	return New(p.Config.AuthStrategy, p.Config.AuthSecret, Options{TTL: p.Config.TokenTTL})
}
