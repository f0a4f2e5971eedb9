package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/polkiloo/orderstatus/internal/pkg/auth"
)

// settings mirror the server's auth variables so a shared environment issues compatible tokens.
type settings struct {
	Strategy string        `env:"AUTH_STRATEGY" envDefault:"hmac"`
	Secret   string        `env:"AUTH_SECRET"`
	TTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

var errNoAction = errors.New("either -subject or -parse must be set")

func run(args []string, vars map[string]string, out io.Writer) error {
	var s settings
	if err := env.Parse(&s, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var subject, token string
	fs.StringVar(&subject, "subject", "", "Identity to embed into the issued token")
	fs.StringVar(&token, "parse", "", "Token to verify; prints its subject")
	fs.StringVar(&s.Strategy, "strategy", s.Strategy, "Token strategy: hmac or paseto")
	fs.StringVar(&s.Secret, "s", s.Secret, "Shared auth secret")
	fs.DurationVar(&s.TTL, "ttl", s.TTL, "Lifetime of issued tokens")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	strategy, err := auth.New(s.Strategy, s.Secret, auth.Options{TTL: s.TTL})
	if err != nil {
		return err
	}

	switch {
	case token != "":
		identity, err := strategy.ParseToken(token)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, identity)
		return err
	case subject != "":
		issued, err := strategy.IssueToken(subject)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, issued)
		return err
	default:
		return errNoAction
	}
}
