package auth

import (
	"time"

	"aidanwoods.dev/go-paseto"
)

const pasetoName = "paseto"

// PasetoStrategy issues v4.local tokens with the identity in the sub claim.
type PasetoStrategy struct {
	key    paseto.V4SymmetricKey
	parser paseto.Parser
	ttl    time.Duration
	now    func() time.Time
}

func NewPasetoStrategy(secret string, opts Options) (*PasetoStrategy, error) {
	material, err := deriveKey(secret, pasetoName)
	if err != nil {
		return nil, err
	}
	key, err := paseto.V4SymmetricKeyFromBytes(material)
	if err != nil {
		return nil, err
	}
	return &PasetoStrategy{
		key:    key,
		parser: paseto.NewParser(),
		ttl:    opts.ttl(),
		now:    time.Now,
	}, nil
}

func (s *PasetoStrategy) IssueToken(subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := s.now()
	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetSubject(subject)

	return token.V4Encrypt(s.key, nil), nil
}

func (s *PasetoStrategy) ParseToken(token string) (string, error) {
	parsed, err := s.parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	subject, err := parsed.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

func (s *PasetoStrategy) Name() string {
	return pasetoName
}
