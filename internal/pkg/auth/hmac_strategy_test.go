package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestHMAC(t *testing.T, opts Options) *HMACStrategy {
	t.Helper()
	strategy, err := NewHMACStrategy("secret", opts)
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}
	return strategy
}

func encodeHMAC(s *HMACStrategy, subject, expires string) string {
	payload := fmt.Sprintf("%s:%s", base64.RawURLEncoding.EncodeToString([]byte(subject)), expires)
	return base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", payload, s.sign(payload))))
}

func TestNewHMACStrategy_DefaultTTL(t *testing.T) {
	strategy := newTestHMAC(t, Options{})
	if len(strategy.key) != keySize {
		t.Fatalf("unexpected key size: %d", len(strategy.key))
	}
	if string(strategy.key) == "secret" {
		t.Fatal("expected derived key, got raw secret")
	}
	if strategy.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewHMACStrategy_CustomTTL(t *testing.T) {
	ttl := 2 * time.Hour
	strategy := newTestHMAC(t, Options{TTL: ttl})
	if strategy.ttl != ttl {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
}

func TestNewHMACStrategy_EmptySecret(t *testing.T) {
	if _, err := NewHMACStrategy("", Options{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := newTestHMAC(t, Options{TTL: time.Minute})
	for _, subject := range []string{"alice", "user:with:colons", "ид-42"} {
		token, err := strategy.IssueToken(subject)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		got, err := strategy.ParseToken(token)
		if err != nil {
			t.Fatalf("parse token for %q: %v", subject, err)
		}
		if got != subject {
			t.Fatalf("unexpected subject: %q, want %q", got, subject)
		}
	}
}

func TestHMACStrategy_IssueEmptySubject(t *testing.T) {
	strategy := newTestHMAC(t, Options{})
	if _, err := strategy.IssueToken(""); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}
}

func TestHMACStrategy_ParseRejectsOtherSecret(t *testing.T) {
	issuer := newTestHMAC(t, Options{})
	token, err := issuer.IssueToken("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	verifier, err := NewHMACStrategy("another", Options{})
	if err != nil {
		t.Fatalf("new strategy: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ParseMalformed(t *testing.T) {
	strategy := newTestHMAC(t, Options{})
	future := fmt.Sprint(time.Now().Add(time.Minute).Unix())

	cases := map[string]string{
		"not base64":    "not base64!",
		"two parts":     base64.RawURLEncoding.EncodeToString([]byte("only:two")),
		"bad signature": base64.RawURLEncoding.EncodeToString([]byte("YWxpY2U:" + future + ":tampered")),
		"bad subject":   encodeHMAC(strategy, "", future),
		"bad expiry":    encodeHMAC(strategy, "alice", "not-a-number"),
		"expired":       encodeHMAC(strategy, "alice", fmt.Sprint(time.Now().Add(-time.Minute).Unix())),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_TamperedSubject(t *testing.T) {
	strategy := newTestHMAC(t, Options{TTL: time.Minute})
	token, err := strategy.IssueToken("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	parts := strings.Split(string(raw), ":")
	parts[0] = base64.RawURLEncoding.EncodeToString([]byte("mallory"))
	tampered := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, ":")))
	if _, err := strategy.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if name := newTestHMAC(t, Options{}).Name(); name != "hmac" {
		t.Fatalf("unexpected name: %s", name)
	}
}
