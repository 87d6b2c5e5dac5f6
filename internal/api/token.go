package api

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dummassdenzel/Mubu/internal/kvstore"
)

// TokenKey is the kvstore key the auth token is persisted under.
const TokenKey = "token"

// TokenSource supplies a bearer token for outgoing JSON calls.
type TokenSource interface {
	// Token returns the token and whether one should be attached.
	Token(ctx context.Context) (string, bool)
}

// StoredTokenSource reads the token from persistent client storage.
// Tokens that are already expired are skipped, so the backend never
// sees a bearer header it is guaranteed to reject.
type StoredTokenSource struct {
	kv kvstore.Store
}

func NewStoredTokenSource(kv kvstore.Store) *StoredTokenSource {
	return &StoredTokenSource{kv: kv}
}

func (s *StoredTokenSource) Token(ctx context.Context) (string, bool) {
	raw, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Printf("token read error: %v", err)
		}
		return "", false
	}
	if expired(raw) {
		return "", false
	}
	return raw, true
}

func expired(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false // not a JWT, let the server decide
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
