package auth

import (
	"context"
	"errors"
)

var ErrUnauthorized = errors.New("unauthorized")

// TrustLevel tells whether the subject of an identity was proven by a signature check.
type TrustLevel string

const (
	TrustVerified   TrustLevel = "verified"
	TrustUnverified TrustLevel = "unverified"
)

// CredentialSource is where the token was found. Every source after the
// authorization header is weaker than the one before it.
type CredentialSource string

const (
	SourceHeader CredentialSource = "header"
	SourceBody   CredentialSource = "body"
	SourceCookie CredentialSource = "cookie"
	SourceNone   CredentialSource = "none"
)

type Identity struct {
	Subject string
	Trust   TrustLevel
	Source  CredentialSource
}

func (i Identity) Verified() bool {
	return i.Trust == TrustVerified
}

type identityKeyType struct{}

var identityKey identityKeyType

func NewIdentityContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	val, ok := ctx.Value(identityKey).(Identity)
	if !ok || val.Subject == "" {
		return Identity{}, false
	}
	return val, true
}

func MustHaveIdentity(ctx context.Context) Identity {
	identity, found := IdentityFromContext(ctx)
	if !found {
		panic("failed to find identity in context")
	}
	return identity
}
