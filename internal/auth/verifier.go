package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// subjectClaims are read in order to find the user id of a token.
var subjectClaims = []string{"sub", "user_id", "userId", "uid"}

type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWKSVerifier checks token signatures against the keys of the identity provider.
type JWKSVerifier struct {
	keyFn func(t *jwt.Token) (any, error)
}

func NewJWKSVerifierWithKeyFn(keyFn func(t *jwt.Token) (any, error)) *JWKSVerifier {
	return &JWKSVerifier{keyFn: keyFn}
}

func NewJWKSVerifier(jwkCertUrl string) (*JWKSVerifier, error) {
	if jwkCertUrl == "" {
		return nil, errors.New("no identity provider key url configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkCertUrl})
	if err != nil {
		return nil, fmt.Errorf("failed to get identity provider public keys: %w", err)
	}

	return &JWKSVerifier{keyFn: k.Keyfunc}, nil
}

func (v *JWKSVerifier) Verify(_ context.Context, token string) (string, error) {
	return verifyWithKeyFn(token, v.keyFn)
}

// unavailableVerifier stands in when the identity provider keys could not be loaded.
type unavailableVerifier struct {
	cause error
}

func (v unavailableVerifier) Verify(context.Context, string) (string, error) {
	return "", fmt.Errorf("token verification unavailable: %w", v.cause)
}

func verifyWithKeyFn(token string, keyFn jwt.Keyfunc) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name, jwt.SigningMethodES256.Name}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	t, err := parser.Parse(token, keyFn)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate token: %w", err)
	}
	if !t.Valid {
		return "", errors.New("failed to parse or validate token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("failed to parse jwt token claims")
	}

	subject, found := subjectFromClaims(claims)
	if !found {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// DecodeUnverified reads the subject of a token without checking its signature.
// The result must never be treated as proof of identity.
func DecodeUnverified(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}

	subject, found := subjectFromClaims(claims)
	if !found {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

func subjectFromClaims(claims jwt.MapClaims) (string, bool) {
	for _, name := range subjectClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
