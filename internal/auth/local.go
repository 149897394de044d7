package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/MicahParks/jwkset"
	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalKeyID  = "applytrack-local"
	localIssuer = "applytrack"
)

// LocalVerifier checks tokens signed with the locally configured private key.
type LocalVerifier struct {
	keyFn jwt.Keyfunc
}

func NewLocalVerifier(ctx context.Context, privateKey *rsa.PrivateKey) (*LocalVerifier, error) {
	jwk, err := jwkset.NewJWKFromKey(privateKey.Public(), jwkset.JWKOptions{
		Metadata: jwkset.JWKMetadataOptions{
			ALG: jwkset.AlgRS256,
			KID: LocalKeyID,
			USE: jwkset.UseSig,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build jwk from local key: %w", err)
	}

	storage := jwkset.NewMemoryStorage()
	if err := storage.KeyWrite(ctx, jwk); err != nil {
		return nil, fmt.Errorf("failed to store local jwk: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("failed to create local keyfunc: %w", err)
	}

	return &LocalVerifier{keyFn: k.Keyfunc}, nil
}

func (v *LocalVerifier) Verify(_ context.Context, token string) (string, error) {
	return verifyWithKeyFn(token, v.keyFn)
}

func ParsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}

// GenerateToken signs a token for subject that the LocalVerifier accepts.
func GenerateToken(privateKey *rsa.PrivateKey, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    localIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = LocalKeyID
	signed, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
