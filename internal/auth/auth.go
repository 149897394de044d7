package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/pkg/metrics"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	JWKSAuthentication  string = "jwks"
	LocalAuthentication string = "local"
	NoneAuthentication  string = "none"
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case JWKSAuthentication:
		var verifier Verifier
		jwks, err := NewJWKSVerifier(authConfig.JwkCertURL)
		switch {
		case err == nil:
			verifier = jwks
		case authConfig.AllowUnverified:
			zap.S().Named("auth").Warnw("identity provider keys unavailable, only unverified identities will resolve", "error", err)
			verifier = unavailableVerifier{cause: err}
		default:
			return nil, err
		}
		return NewIdentityAuthenticator(NewResolver(verifier, authConfig.AllowUnverified)), nil
	case LocalAuthentication:
		key, err := ParsePrivateKey(authConfig.LocalPrivateKey)
		if err != nil {
			return nil, err
		}
		verifier, err := NewLocalVerifier(context.Background(), key)
		if err != nil {
			return nil, err
		}
		return NewIdentityAuthenticator(NewResolver(verifier, authConfig.AllowUnverified)), nil
	case NoneAuthentication:
		return NewNoneAuthenticator(), nil
	default:
		return nil, fmt.Errorf("unknown authentication type %q", authConfig.AuthenticationType)
	}
}

// IdentityAuthenticator rejects requests without a resolvable identity.
type IdentityAuthenticator struct {
	resolver *Resolver
}

func NewIdentityAuthenticator(resolver *Resolver) *IdentityAuthenticator {
	return &IdentityAuthenticator{resolver: resolver}
}

func (a *IdentityAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.resolver.Resolve(r)
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, api.Error{Message: "authentication failed"})
			return
		}

		metrics.UniqueUsersPerWeek.Observe(identity.Subject)
		next.ServeHTTP(w, r.WithContext(NewIdentityContext(r.Context(), identity)))
	})
}

const DevSubject = "dev-user"

// NoneAuthenticator treats every request as coming from a single local user.
type NoneAuthenticator struct{}

func NewNoneAuthenticator() *NoneAuthenticator {
	return &NoneAuthenticator{}
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := Identity{Subject: DevSubject, Trust: TrustVerified, Source: SourceNone}
		next.ServeHTTP(w, r.WithContext(NewIdentityContext(r.Context(), identity)))
	})
}
