package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/pkg/metrics"
)

const failedResolution = "failed"

// Resolver turns the credentials of a request into an identity.
type Resolver struct {
	verifier        Verifier
	allowUnverified bool
}

func NewResolver(verifier Verifier, allowUnverified bool) *Resolver {
	return &Resolver{verifier: verifier, allowUnverified: allowUnverified}
}

// Resolve returns ErrUnauthorized when no credential is found or the token
// cannot be verified. A token that fails verification but still carries a
// subject is accepted as TrustUnverified only when the resolver allows it.
func (res *Resolver) Resolve(r *http.Request) (Identity, error) {
	logger := zap.S().Named("auth")

	credential, found := ExtractCredential(r)
	if !found {
		metrics.IncreaseIdentityResolutionMetric(failedResolution, string(SourceNone))
		return Identity{}, ErrUnauthorized
	}

	if credential.Source != SourceHeader {
		logger.Debugw("credential read from a weaker source", "source", credential.Source)
	}

	subject, err := res.verifier.Verify(r.Context(), credential.Token)
	if err == nil {
		metrics.IncreaseIdentityResolutionMetric(string(TrustVerified), string(credential.Source))
		return Identity{Subject: subject, Trust: TrustVerified, Source: credential.Source}, nil
	}
	logger.Debugw("token verification failed", "source", credential.Source, "error", err)

	if !res.allowUnverified {
		metrics.IncreaseIdentityResolutionMetric(failedResolution, string(credential.Source))
		return Identity{}, ErrUnauthorized
	}

	subject, err = DecodeUnverified(credential.Token)
	if err != nil {
		metrics.IncreaseIdentityResolutionMetric(failedResolution, string(credential.Source))
		return Identity{}, ErrUnauthorized
	}

	logger.Warnw("accepting unverified identity", "source", credential.Source)
	metrics.IncreaseIdentityResolutionMetric(string(TrustUnverified), string(credential.Source))
	return Identity{Subject: subject, Trust: TrustUnverified, Source: credential.Source}, nil
}
