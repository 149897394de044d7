package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
)

var _ = Describe("identity resolution", func() {
	var (
		key      *rsa.PrivateKey
		verifier *auth.LocalVerifier
	)

	BeforeEach(func() {
		var err error
		key, err = rsa.GenerateKey(rand.Reader, 2048)
		Expect(err).To(BeNil())
		verifier, err = auth.NewLocalVerifier(context.TODO(), key)
		Expect(err).To(BeNil())
	})

	Context("credential extraction", func() {
		It("prefers the authorization header", func() {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"body-token"}`))
			req.Header.Set("Authorization", "Bearer header-token")
			req.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-token"})

			c, found := auth.ExtractCredential(req)
			Expect(found).To(BeTrue())
			Expect(c.Token).To(Equal("header-token"))
			Expect(c.Source).To(Equal(auth.SourceHeader))
		})

		It("reads the body token and strips it", func() {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"body-token","id":"42"}`))

			c, found := auth.ExtractCredential(req)
			Expect(found).To(BeTrue())
			Expect(c.Token).To(Equal("body-token"))
			Expect(c.Source).To(Equal(auth.SourceBody))

			data, err := io.ReadAll(req.Body)
			Expect(err).To(BeNil())
			fields := map[string]any{}
			Expect(json.Unmarshal(data, &fields)).To(Succeed())
			Expect(fields).To(HaveKeyWithValue("id", "42"))
			Expect(fields).ToNot(HaveKey("token"))
		})

		It("leaves a body without token untouched", func() {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":"42"}`))
			req.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})

			c, found := auth.ExtractCredential(req)
			Expect(found).To(BeTrue())
			Expect(c.Source).To(Equal(auth.SourceCookie))

			data, err := io.ReadAll(req.Body)
			Expect(err).To(BeNil())
			Expect(string(data)).To(Equal(`{"id":"42"}`))
		})

		It("keeps a body larger than the peek limit intact", func() {
			payload := `{"company":"Acme","notes":"` + strings.Repeat("x", 2<<20) + `"}`
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
			req.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-token"})

			c, found := auth.ExtractCredential(req)
			Expect(found).To(BeTrue())
			Expect(c.Token).To(Equal("cookie-token"))
			Expect(c.Source).To(Equal(auth.SourceCookie))

			data, err := io.ReadAll(req.Body)
			Expect(err).To(BeNil())
			Expect(len(data)).To(Equal(len(payload)))
			Expect(string(data)).To(Equal(payload))
			Expect(req.Body.Close()).To(Succeed())
		})

		It("finds nothing", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			_, found := auth.ExtractCredential(req)
			Expect(found).To(BeFalse())
		})
	})

	Context("resolver", func() {
		It("verifies a locally signed token", func() {
			token, err := auth.GenerateToken(key, "alice", time.Hour)
			Expect(err).To(BeNil())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			identity, err := auth.NewResolver(verifier, false).Resolve(req)
			Expect(err).To(BeNil())
			Expect(identity.Subject).To(Equal("alice"))
			Expect(identity.Verified()).To(BeTrue())
		})

		It("rejects a token signed by another key", func() {
			token := foreignToken("mallory")
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			_, err := auth.NewResolver(verifier, false).Resolve(req)
			Expect(err).To(MatchError(auth.ErrUnauthorized))
		})

		It("accepts an unverified identity only when allowed", func() {
			token := foreignToken("mallory")
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "__session", Value: token})

			identity, err := auth.NewResolver(verifier, true).Resolve(req)
			Expect(err).To(BeNil())
			Expect(identity.Subject).To(Equal("mallory"))
			Expect(identity.Trust).To(Equal(auth.TrustUnverified))
			Expect(identity.Source).To(Equal(auth.SourceCookie))
		})

		It("rejects an expired token", func() {
			token, err := auth.GenerateToken(key, "alice", -time.Minute)
			Expect(err).To(BeNil())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			_, err = auth.NewResolver(verifier, false).Resolve(req)
			Expect(err).To(MatchError(auth.ErrUnauthorized))
		})
	})

	Context("middleware", func() {
		It("returns 401 without credentials", func() {
			h := &handler{}
			ts := httptest.NewServer(auth.NewIdentityAuthenticator(auth.NewResolver(verifier, false)).Authenticator(h))
			defer ts.Close()

			resp, err := http.Get(ts.URL)
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(h.called).To(BeFalse())
		})

		It("passes the identity to the next handler", func() {
			token, err := auth.GenerateToken(key, "alice", time.Hour)
			Expect(err).To(BeNil())

			h := &handler{}
			ts := httptest.NewServer(auth.NewIdentityAuthenticator(auth.NewResolver(verifier, false)).Authenticator(h))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			Expect(err).To(BeNil())
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			Expect(err).To(BeNil())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(h.identity.Subject).To(Equal("alice"))
		})

		It("refuses to start jwks mode without provider keys", func() {
			_, err := auth.NewAuthenticator(config.Auth{AuthenticationType: auth.JWKSAuthentication})
			Expect(err).NotTo(BeNil())
		})

		It("resolves unverified identities in jwks mode without provider keys when allowed", func() {
			a, err := auth.NewAuthenticator(config.Auth{AuthenticationType: auth.JWKSAuthentication, AllowUnverified: true})
			Expect(err).To(BeNil())

			h := &handler{}
			ts := httptest.NewServer(a.Authenticator(h))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			Expect(err).To(BeNil())
			req.Header.Set("Authorization", "Bearer "+foreignToken("bob"))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).To(BeNil())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(h.identity.Subject).To(Equal("bob"))
			Expect(h.identity.Trust).To(Equal(auth.TrustUnverified))
		})

		It("injects the dev user when authentication is disabled", func() {
			h := &handler{}
			ts := httptest.NewServer(auth.NewNoneAuthenticator().Authenticator(h))
			defer ts.Close()

			resp, err := http.Get(ts.URL)
			Expect(err).To(BeNil())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(h.identity.Subject).To(Equal(auth.DevSubject))
		})
	})
})

type handler struct {
	called   bool
	identity auth.Identity
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity, _ = auth.IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func foreignToken(subject string) string {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).To(BeNil())

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	t.Header["kid"] = auth.LocalKeyID
	s, err := t.SignedString(other)
	Expect(err).To(BeNil())
	return s
}
