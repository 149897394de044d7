package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxBodyPeek = 1 << 20

// SessionCookies are the cookie names searched for a session token, in order.
var SessionCookies = []string{"__session", "session", "clerk_session", "clerk_token", "session_token", "token", "jwt"}

type Credential struct {
	Token  string
	Source CredentialSource
}

// ExtractCredential looks for a token in the authorization header, then in the
// "token" field of a JSON body, then in the session cookies. A token read from
// the body is removed from it so handlers never see or persist it.
func ExtractCredential(r *http.Request) (Credential, bool) {
	if token, found := bearerToken(r); found {
		return Credential{Token: token, Source: SourceHeader}, true
	}

	if token, found := bodyToken(r); found {
		return Credential{Token: token, Source: SourceBody}, true
	}

	for _, name := range SessionCookies {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return Credential{Token: c.Value, Source: SourceCookie}, true
		}
	}

	return Credential{}, false
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}

// bodyToken only inspects bodies up to maxBodyPeek bytes. A larger body is put
// back unread and unmodified.
func bodyToken(r *http.Request) (string, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", false
	}

	body := r.Body
	data, err := io.ReadAll(io.LimitReader(body, maxBodyPeek+1))
	if err != nil || len(data) > maxBodyPeek {
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(data), body), body}
		return "", false
	}
	_ = body.Close()

	restore := func(b []byte) {
		r.Body = io.NopCloser(bytes.NewReader(b))
		r.ContentLength = int64(len(b))
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		restore(data)
		return "", false
	}

	raw, found := fields["token"]
	if !found {
		restore(data)
		return "", false
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil || token == "" {
		restore(data)
		return "", false
	}

	delete(fields, "token")
	stripped, err := json.Marshal(fields)
	if err != nil {
		restore(data)
		return "", false
	}
	restore(stripped)

	return token, true
}
