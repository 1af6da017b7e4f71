// Package gate provides the Basic-Auth request gate protecting the Shoplite
// admin routes.
//
// This package handles:
//   - Interception of requests under the configured admin path prefix
//   - Parsing of the Authorization header (Basic scheme, base64 payload)
//   - Credential verification against the configured stored secret
//
// # Security
//
// The stored secret is the base64-encoded SHA-512 digest of the admin
// password, provisioned out-of-band (config file or environment). There is
// exactly one credential pair and no user registration, so no salting or key
// derivation is applied. All comparisons run in constant time over SHA-512
// digests. Credentials are never logged, and every malformed header collapses
// to a plain 401 — no parsing failure is ever surfaced to the client.
package gate

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Config holds the stored secret and route filter for the admin gate.
//
// Username and PasswordDigest are loaded once at process start and treated
// as immutable for the process lifetime.
type Config struct {
	Username       string // expected admin username
	PasswordDigest string // base64 SHA-512 digest of the admin password
	PathPrefix     string // requests outside this prefix bypass the gate
}

// Middleware returns a chi-compatible middleware enforcing Basic Auth for
// requests under cfg.PathPrefix. Requests outside the prefix pass through
// untouched. Rejections carry status 401 and a "WWW-Authenticate: Basic"
// challenge so browsers prompt for credentials.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.PathPrefix != "" && !strings.HasPrefix(r.URL.Path, cfg.PathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			username, password, ok := parseBasic(r.Header.Get("Authorization"))
			if !ok {
				reject(w)
				return
			}

			// Compare both fields before deciding so a wrong username and a
			// wrong password are indistinguishable to the caller.
			usernameMatch := equalConstantTime(username, cfg.Username)
			passwordMatch := Verify(password, cfg.PasswordDigest)
			if usernameMatch && passwordMatch {
				next.ServeHTTP(w, r)
				return
			}

			reject(w)
		})
	}
}

// parseBasic extracts the username and password from an Authorization header
// value of the form "<scheme> <base64(username:password)>".
//
// The password may legitimately contain colons, so the decoded payload is
// split on the first colon only. A missing header, missing payload, invalid
// base64, non-UTF-8 payload, or missing colon all yield ok=false.
func parseBasic(header string) (username, password string, ok bool) {
	if header == "" {
		return "", "", false
	}

	_, encoded, found := strings.Cut(header, " ")
	if !found || encoded == "" {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	if !utf8.Valid(decoded) {
		return "", "", false
	}

	username, password, found = strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}

	return username, password, true
}

func reject(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Basic")
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
