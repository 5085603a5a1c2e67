package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// bearerAuth admits requests carrying the shared secret. An empty secret
// disables the check entirely; the deployment is expected to configure one
// in production.
type bearerAuth struct {
	secret string
}

// check returns 0 when the request is admitted, otherwise the HTTP status
// to reject with: 401 for a missing credential, 403 for a wrong one.
func (a bearerAuth) check(r *http.Request) int {
	if a.secret == "" {
		return 0
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return http.StatusUnauthorized
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return http.StatusUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) != 1 {
		return http.StatusForbidden
	}
	return 0
}
