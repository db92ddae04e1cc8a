package api

import (
	"errors"
	"net/http"
	"strings"
)

var (
	errMissingAuthHeader = errors.New("missing auth header")
	errBadAuthHeader     = errors.New("bad auth header")
)

// authTokenFromHeader extracts the raw token from the X-Auth header. The
// token travels bare, without a scheme prefix. A structural check on the
// JWT segment count rejects garbage before it reaches the codec.
func authTokenFromHeader(header http.Header) (string, error) {
	values := header.Values(HeaderAuth)
	if len(values) == 0 {
		return "", errMissingAuthHeader
	}
	token := strings.TrimSpace(values[0])
	if token == "" {
		return "", errMissingAuthHeader
	}
	if strings.Count(token, ".") != 2 {
		return "", errBadAuthHeader
	}
	return token, nil
}
