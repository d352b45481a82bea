package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// Authenticator accepts either of two credentials on a submission: the
// in-body shared secret, or a bearer token signed with that secret. The
// secret check lives here rather than in middleware because the secret
// travels inside the JSON body, which only the handler decodes.
type Authenticator struct {
	sharedSecret string
	jwt          *JWTService
}

// NewAuthenticator creates an authenticator around the shared secret.
func NewAuthenticator(sharedSecret string) *Authenticator {
	return &Authenticator{
		sharedSecret: sharedSecret,
		jwt:          NewJWTService(sharedSecret, DefaultTokenTTL),
	}
}

// Authenticate checks the request's credentials. A present Authorization
// header is validated as a bearer token (invalid → 401); otherwise the
// in-body secret must match (wrong → 403). The returned status accompanies
// the error and is meaningless on success.
func (a *Authenticator) Authenticate(r *http.Request, bodySecret string) (int, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, err := bearerToken(header)
		if err != nil {
			return http.StatusUnauthorized, err
		}
		if _, err := a.jwt.ValidateToken(token); err != nil {
			return http.StatusUnauthorized, errors.New("invalid bearer token")
		}
		return http.StatusOK, nil
	}

	if subtle.ConstantTimeCompare([]byte(bodySecret), []byte(a.sharedSecret)) != 1 {
		return http.StatusForbidden, errors.New("Invalid secret")
	}
	return http.StatusOK, nil
}

// bearerToken extracts the token from an Authorization header, tolerating a
// case-insensitive Bearer prefix.
func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("malformed Authorization header")
	}
	return parts[1], nil
}
