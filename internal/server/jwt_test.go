package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("shh", time.Hour)

	token, err := svc.GenerateToken("student@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWTService("shh", time.Hour).GenerateToken("a@b.c")
	require.NoError(t, err)

	_, err = NewJWTService("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	svc := &JWTService{secret: []byte("shh"), ttl: -time.Minute}
	token, err := svc.GenerateToken("a@b.c")
	require.NoError(t, err)

	_, err = NewJWTService("shh", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_EmptyToken(t *testing.T) {
	_, err := NewJWTService("shh", time.Hour).ValidateToken("")
	assert.Error(t, err)
}

func TestJWT_RejectsUnexpectedSigningMethod(t *testing.T) {
	// Token signed with "none" must never validate.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "a@b.c"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("shh", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = bearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = bearerToken("Basic abc")
	assert.Error(t, err)

	_, err = bearerToken("Bearer")
	assert.Error(t, err)
}
