package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/api/middleware"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func keyPair(t *testing.T) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthConfigEnabled(t *testing.T) {
	assert.False(t, middleware.AuthConfig{}.Enabled())
	assert.False(t, middleware.AuthConfig{APIKeys: []string{""}}.Enabled())
	assert.True(t, middleware.AuthConfig{APIKeys: []string{"k"}}.Enabled())
	assert.True(t, middleware.AuthConfig{JWTPublicKey: "pem"}.Enabled())
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := keyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"secret"}}

	valid := sign(t, key, jwt.RegisteredClaims{
		Subject:   "dashboard",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := sign(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	tests := []struct {
		name        string
		header      string
		wantSuccess bool
		wantType    string
		wantSubject string
	}{
		{name: "api key", header: "ApiKey secret", wantSuccess: true, wantType: "apikey"},
		{name: "wrong api key", header: "ApiKey nope"},
		{name: "bearer", header: "Bearer " + valid, wantSuccess: true, wantType: "jwt", wantSubject: "dashboard"},
		{name: "expired bearer", header: "Bearer " + expired},
		{name: "missing header", header: ""},
		{name: "no scheme", header: "secret"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := middleware.Authenticate(tt.header, cfg)
			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantSuccess {
				assert.NoError(t, result.Error)
				assert.Equal(t, tt.wantType, result.AuthType)
				assert.Equal(t, tt.wantSubject, result.AuthSubject)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}

func TestAuthenticate_RoleClaim(t *testing.T) {
	key, publicPEM := keyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"secret"}}

	token := func(role string) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, middleware.Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			Role:             role,
		}).SignedString(key)
		require.NoError(t, err)
		return "Bearer " + signed
	}

	result := middleware.Authenticate(token("distributor"), cfg)
	require.True(t, result.Success)
	assert.Equal(t, domain.RoleDistributor, result.Role)

	result = middleware.Authenticate(token(""), cfg)
	require.True(t, result.Success)
	assert.Empty(t, result.Role)

	result = middleware.Authenticate(token("Auditor"), cfg)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, domain.ErrUnknownRole)

	result = middleware.Authenticate("ApiKey secret", cfg)
	require.True(t, result.Success)
	assert.Empty(t, result.Role)
}
