package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/rahulshendre/blockchain-based-supply-chain/internal/api/shared/errors"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/logger"
)

type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	AUTH_ROLE_KEY    contextKey = "auth_role"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"

	AUTH_TYPE_JWT    = "jwt"
	AUTH_TYPE_APIKEY = "apikey"
)

// AuthConfig holds the credentials accepted on write routes
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Enabled reports whether any credential is configured.
// Local development networks usually run without one.
func (c AuthConfig) Enabled() bool {
	if c.JWTPublicKey != "" {
		return true
	}
	for _, key := range c.APIKeys {
		if key != "" {
			return true
		}
	}
	return false
}

// Claims are the JWT claims of a supply-chain participant.
// Role pins the token to one custody role; an empty role is an operator token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string
	Claims      *Claims
	AuthSubject string
	// Role is set when the credential may only act as that custody role
	Role  domain.Role
	Error error
}

// Authenticate validates the Authorization header.
// API keys are operator credentials and carry no role.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	scheme, credentials, found := strings.Cut(authHeader, " ")
	switch {
	case authHeader == "":
		return AuthResult{Error: errors.New("missing Authorization header")}
	case !found:
		return AuthResult{Error: errors.New("invalid Authorization header format")}
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := validateJWT(credentials, cfg.JWTPublicKey)
		if err != nil {
			return AuthResult{Error: err}
		}
		result := AuthResult{Success: true, AuthType: AUTH_TYPE_JWT, Claims: claims, AuthSubject: claims.Subject}
		if claims.Role != "" {
			role, err := domain.ParseRole(claims.Role)
			if err != nil {
				return AuthResult{Error: fmt.Errorf("invalid role claim: %w", err)}
			}
			result.Role = role
		}
		return result

	case "apikey":
		if err := validateAPIKey(credentials, cfg.APIKeys); err != nil {
			return AuthResult{Error: err}
		}
		return AuthResult{Success: true, AuthType: AUTH_TYPE_APIKEY}

	default:
		return AuthResult{Error: fmt.Errorf("unsupported authorization type: %s", scheme)}
	}
}

// Auth returns a gin middleware accepting a JWT (Bearer) or an API key (ApiKey).
// With no credential configured every request passes.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled() {
			c.Next()
			return
		}

		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if !result.Success {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error()))
			return
		}

		c.Set(AUTH_TYPE_KEY, result.AuthType)
		if result.Claims != nil {
			c.Set(JWT_CLAIMS_KEY, result.Claims)
		}
		if result.AuthSubject != "" {
			c.Set(AUTH_SUBJECT_KEY, result.AuthSubject)
		}
		if result.Role != "" {
			c.Set(AUTH_ROLE_KEY, result.Role)
		}
		logger.Debug("Authenticated write request",
			zap.String("auth_type", result.AuthType),
			zap.String("subject", result.AuthSubject),
			zap.String("role", string(result.Role)),
			zap.String("path", c.Request.URL.Path),
		)

		c.Next()
	}
}

// RoleFromContext returns the custody role the request's credential is bound to
func RoleFromContext(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(AUTH_ROLE_KEY)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok && role != ""
}

// AllowsRole reports whether the request may act as role.
// Unauthenticated (open) requests and role-less credentials may act as any role.
func AllowsRole(c *gin.Context, role domain.Role) bool {
	bound, ok := RoleFromContext(c)
	return !ok || bound == role
}

func validateJWT(tokenString string, publicKeyPEM string) (*Claims, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not configured")
	}

	publicKey, err := parseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	// expiry and not-before are checked by the parser
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}

func validateAPIKey(apiKey string, validKeys []string) error {
	for _, key := range validKeys {
		if key != "" && key == apiKey {
			return nil
		}
	}
	return errors.New("invalid API key")
}
