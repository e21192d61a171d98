package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var ErrNotAccessToken = errors.New("token is not an access token")

// AccessClaims is the claim layout shared with the identity provider.
type AccessClaims struct {
	UserID    string
	Email     string
	Role      user.Role
	ExpiresAt time.Time
}

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	ParseAccessToken(token string) (AccessClaims, error)
	JWTAuth() *jwtauth.JWTAuth
}

// JWTService verifies access tokens issued by the identity provider. Tokens
// are HS256 with a shared secret.
type JWTService struct {
	accessTTL time.Duration
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds the service. accessTTL is a time.ParseDuration string;
// config validation rejects bad values, anything unparsable here falls back to one hour.
func NewJWTService(secretKey string, accessTTL string) Service {
	ttl, err := time.ParseDuration(accessTTL)
	if err != nil || ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTService{
		accessTTL: ttl,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken signs a token the way the identity provider does.
// Used by attendancectl and tests.
func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	now := time.Now()
	expiresAt = now.Add(j.accessTTL).Unix()

	claims := map[string]interface{}{
		"sub":     userID,
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    tokenTypeAccess,
		"iat":     now.Unix(),
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func (j *JWTService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return AccessClaims{}, fmt.Errorf("verify token: %w", err)
	}

	claims := token.PrivateClaims()
	if typ, _ := claims["type"].(string); typ != tokenTypeAccess {
		return AccessClaims{}, ErrNotAccessToken
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return AccessClaims{
		UserID:    userID,
		Email:     email,
		Role:      user.Role(role),
		ExpiresAt: token.Expiration(),
	}, nil
}
