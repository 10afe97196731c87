package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lucerna/internal/shared/biztime"
)

// SessionClaims is the payload of a portal session token issued after a
// successful magic-link verification.
type SessionClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokenService issues and verifies HS256 portal session tokens.
type SessionTokenService struct {
	secret     []byte
	expMinutes int
}

func NewSessionTokenService(secret string, expMinutes int) *SessionTokenService {
	return &SessionTokenService{
		secret:     []byte(secret),
		expMinutes: expMinutes,
	}
}

func (s *SessionTokenService) Generate(userID uint, role string) (string, error) {
	now := biztime.NowUTC()
	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	// A non-positive lifetime means a browser-session login: the cookie
	// carries no max-age and the token itself does not expire.
	if s.expMinutes > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(s.expMinutes) * time.Minute))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionTokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// ExpMinutes returns the session lifetime in minutes, used to size the
// session cookie max-age.
func (s *SessionTokenService) ExpMinutes() int {
	return s.expMinutes
}
