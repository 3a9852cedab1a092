package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("security: token invalid or expired")
)

// Claims carried by an issued bearer token.
type Claims struct {
	UserID string
	Role   string
}

// JWTCodec issues and verifies HS256 bearer tokens.
type JWTCodec struct {
	Secret []byte
	TTL    time.Duration
}

func (c JWTCodec) Issue(claims Claims, now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  claims.UserID,
		"role": claims.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString(c.Secret)
}

func (c JWTCodec) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.Secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{UserID: sub, Role: role}, nil
}
