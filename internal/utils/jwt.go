package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret []byte
	jwtIssuer = "userhub"
)

// ErrNoSigningKey is returned when token generation is attempted before a
// signing key has been configured.
var ErrNoSigningKey = errors.New("jwt signing key is not configured")

// Claims carries the identity bundle of an access token. Validity is
// decided entirely by signature and expiry; nothing is looked up.
type Claims struct {
	UserID   string   `json:"sub_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	ClientID string   `json:"client_id"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// SetJWTSecret configures the HMAC signing key. An empty key is rejected;
// the caller must treat that as a startup failure.
func SetJWTSecret(secret string) error {
	if secret == "" {
		return ErrNoSigningKey
	}
	jwtSecret = []byte(secret)
	return nil
}

// SetJWTIssuer overrides the issuer claim stamped on generated tokens.
func SetJWTIssuer(issuer string) {
	if issuer != "" {
		jwtIssuer = issuer
	}
}

// GenerateToken mints a signed access token for the user bound to the
// given client. Expiry is now + expireMinutes.
func GenerateToken(userID, username, email, clientID string, roles []string, expireMinutes int) (string, time.Time, error) {
	if len(jwtSecret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(expireMinutes) * time.Minute)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		ClientID: clientID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates the signature and expiry of an access token and
// returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrNoSigningKey
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
