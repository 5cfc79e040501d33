package tokens

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Claims carried by the signed credential: the user's id and email.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// Issuer signs and verifies HS256 access tokens. The expiry window comes
// from config (jwt.expires_minutes, default 60); the secret from the
// environment so it never lands in the config file.
type Issuer struct {
	secret  []byte
	issuer  string
	expires time.Duration
}

var ErrInvalidToken = errors.New("invalid token")

// MustNewIssuer creates a new Issuer.
func MustNewIssuer() *Issuer {
	secret := os.Getenv("ORDERS_JWT_SECRET")
	if secret == "" {
		panic("ORDERS_JWT_SECRET is not set")
	}

	expiresMinutes := viper.GetInt("jwt.expires_minutes")
	if expiresMinutes == 0 {
		expiresMinutes = 60
	}

	return &Issuer{
		secret:  []byte(secret),
		issuer:  viper.GetString("jwt.issuer"),
		expires: time.Duration(expiresMinutes) * time.Minute,
	}
}

// NewIssuer builds an issuer with explicit parameters, used by tests.
func NewIssuer(secret []byte, issuer string, expires time.Duration) *Issuer {
	return &Issuer{
		secret:  secret,
		issuer:  issuer,
		expires: expires,
	}
}

// Issue signs a token for the user and returns it with its expiry.
func (i *Issuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(i.expires)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iss":   i.issuer,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (i *Issuer) Parse(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}

		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return Claims{UserID: userID, Email: email}, nil
}
