package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Alturino/storefront/internal/common/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

const lifetime = 30 * 24 * time.Hour

// Issue creates a new session id and a signed token whose subject is that id.
func Issue(secret string, now time.Time) (id string, token string, err error) {
	id = uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    constants.AppCartService,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", fmt.Errorf("failed signing session token with error=%w", err)
	}
	return id, token, nil
}

// Verify returns the session id carried by token.
func Verify(secret string, token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(constants.AppCartService),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", inErrors.ErrInvalidSession, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", inErrors.ErrInvalidSession
	}
	return claims.Subject, nil
}

type sessionID struct{}

func AttachToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionID{}, id)
}

func FromContext(c context.Context) (string, bool) {
	id, ok := c.Value(sessionID{}).(string)
	return id, ok && id != ""
}
