// Package auth holds the credential primitives: the bcrypt password hasher
// and the HS256 token codec.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPayload is what a verified token tells us.
type TokenPayload struct {
	Subject   int64
	ExpiresAt *time.Time
}

// TokenCodec issues and verifies HS256 access tokens. Claims: sub (decimal
// user id), exp, iat, jti.
type TokenCodec struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenCodec(secretKey string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subjectID valid for the default ttl.
func (c *TokenCodec) Issue(subjectID int64) (string, error) {
	return c.IssueWithTTL(subjectID, c.ttl)
}

// IssueWithTTL signs a token for subjectID valid for ttl. The exp claim has
// whole-second precision and is rounded up, so the token never expires
// before ttl has passed.
func (c *TokenCodec) IssueWithTTL(subjectID int64, ttl time.Duration) (string, error) {
	now := c.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	})

	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ceilSecond(t time.Time) time.Time {
	r := t.Truncate(time.Second)
	if r.Before(t) {
		r = r.Add(time.Second)
	}
	return r
}

// Decode verifies the signature and expiry of tokenString and returns its
// payload. Every failure matches common.ErrInvalidToken; an expired token
// also matches common.ErrTokenExpired.
func (c *TokenCodec) Decode(tokenString string) (*TokenPayload, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: bad subject", common.ErrInvalidToken)
	}

	p := &TokenPayload{Subject: id}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		p.ExpiresAt = &exp
	}
	return p, nil
}
