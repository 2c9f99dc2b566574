// Package auth provides JWT access tokens, password hashing, the bearer-token
// guard and the optional GitHub sign-in provider.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client calls POST /auth/signin with email + password
//  2. Server verifies the bcrypt hash and issues a signed JWT
//  3. Client sends "Authorization: Bearer <jwt>" on every protected call
//  4. RequireAuth validates the JWT, loads the user and puts it in the
//     request context for the handler
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"42","iss":"bookmarks-api","exp":...,"iat":...,"jti":"..."}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	issuer = "bookmarks-api"

	// DefaultTokenTTL is the access token lifetime when none is configured.
	DefaultTokenTTL = 15 * time.Minute
)

var (
	// ErrTokenInvalid covers bad signatures, wrong algorithm or issuer,
	// malformed tokens and unusable subjects.
	ErrTokenInvalid = errors.New("auth: invalid token")
	// ErrTokenExpired is returned once the exp claim has passed.
	ErrTokenExpired = errors.New("auth: token expired")
)

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens. The secret is
// handed in from configuration at construction; nothing in this package
// reads the environment.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and lifetime.
// A non-positive ttl falls back to DefaultTokenTTL.
// Example secret: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the lifetime of tokens issued by Issue.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates and signs an access token bound to userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	return s.IssueWithDuration(userID, s.ttl)
}

// IssueWithDuration creates a token with a custom lifetime.
// Used in tests (negative d yields an already-expired token).
func (s *TokenService) IssueWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		Issuer:    issuer,
		// jti makes every token distinct, even two issued in the same second
		ID: xid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a JWT string and returns the user id it binds.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid and the algorithm is HS256 (no "none" tokens)
//   - Token is not expired, and has an expiry at all
//   - Issuer matches
//
// Errors wrap ErrTokenExpired or ErrTokenInvalid.
func (s *TokenService) Verify(tokenStr string) (int64, error) {
	var c jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrTokenInvalid, c.Subject)
	}

	return userID, nil
}
