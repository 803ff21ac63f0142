package accesstoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Domain errors
var (
	ErrNotConfigured = errors.New("access token signer is not configured")
	ErrInvalid       = errors.New("access token is invalid")
	ErrExpired       = errors.New("access token has expired")
)

// Claims identifies the member and reservation a QR access token was issued
// for. Tokens are short-lived; the kiosk exchanges one together with the
// member's DNI.
type Claims struct {
	MemberID      string
	ReservationID string
	ExpiresAt     time.Time
}

// tokenClaims is the internal claims type used for JWT encoding.
type tokenClaims struct {
	jwt.RegisteredClaims
	MemberID      string `json:"member_id"`
	ReservationID string `json:"reservation_id,omitempty"`
}

// Signer issues and verifies HMAC-signed access tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer with the given shared secret and token TTL.
// PRE: secret is non-empty; ttl > 0
// POST: now defaults to time.Now when nil
func NewSigner(secret string, ttl time.Duration, now func() time.Time) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNotConfigured
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue signs a token for the given member (and optionally a specific
// reservation), valid for the configured TTL.
// POST: Returns the compact JWT string
func (s *Signer) Issue(memberID, reservationID string) (string, error) {
	if memberID == "" {
		return "", errors.New("member ID is required")
	}
	issuedAt := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
		MemberID:      memberID,
		ReservationID: reservationID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
// POST: Returns ErrExpired for stale tokens, ErrInvalid for anything else wrong
func (s *Signer) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrInvalid
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if parsed.MemberID == "" {
		return Claims{}, ErrInvalid
	}

	claims := Claims{
		MemberID:      parsed.MemberID,
		ReservationID: parsed.ReservationID,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}
