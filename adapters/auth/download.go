package auth

import (
	"errors"
	"time"

	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/golang-jwt/jwt/v5"
)

// DownloadClaims binds a download token to exactly one file id.
type DownloadClaims struct {
	GameID string `json:"gameId"`
	jwt.RegisteredClaims
}

// DownloadTokenService mints and verifies short-lived, single-purpose
// download tokens. Tokens are not persisted and cannot be revoked
// before expiry; the expiry window bounds the exposure.
type DownloadTokenService struct {
	secret []byte
	ttl    time.Duration
	clock  ports.Clock
}

// NewDownloadTokenService creates a download token service. The default
// expiry window is 60 minutes.
func NewDownloadTokenService(secret string, ttl time.Duration, clock ports.Clock) *DownloadTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DownloadTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}
}

// Issue mints a token embedding the file id.
func (s *DownloadTokenService) Issue(gameID string) (string, error) {
	now := s.clock.Now()
	claims := DownloadClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded file id.
// Failures are classified as TokenExpired or TokenInvalid; checking the
// id against the requested file is the caller's job.
func (s *DownloadTokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DownloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fault.New(fault.TokenExpired, "download token expired")
		}
		return "", fault.New(fault.TokenInvalid, "invalid download token")
	}

	claims, ok := token.Claims.(*DownloadClaims)
	if !ok || !token.Valid || claims.GameID == "" {
		return "", fault.New(fault.TokenInvalid, "invalid download token")
	}
	return claims.GameID, nil
}
