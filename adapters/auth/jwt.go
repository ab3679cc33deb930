// Package auth provides stateless authentication using JWT.
// Two token families live here: session tokens for admin and member
// callers (device-bound), and single-purpose download tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/blackforge/storefront/pkg/fault"
	"github.com/blackforge/storefront/ports"
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried by session tokens.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Claims represents the JWT claims for admin and member sessions.
// DeviceID pins the token to the client that requested it.
type Claims struct {
	Role     string `json:"role"`
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// TokenService provides stateless session token operations.
// Thread-safe and suitable for concurrent use.
type TokenService struct {
	secret    []byte
	issuer    string
	adminTTL  time.Duration
	memberTTL time.Duration
	clock     ports.Clock
}

// NewTokenService creates a session token service. If secret is empty,
// a random 32-byte secret is generated, invalidating tokens across
// restarts.
func NewTokenService(secret string, adminTTL, memberTTL time.Duration, clock ports.Clock) *TokenService {
	var secretBytes []byte
	if secret == "" {
		secretBytes = make([]byte, 32)
		rand.Read(secretBytes)
	} else {
		secretBytes = []byte(secret)
	}

	if adminTTL == 0 {
		adminTTL = 7 * 24 * time.Hour
	}
	if memberTTL == 0 {
		memberTTL = 14 * 24 * time.Hour
	}

	return &TokenService{
		secret:    secretBytes,
		issuer:    "storefront",
		adminTTL:  adminTTL,
		memberTTL: memberTTL,
		clock:     clock,
	}
}

// GenerateAdmin creates a device-bound admin token for a username.
func (s *TokenService) GenerateAdmin(username, deviceID string) (string, error) {
	return s.generate(RoleAdmin, username, deviceID, s.adminTTL)
}

// GenerateMember creates a device-bound member token for an email.
func (s *TokenService) GenerateMember(email, deviceID string) (string, error) {
	return s.generate(RoleMember, email, deviceID, s.memberTTL)
}

func (s *TokenService) generate(role, subject, deviceID string, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Role:     role,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate validates a session token for the expected role and device.
func (s *TokenService) Validate(tokenString, role, deviceID string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fault.New(fault.TokenExpired, "token expired")
		}
		return nil, fault.New(fault.TokenInvalid, "invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fault.New(fault.TokenInvalid, "invalid token")
	}
	if claims.Role != role {
		return nil, fault.New(fault.TokenInvalid, "token role mismatch")
	}
	if deviceID == "" || claims.DeviceID != deviceID {
		return nil, fault.New(fault.TokenMismatch, "token not valid for this device")
	}
	return claims, nil
}

// GenerateSecret generates a random secret suitable for JWT signing.
func GenerateSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
