package utils // package utils provides token creation and hashing helpers

import (
	"crypto/rand"   // secure random bytes for refresh tokens
	"crypto/sha256" // SHA-256 digest of stored refresh tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiry calculations

	"github.com/golang-jwt/jwt/v5" // JWT signing library
)

// AccessToken is a signed HS256 JWT together with its expiry. The Token
// field holds the serialized JWT which clients send in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// RefreshToken is a long-lived opaque token used to mint new access tokens.
// Only a SHA-256 hash of Raw is ever persisted, so a leaked database row
// cannot be replayed as a session.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewAccessToken signs an HS256 JWT for the given user. The claims carry
// the subject (sub), the user's role, the expiration (exp) and the issued
// at timestamp (iat). ttlMin controls the token lifetime in minutes.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random refresh token and its
// expiry. ttlDays controls how many days the token stays valid.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex-encoded SHA-256 digest of a raw refresh
// token. The repository layer stores and looks up tokens by this hash.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex string built from n bytes of secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
