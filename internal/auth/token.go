package auth

import (
	"strconv"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/view"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL bounds how long an issued session token stays valid.
// The lifetime is refreshed whenever a token is reissued (sign-in, profile
// update).
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the signed identity snapshot carried in the session cookie.
// It is issued at sign-in and profile-update time and is not invalidated
// server-side, so the embedded email, name and avatar can drift from the
// current database row until the next issuance.
type Claims struct {
	Email           string      `json:"email"`
	FullName        string      `json:"fullName"`
	ProfileImageURL string      `json:"profileImageURL"`
	Role            models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the numeric user id out of the subject claim. Returns 0 for
// a malformed subject.
func (c *Claims) UserID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// Owns reports whether the claims identify the owner of a resource created
// by ownerID. The comparison is done on the string form so differing id
// representations upstream cannot produce a false mismatch.
func (c *Claims) Owns(ownerID uint) bool {
	return c.Subject == strconv.FormatUint(uint64(ownerID), 10)
}

// TokenCodec signs and verifies session claims with a server-held secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec returns a codec signing with secret. ttl <= 0 falls back to
// DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// ClaimsForUser builds a claims snapshot for u with the avatar URL already
// normalized, so a token never carries a legacy-prefixed path.
func (tc *TokenCodec) ClaimsForUser(u *models.User) *Claims {
	now := time.Now()
	return &Claims{
		Email:           u.Email,
		FullName:        u.FullName,
		ProfileImageURL: view.NormalizeAvatarURL(u.ProfileImageURL),
		Role:            u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
	}
}

// Encode serializes claims into a signed compact token string.
func (tc *TokenCodec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Issue is the common sign-and-return path for a freshly loaded user row.
func (tc *TokenCodec) Issue(u *models.User) (string, error) {
	return tc.Encode(tc.ClaimsForUser(u))
}

// Decode verifies the signature and returns the embedded claims. Any
// failure (malformed input, wrong signing method, bad signature, expired
// token) comes back as models.ErrInvalidToken so callers can treat it as
// "anonymous" without inspecting the cause.
func (tc *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}
