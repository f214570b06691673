package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed marks a token whose structure or signature is invalid.
	ErrTokenMalformed = errors.New("token malformed")
)

// Identity is the claims payload captured at issuance time. It is not
// re-read from storage until the identity resolver runs.
type Identity struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// Claims is the full signed payload of a session token.
type Claims struct {
	Identity Identity `json:"user"`
	Refresh  bool     `json:"refresh"`
	jwt.RegisteredClaims
}

// Codec signs and verifies self-contained session tokens. A deployment uses
// exactly one symmetric key and one algorithm (HS256) for its lifetime;
// tokens signed any other way fail verification as malformed.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec signing with the given secret. The secret must
// come from configuration, never from a source literal.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Issue signs a token embedding identity, an absolute expiry of now+ttl, a
// freshly generated jti, and the refresh flag.
func (c *Codec) Issue(identity Identity, ttl time.Duration, refresh bool) (string, error) {
	now := time.Now()
	claims := Claims{
		Identity: identity,
		Refresh:  refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token. It returns ErrTokenExpired for a
// well-formed token past its expiry and ErrTokenMalformed for anything with
// a bad structure, signature, or signing method, so callers can give
// distinct feedback.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenMalformed
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
