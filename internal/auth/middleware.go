package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"bookly/internal/apierr"
	"bookly/internal/models"
)

// TokenKind selects which token type a guarded endpoint accepts.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	userKey
)

// ErrIdentityNotFound is returned by UserResolver implementations when the
// identity embedded in a token no longer exists.
var ErrIdentityNotFound = errors.New("identity not found")

// UserResolver maps validated token claims back to a persisted user record.
type UserResolver func(ctx context.Context, email string) (*models.User, error)

// Guard validates bearer tokens on inbound requests: extraction, signature
// and expiry verification, blocklist lookup, and token-kind enforcement.
// It holds no per-request state.
type Guard struct {
	codec     *Codec
	blocklist Blocklist
}

func NewGuard(codec *Codec, blocklist Blocklist) *Guard {
	return &Guard{codec: codec, blocklist: blocklist}
}

// Require returns middleware admitting only requests bearing a valid,
// unrevoked token of the given kind. Revoked tokens are rejected exactly
// like invalid ones so callers cannot probe revocation state. Expired tokens
// get distinct feedback.
func (g *Guard) Require(kind TokenKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				apierr.Write(w, apierr.InvalidToken)
				return
			}

			claims, err := g.codec.Verify(token)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					apierr.Write(w, apierr.TokenExpired)
					return
				}
				apierr.Write(w, apierr.InvalidToken)
				return
			}

			revoked, err := g.blocklist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Msg("blocklist lookup failed")
				apierr.Write(w, apierr.Internal)
				return
			}
			if revoked {
				apierr.Write(w, apierr.InvalidToken)
				return
			}

			if kind == AccessToken && claims.Refresh {
				apierr.Write(w, apierr.AccessTokenRequired)
				return
			}
			if kind == RefreshToken && !claims.Refresh {
				apierr.Write(w, apierr.RefreshTokenRequired)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ResolveUser returns middleware that loads the user record behind the
// claims placed in the context by Require. A token for a deleted user yields
// 404.
func ResolveUser(resolve UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Identity.Email == "" {
				apierr.Write(w, apierr.InvalidToken)
				return
			}

			user, err := resolve(r.Context(), claims.Identity.Email)
			if err != nil {
				if errors.Is(err, ErrIdentityNotFound) {
					apierr.Write(w, apierr.UserNotFound)
					return
				}
				log.Error().Err(err).Msg("identity resolution failed")
				apierr.Write(w, apierr.Internal)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// ClaimsFromContext returns the verified claims stored by Require.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserFromContext returns the user record stored by ResolveUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
