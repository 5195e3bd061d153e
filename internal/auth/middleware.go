package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const claimsKey contextKey = "seat_claims"

// Middleware returns an HTTP middleware that validates seat tokens.
// The token comes from the Authorization header (Bearer scheme) or, for
// WebSocket upgrades, the "token" query parameter. The claims are stored in
// the request context.
func Middleware(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.URL.Query().Get("token")
			if header := r.Header.Get("Authorization"); header != "" {
				parts := strings.SplitN(header, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					http.Error(w, `{"error":"invalid authorization format"}`, http.StatusUnauthorized)
					return
				}
				tokenStr = parts[1]
			}
			if tokenStr == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			claims, err := jwtMgr.ValidateToken(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the authenticated seat claims from the request context.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// SeatFor returns the caller's seat in gameID, or ErrSeatMismatch when the
// token was issued for another game.
func SeatFor(ctx context.Context, gameID string) (int, error) {
	c := ClaimsFromContext(ctx)
	if c == nil {
		return 0, ErrMissingToken
	}
	if c.GameID != gameID {
		return 0, ErrSeatMismatch
	}
	return c.Seat, nil
}
