package auth

import "context"

// SetSeatForTest injects seat claims into the context for testing purposes.
func SetSeatForTest(ctx context.Context, gameID string, seat int) context.Context {
	return context.WithValue(ctx, claimsKey, &Claims{GameID: gameID, Seat: seat})
}
