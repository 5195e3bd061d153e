package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrSeatMismatch = errors.New("token does not belong to this game")
)

// Claims binds a client to one seat of one game.
type Claims struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	jwt.RegisteredClaims
}

// JWTManager handles seat token creation and validation.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a JWTManager whose tokens live for expiry.
func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), expiry: expiry}
}

// GenerateSeatToken creates a token for seat in game gameID.
func (m *JWTManager) GenerateSeatToken(gameID string, seat int) (string, error) {
	now := time.Now()
	claims := &Claims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   gameID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.GameID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SeatToken is returned to a client when it takes a seat.
type SeatToken struct {
	Token     string `json:"token"`
	GameID    string `json:"game_id"`
	Seat      int    `json:"seat"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// IssueSeatToken wraps GenerateSeatToken in the response envelope.
func (m *JWTManager) IssueSeatToken(gameID string, seat int) (*SeatToken, error) {
	tok, err := m.GenerateSeatToken(gameID, seat)
	if err != nil {
		return nil, err
	}
	return &SeatToken{Token: tok, GameID: gameID, Seat: seat, ExpiresIn: int(m.expiry.Seconds())}, nil
}
