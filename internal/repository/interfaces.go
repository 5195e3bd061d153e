package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freeeve/relic-eclipse/internal/model"
)

// MatchRepository archives finished games (Postgres).
type MatchRepository interface {
	Create(ctx context.Context, m *model.Match) error
	FindByID(ctx context.Context, id string) (*model.Match, error)
	ListRecent(ctx context.Context, limit int) ([]model.Match, error)
	FactionStats(ctx context.Context, source string) ([]model.FactionStat, error)
}

// GameCache defines live session operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage, ttl time.Duration) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	SetSession(ctx context.Context, s model.Session, ttl time.Duration) error
	GetSession(ctx context.Context, gameID string) (*model.Session, error)
	ListSessions(ctx context.Context) ([]string, error)
	SetChallengeTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearChallengeTimer(ctx context.Context, gameID string) error
	DeleteGameData(ctx context.Context, gameID string) error
}
