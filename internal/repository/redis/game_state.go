package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/relic-eclipse/internal/model"
)

// Key patterns for Redis session data.
func stateKey(gameID string) string     { return "game:" + gameID + ":state" }
func sessionKey(gameID string) string   { return "game:" + gameID + ":session" }
func challengeKey(gameID string) string { return "game:" + gameID + ":challenge" }

const sessionIndexKey = "games:live"

// ChallengeKeyPrefix and ChallengeKeySuffix bracket the game id in a challenge timer key.
const (
	ChallengeKeyPrefix = "game:"
	ChallengeKeySuffix = ":challenge"
)

// GameIDFromChallengeKey extracts the game id from an expired challenge timer key.
func GameIDFromChallengeKey(key string) (string, bool) {
	if !strings.HasPrefix(key, ChallengeKeyPrefix) || !strings.HasSuffix(key, ChallengeKeySuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, ChallengeKeyPrefix), ChallengeKeySuffix)
	return id, id != ""
}

// SetGameState stores the engine snapshot JSON. A zero ttl keeps it forever.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage, ttl time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, stateKey(gameID), []byte(state), ttl)
	pipe.SAdd(ctx, sessionIndexKey, gameID)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("set game state: %w", err)
	}
	return nil
}

// GetGameState retrieves the engine snapshot JSON, or nil if it expired.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetSession stores the session envelope.
func (c *Client) SetSession(ctx context.Context, s model.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}

// GetSession retrieves the session envelope, or nil if it expired.
func (c *Client) GetSession(ctx context.Context, gameID string) (*model.Session, error) {
	data, err := c.rdb.Get(ctx, sessionKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// ListSessions returns the ids of sessions that were cached and not yet deleted.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	return c.rdb.SMembers(ctx, sessionIndexKey).Result()
}

// challengeGracePeriod lets a late click inside the displayed countdown still land
// before the expiry notification settles the challenge.
const challengeGracePeriod = 500 * time.Millisecond

// SetChallengeTimer creates a challenge key with a TTL. When the key expires,
// Redis keyspace notifications settle the open challenge window.
func (c *Client) SetChallengeTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + challengeGracePeriod
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	return c.rdb.Set(ctx, challengeKey(gameID), deadline.UnixMilli(), ttl).Err()
}

// ClearChallengeTimer removes the challenge timer for a game.
func (c *Client) ClearChallengeTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, challengeKey(gameID)).Err()
}

// DeleteGameData removes all Redis data for a game.
func (c *Client) DeleteGameData(ctx context.Context, gameID string) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, stateKey(gameID), sessionKey(gameID), challengeKey(gameID))
	pipe.SRem(ctx, sessionIndexKey, gameID)
	_, err := pipe.Exec(ctx)
	return err
}
