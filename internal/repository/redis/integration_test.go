//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func TestGameStateRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	gameID := "test-game-1"

	state := json.RawMessage(`{"phase":"action","round":2}`)
	if err := c.SetGameState(ctx, gameID, state, time.Minute); err != nil {
		t.Fatalf("set game state: %v", err)
	}

	got, err := c.GetGameState(ctx, gameID)
	if err != nil {
		t.Fatalf("get game state: %v", err)
	}
	var fetched map[string]any
	if err := json.Unmarshal(got, &fetched); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fetched["round"].(float64) != 2 {
		t.Fatalf("state round-trip failed: %s", string(got))
	}

	ids, err := c.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(ids) != 1 || ids[0] != gameID {
		t.Fatalf("expected [%s], got %v", gameID, ids)
	}
}

func TestGameStateNotFound(t *testing.T) {
	c := setup(t)

	got, err := c.GetGameState(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("get missing state: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for missing game state")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	s := model.Session{ID: "g1", Seed: 42, HumanSeat: 0, Difficulty: "hard", CreatedAt: time.Now().UTC()}
	if err := c.SetSession(ctx, s, time.Minute); err != nil {
		t.Fatalf("set session: %v", err)
	}
	got, err := c.GetSession(ctx, "g1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil || got.Seed != 42 || got.Difficulty != "hard" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestChallengeTimerWithTTL(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	gameID := "test-game-5"

	if err := c.SetChallengeTimer(ctx, gameID, time.Now().Add(5*time.Second)); err != nil {
		t.Fatalf("set timer: %v", err)
	}
	ttl := testRDB.PTTL(ctx, challengeKey(gameID)).Val()
	if ttl <= 0 || ttl > 6*time.Second {
		t.Fatalf("expected TTL ~5s, got %v", ttl)
	}

	if err := c.ClearChallengeTimer(ctx, gameID); err != nil {
		t.Fatalf("clear timer: %v", err)
	}
	if testRDB.Exists(ctx, challengeKey(gameID)).Val() != 0 {
		t.Fatal("expected challenge key to be deleted")
	}
}

func TestDeleteGameData(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	gameID := "test-game-6"

	c.SetGameState(ctx, gameID, json.RawMessage(`{}`), 0)
	c.SetSession(ctx, model.Session{ID: gameID}, 0)
	c.SetChallengeTimer(ctx, gameID, time.Now().Add(time.Minute))

	if err := c.DeleteGameData(ctx, gameID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n := testRDB.Exists(ctx, stateKey(gameID), sessionKey(gameID), challengeKey(gameID)).Val()
	if n != 0 {
		t.Fatalf("expected all keys deleted, %d remain", n)
	}
	ids, _ := c.ListSessions(ctx)
	if len(ids) != 0 {
		t.Fatalf("expected empty session index, got %v", ids)
	}
}
