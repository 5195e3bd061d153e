package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/logger"
	rediscache "github.com/freeeve/relic-eclipse/internal/repository/redis"
)

// TimerListener listens for Redis keyspace notifications on expired challenge
// keys and closes the window as trusted. A polling fallback catches windows
// whose expiry notification was missed.
type TimerListener struct {
	rdb      *redis.Client
	sessions *SessionService
	interval time.Duration
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, sessions *SessionService) *TimerListener {
	return &TimerListener{rdb: rdb, sessions: sessions, interval: 5 * time.Second}
}

// Start begins listening for expired key events and runs a polling fallback.
func (t *TimerListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollExpiredChallenges(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollExpiredChallenges periodically checks for challenge windows past their deadline.
func (t *TimerListener) pollExpiredChallenges(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("Challenge deadline poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Challenge deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpiredChallenges(ctx)
		}
	}
}

func (t *TimerListener) checkExpiredChallenges(ctx context.Context) {
	ids, err := t.sessions.ExpiredChallenges(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired challenges")
		return
	}
	for _, id := range ids {
		log.Info().Str("gameId", id).Msg("Poller closing expired challenge window")
		if err := t.sessions.ExpireChallenge(ctx, id); err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Challenge expiry failed from poller")
		}
	}
}

// handleExpiry processes an expired key. Only acts on challenge keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	gameID, ok := rediscache.GameIDFromChallengeKey(key)
	if !ok {
		return
	}
	ctx = logger.WithGameID(ctx, gameID)
	l := logger.ForRequest(ctx)
	l.Info().Msg("Challenge timer expired")
	if err := t.sessions.ExpireChallenge(ctx, gameID); err != nil {
		l.Error().Err(err).Msg("Challenge expiry failed after timer expiry")
	}
}
