package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

type mockCache struct {
	states     map[string]json.RawMessage
	sessions   map[string]model.Session
	challenges map[string]time.Time
}

func newMockCache() *mockCache {
	return &mockCache{
		states:     make(map[string]json.RawMessage),
		sessions:   make(map[string]model.Session),
		challenges: make(map[string]time.Time),
	}
}

func (m *mockCache) SetGameState(_ context.Context, gameID string, state json.RawMessage, _ time.Duration) error {
	m.states[gameID] = append(json.RawMessage(nil), state...)
	return nil
}

func (m *mockCache) GetGameState(_ context.Context, gameID string) (json.RawMessage, error) {
	s, ok := m.states[gameID]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (m *mockCache) SetSession(_ context.Context, s model.Session, _ time.Duration) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockCache) GetSession(_ context.Context, gameID string) (*model.Session, error) {
	s, ok := m.sessions[gameID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockCache) ListSessions(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for id := range m.states {
		seen[id] = true
	}
	for id := range m.sessions {
		seen[id] = true
	}
	var ids []string
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockCache) SetChallengeTimer(_ context.Context, gameID string, deadline time.Time) error {
	m.challenges[gameID] = deadline
	return nil
}

func (m *mockCache) ClearChallengeTimer(_ context.Context, gameID string) error {
	delete(m.challenges, gameID)
	return nil
}

func (m *mockCache) DeleteGameData(_ context.Context, gameID string) error {
	delete(m.states, gameID)
	delete(m.sessions, gameID)
	delete(m.challenges, gameID)
	return nil
}

type mockMatches struct {
	created []*model.Match
}

func (m *mockMatches) Create(_ context.Context, match *model.Match) error {
	if match.ID == "" {
		match.ID = fmt.Sprintf("match-%d", len(m.created)+1)
	}
	m.created = append(m.created, match)
	return nil
}

func (m *mockMatches) FindByID(_ context.Context, id string) (*model.Match, error) {
	for _, match := range m.created {
		if match.ID == id {
			return match, nil
		}
	}
	return nil, nil
}

func (m *mockMatches) ListRecent(_ context.Context, limit int) ([]model.Match, error) {
	var out []model.Match
	for i := len(m.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.created[i])
	}
	return out, nil
}

func (m *mockMatches) FactionStats(_ context.Context, _ string) ([]model.FactionStat, error) {
	return nil, nil
}

type broadcastEvent struct {
	gameID    string
	seat      int
	eventType string
	data      any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{gameID, -1, eventType, data})
}

func (b *recordingBroadcaster) SendSeatEvent(gameID string, seat int, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{gameID, seat, eventType, data})
}

// lastSnapshot returns the most recent snapshot sent to seat.
func (b *recordingBroadcaster) lastSnapshot(seat int) *eclipse.GameState {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		e := b.events[i]
		if e.eventType == EventSnapshot && e.seat == seat {
			return e.data.(*eclipse.GameState)
		}
	}
	return nil
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}
