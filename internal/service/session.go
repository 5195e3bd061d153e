package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/bot"
	"github.com/freeeve/relic-eclipse/internal/logger"
	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/internal/repository"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = errors.New("game is over")
	ErrNotHumanSeat = errors.New("seat is not controlled by a client")
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultSessionTTL bounds how long an idle session stays in the cache.
const DefaultSessionTTL = 24 * time.Hour

// SessionConfig holds the pacing knobs for live sessions.
type SessionConfig struct {
	SessionTTL      time.Duration
	ChallengeWindow time.Duration // overrides the ruleset window when > 0
	AIThinkDelay    time.Duration // pause before each AI step
}

// CreateInput describes a new single-human session.
type CreateInput struct {
	Players         int    `json:"players"`
	Ruleset         string `json:"ruleset"`
	Difficulty      string `json:"difficulty"`
	Seed            uint64 `json:"seed"`
	Rounds          int    `json:"rounds"`
	AutoAcknowledge bool   `json:"auto_acknowledge"`
}

// SessionService runs live games: one human seat against AI seats. Every
// mutation of a session happens under that session's lock, and the snapshot
// is written back to the cache before the lock is released.
type SessionService struct {
	cache       repository.GameCache
	matches     repository.MatchRepository // optional: archives finished sessions
	broadcaster Broadcaster
	scheduler   *Scheduler
	cfg         SessionConfig
	now         func() time.Time

	gameLocks sync.Map
}

// NewSessionService creates a SessionService. matches and broadcaster may be nil.
func NewSessionService(
	cache repository.GameCache,
	matches repository.MatchRepository,
	broadcaster Broadcaster,
	scheduler *Scheduler,
	cfg SessionConfig,
) *SessionService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if scheduler == nil {
		scheduler = NewScheduler(0)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &SessionService{
		cache:       cache,
		matches:     matches,
		broadcaster: broadcaster,
		scheduler:   scheduler,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SetClock replaces the wall clock. Tests use it to drive challenge deadlines.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Scheduler returns the task queue the service feeds.
func (s *SessionService) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *SessionService) gameLock(gameID string) *sync.Mutex {
	v, _ := s.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Create starts a session with the human in seat 0 and queues the opening AI steps.
func (s *SessionService) Create(ctx context.Context, in CreateInput) (*model.Session, *eclipse.GameState, error) {
	if in.Players == 0 {
		in.Players = eclipse.MaxPlayers
	}
	rules := eclipse.DefaultRules()
	if in.Ruleset != "" {
		rs, err := eclipse.ParseRuleset(in.Ruleset)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rules.Ruleset = rs
	}
	if in.Difficulty != "" {
		d, err := eclipse.ParseDifficulty(in.Difficulty)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rules.Difficulty = d
	}
	if in.Rounds < 0 {
		return nil, nil, fmt.Errorf("%w: rounds must be positive", ErrInvalidInput)
	}
	if in.Rounds > 0 {
		rules.TotalRounds = in.Rounds
	}
	if s.cfg.ChallengeWindow > 0 {
		rules.ChallengeWindow = s.cfg.ChallengeWindow
	}
	rules.AutoAcknowledge = in.AutoAcknowledge
	if in.Seed == 0 {
		in.Seed = uint64(s.now().UnixNano())
	}

	gs, err := eclipse.NewGame(eclipse.Setup{Players: in.Players, HumanSeat: 0, Rules: rules}, eclipse.NewRand(in.Seed))
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	sess := &model.Session{
		ID:         uuid.NewString(),
		Seed:       in.Seed,
		Players:    in.Players,
		HumanSeat:  0,
		Ruleset:    string(rules.Ruleset),
		Difficulty: string(rules.Difficulty),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx = logger.WithGameID(ctx, sess.ID)
	mu := s.gameLock(sess.ID)
	mu.Lock()
	defer mu.Unlock()
	if err := s.commit(ctx, sess, nil, gs); err != nil {
		return nil, nil, err
	}

	l := logger.ForRequest(ctx)
	l.Info().Int("players", in.Players).
		Str("ruleset", sess.Ruleset).Str("difficulty", sess.Difficulty).
		Uint64("seed", in.Seed).Msg("Session created")
	return sess, gs, nil
}

// Get returns the session envelope and current snapshot.
func (s *SessionService) Get(ctx context.Context, gameID string) (*model.Session, *eclipse.GameState, error) {
	return s.load(ctx, gameID)
}

func (s *SessionService) load(ctx context.Context, gameID string) (*model.Session, *eclipse.GameState, error) {
	sess, err := s.cache.GetSession(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, nil, ErrGameNotFound
	}
	raw, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("get cached state: %w", err)
	}
	if raw == nil {
		return nil, nil, ErrGameNotFound
	}
	var gs eclipse.GameState
	if err := json.Unmarshal(raw, &gs); err != nil {
		return nil, nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return sess, &gs, nil
}

// sessionRand derives the random source for the next transition. The RNG is
// not persisted, so each transition reseeds from the session seed and the
// number of transitions committed so far.
func sessionRand(sess *model.Session) eclipse.Rand {
	return eclipse.NewRand(sess.Seed ^ (sess.Steps * 0x9e3779b97f4a7c15))
}

type transition func(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error)

// apply runs a human intent. Rejections leave the cached snapshot untouched.
func (s *SessionService) apply(ctx context.Context, gameID string, seat int, fn transition) (*eclipse.GameState, error) {
	ctx = logger.WithGameID(ctx, gameID)
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, gs, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if seat != sess.HumanSeat {
		return nil, ErrNotHumanSeat
	}
	if gs.IsOver() {
		return nil, ErrGameOver
	}
	if s.windowLapsed(sess, gs) {
		if err := s.settleExpired(ctx, sess, gs); err != nil {
			return nil, err
		}
		return nil, &eclipse.ValidationError{
			Reason:  eclipse.ReasonWindowClosed,
			Message: "the challenge window has closed and the claim stands",
		}
	}

	next, err := fn(gs, eclipse.PlayerID(seat), sessionRand(sess))
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, sess, gs, next); err != nil {
		return nil, err
	}
	return next, nil
}

// commit persists next, publishes what changed since prev, and queues
// follow-up work. prev is nil for a new session. Callers hold the game lock.
func (s *SessionService) commit(ctx context.Context, sess *model.Session, prev, next *eclipse.GameState) error {
	now := s.now()
	sess.Steps++
	sess.UpdatedAt = now

	opened := next.PendingChallenge != nil && (prev == nil || prev.PendingChallenge == nil)
	closed := next.PendingChallenge == nil && sess.ChallengeDeadline != nil
	if opened {
		window := next.PendingChallenge.Deadline - next.Clock
		deadline := now.Add(window)
		sess.ChallengeDeadline = &deadline
		if err := s.cache.SetChallengeTimer(ctx, sess.ID, deadline); err != nil {
			return fmt.Errorf("set challenge timer: %w", err)
		}
		s.scheduler.Schedule(Task{Due: deadline, GameID: sess.ID, Kind: TaskChallenge})
	}
	if closed {
		sess.ChallengeDeadline = nil
		if err := s.cache.ClearChallengeTimer(ctx, sess.ID); err != nil {
			l := logger.ForRequest(ctx)
			l.Warn().Err(err).Msg("Failed to clear challenge timer")
		}
	}

	finished := next.IsOver() && (prev == nil || !prev.IsOver())
	if finished && s.matches != nil && sess.MatchID == "" {
		m, err := bot.MatchFromState(next, "session", sess.Seed, sess.CreatedAt)
		if err != nil {
			return err
		}
		if err := s.matches.Create(ctx, m); err != nil {
			return fmt.Errorf("archive match: %w", err)
		}
		sess.MatchID = m.ID
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, sess.ID, raw, s.cfg.SessionTTL); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	if err := s.cache.SetSession(ctx, *sess, s.cfg.SessionTTL); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	after := 0
	if prev != nil {
		after = len(prev.Log)
	}
	if entries := next.LogSince(after); len(entries) > 0 {
		s.broadcaster.BroadcastGameEvent(sess.ID, EventLog, entries)
	}
	s.broadcaster.BroadcastGameEvent(sess.ID, EventStateChanged, map[string]any{
		"round": next.Round,
		"phase": string(next.Phase),
		"steps": sess.Steps,
	})
	for _, p := range next.Players {
		s.broadcaster.SendSeatEvent(sess.ID, int(p.ID), EventSnapshot, eclipse.PlayerView(next, p.ID))
	}
	if opened {
		pc := next.PendingChallenge
		s.broadcaster.BroadcastGameEvent(sess.ID, EventChallengeOpen, map[string]any{
			"declarer": pc.Declarer,
			"tile_id":  pc.TileID,
			"declared": string(pc.Declared),
			"deadline": sess.ChallengeDeadline.Format(time.RFC3339Nano),
		})
	}
	if closed {
		s.broadcaster.BroadcastGameEvent(sess.ID, EventChallengeClose, nil)
	}

	if finished {
		s.scheduler.Cancel(sess.ID)
		winner := ""
		if w := eclipse.Winner(next); w != nil {
			winner = w.Faction.Name
		}
		l := logger.ForRequest(ctx)
		l.Info().Str("winner", winner).Int("round", next.Round).
			Str("matchId", sess.MatchID).Msg("Session finished")
		s.broadcaster.BroadcastGameEvent(sess.ID, EventGameEnded, map[string]any{
			"winner":   winner,
			"match_id": sess.MatchID,
		})
		return nil
	}

	if AIReady(next) {
		s.scheduler.Schedule(Task{Due: now.Add(s.cfg.AIThinkDelay), GameID: sess.ID, Kind: TaskAIStep})
	}
	return nil
}

// AIReady reports whether the next transition belongs to the computer.
func AIReady(gs *eclipse.GameState) bool {
	if gs.IsOver() || gs.Awaiting() {
		return false
	}
	switch gs.Phase {
	case eclipse.PhaseIncome:
		return true
	case eclipse.PhaseCitizenChoice:
		humanPending := false
		for _, p := range gs.Players {
			if !p.Active() || p.Role != "" {
				continue
			}
			if !p.Human {
				return true
			}
			humanPending = true
		}
		return !humanPending
	case eclipse.PhaseAction:
		cur := gs.CurrentPlayer()
		return cur != nil && !cur.Human
	case eclipse.PhaseEvents, eclipse.PhaseScoring:
		if gs.Rules.AutoAcknowledge {
			return true
		}
		h := gs.Human()
		return h == nil || !h.Active()
	}
	return false
}

// StepAI performs one computer transition for the session.
func (s *SessionService) StepAI(ctx context.Context, gameID string) error {
	ctx = logger.WithGameID(ctx, gameID)
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, gs, err := s.load(ctx, gameID)
	if err != nil {
		return err
	}
	if gs.IsOver() {
		return nil
	}
	policy := bot.StrategyForDifficulty(gs.Rules.Difficulty)
	next, progressed, err := eclipse.Step(gs, policy, sessionRand(sess))
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	if !progressed {
		return nil
	}
	l := logger.ForRequest(ctx)
	l.Debug().Int("round", next.Round).Str("phase", string(next.Phase)).Msg("AI step")
	return s.commit(ctx, sess, gs, next)
}

// ExpireChallenge closes an open challenge window as trusted once its
// wall-clock deadline has passed.
func (s *SessionService) ExpireChallenge(ctx context.Context, gameID string) error {
	ctx = logger.WithGameID(ctx, gameID)
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, gs, err := s.load(ctx, gameID)
	if err != nil {
		return err
	}
	if gs.PendingChallenge == nil {
		return nil
	}
	if sess.ChallengeDeadline != nil && !s.windowLapsed(sess, gs) {
		l := logger.ForRequest(ctx)
		l.Debug().Time("deadline", *sess.ChallengeDeadline).Msg("Challenge window still open, skipping")
		return nil
	}
	return s.settleExpired(ctx, sess, gs)
}

// windowLapsed reports whether gs holds a challenge whose wall-clock
// deadline has passed.
func (s *SessionService) windowLapsed(sess *model.Session, gs *eclipse.GameState) bool {
	if gs.PendingChallenge == nil || sess.ChallengeDeadline == nil {
		return false
	}
	return !s.now().Before(*sess.ChallengeDeadline)
}

// settleExpired trusts the open claim and commits the result. Callers hold
// the game lock.
func (s *SessionService) settleExpired(ctx context.Context, sess *model.Session, gs *eclipse.GameState) error {
	next, err := eclipse.ExpireChallenge(gs, sessionRand(sess))
	if err != nil {
		return err
	}
	l := logger.ForRequest(ctx)
	l.Info().Int("declarer", int(gs.PendingChallenge.Declarer)).Msg("Challenge window expired, claim trusted")
	return s.commit(ctx, sess, gs, next)
}

// RunTask dispatches a scheduled task. It is the Scheduler's handler.
func (s *SessionService) RunTask(ctx context.Context, t Task) error {
	ctx = logger.WithGameID(ctx, t.GameID)
	var err error
	switch t.Kind {
	case TaskAIStep:
		err = s.StepAI(ctx, t.GameID)
	case TaskChallenge:
		err = s.ExpireChallenge(ctx, t.GameID)
	default:
		return fmt.Errorf("unknown task kind %q", t.Kind)
	}
	if errors.Is(err, ErrGameNotFound) {
		l := logger.ForRequest(ctx)
		l.Debug().Str("task", string(t.Kind)).Msg("Dropping task for expired session")
		return nil
	}
	return err
}

// SelectRole picks the human's citizen for the round.
func (s *SessionService) SelectRole(ctx context.Context, gameID string, seat int, role string) (*eclipse.GameState, error) {
	r, err := eclipse.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, _ eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.SelectRole(gs, pid, r)
	})
}

// ActionInput is the wire form of an Action-phase intent.
type ActionInput struct {
	Kind     string `json:"kind"`
	Target   string `json:"target,omitempty"`
	Declared string `json:"declared,omitempty"`
	Resource string `json:"resource,omitempty"`
}

func (in ActionInput) toAction() (eclipse.Action, error) {
	kind, err := eclipse.ParseActionKind(in.Kind)
	if err != nil {
		return eclipse.Action{}, err
	}
	a := eclipse.Action{Kind: kind, Target: in.Target}
	if in.Target != "" {
		if _, err := eclipse.ParseHexID(in.Target); err != nil {
			return eclipse.Action{}, err
		}
	}
	if in.Declared != "" {
		tt, err := eclipse.ParseTileType(in.Declared)
		if err != nil {
			return eclipse.Action{}, err
		}
		a.Declared = tt
	}
	if in.Resource != "" {
		res, err := eclipse.ParseResource(in.Resource)
		if err != nil {
			return eclipse.Action{}, err
		}
		a.Resource = res
	}
	return a, nil
}

// Act performs an Action-phase action for the human.
func (s *SessionService) Act(ctx context.Context, gameID string, seat int, in ActionInput) (*eclipse.GameState, error) {
	a, err := in.toAction()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.PerformAction(gs, pid, a, rng)
	})
}

// Pass ends the human's Action phase.
func (s *SessionService) Pass(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
	return s.apply(ctx, gameID, seat, eclipse.Pass)
}

// Declare completes the human's pending claim.
func (s *SessionService) Declare(ctx context.Context, gameID string, seat int, tileType string) (*eclipse.GameState, error) {
	tt, err := eclipse.ParseTileType(tileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.DeclareTileType(gs, pid, tt, rng)
	})
}

// Cancel abandons the human's pending claim.
func (s *SessionService) Cancel(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, _ eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.CancelDeclaration(gs, pid)
	})
}

// Challenge answers an open AI claim: true contests it, false trusts it.
func (s *SessionService) Challenge(ctx context.Context, gameID string, seat int, challenge bool) (*eclipse.GameState, error) {
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.RespondToChallenge(gs, pid, challenge, rng)
	})
}

// ChooseResource answers an event that lets the human pick a resource.
func (s *SessionService) ChooseResource(ctx context.Context, gameID string, seat int, resource string) (*eclipse.GameState, error) {
	res, err := eclipse.ParseResource(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.ChooseEventResource(gs, pid, res, rng)
	})
}

// Advance acknowledges the current phase and moves to the next one.
func (s *SessionService) Advance(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
	return s.apply(ctx, gameID, seat, func(gs *eclipse.GameState, _ eclipse.PlayerID, rng eclipse.Rand) (*eclipse.GameState, error) {
		return eclipse.AdvancePhase(gs, rng)
	})
}

// Delete drops a session from the cache and the queue.
func (s *SessionService) Delete(ctx context.Context, gameID string) error {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	s.scheduler.Cancel(gameID)
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		return fmt.Errorf("delete game data: %w", err)
	}
	s.gameLocks.Delete(gameID)
	log.Info().Str("gameId", gameID).Msg("Session deleted")
	return nil
}

// ExpiredChallenges returns the sessions whose challenge window closed before now.
func (s *SessionService) ExpiredChallenges(ctx context.Context) ([]string, error) {
	ids, err := s.cache.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	now := s.now()
	var out []string
	for _, id := range ids {
		sess, err := s.cache.GetSession(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Failed to read session")
			continue
		}
		if sess != nil && sess.ChallengeDeadline != nil && !now.Before(*sess.ChallengeDeadline) {
			out = append(out, id)
		}
	}
	return out, nil
}

// RecoverSessions requeues timers and AI work for every cached session.
// Called on server startup since the scheduler does not survive a restart.
func (s *SessionService) RecoverSessions(ctx context.Context) error {
	ids, err := s.cache.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(ids) == 0 {
		log.Info().Msg("No live sessions to recover")
		return nil
	}
	log.Info().Int("count", len(ids)).Msg("Recovering live sessions after restart")

	now := s.now()
	for _, id := range ids {
		sess, gs, err := s.load(ctx, id)
		if errors.Is(err, ErrGameNotFound) {
			log.Warn().Str("gameId", id).Msg("Live index points at an expired session, removing")
			if err := s.cache.DeleteGameData(ctx, id); err != nil {
				log.Error().Err(err).Str("gameId", id).Msg("Failed to remove stale session")
			}
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("gameId", id).Msg("Failed to load session during recovery")
			continue
		}
		if gs.IsOver() {
			continue
		}
		if gs.PendingChallenge != nil {
			deadline := now
			if sess.ChallengeDeadline != nil {
				deadline = *sess.ChallengeDeadline
			}
			s.scheduler.Schedule(Task{Due: deadline, GameID: id, Kind: TaskChallenge})
			log.Info().Str("gameId", id).Time("deadline", deadline).Msg("Restored challenge window")
			continue
		}
		if AIReady(gs) {
			s.scheduler.Schedule(Task{Due: now, GameID: id, Kind: TaskAIStep})
		}
	}
	return nil
}
