package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// challengeRoll is how often the autopilot contests a high-value claim.
const challengeRoll = 0.5

// Intent is one request the seat's client should send.
type Intent struct {
	Path string // route suffix under /api/v1/games/{id}
	Body any
}

// Decide picks what seat should do next in the given view, or false when the
// game is waiting on someone else.
func Decide(gs *eclipse.GameState, seat eclipse.PlayerID, strategy Strategy, rng eclipse.Rand) (Intent, bool) {
	p := gs.Player(seat)
	if p == nil || !p.Active() || gs.IsOver() {
		return Intent{}, false
	}

	switch {
	case gs.PendingChallenge != nil:
		pc := gs.PendingChallenge
		contest := (pc.Declared == eclipse.Goldmine || pc.Declared == eclipse.RelicSite) && rng.Float64() < challengeRoll
		return Intent{Path: "challenge", Body: map[string]bool{"challenge": contest}}, true

	case gs.PendingDeclaration != nil:
		if gs.PendingDeclaration.Player != seat {
			return Intent{}, false
		}
		claim := eclipse.Plains
		if t := gs.Tile(gs.PendingDeclaration.TileID); t != nil && t.TrueType.Declarable() {
			claim = Bluff(t.TrueType, rng)
		}
		return Intent{Path: "declare", Body: map[string]string{"tile_type": string(claim)}}, true

	case gs.PendingChoice != nil:
		if !slices.Contains(gs.PendingChoice.Players, seat) {
			return Intent{}, false
		}
		return Intent{Path: "event-resource", Body: map[string]string{"resource": string(scarcest(p.Resources))}}, true
	}

	switch gs.Phase {
	case eclipse.PhaseCitizenChoice:
		if p.Role != "" {
			return Intent{}, false
		}
		return Intent{Path: "role", Body: map[string]string{"role": string(strategy.ChooseRole(gs, seat, rng))}}, true

	case eclipse.PhaseAction:
		cur := gs.CurrentPlayer()
		if cur == nil || cur.ID != seat {
			return Intent{}, false
		}
		plan := strategy.PlanTurn(gs, seat, rng)
		if plan.Action == nil {
			return Intent{Path: "pass"}, true
		}
		a := plan.Action
		return Intent{Path: "action", Body: map[string]string{
			"kind":     string(a.Kind),
			"target":   a.Target,
			"declared": string(a.Declared),
			"resource": string(a.Resource),
		}}, true

	case eclipse.PhaseEvents, eclipse.PhaseScoring:
		if gs.Rules.AutoAcknowledge {
			return Intent{}, false
		}
		return Intent{Path: "advance"}, true
	}
	return Intent{}, false
}

// scarcest returns the common good the stockpile holds least of.
func scarcest(r eclipse.Resources) eclipse.Resource {
	best := eclipse.Grain
	for _, res := range eclipse.CommonResources() {
		if r.Get(res) < r.Get(best) {
			best = res
		}
	}
	return best
}

// Autopilot plays the human seat of a live server game through the public API.
type Autopilot struct {
	client   *Client
	strategy Strategy
	rng      eclipse.Rand
	poll     time.Duration
}

// NewAutopilot creates an Autopilot. poll bounds how long it waits for a
// WebSocket wake-up before re-reading the board.
func NewAutopilot(client *Client, strategy Strategy, seed uint64, poll time.Duration) *Autopilot {
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Autopilot{client: client, strategy: strategy, rng: eclipse.NewRand(seed), poll: poll}
}

// Run creates a game, connects to its feed and plays until it ends. It returns
// the final view.
func (a *Autopilot) Run(ctx context.Context, req NewGameRequest) (*eclipse.GameState, error) {
	log.Info().Str("strategy", a.strategy.Name()).Int("players", req.Players).Msg("Starting autopilot game")

	gs, err := a.client.CreateGame(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	log.Info().Str("gameId", a.client.GameID()).Int("seat", int(a.client.Seat())).Msg("Game created")

	if err := a.client.ConnectWS(ctx); err != nil {
		log.Warn().Err(err).Msg("WebSocket unavailable, polling only")
	} else {
		defer a.client.CloseWS()
	}

	return a.playLoop(ctx, gs)
}

// playLoop acts whenever the seat has a decision and otherwise waits for the
// server to move the game on.
func (a *Autopilot) playLoop(ctx context.Context, gs *eclipse.GameState) (*eclipse.GameState, error) {
	rejections := 0
	for {
		if ctx.Err() != nil {
			return gs, ctx.Err()
		}
		if gs.IsOver() {
			if w := eclipse.Winner(gs); w != nil {
				log.Info().Str("gameId", a.client.GameID()).Str("winner", w.Faction.Name).Int("vp", w.VP).Msg("Game over")
			}
			return gs, nil
		}

		intent, ok := Decide(gs, a.client.Seat(), a.strategy, a.rng)
		if !ok {
			if err := a.waitForEvent(ctx); err != nil {
				return gs, err
			}
			next, err := a.client.State(ctx)
			if err != nil {
				return gs, fmt.Errorf("refresh state: %w", err)
			}
			gs = next
			continue
		}

		next, err := a.client.Send(ctx, intent)
		var rej *RejectedError
		switch {
		case errors.As(err, &rej):
			// The view went stale or the plan was illegal; fall back to passing.
			log.Debug().Str("reason", rej.Reason).Str("path", intent.Path).Msg("Intent rejected")
			rejections++
			if rejections > 3 {
				return gs, fmt.Errorf("stuck: %w", err)
			}
			if intent.Path == "action" {
				next, err = a.client.Send(ctx, Intent{Path: "pass"})
				if err == nil {
					break
				}
			}
			if next, err = a.client.State(ctx); err != nil {
				return gs, fmt.Errorf("refresh state: %w", err)
			}
		case err != nil:
			return gs, fmt.Errorf("send %s: %w", intent.Path, err)
		default:
			rejections = 0
		}
		gs = next
	}
}

// waitForEvent blocks until the game feed says something changed or the poll
// interval elapses.
func (a *Autopilot) waitForEvent(ctx context.Context) error {
	timer := time.NewTimer(a.poll)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-a.client.Events():
		if ok {
			return nil
		}
	case <-timer.C:
		return nil
	}
	// Feed closed: fall back to the poll interval.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
