package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/internal/repository"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// ArenaConfig configures a single headless all-AI game.
type ArenaConfig struct {
	Players int                         // 2-4
	Seats   map[eclipse.PlayerID]string // seat -> strategy name
	Rules   eclipse.Rules
	Seed    uint64 // 0 = random
	DryRun  bool   // skip DB writes
}

// SeatResult is one seat's final line.
type SeatResult struct {
	Seat       eclipse.PlayerID `json:"seat"`
	Faction    string           `json:"faction"`
	Strategy   string           `json:"strategy"`
	Rank       int              `json:"rank"`
	VP         int              `json:"vp"`
	Tiles      int              `json:"tiles"`
	Eliminated bool             `json:"eliminated"`
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	MatchID   string           `json:"match_id,omitempty"`
	Seed      uint64           `json:"seed"`
	Winner    eclipse.PlayerID `json:"winner"`
	Faction   string           `json:"faction"`
	Rounds    int              `json:"rounds"`
	Steps     int              `json:"steps"`
	Standings []SeatResult     `json:"standings"`
}

// RunGame plays a full game with every seat run by a strategy. The result is
// archived to matches unless DryRun is set or matches is nil.
func RunGame(ctx context.Context, cfg ArenaConfig, matches repository.MatchRepository) (*ArenaResult, error) {
	if cfg.Players == 0 {
		cfg.Players = eclipse.MaxPlayers
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if cfg.Rules.Ruleset == "" {
		cfg.Rules = eclipse.DefaultRules()
	}
	cfg.Rules.AutoAcknowledge = true

	seats := Seats{BySeat: make(map[eclipse.PlayerID]Strategy)}
	names := make(map[eclipse.PlayerID]string)
	for i := 0; i < cfg.Players; i++ {
		pid := eclipse.PlayerID(i)
		name := cfg.Seats[pid]
		if name == "" {
			name = StrategyHeuristic
		}
		s := StrategyFor(name)
		seats.BySeat[pid] = s
		names[pid] = s.Name()
	}

	rng := eclipse.NewRand(cfg.Seed)
	started := time.Now()
	gs, err := eclipse.NewGame(eclipse.Setup{Players: cfg.Players, HumanSeat: eclipse.NoPlayer, Rules: cfg.Rules}, rng)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	steps := 0
	for !gs.IsOver() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if steps >= eclipse.MaxSteps {
			return nil, fmt.Errorf("game with seed %d did not finish within %d steps", cfg.Seed, eclipse.MaxSteps)
		}
		next, progressed, err := eclipse.Step(gs, seats, rng)
		if err != nil {
			return nil, fmt.Errorf("step %d (round %d %s): %w", steps, gs.Round, gs.Phase, err)
		}
		if !progressed {
			return nil, fmt.Errorf("game with seed %d stalled in %s", cfg.Seed, gs.Phase)
		}
		gs = next
		steps++
	}

	result := buildResult(gs, cfg.Seed, steps, names)
	log.Debug().Uint64("seed", cfg.Seed).Str("winner", result.Faction).Int("steps", steps).Msg("Arena game finished")

	if cfg.DryRun || matches == nil {
		return result, nil
	}
	m, err := MatchFromState(gs, "simulation", cfg.Seed, started)
	if err != nil {
		return nil, err
	}
	if err := matches.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("archive match: %w", err)
	}
	result.MatchID = m.ID
	return result, nil
}

func buildResult(gs *eclipse.GameState, seed uint64, steps int, names map[eclipse.PlayerID]string) *ArenaResult {
	result := &ArenaResult{Seed: seed, Winner: eclipse.NoPlayer, Rounds: gs.Round, Steps: steps}
	if w := eclipse.Winner(gs); w != nil {
		result.Winner = w.ID
		result.Faction = w.Faction.Name
	}
	for i, p := range eclipse.Standings(gs) {
		result.Standings = append(result.Standings, SeatResult{
			Seat:       p.ID,
			Faction:    p.Faction.Name,
			Strategy:   names[p.ID],
			Rank:       i + 1,
			VP:         p.VP,
			Tiles:      gs.TileCount(p.ID),
			Eliminated: p.Eliminated,
		})
	}
	return result
}

// MatchFromState converts a finished game into an archive record.
func MatchFromState(gs *eclipse.GameState, source string, seed uint64, started time.Time) (*model.Match, error) {
	state, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("marshal final state: %w", err)
	}
	humanSeat := int(eclipse.NoPlayer)
	if h := gs.Human(); h != nil {
		humanSeat = int(h.ID)
	}
	m := &model.Match{
		Source:     source,
		Seed:       seed,
		Players:    len(gs.Players),
		HumanSeat:  humanSeat,
		Ruleset:    string(gs.Rules.Ruleset),
		Difficulty: string(gs.Rules.Difficulty),
		Rounds:     gs.Round,
		WinnerSeat: int(eclipse.NoPlayer),
		FinalState: state,
		CreatedAt:  started,
		FinishedAt: time.Now(),
	}
	if w := eclipse.Winner(gs); w != nil {
		m.WinnerSeat = int(w.ID)
		m.Winner = w.Faction.Name
	}
	for i, p := range eclipse.Standings(gs) {
		m.Results = append(m.Results, model.MatchResult{
			Seat:       int(p.ID),
			Faction:    p.Faction.Name,
			Human:      p.Human,
			Rank:       i + 1,
			VP:         p.VP,
			Tiles:      gs.TileCount(p.ID),
			Eliminated: p.Eliminated,
		})
	}
	return m, nil
}
