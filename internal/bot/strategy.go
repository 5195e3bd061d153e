package bot

import (
	"strconv"
	"strings"

	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// Strategy drives a computer seat through role picks and turns.
type Strategy interface {
	eclipse.Policy
	Name() string
}

// Strategy names accepted by StrategyFor.
const (
	StrategyHeuristic = "heuristic"
	StrategyRandom    = "random"
	StrategyPassive   = "passive"
)

// StrategyFor returns the strategy with the given name. Game difficulties
// ("normal", "hard") and unknown names map to the heuristic player; difficulty
// itself is applied by the engine rules.
func StrategyFor(name string) Strategy {
	switch name {
	case StrategyRandom:
		return RandomStrategy{}
	case StrategyPassive:
		return PassiveStrategy{}
	default:
		return HeuristicStrategy{}
	}
}

// StrategyForDifficulty returns the strategy for a game difficulty.
func StrategyForDifficulty(d eclipse.Difficulty) Strategy {
	return StrategyFor(string(d))
}

// Seats dispatches each seat to its own strategy. Seats without an entry use Default.
type Seats struct {
	BySeat  map[eclipse.PlayerID]Strategy
	Default Strategy
}

func (s Seats) strategy(pid eclipse.PlayerID) Strategy {
	if st, ok := s.BySeat[pid]; ok && st != nil {
		return st
	}
	if s.Default != nil {
		return s.Default
	}
	return HeuristicStrategy{}
}

func (s Seats) ChooseRole(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) eclipse.Role {
	return s.strategy(pid).ChooseRole(gs, pid, rng)
}

func (s Seats) PlanTurn(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) eclipse.TurnPlan {
	return s.strategy(pid).PlanTurn(gs, pid, rng)
}

// ParseSeatConfig parses "0=random,2=passive,*=heuristic" into per-seat strategy
// names for a table of n seats. Unlisted seats get the "*" entry, or heuristic.
func ParseSeatConfig(s string, n int) map[eclipse.PlayerID]string {
	cfg := make(map[eclipse.PlayerID]string)
	def := StrategyHeuristic
	for _, part := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		if key == "*" {
			def = val
			continue
		}
		if seat, err := strconv.Atoi(key); err == nil && seat >= 0 && seat < n {
			cfg[eclipse.PlayerID(seat)] = val
		}
	}
	for i := 0; i < n; i++ {
		if _, ok := cfg[eclipse.PlayerID(i)]; !ok {
			cfg[eclipse.PlayerID(i)] = def
		}
	}
	return cfg
}

// --- PassiveStrategy ---

// PassiveStrategy always picks Explorer and passes every turn.
type PassiveStrategy struct{}

func (PassiveStrategy) Name() string { return "passive" }

func (PassiveStrategy) ChooseRole(*eclipse.GameState, eclipse.PlayerID, eclipse.Rand) eclipse.Role {
	return eclipse.Explorer
}

func (PassiveStrategy) PlanTurn(*eclipse.GameState, eclipse.PlayerID, eclipse.Rand) eclipse.TurnPlan {
	return eclipse.TurnPlan{}
}

// --- RandomStrategy ---

// RandomStrategy picks a random role and a random legal action, passing about
// a fifth of the time.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) ChooseRole(_ *eclipse.GameState, _ eclipse.PlayerID, rng eclipse.Rand) eclipse.Role {
	roles := eclipse.AllRoles()
	return roles[rng.Intn(len(roles))]
}

// PlanTurn enumerates every legal action and picks one uniformly.
func (RandomStrategy) PlanTurn(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) eclipse.TurnPlan {
	if rng.Float64() < 0.2 {
		return eclipse.TurnPlan{}
	}
	legal := LegalActions(gs, pid, rng)
	if len(legal) == 0 {
		return eclipse.TurnPlan{}
	}
	a := legal[rng.Intn(len(legal))]
	return eclipse.TurnPlan{Action: &a}
}

// LegalActions lists every action pid may take right now. Explore claims carry
// a random declaration.
func LegalActions(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) []eclipse.Action {
	var candidates []eclipse.Action
	candidates = append(candidates,
		eclipse.Action{Kind: eclipse.ActionTrade},
		eclipse.Action{Kind: eclipse.ActionMarket, Resource: eclipse.Gold},
		eclipse.Action{Kind: eclipse.ActionMarket, Resource: eclipse.Stone},
	)
	declarable := eclipse.DeclarableTypes()
	for _, id := range gs.TileIDs {
		candidates = append(candidates,
			eclipse.Action{Kind: eclipse.ActionFortify, Target: id},
			eclipse.Action{Kind: eclipse.ActionAttack, Target: id},
			eclipse.Action{Kind: eclipse.ActionUnveil, Target: id},
			eclipse.Action{Kind: eclipse.ActionExplore, Target: id, Declared: declarable[rng.Intn(len(declarable))]},
		)
	}
	var out []eclipse.Action
	for _, a := range candidates {
		if eclipse.ValidateAction(gs, pid, a) == nil {
			out = append(out, a)
		}
	}
	return out
}
