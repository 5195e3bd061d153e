package bot

import "github.com/freeeve/relic-eclipse/pkg/eclipse"

// Probability knobs for the heuristic player.
const (
	roleRoll     = 0.4
	unveilRoll   = 0.7
	vengeRoll    = 0.3
	scavengeRoll = 0.4
	bluffChance  = 0.4
)

// HeuristicStrategy plays a computer seat with fixed priorities: keep enough
// grain to act, cash in hidden relics, then do what the chosen role is for.
// Its psychology toward the rival seat shapes whom it attacks and what it says.
type HeuristicStrategy struct{}

func (HeuristicStrategy) Name() string { return "heuristic" }

// ChooseRole picks a role from current stock. Round one always explores.
func (HeuristicStrategy) ChooseRole(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) eclipse.Role {
	p := gs.Player(pid)
	if p == nil || gs.Round == 1 {
		return eclipse.Explorer
	}
	r := p.Resources
	switch {
	case r.Grain < 1 && r.Gold < 2:
		return eclipse.Merchant
	case r.Stone >= 2 && rng.Float64() > roleRoll:
		return eclipse.Builder
	case r.Grain >= 2 && rng.Float64() > roleRoll:
		return eclipse.Warrior
	}
	return eclipse.Explorer
}

// PlanTurn updates the seat's psychology and picks the first feasible action.
func (h HeuristicStrategy) PlanTurn(gs *eclipse.GameState, pid eclipse.PlayerID, rng eclipse.Rand) eclipse.TurnPlan {
	p := gs.Player(pid)
	if p == nil {
		return eclipse.TurnPlan{}
	}
	var plan eclipse.TurnPlan
	if p.AI != nil {
		mood := UpdateMind(gs, pid)
		line := Dialogue(p.AI, mood, p.Role, rng)
		if line != "" {
			mood.Mind.Dialogue = line
		}
		plan.Mind = &mood.Mind
		plan.Dialogue = line
		plan.Action = h.chooseAction(gs, p, &mood, rng)
		return plan
	}
	plan.Action = h.chooseAction(gs, p, &Mood{Rival: Rival(gs, pid)}, rng)
	return plan
}

func (h HeuristicStrategy) chooseAction(gs *eclipse.GameState, p *eclipse.Player, mood *Mood, rng eclipse.Rand) *eclipse.Action {
	try := func(a eclipse.Action) *eclipse.Action {
		if eclipse.ValidateAction(gs, p.ID, a) != nil {
			return nil
		}
		return &a
	}

	if p.Resources.Grain < grainNeeded(p) {
		for _, res := range []eclipse.Resource{eclipse.Gold, eclipse.Stone} {
			if a := try(eclipse.Action{Kind: eclipse.ActionMarket, Resource: res}); a != nil {
				return a
			}
		}
	}

	if hidden := hiddenRelics(gs, p.ID); len(hidden) > 0 && rng.Float64() > unveilRoll {
		if a := try(eclipse.Action{Kind: eclipse.ActionUnveil, Target: hidden[0].ID}); a != nil {
			return a
		}
	}

	if p.Role == eclipse.Merchant || p.Resources.Grain > gs.Rules.SurplusTradeGrain {
		if a := try(eclipse.Action{Kind: eclipse.ActionTrade}); a != nil {
			return a
		}
	}

	switch p.Role {
	case eclipse.Builder:
		var open []*eclipse.Tile
		for _, t := range gs.OwnedTiles(p.ID) {
			if t.Fort == nil {
				open = append(open, t)
			}
		}
		if len(open) > 0 {
			return try(eclipse.Action{Kind: eclipse.ActionFortify, Target: open[rng.Intn(len(open))].ID})
		}
	case eclipse.Warrior:
		if t := h.attackTarget(gs, p, mood, rng); t != nil {
			return try(eclipse.Action{Kind: eclipse.ActionAttack, Target: t.ID})
		}
	case eclipse.Explorer:
		return h.explore(gs, p, rng, try)
	}
	return nil
}

// grainNeeded is the grain the seat's role spends per action, fatigue included.
func grainNeeded(p *eclipse.Player) int {
	switch p.Role {
	case eclipse.Warrior, eclipse.Explorer:
		return 1 + p.Fatigue()
	}
	return 0
}

func hiddenRelics(gs *eclipse.GameState, pid eclipse.PlayerID) []*eclipse.Tile {
	var out []*eclipse.Tile
	for _, t := range gs.OwnedTiles(pid) {
		if t.TrueType == eclipse.RelicSite && t.PublicType != eclipse.RelicSite {
			out = append(out, t)
		}
	}
	return out
}

// attackTarget picks a bordering rival tile, preferring the rival seat's tiles
// when at war with it or when vengeance wins the roll.
func (HeuristicStrategy) attackTarget(gs *eclipse.GameState, p *eclipse.Player, mood *Mood, rng eclipse.Rand) *eclipse.Tile {
	if !p.Status.CanAttack() {
		return nil
	}
	enemies := gs.EnemyBorder(p.ID)
	if len(enemies) == 0 {
		return nil
	}
	if mood.Rival != nil {
		var focus []*eclipse.Tile
		for _, t := range enemies {
			if t.Owner == mood.Rival.ID {
				focus = append(focus, t)
			}
		}
		atWar := mood.Mind.Stance == eclipse.War
		vengeful := mood.Mind.HasTrait(eclipse.Vengeful) && rng.Float64() > vengeRoll
		if len(focus) > 0 && (atWar || vengeful) {
			return focus[rng.Intn(len(focus))]
		}
	}
	return enemies[rng.Intn(len(enemies))]
}

func (HeuristicStrategy) explore(gs *eclipse.GameState, p *eclipse.Player, rng eclipse.Rand, try func(eclipse.Action) *eclipse.Action) *eclipse.Action {
	frontier := gs.Frontier(p.ID)
	var ruins, open []*eclipse.Tile
	for _, t := range frontier {
		if t.TrueType == eclipse.Ruins {
			ruins = append(ruins, t)
		} else {
			open = append(open, t)
		}
	}
	if len(ruins) > 0 && rng.Float64() > scavengeRoll {
		if a := try(eclipse.Action{Kind: eclipse.ActionExplore, Target: ruins[0].ID}); a != nil {
			return a
		}
	}
	if len(open) == 0 {
		return nil
	}
	t := open[rng.Intn(len(open))]
	return try(eclipse.Action{Kind: eclipse.ActionExplore, Target: t.ID, Declared: Bluff(t.TrueType, rng)})
}

// Bluff returns what an AI announces for a tile of the given type. Plains and
// mountains are sometimes passed off as a goldmine or relic site. Fogged or
// otherwise undeclarable terrain yields "", leaving the declaration for later.
func Bluff(real eclipse.TileType, rng eclipse.Rand) eclipse.TileType {
	if !real.Declarable() {
		return ""
	}
	if (real == eclipse.Plains || real == eclipse.Mountains) && rng.Float64() < bluffChance {
		if rng.Float64() > 0.5 {
			return eclipse.Goldmine
		}
		return eclipse.RelicSite
	}
	return real
}
