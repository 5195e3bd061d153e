package eclipse

import "fmt"

// ActionKind enumerates what a player can do on their turn.
type ActionKind string

const (
	ActionTrade   ActionKind = "trade"
	ActionFortify ActionKind = "fortify"
	ActionAttack  ActionKind = "attack"
	ActionExplore ActionKind = "explore"
	ActionUnveil  ActionKind = "unveil"
	ActionMarket  ActionKind = "market"
)

// ParseActionKind converts a wire string to an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionTrade, ActionFortify, ActionAttack, ActionExplore, ActionUnveil, ActionMarket:
		return ActionKind(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Action is one player intent during the Action phase. Target is a tile id.
// Declared is the announced type for an explore claim; Resource is what an
// emergency market trade spends.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Target   string     `json:"target,omitempty"`
	Declared TileType   `json:"declared,omitempty"`
	Resource Resource   `json:"resource,omitempty"`
}

// Cost is the price of one action.
type Cost struct {
	Resource Resource
	Amount   int
	Free     bool
}

var baseCosts = map[ActionKind]Cost{
	ActionTrade:   {Resource: Grain, Amount: 2},
	ActionFortify: {Resource: Stone, Amount: 2},
	ActionAttack:  {Resource: Grain, Amount: 1},
	ActionExplore: {Resource: Grain, Amount: 1},
}

// ActionCost returns what p would pay for kind right now, including fatigue and
// any free use granted by status or relic power.
func ActionCost(p *Player, kind ActionKind) Cost {
	switch kind {
	case ActionUnveil:
		return Cost{Free: true}
	case ActionMarket:
		return Cost{Amount: 3}
	case ActionTrade:
		if p.Status.FreeTrades > 0 {
			return Cost{Resource: Grain, Free: true}
		}
	case ActionFortify:
		if p.RelicPower == PowerFreeFortify && p.ActionsTaken == 0 {
			return Cost{Resource: Stone, Free: true}
		}
	}
	c, ok := baseCosts[kind]
	if !ok {
		return Cost{}
	}
	c.Amount += p.Fatigue()
	return c
}

func (c Cost) affordable(p *Player) bool {
	return c.Free || p.Resources.Get(c.Resource) >= c.Amount
}

func (c Cost) pay(p *Player) {
	if !c.Free {
		p.Resources.Take(c.Resource, c.Amount)
	}
}

// RequiredRole returns the role an action needs, or "" if any role may take it.
func RequiredRole(kind ActionKind) Role {
	switch kind {
	case ActionTrade:
		return Merchant
	case ActionFortify:
		return Builder
	case ActionAttack:
		return Warrior
	case ActionExplore:
		return Explorer
	}
	return ""
}

// CanUse reports whether p's role permits kind. Trade is also open to anyone
// holding more Grain than the surplus threshold.
func CanUse(gs *GameState, p *Player, kind ActionKind) bool {
	need := RequiredRole(kind)
	if need == "" || p.Role == need {
		return true
	}
	return kind == ActionTrade && p.Resources.Grain > gs.Rules.SurplusTradeGrain
}

// ValidateAction checks an intent without applying it.
func ValidateAction(gs *GameState, pid PlayerID, a Action) error {
	p, err := checkTurn(gs, pid)
	if err != nil {
		return err
	}
	if _, err := ParseActionKind(string(a.Kind)); err != nil {
		return reject(ReasonInvalidPayload, "%v", err)
	}
	if !CanUse(gs, p, a.Kind) {
		return reject(ReasonRoleRequired, "%s requires the %s role", a.Kind, RequiredRole(a.Kind))
	}

	cost := ActionCost(p, a.Kind)
	switch a.Kind {
	case ActionMarket:
		if a.Resource != Stone && a.Resource != Gold {
			return reject(ReasonInvalidPayload, "market accepts stone or gold, not %q", a.Resource)
		}
		cost.Resource = a.Resource
		cost.Amount = gs.Rules.Tuning.MarketRate
	case ActionFortify:
		t := gs.Tile(a.Target)
		if t == nil {
			return reject(ReasonIllegalTarget, "no tile %q", a.Target)
		}
		if t.Owner != pid {
			return reject(ReasonWrongOwner, "%s does not own %s", p.Name, t.Label())
		}
		if t.Fort != nil {
			return reject(ReasonAlreadyFortified, "%s is already fortified", t.Label())
		}
	case ActionAttack:
		if !p.Status.CanAttack() {
			return reject(ReasonAttackBlocked, "attacks are blocked this round")
		}
		t := gs.Tile(a.Target)
		if t == nil {
			return reject(ReasonIllegalTarget, "no tile %q", a.Target)
		}
		if !t.Owned() || t.Owner == pid {
			return reject(ReasonWrongOwner, "%s is not held by a rival", t.Label())
		}
		if !gs.AdjacentToOwned(t.ID, pid) {
			return reject(ReasonNotAdjacent, "%s does not border %s's territory", t.Label(), p.Name)
		}
	case ActionExplore:
		t := gs.Tile(a.Target)
		if t == nil {
			return reject(ReasonIllegalTarget, "no tile %q", a.Target)
		}
		if t.Owned() {
			return reject(ReasonIllegalTarget, "%s is already claimed", t.Label())
		}
		if !gs.AdjacentToOwned(t.ID, pid) {
			return reject(ReasonNotAdjacent, "%s does not border %s's territory", t.Label(), p.Name)
		}
		if a.Declared != "" && !a.Declared.Declarable() {
			return reject(ReasonInvalidPayload, "cannot declare a tile as %q", a.Declared)
		}
	case ActionUnveil:
		t := gs.Tile(a.Target)
		if t == nil {
			return reject(ReasonIllegalTarget, "no tile %q", a.Target)
		}
		if t.Owner != pid {
			return reject(ReasonWrongOwner, "%s does not own %s", p.Name, t.Label())
		}
		if t.TrueType != RelicSite || t.PublicType == RelicSite {
			return reject(ReasonIllegalTarget, "%s holds no hidden relic", t.Label())
		}
	}
	if !cost.affordable(p) {
		return reject(ReasonInsufficient, "%s needs %d %s", a.Kind, cost.Amount, cost.Resource)
	}
	return nil
}

// PerformAction resolves one action for the current player and advances the turn,
// unless the action opens a declaration, challenge window, or resource choice.
func PerformAction(gs *GameState, pid PlayerID, a Action, rng Rand) (*GameState, error) {
	if err := ValidateAction(gs, pid, a); err != nil {
		return nil, err
	}
	ns := gs.Clone()
	p := ns.Players[pid]
	switch a.Kind {
	case ActionTrade:
		doTrade(ns, p)
	case ActionFortify:
		doFortify(ns, p, ns.Tiles[a.Target])
	case ActionAttack:
		cost := ActionCost(p, ActionAttack)
		cost.pay(p)
		resolveAttack(ns, p, ns.Tiles[a.Target], rng)
	case ActionMarket:
		p.Resources.Take(a.Resource, ns.Rules.Tuning.MarketRate)
		p.Resources.Add(Grain, 1)
		ns.actorLogf(LogInfo, pid, "%s buys emergency rations (%d %s -> 1 grain).", p.Name, ns.Rules.Tuning.MarketRate, a.Resource)
	case ActionUnveil:
		unveil(ns, p, ns.Tiles[a.Target], rng)
	case ActionExplore:
		t := ns.Tiles[a.Target]
		if t.TrueType == Ruins {
			if scavenge(ns, p, t, rng) {
				return ns, nil
			}
			break
		}
		if a.Declared == "" {
			if p.Human {
				ns.PendingDeclaration = &PendingDeclaration{Player: pid, TileID: t.ID}
				return ns, nil
			}
			a.Declared = t.TrueType
		}
		claim(ns, p, t, a.Declared, rng)
		return ns, nil
	}
	completeTurn(ns, pid, rng)
	return ns, nil
}

func doTrade(gs *GameState, p *Player) {
	cost := ActionCost(p, ActionTrade)
	if cost.Free {
		p.Status.FreeTrades--
		p.Resources.Add(Gold, 1)
		gs.actorLogf(LogInfo, p.ID, "%s uses a free trade for 1 gold.", p.Name)
		return
	}
	cost.pay(p)
	p.Resources.Add(Gold, 1)
	gs.actorLogf(LogInfo, p.ID, "%s trades %d grain for 1 gold.", p.Name, cost.Amount)
}

func doFortify(gs *GameState, p *Player, t *Tile) {
	cost := ActionCost(p, ActionFortify)
	cost.pay(p)
	t.Fort = &Fortification{Owner: p.ID, Level: 1}
	suffix := ""
	if cost.Free {
		suffix = " (free)"
	}
	gs.actorLogf(LogInfo, p.ID, "%s fortifies %s%s.", p.Name, t.Label(), suffix)
}

// scavenge collapses a ruin into plains and resolves an event's normal side for
// the explorer. It reports whether the turn is suspended on a resource choice.
func scavenge(gs *GameState, p *Player, t *Tile, rng Rand) bool {
	ActionCost(p, ActionExplore).pay(p)
	t.TrueType = Plains
	t.Reveal()
	p.Stats.TilesRevealed++
	card := drawEvent(gs, rng)
	gs.addLog(LogEntry{
		Kind:    LogEvent,
		Actor:   seat(p.ID),
		Text:    fmt.Sprintf("%s scavenges the ruins at %s (collapsed) - %s.", p.Name, t.Label(), card.Title),
		Details: &LogDetails{Card: card.Title, TileType: Ruins},
	})
	if applyEffect(gs, p.ID, card.Normal, rng, false) {
		gs.PendingChoice = &PendingChoice{Card: card.ID, Amount: choiceAmount(card.Normal), Players: []PlayerID{p.ID}}
		return true
	}
	return false
}

// unveil publicly reveals a relic site and resolves an event's relic side.
func unveil(gs *GameState, p *Player, t *Tile, rng Rand) {
	t.Reveal()
	p.Stats.RelicSitesRevealed++
	card := drawEvent(gs, rng)
	gs.addLog(LogEntry{
		Kind:    LogEvent,
		Actor:   seat(p.ID),
		Text:    fmt.Sprintf("%s unveils a hidden relic at %s - %s.", p.Name, t.Label(), card.Title),
		Details: &LogDetails{Card: card.Title, TileType: RelicSite},
	})
	relicReward(gs, p, card, rng)
}

// relicReward applies a card's relic side to p.
func relicReward(gs *GameState, p *Player, card EventCard, rng Rand) {
	p.Stats.RelicEventsTriggered++
	applyEffect(gs, p.ID, card.Relic, rng, false)
}

// DeclareTileType completes a pending human claim with the announced type.
func DeclareTileType(gs *GameState, pid PlayerID, declared TileType, rng Rand) (*GameState, error) {
	pd := gs.PendingDeclaration
	if pd == nil {
		return nil, reject(ReasonNothingPending, "no claim awaits a declaration")
	}
	if pd.Player != pid {
		return nil, reject(ReasonNotYourTurn, "the pending claim belongs to player %d", pd.Player)
	}
	if !declared.Declarable() {
		return nil, reject(ReasonInvalidPayload, "cannot declare a tile as %q", declared)
	}
	p := gs.Players[pid]
	if !ActionCost(p, ActionExplore).affordable(p) {
		return nil, reject(ReasonInsufficient, "explore needs %d grain", ActionCost(p, ActionExplore).Amount)
	}
	ns := gs.Clone()
	t := ns.Tiles[pd.TileID]
	ns.PendingDeclaration = nil
	claim(ns, ns.Players[pid], t, declared, rng)
	return ns, nil
}

// CancelDeclaration abandons a pending claim. Nothing was paid, and the turn stays with pid.
func CancelDeclaration(gs *GameState, pid PlayerID) (*GameState, error) {
	pd := gs.PendingDeclaration
	if pd == nil {
		return nil, reject(ReasonNothingPending, "no claim awaits a declaration")
	}
	if pd.Player != pid {
		return nil, reject(ReasonNotYourTurn, "the pending claim belongs to player %d", pd.Player)
	}
	ns := gs.Clone()
	ns.PendingDeclaration = nil
	return ns, nil
}
