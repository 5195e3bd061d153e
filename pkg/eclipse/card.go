package eclipse

import "fmt"

// Scope selects who an effect lands on.
type Scope string

const (
	ScopeSelf  Scope = "self"
	ScopeAll   Scope = "all"
	ScopeEnemy Scope = "enemy"
)

// Effect is the closed set of things an event card can do.
// Every variant is handled in applyEffect; there is no fallback branch.
type Effect interface {
	effect()
	Describe() string
}

// ResourceGain grants a fixed bundle. When Choice > 0 the recipient instead
// picks one common resource and receives Choice units of it.
type ResourceGain struct {
	Grant  Resources
	Choice int
}

// ResourceLoss removes Amount of Resource from the scoped players.
type ResourceLoss struct {
	Resource Resource
	Amount   int
	Scope    Scope
}

// FortifyRemove destroys one fortification somewhere on the map.
type FortifyRemove struct{}

// CombatBonus adds attack strength for the round.
type CombatBonus struct {
	Amount int
}

// BlockAttack forbids attacking for the round.
type BlockAttack struct{}

// PassiveIncome adds +1 Grain and +1 Gold at the next Income.
type PassiveIncome struct{}

// DoubleAction lets a player who pays GoldCost act twice in a row once.
type DoubleAction struct {
	GoldCost int
}

// GrantRelicPower equips a relic power, replacing any power already held.
type GrantRelicPower struct {
	Power RelicPower
}

func (ResourceGain) effect()    {}
func (ResourceLoss) effect()    {}
func (FortifyRemove) effect()   {}
func (CombatBonus) effect()     {}
func (BlockAttack) effect()     {}
func (PassiveIncome) effect()   {}
func (DoubleAction) effect()    {}
func (GrantRelicPower) effect() {}

func (e ResourceGain) Describe() string {
	if e.Choice > 0 {
		return fmt.Sprintf("gain %d of a chosen resource", e.Choice)
	}
	return "gain " + describeBundle(e.Grant)
}

func (e ResourceLoss) Describe() string {
	who := "you lose"
	switch e.Scope {
	case ScopeAll:
		who = "everyone loses"
	case ScopeEnemy:
		who = "a rival loses"
	}
	return fmt.Sprintf("%s %d %s", who, e.Amount, e.Resource)
}

func (FortifyRemove) Describe() string { return "destroy 1 fortification" }
func (e CombatBonus) Describe() string { return fmt.Sprintf("+%d combat strength", e.Amount) }
func (BlockAttack) Describe() string   { return "attacks blocked" }
func (PassiveIncome) Describe() string { return "passive income next round" }
func (e DoubleAction) Describe() string {
	return fmt.Sprintf("double action (cost %d gold)", e.GoldCost)
}
func (e GrantRelicPower) Describe() string {
	return "gain " + e.Power.Title()
}

func describeBundle(r Resources) string {
	out := ""
	for _, res := range AllResources() {
		if n := r.Get(res); n > 0 {
			if out != "" {
				out += ", "
			}
			out += fmt.Sprintf("%d %s", n, res)
		}
	}
	if out == "" {
		return "nothing"
	}
	return out
}

// mapWide reports whether an effect targets the board rather than a player,
// so a global application must happen once instead of per player.
func mapWide(e Effect) bool {
	switch e.(type) {
	case FortifyRemove:
		return true
	}
	return false
}

// EventCard has a normal side, applied in the Events phase and on ruin scavenges,
// and a relic side, applied when a relic site is found or unveiled.
type EventCard struct {
	ID     string
	Title  string
	Normal Effect
	Relic  Effect
}

// DefaultEventCardID is drawn when both the deck and the discard pile are empty.
const DefaultEventCardID = "e0"

var defaultEventCard = EventCard{
	ID:     DefaultEventCardID,
	Title:  "Quiet Skies",
	Normal: ResourceGain{Grant: Resources{Grain: 1}},
	Relic:  PassiveIncome{},
}

var eventCards = []EventCard{
	{ID: "e1", Title: "Supply Drop", Normal: ResourceGain{Choice: 2}, Relic: ResourceGain{Grant: Resources{Grain: 4}}},
	{ID: "e2", Title: "Bandit Raid", Normal: ResourceLoss{Resource: Gold, Amount: 1, Scope: ScopeSelf}, Relic: ResourceLoss{Resource: Gold, Amount: 2, Scope: ScopeEnemy}},
	{ID: "e3", Title: "Blessing of Prosperity", Normal: ResourceGain{Grant: Resources{Grain: 1, Stone: 1}}, Relic: GrantRelicPower{Power: PowerPassiveIncome}},
	{ID: "e4", Title: "Earthquake", Normal: FortifyRemove{}, Relic: GrantRelicPower{Power: PowerFreeFortify}},
	{ID: "e5", Title: "Sudden Reinforcements", Normal: CombatBonus{Amount: 1}, Relic: GrantRelicPower{Power: PowerWarlord}},
	{ID: "e6", Title: "Merchant Windfall", Normal: ResourceGain{Grant: Resources{Gold: 2}}, Relic: GrantRelicPower{Power: PowerTradeBaron}},
	{ID: "e99", Title: "Fog of War", Normal: BlockAttack{}, Relic: GrantRelicPower{Power: PowerFreeFortify}},
	{ID: "e98", Title: "Diplomatic Envoys", Normal: CombatBonus{Amount: 1}, Relic: GrantRelicPower{Power: PowerWarlord}},
	{ID: "e9", Title: "Forced March", Normal: DoubleAction{GoldCost: 2}, Relic: GrantRelicPower{Power: PowerDoubleTime}},
	{ID: "e8", Title: "Golden Age", Normal: ResourceGain{Grant: Resources{Gold: 2}}, Relic: GrantRelicPower{Power: PowerTradeBaron}},
}

// EventCardIDs returns the ids of the full event deck.
func EventCardIDs() []string {
	ids := make([]string, len(eventCards))
	for i, c := range eventCards {
		ids[i] = c.ID
	}
	return ids
}

// EventCardByID looks up a card definition. The default card is always found.
func EventCardByID(id string) (EventCard, bool) {
	if id == DefaultEventCardID {
		return defaultEventCard, true
	}
	for _, c := range eventCards {
		if c.ID == id {
			return c, true
		}
	}
	return EventCard{}, false
}

func mustEventCard(id string) EventCard {
	if c, ok := EventCardByID(id); ok {
		return c
	}
	return defaultEventCard
}
