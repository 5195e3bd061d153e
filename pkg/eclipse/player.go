package eclipse

import "fmt"

// Role is the citizen a player commits to for one round.
type Role string

const (
	Merchant Role = "merchant"
	Builder  Role = "builder"
	Warrior  Role = "warrior"
	Explorer Role = "explorer"
)

// AllRoles returns the four selectable roles.
func AllRoles() []Role {
	return []Role{Merchant, Builder, Warrior, Explorer}
}

// ParseRole converts a wire string to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RelicPower is a permanent ability held by at most one player slot at a time.
type RelicPower string

const (
	NoPower            RelicPower = ""
	PowerPassiveIncome RelicPower = "passive_income"
	PowerTradeBaron    RelicPower = "trade_baron"
	PowerDoubleTime    RelicPower = "double_time"
	PowerFreeFortify   RelicPower = "free_fortify"
	PowerWarlord       RelicPower = "warlord"
)

// Title is the artifact name shown when the power is equipped.
func (p RelicPower) Title() string {
	switch p {
	case PowerPassiveIncome:
		return "Crown of Prosperity"
	case PowerTradeBaron:
		return "Merchant's Seal"
	case PowerDoubleTime:
		return "Hourglass of Eons"
	case PowerFreeFortify:
		return "Mason's Hammer"
	case PowerWarlord:
		return "Warlord's Banner"
	}
	return "None"
}

// Trait is an AI personality modifier fixed by faction.
type Trait string

const (
	Expansionist Trait = "Expansionist"
	Cautious     Trait = "Cautious"
	Aggressive   Trait = "Aggressive"
	Vengeful     Trait = "Vengeful"
	Greedy       Trait = "Greedy"
	Treacherous  Trait = "Treacherous"
	Paranoid     Trait = "Paranoid"
	Defensive    Trait = "Defensive"
)

// Stance is an AI's diplomatic posture toward the human. It only escalates.
type Stance string

const (
	Neutral Stance = "Neutral"
	Hostile Stance = "Hostile"
	War     Stance = "War"
)

func (s Stance) rank() int {
	switch s {
	case Hostile:
		return 1
	case War:
		return 2
	}
	return 0
}

// Escalate returns the more hostile of s and to.
func (s Stance) Escalate(to Stance) Stance {
	if to.rank() > s.rank() {
		return to
	}
	return s
}

// Faction is a seat identity. It has no rules effect beyond the AI traits it carries.
type Faction struct {
	Name   string  `json:"name"`
	Title  string  `json:"title"`
	Traits []Trait `json:"traits"`
}

var factions = []Faction{
	{Name: "Terran Republic", Title: "The United Colonies", Traits: []Trait{Expansionist, Cautious}},
	{Name: "Mars Confederacy", Title: "Red Dust Raiders", Traits: []Trait{Aggressive, Vengeful}},
	{Name: "Venusian Syndicate", Title: "Cloud City Trade", Traits: []Trait{Greedy, Treacherous}},
	{Name: "Jovian Empire", Title: "Gas Giant Kings", Traits: []Trait{Paranoid, Defensive}},
}

// Factions returns the seat identities in seat order.
func Factions() []Faction {
	out := make([]Faction, len(factions))
	copy(out, factions)
	return out
}

// Stats are lifetime counters used by objectives and post-game summaries.
type Stats struct {
	BattlesWon           int        `json:"battles_won"`
	TilesRevealed        int        `json:"tiles_revealed"`
	TilesLost            int        `json:"tiles_lost"`
	AttacksMade          int        `json:"attacks_made"`
	RivalsAttacked       []PlayerID `json:"rivals_attacked"`
	RelicEventsTriggered int        `json:"relic_events_triggered"`
	RelicSitesRevealed   int        `json:"relic_sites_revealed"`
	MaxResourcesHeld     int        `json:"max_resources_held"`
}

// HasAttacked reports whether pid is among the rivals this player has attacked.
func (s *Stats) HasAttacked(pid PlayerID) bool {
	for _, r := range s.RivalsAttacked {
		if r == pid {
			return true
		}
	}
	return false
}

func (s *Stats) recordAttack(pid PlayerID) {
	s.AttacksMade++
	if !s.HasAttacked(pid) {
		s.RivalsAttacked = append(s.RivalsAttacked, pid)
	}
}

// Status is the round-scoped record. The zero value is a fresh round.
type Status struct {
	AttackBlocked bool `json:"attack_blocked"`
	CombatBonus   int  `json:"combat_bonus"`
	FreeTrades    int  `json:"free_trades"`
	PassiveIncome bool `json:"passive_income"`
	ExtraActions  int  `json:"extra_actions"`
	TurnLost      bool `json:"turn_lost"`
}

// CanAttack reports whether no effect blocks attacking this round.
func (s Status) CanAttack() bool {
	return !s.AttackBlocked
}

func (s Status) merge(o Status) Status {
	s.AttackBlocked = s.AttackBlocked || o.AttackBlocked
	s.CombatBonus += o.CombatBonus
	s.FreeTrades += o.FreeTrades
	s.PassiveIncome = s.PassiveIncome || o.PassiveIncome
	s.ExtraActions += o.ExtraActions
	s.TurnLost = s.TurnLost || o.TurnLost
	return s
}

// AIState is the persistent psychology of a computer seat.
type AIState struct {
	Fear      int     `json:"fear"`
	Suspicion int     `json:"suspicion"`
	Stance    Stance  `json:"stance"`
	Traits    []Trait `json:"traits"`
	Dialogue  string  `json:"dialogue,omitempty"`
}

// HasTrait reports whether the AI carries trait t.
func (a *AIState) HasTrait(t Trait) bool {
	for _, x := range a.Traits {
		if x == t {
			return true
		}
	}
	return false
}

// Player is one seat at the table.
type Player struct {
	ID           PlayerID   `json:"id"`
	Name         string     `json:"name"`
	Human        bool       `json:"human"`
	Faction      Faction    `json:"faction"`
	Resources    Resources  `json:"resources"`
	RelicPower   RelicPower `json:"relic_power,omitempty"`
	Role         Role       `json:"role,omitempty"`
	VP           int        `json:"vp"`
	BonusVP      int        `json:"bonus_vp"`
	Objectives   []string   `json:"objectives"`
	Stats        Stats      `json:"stats"`
	Status       Status     `json:"status"`
	Queued       Status     `json:"queued"`
	ActionsTaken int        `json:"actions_taken"`
	HasPassed    bool       `json:"has_passed"`
	Eliminated   bool       `json:"eliminated"`
	AI           *AIState   `json:"ai,omitempty"`
}

// Active reports whether the player is still in the game.
func (p *Player) Active() bool {
	return !p.Eliminated
}

// Fatigue is the surcharge added to an action's base cost after the first action of a round.
func (p *Player) Fatigue() int {
	if p.ActionsTaken > 0 {
		return 1
	}
	return 0
}

func (p *Player) trackMaxResources() {
	if t := p.Resources.Total(); t > p.Stats.MaxResourcesHeld {
		p.Stats.MaxResourcesHeld = t
	}
}

func (p *Player) clone() *Player {
	c := *p
	c.Faction.Traits = append([]Trait(nil), p.Faction.Traits...)
	c.Objectives = append([]string(nil), p.Objectives...)
	c.Stats.RivalsAttacked = append([]PlayerID(nil), p.Stats.RivalsAttacked...)
	if p.AI != nil {
		ai := *p.AI
		ai.Traits = append([]Trait(nil), p.AI.Traits...)
		c.AI = &ai
	}
	return &c
}
