package eclipse

import "fmt"

// Objective is a scoring goal. Secret objectives score only for their holder;
// public objectives score for every player who meets them.
type Objective struct {
	ID          string
	Name        string
	Description string
	VP          int
	rule        rule
}

type rule struct {
	met      func(gs *GameState, p *Player) bool
	progress func(gs *GameState, p *Player) string
}

// Met reports whether p currently satisfies the objective.
func (o Objective) Met(gs *GameState, p *Player) bool {
	return o.rule.met(gs, p)
}

// Progress is a short status string such as "2/3".
func (o Objective) Progress(gs *GameState, p *Player) string {
	return o.rule.progress(gs, p)
}

func atLeast(n int, count func(gs *GameState, p *Player) int) rule {
	return rule{
		met:      func(gs *GameState, p *Player) bool { return count(gs, p) >= n },
		progress: func(gs *GameState, p *Player) string { return fmt.Sprintf("%d/%d", count(gs, p), n) },
	}
}

func noneOf(okText string, count func(p *Player) int) rule {
	return rule{
		met: func(_ *GameState, p *Player) bool { return count(p) == 0 },
		progress: func(_ *GameState, p *Player) string {
			if count(p) == 0 {
				return okText
			}
			return "Failed"
		},
	}
}

func holding(res Resource) func(*GameState, *Player) int {
	return func(_ *GameState, p *Player) int { return p.Resources.Get(res) }
}

var objectives = []Objective{
	{"o1", "Keeper of the Harvest", "Control 3 Plains", 3,
		atLeast(3, func(gs *GameState, p *Player) int { return gs.CountTiles(p.ID, Plains) })},
	{"o2", "Master of the Forge", "Collect 5 Stone", 2, atLeast(5, holding(Stone))},
	{"o3", "Warlord's Dominion", "Win 3 Battles", 3,
		atLeast(3, func(_ *GameState, p *Player) int { return p.Stats.BattlesWon })},
	{"o4", "Architect of Ages", "Build 3 Forts", 3,
		atLeast(3, func(gs *GameState, p *Player) int { return gs.FortCount(p.ID) })},
	{"o5", "Merchant Prince", "Hold 12 Resources", 3,
		atLeast(12, func(_ *GameState, p *Player) int { return p.Resources.Total() })},
	{"o6", "Treasurer of Empires", "Hold 6 Gold", 2, atLeast(6, holding(Gold))},
	{"o7", "Reaver of Realms", "Attack 2 different players", 4,
		atLeast(2, func(_ *GameState, p *Player) int { return len(p.Stats.RivalsAttacked) })},
	{"o8", "Shadow Empire", "Lose 0 tiles", 4, noneOf("Safe", func(p *Player) int { return p.Stats.TilesLost })},
	{"o9", "Silent Pactkeeper", "Make 0 Attacks", 3, noneOf("Peaceful", func(p *Player) int { return p.Stats.AttacksMade })},
	{"o10", "Pathfinder's Legacy", "Reveal 5 Tiles", 3,
		atLeast(5, func(_ *GameState, p *Player) int { return p.Stats.TilesRevealed })},
	{"o11", "Relic Hoarder", "Hold 3 Relics", 4, atLeast(3, holding(Relic))},
	{"o12", "Prophet of the Eclipse", "Trigger 1 Relic Event", 2,
		atLeast(1, func(_ *GameState, p *Player) int { return p.Stats.RelicEventsTriggered })},
	{"o13", "Relic Cartographer", "Reveal 2 Relic Sites", 3,
		atLeast(2, func(_ *GameState, p *Player) int { return p.Stats.RelicSitesRevealed })},
}

// DefaultObjectiveID is dealt when the objective deck is fully exhausted.
const DefaultObjectiveID = "o1"

// ObjectiveIDs returns the ids of the full objective deck.
func ObjectiveIDs() []string {
	ids := make([]string, len(objectives))
	for i, o := range objectives {
		ids[i] = o.ID
	}
	return ids
}

// ObjectiveByID looks up an objective definition.
func ObjectiveByID(id string) (Objective, bool) {
	for _, o := range objectives {
		if o.ID == id {
			return o, true
		}
	}
	return Objective{}, false
}
