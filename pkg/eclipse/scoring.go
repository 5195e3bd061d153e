package eclipse

import "sort"

// RelicTokenVP is the score of each Relic held.
const RelicTokenVP = 2

// ScoreBreakdown itemizes a player's victory points.
type ScoreBreakdown struct {
	Tiles  int `json:"tiles"`
	Forts  int `json:"forts"`
	Relics int `json:"relics"`
	Secret int `json:"secret"`
	Public int `json:"public"`
	Bonus  int `json:"bonus"`
	Total  int `json:"total"`
}

// Score computes p's victory points from the map and its holdings.
func Score(gs *GameState, p *Player) ScoreBreakdown {
	var b ScoreBreakdown
	for _, t := range gs.Tiles {
		if t.Owner == p.ID {
			b.Tiles += t.TrueType.BaseVP()
		}
		if t.Fort != nil && t.Fort.Owner == p.ID {
			b.Forts++
		}
	}
	b.Relics = p.Resources.Relic * RelicTokenVP
	for _, id := range p.Objectives {
		if o, ok := ObjectiveByID(id); ok && o.Met(gs, p) {
			b.Secret += o.VP
		}
	}
	for _, id := range gs.PublicObjectives {
		if o, ok := ObjectiveByID(id); ok && o.Met(gs, p) {
			b.Public += o.VP
		}
	}
	b.Bonus = p.BonusVP
	b.Total = b.Tiles + b.Forts + b.Relics + b.Secret + b.Public + b.Bonus
	if b.Total < 0 {
		b.Total = 0
	}
	return b
}

// ScoreAll recomputes every player's VP from scratch.
func ScoreAll(gs *GameState) {
	for _, p := range gs.Players {
		p.VP = Score(gs, p).Total
	}
}

// Standings returns players ordered by VP, then tiles held, then seat.
func Standings(gs *GameState) []*Player {
	out := append([]*Player(nil), gs.Players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].VP != out[j].VP {
			return out[i].VP > out[j].VP
		}
		ti, tj := gs.TileCount(out[i].ID), gs.TileCount(out[j].ID)
		if ti != tj {
			return ti > tj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Winner returns the leader by Standings, or nil in an empty game.
func Winner(gs *GameState) *Player {
	s := Standings(gs)
	if len(s) == 0 {
		return nil
	}
	return s[0]
}
