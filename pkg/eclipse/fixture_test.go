package eclipse

import "testing"

var capitalCoords = []HexCoord{{Q: 0, R: 0}, {Q: 2, R: -2}, {Q: -2, R: 2}, {Q: -2, R: 0}}

// fixture builds a 5x5 all-plains board in the Action phase with capitals at
// capitalCoords and the turn order in seat order.
func fixture(t *testing.T, players int, human PlayerID) *GameState {
	t.Helper()
	tiles, ids := GenerateBoard(5, &FixedRand{})
	for _, tile := range tiles {
		tile.TrueType = Plains
		tile.PublicType = Plains
	}
	gs := &GameState{
		Phase:            PhaseAction,
		Round:            1,
		Rules:            DefaultRules(),
		BoardSize:        5,
		Tiles:            tiles,
		TileIDs:          ids,
		PassOrder:        []PlayerID{},
		PublicObjectives: []string{},
		EventDeck:        Deck{Cards: EventCardIDs(), Discard: []string{}},
		ObjectiveDeck:    Deck{Cards: ObjectiveIDs()[1:], Discard: []string{}},
	}
	fs := Factions()
	for i := 0; i < players; i++ {
		pid := PlayerID(i)
		p := &Player{
			ID:         pid,
			Name:       fs[i].Name,
			Human:      pid == human,
			Faction:    fs[i],
			Resources:  Resources{Grain: 3, Stone: 3, Gold: 3},
			Objectives: []string{"o1"},
			Role:       Explorer,
		}
		if !p.Human {
			p.AI = &AIState{Stance: Neutral}
		}
		c := gs.TileAt(capitalCoords[i])
		c.TrueType = Capital
		c.PublicType = Capital
		c.Revealed = true
		c.Owner = pid
		c.DeclaredBy = pid
		gs.Players = append(gs.Players, p)
		gs.TurnOrder = append(gs.TurnOrder, pid)
	}
	return gs
}

func tileAt(gs *GameState, q, r int) *Tile {
	return gs.TileAt(HexCoord{Q: q, R: r})
}

// assertInvariants checks the rules that must hold after every transition.
func assertInvariants(t *testing.T, gs *GameState) {
	t.Helper()
	for _, p := range gs.Players {
		for _, res := range AllResources() {
			if p.Resources.Get(res) < 0 {
				t.Fatalf("%s holds negative %s: %d", p.Name, res, p.Resources.Get(res))
			}
		}
		if p.Eliminated && !p.HasPassed {
			t.Fatalf("%s is eliminated but has not passed", p.Name)
		}
	}
	for _, id := range gs.TileIDs {
		tile := gs.Tiles[id]
		if tile.Fort != nil && !tile.Owned() {
			t.Fatalf("tile %s is fortified but unowned", id)
		}
		if tile.Revealed && tile.IsBluffed() {
			t.Fatalf("tile %s is revealed but public type %s != true type %s", id, tile.PublicType, tile.TrueType)
		}
		if tile.Owned() && tile.IsBluffed() && tile.DeclaredBy != tile.Owner {
			t.Fatalf("tile %s is bluffed but was not declared by its owner", id)
		}
	}
	if got := gs.EventDeck.Total(); got != len(eventCards) {
		t.Fatalf("event deck + discard = %d, want %d", got, len(eventCards))
	}
}
