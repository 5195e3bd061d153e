package eclipse

import "time"

// Phase is a step of the round.
type Phase string

const (
	PhaseIncome        Phase = "income"
	PhaseCitizenChoice Phase = "citizen_choice"
	PhaseAction        Phase = "action"
	PhaseEvents        Phase = "events"
	PhaseScoring       Phase = "scoring"
	PhaseEndGame       Phase = "end_game"
)

// PendingDeclaration is a human claim waiting for the declared tile type.
type PendingDeclaration struct {
	Player PlayerID `json:"player"`
	TileID string   `json:"tile_id"`
}

// PendingChallenge is an AI claim the human may contest until Deadline on the
// game clock. Expiry means the claim is trusted.
type PendingChallenge struct {
	Declarer PlayerID      `json:"declarer"`
	TileID   string        `json:"tile_id"`
	Declared TileType      `json:"declared"`
	Deadline time.Duration `json:"deadline"`
}

// PendingChoice is an event that waits for the listed players to pick a resource.
type PendingChoice struct {
	Card    string     `json:"card"`
	Amount  int        `json:"amount"`
	Players []PlayerID `json:"players"`
}

func (c *PendingChoice) waitingOn(pid PlayerID) bool {
	for _, p := range c.Players {
		if p == pid {
			return true
		}
	}
	return false
}

// GameState is a complete snapshot of one game. Transitions never modify a
// snapshot in place; they return a new one.
type GameState struct {
	Phase     Phase      `json:"phase"`
	Round     int        `json:"round"`
	Rules     Rules      `json:"rules"`
	Players   []*Player  `json:"players"`
	TurnOrder []PlayerID `json:"turn_order"`
	TurnIndex int        `json:"turn_index"`
	PassOrder []PlayerID `json:"pass_order"`

	BoardSize int              `json:"board_size"`
	Tiles     map[string]*Tile `json:"tiles"`
	TileIDs   []string         `json:"tile_ids"`

	Log []LogEntry `json:"log"`

	PendingDeclaration *PendingDeclaration `json:"pending_declaration,omitempty"`
	PendingChallenge   *PendingChallenge   `json:"pending_challenge,omitempty"`
	PendingChoice      *PendingChoice      `json:"pending_choice,omitempty"`

	ActiveEvent      string   `json:"active_event,omitempty"`
	EventDeck        Deck     `json:"event_deck"`
	ObjectiveDeck    Deck     `json:"objective_deck"`
	PublicObjectives []string `json:"public_objectives"`

	Clock time.Duration `json:"clock"`
}

// Clone returns a deep copy that shares nothing with gs.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Players = make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		c.Players[i] = p.clone()
	}
	c.TurnOrder = append([]PlayerID(nil), gs.TurnOrder...)
	c.PassOrder = append([]PlayerID(nil), gs.PassOrder...)
	c.Tiles = make(map[string]*Tile, len(gs.Tiles))
	for id, t := range gs.Tiles {
		c.Tiles[id] = t.clone()
	}
	c.TileIDs = append([]string(nil), gs.TileIDs...)
	c.Log = append([]LogEntry(nil), gs.Log...)
	if gs.PendingDeclaration != nil {
		d := *gs.PendingDeclaration
		c.PendingDeclaration = &d
	}
	if gs.PendingChallenge != nil {
		pc := *gs.PendingChallenge
		c.PendingChallenge = &pc
	}
	if gs.PendingChoice != nil {
		ch := *gs.PendingChoice
		ch.Players = append([]PlayerID(nil), gs.PendingChoice.Players...)
		c.PendingChoice = &ch
	}
	c.EventDeck = gs.EventDeck.Clone()
	c.ObjectiveDeck = gs.ObjectiveDeck.Clone()
	c.PublicObjectives = append([]string(nil), gs.PublicObjectives...)
	return &c
}

// Player returns the player with id pid, or nil.
func (gs *GameState) Player(pid PlayerID) *Player {
	if pid < 0 || int(pid) >= len(gs.Players) {
		return nil
	}
	return gs.Players[pid]
}

// Human returns the human seat, or nil in an all-AI game.
func (gs *GameState) Human() *Player {
	for _, p := range gs.Players {
		if p.Human {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the seat whose turn it is during Action, or nil.
func (gs *GameState) CurrentPlayer() *Player {
	if gs.Phase != PhaseAction || gs.TurnIndex < 0 || gs.TurnIndex >= len(gs.TurnOrder) {
		return nil
	}
	return gs.Player(gs.TurnOrder[gs.TurnIndex])
}

// ActivePlayers returns the players who are not eliminated.
func (gs *GameState) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range gs.Players {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

func (gs *GameState) allPassed() bool {
	for _, p := range gs.Players {
		if p.Active() && !p.HasPassed {
			return false
		}
	}
	return true
}

// Tile returns the tile with the given id, or nil.
func (gs *GameState) Tile(id string) *Tile {
	return gs.Tiles[id]
}

// TileAt returns the tile at coordinate c, or nil if c is off the board.
func (gs *GameState) TileAt(c HexCoord) *Tile {
	return gs.Tiles[c.ID()]
}

// NeighborTiles returns the on-board tiles adjacent to id.
func (gs *GameState) NeighborTiles(id string) []*Tile {
	t := gs.Tiles[id]
	if t == nil {
		return nil
	}
	var out []*Tile
	for _, c := range t.Coord.Neighbors() {
		if n := gs.TileAt(c); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// OwnedTiles returns pid's tiles in canonical order.
func (gs *GameState) OwnedTiles(pid PlayerID) []*Tile {
	var out []*Tile
	for _, id := range gs.TileIDs {
		if t := gs.Tiles[id]; t.Owner == pid {
			out = append(out, t)
		}
	}
	return out
}

// TileCount returns how many tiles pid owns.
func (gs *GameState) TileCount(pid PlayerID) int {
	n := 0
	for _, t := range gs.Tiles {
		if t.Owner == pid {
			n++
		}
	}
	return n
}

// CountTiles returns how many tiles of true type tt pid owns.
func (gs *GameState) CountTiles(pid PlayerID, tt TileType) int {
	n := 0
	for _, t := range gs.Tiles {
		if t.Owner == pid && t.TrueType == tt {
			n++
		}
	}
	return n
}

// FortCount returns how many fortifications pid owns.
func (gs *GameState) FortCount(pid PlayerID) int {
	n := 0
	for _, t := range gs.Tiles {
		if t.Fort != nil && t.Fort.Owner == pid {
			n++
		}
	}
	return n
}

// AdjacentToOwned reports whether tile id touches a tile owned by pid.
func (gs *GameState) AdjacentToOwned(id string, pid PlayerID) bool {
	return gs.Support(id, pid) > 0
}

// Support counts pid's tiles adjacent to tile id.
func (gs *GameState) Support(id string, pid PlayerID) int {
	n := 0
	for _, t := range gs.NeighborTiles(id) {
		if t.Owner == pid {
			n++
		}
	}
	return n
}

// Frontier returns the distinct unowned tiles adjacent to pid's territory, in canonical order.
func (gs *GameState) Frontier(pid PlayerID) []*Tile {
	var out []*Tile
	for _, id := range gs.TileIDs {
		t := gs.Tiles[id]
		if !t.Owned() && gs.AdjacentToOwned(id, pid) {
			out = append(out, t)
		}
	}
	return out
}

// EnemyBorder returns rival-owned tiles adjacent to pid's territory, in canonical order.
func (gs *GameState) EnemyBorder(pid PlayerID) []*Tile {
	var out []*Tile
	for _, id := range gs.TileIDs {
		t := gs.Tiles[id]
		if t.Owned() && t.Owner != pid && gs.AdjacentToOwned(id, pid) {
			out = append(out, t)
		}
	}
	return out
}

// Awaiting reports whether the game is suspended on a pending decision.
func (gs *GameState) Awaiting() bool {
	return gs.PendingDeclaration != nil || gs.PendingChallenge != nil || gs.PendingChoice != nil
}

// IsOver reports whether the game has reached EndGame.
func (gs *GameState) IsOver() bool {
	return gs.Phase == PhaseEndGame
}
