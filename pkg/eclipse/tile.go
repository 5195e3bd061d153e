package eclipse

import (
	"fmt"
	"strconv"
	"strings"
)

// TileType is the terrain of a hex, either its ground truth or what was declared.
type TileType string

const (
	Plains    TileType = "plains"
	Mountains TileType = "mountains"
	Goldmine  TileType = "goldmine"
	RelicSite TileType = "relic_site"
	Ruins     TileType = "ruins"
	Capital   TileType = "capital"

	// Fog marks terrain the viewer has not seen. It appears only in
	// redacted snapshots and is never a legal declaration.
	Fog TileType = "fog"
)

// ParseTileType converts a wire string to a TileType.
func ParseTileType(s string) (TileType, error) {
	switch TileType(s) {
	case Plains, Mountains, Goldmine, RelicSite, Ruins, Capital:
		return TileType(s), nil
	}
	return "", fmt.Errorf("unknown tile type %q", s)
}

// DeclarableTypes lists what a claimant may announce a tile to be.
func DeclarableTypes() []TileType {
	return []TileType{Plains, Mountains, Goldmine, RelicSite}
}

// Declarable reports whether t may be announced during a claim.
func (t TileType) Declarable() bool {
	for _, d := range DeclarableTypes() {
		if d == t {
			return true
		}
	}
	return false
}

// Yield returns the resource a non-capital tile produces each Income.
func (t TileType) Yield() (Resource, bool) {
	switch t {
	case Plains:
		return Grain, true
	case Mountains:
		return Stone, true
	case Goldmine:
		return Gold, true
	case RelicSite:
		return Relic, true
	}
	return "", false
}

// BaseVP is the victory-point value of owning a tile of this type.
func (t TileType) BaseVP() int {
	switch t {
	case Plains, Mountains, Goldmine:
		return 1
	case RelicSite, Capital:
		return 2
	}
	return 0
}

// Label is the human-readable terrain name used in log text.
func (t TileType) Label() string {
	switch t {
	case Plains:
		return "Fertile Plains"
	case Mountains:
		return "Iron Mountains"
	case Goldmine:
		return "Rich Goldmine"
	case RelicSite:
		return "Ancient Relic"
	case Ruins:
		return "Precursor Ruins"
	case Capital:
		return "Capital City"
	}
	return string(t)
}

// HexCoord is an axial hex position. The implicit cube coordinate is s = -q-r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// HexNeighborDirections are the six axial neighbor offsets.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six surrounding coordinates, on or off the map.
func (h HexCoord) Neighbors() [6]HexCoord {
	var out [6]HexCoord
	for i, d := range HexNeighborDirections {
		out[i] = HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
	}
	return out
}

// Adjacent reports whether o is one step from h.
func (h HexCoord) Adjacent(o HexCoord) bool {
	for _, n := range h.Neighbors() {
		if n == o {
			return true
		}
	}
	return false
}

// ID is the stable tile id, "q,r".
func (h HexCoord) ID() string {
	return strconv.Itoa(h.Q) + "," + strconv.Itoa(h.R)
}

// ParseHexID converts a "q,r" tile id back to coordinates.
func ParseHexID(id string) (HexCoord, error) {
	q, r, ok := strings.Cut(id, ",")
	if !ok {
		return HexCoord{}, fmt.Errorf("malformed tile id %q", id)
	}
	qi, err := strconv.Atoi(q)
	if err != nil {
		return HexCoord{}, fmt.Errorf("malformed tile id %q: %w", id, err)
	}
	ri, err := strconv.Atoi(r)
	if err != nil {
		return HexCoord{}, fmt.Errorf("malformed tile id %q: %w", id, err)
	}
	return HexCoord{Q: qi, R: ri}, nil
}

// PlayerID indexes GameState.Players. NoPlayer marks an unowned tile.
type PlayerID int

const NoPlayer PlayerID = -1

// Fortification is a wall built on an owned tile.
type Fortification struct {
	Owner PlayerID `json:"owner"`
	Level int      `json:"level"`
}

// Tile is one hex of the board.
type Tile struct {
	ID         string         `json:"id"`
	Coord      HexCoord       `json:"coord"`
	Col        int            `json:"col"` // 1-based display grid
	Row        int            `json:"row"`
	TrueType   TileType       `json:"true_type"`
	PublicType TileType       `json:"public_type"`
	Revealed   bool           `json:"revealed"`
	Owner      PlayerID       `json:"owner"`
	DeclaredBy PlayerID       `json:"declared_by"`
	Fort       *Fortification `json:"fortification,omitempty"`
}

// Owned reports whether any player holds the tile.
func (t *Tile) Owned() bool {
	return t.Owner != NoPlayer
}

// IsBluffed reports whether the public type disagrees with the truth.
func (t *Tile) IsBluffed() bool {
	return t.PublicType != t.TrueType
}

// Reveal makes the true type public knowledge.
func (t *Tile) Reveal() {
	t.Revealed = true
	t.PublicType = t.TrueType
}

// Neutralize clears ownership and any fortification.
func (t *Tile) Neutralize() {
	t.Owner = NoPlayer
	t.Fort = nil
	t.DeclaredBy = NoPlayer
}

// Label is the dice-grid reference used in log text, e.g. "[3,4]".
func (t *Tile) Label() string {
	return fmt.Sprintf("[%d,%d]", t.Col, t.Row)
}

func (t *Tile) clone() *Tile {
	c := *t
	if t.Fort != nil {
		f := *t.Fort
		c.Fort = &f
	}
	return &c
}
