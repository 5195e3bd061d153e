package eclipse

// tileCounts is the terrain multiset for a 25-hex board. Larger boards scale it up.
var tileCounts = []struct {
	Type  TileType
	Count int
}{
	{Plains, 16},
	{Mountains, 10},
	{Goldmine, 4},
	{Ruins, 4},
	{RelicSite, 2},
}

// BoardSize returns the width and height of the board for a player count.
// Two players get a 5x5 board; three or four get 7x7.
func BoardSize(players int) int {
	if players == 2 {
		return 5
	}
	return 7
}

// GenerateBoard lays out a size x size hex board in axial coordinates and fills it
// from a shuffled terrain multiset. ids are returned in generation order, which is
// the canonical iteration order for every random choice over tiles.
func GenerateBoard(size int, rng Rand) (map[string]*Tile, []string) {
	total := size * size
	multiplier := (total + 24) / 25

	var bag []string
	for _, tc := range tileCounts {
		for i := 0; i < tc.Count*multiplier; i++ {
			bag = append(bag, string(tc.Type))
		}
	}
	shuffleStrings(rng, bag)

	tiles := make(map[string]*Tile, total)
	ids := make([]string, 0, total)
	half := size / 2
	idx := 0
	for col := 0; col < size; col++ {
		for row := 0; row < size; row++ {
			coord := HexCoord{Q: col - half, R: (row - half) - col/2}
			tt := Plains
			if idx < len(bag) {
				tt = TileType(bag[idx])
			}
			idx++
			t := &Tile{
				ID:         coord.ID(),
				Coord:      coord,
				Col:        col + 1,
				Row:        row + 1,
				TrueType:   tt,
				PublicType: tt,
				Owner:      NoPlayer,
				DeclaredBy: NoPlayer,
			}
			tiles[t.ID] = t
			ids = append(ids, t.ID)
		}
	}
	return tiles, ids
}

// edgeTiles returns ids of tiles with fewer than six on-board neighbors.
func edgeTiles(tiles map[string]*Tile, ids []string) []string {
	var edges []string
	for _, id := range ids {
		n := 0
		for _, c := range tiles[id].Coord.Neighbors() {
			if _, ok := tiles[c.ID()]; ok {
				n++
			}
		}
		if n < 6 {
			edges = append(edges, id)
		}
	}
	return edges
}
