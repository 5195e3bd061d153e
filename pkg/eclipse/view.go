package eclipse

// HiddenCard stands in for an undrawn card in a redacted deck.
const HiddenCard = "?"

// PlayerView returns the snapshot as seen from viewer's seat. Unclaimed
// unrevealed tiles are fogged, unrevealed claims by other seats show only
// their declared type, other seats' secret objectives are hidden, and undrawn
// deck order is masked. NoPlayer yields a spectator view. Once the game is
// over the board is shown as it truly is.
func PlayerView(gs *GameState, viewer PlayerID) *GameState {
	v := gs.Clone()
	if !v.IsOver() {
		for _, t := range v.Tiles {
			redactTile(v, t, viewer)
		}
	}
	for _, p := range v.Players {
		if p.ID == viewer || v.IsOver() {
			continue
		}
		p.Objectives = mask(p.Objectives)
	}
	v.EventDeck.Cards = mask(v.EventDeck.Cards)
	v.ObjectiveDeck.Cards = mask(v.ObjectiveDeck.Cards)
	return v
}

func redactTile(v *GameState, t *Tile, viewer PlayerID) {
	if t.Revealed || knowsTerrain(v, t, viewer) {
		return
	}
	if !t.Owned() {
		t.TrueType = Fog
		t.PublicType = Fog
		return
	}
	t.TrueType = t.PublicType
}

// knowsTerrain reports whether viewer has seen t's true type: it owns or
// declared the tile, or is the seat currently announcing or defending it.
func knowsTerrain(v *GameState, t *Tile, viewer PlayerID) bool {
	if viewer == NoPlayer {
		return false
	}
	if t.Owner == viewer || t.DeclaredBy == viewer {
		return true
	}
	if pd := v.PendingDeclaration; pd != nil && pd.Player == viewer && pd.TileID == t.ID {
		return true
	}
	if pc := v.PendingChallenge; pc != nil && pc.Declarer == viewer && pc.TileID == t.ID {
		return true
	}
	return false
}

func mask(cards []string) []string {
	out := make([]string, len(cards))
	for i := range out {
		out[i] = HiddenCard
	}
	return out
}
