package eclipse

// Deck is a pile of card ids. The top of the deck is the last element.
type Deck struct {
	Cards   []string `json:"cards"`
	Discard []string `json:"discard"`
}

// NewDeck returns a shuffled deck holding ids.
func NewDeck(ids []string, rng Rand) Deck {
	cards := append([]string(nil), ids...)
	shuffleStrings(rng, cards)
	return Deck{Cards: cards, Discard: []string{}}
}

// Clone returns a deep copy.
func (d Deck) Clone() Deck {
	return Deck{
		Cards:   append([]string{}, d.Cards...),
		Discard: append([]string{}, d.Discard...),
	}
}

// Size returns the number of cards left to draw.
func (d Deck) Size() int {
	return len(d.Cards)
}

// Total returns the number of cards in the deck and discard pile combined.
func (d Deck) Total() int {
	return len(d.Cards) + len(d.Discard)
}

// refill shuffles the discard pile back into an empty deck.
func (d *Deck) refill(rng Rand) bool {
	if len(d.Cards) > 0 || len(d.Discard) == 0 {
		return false
	}
	d.Cards = d.Discard
	d.Discard = []string{}
	shuffleStrings(rng, d.Cards)
	return true
}

func (d *Deck) pop() (string, bool) {
	if len(d.Cards) == 0 {
		return "", false
	}
	top := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return top, true
}

// Draw takes the top card and places it on the discard pile. An empty deck is
// refilled from the discard pile first. When both are empty fallback is returned
// and nothing moves.
func (d *Deck) Draw(rng Rand, fallback string) (id string, reshuffled bool) {
	reshuffled = d.refill(rng)
	id, ok := d.pop()
	if !ok {
		return fallback, reshuffled
	}
	d.Discard = append(d.Discard, id)
	return id, reshuffled
}

// Deal takes the top card out of circulation, refilling from the discard pile if needed.
func (d *Deck) Deal(rng Rand, fallback string) (id string, reshuffled bool) {
	reshuffled = d.refill(rng)
	id, ok := d.pop()
	if !ok {
		return fallback, reshuffled
	}
	return id, reshuffled
}
