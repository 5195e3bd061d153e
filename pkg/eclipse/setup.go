package eclipse

// Setup describes a new game.
type Setup struct {
	Players   int      `json:"players"`
	HumanSeat PlayerID `json:"human_seat"` // NoPlayer for an all-AI game
	Rules     Rules    `json:"rules"`
}

// MinPlayers and MaxPlayers bound the seat count.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// NewGame generates a board, places capitals, deals objectives, and returns the
// round 1 Income state.
func NewGame(setup Setup, rng Rand) (*GameState, error) {
	if setup.Players < MinPlayers || setup.Players > MaxPlayers {
		return nil, reject(ReasonInvalidPayload, "player count %d outside %d-%d", setup.Players, MinPlayers, MaxPlayers)
	}
	if setup.HumanSeat != NoPlayer && (setup.HumanSeat < 0 || int(setup.HumanSeat) >= setup.Players) {
		return nil, reject(ReasonInvalidPayload, "human seat %d out of range", setup.HumanSeat)
	}
	rules := setup.Rules.withDefaults()

	size := BoardSize(setup.Players)
	tiles, ids := GenerateBoard(size, rng)
	gs := &GameState{
		Phase:            PhaseIncome,
		Round:            1,
		Rules:            rules,
		BoardSize:        size,
		Tiles:            tiles,
		TileIDs:          ids,
		TurnOrder:        []PlayerID{},
		PassOrder:        []PlayerID{},
		PublicObjectives: []string{},
		EventDeck:        NewDeck(EventCardIDs(), rng),
		ObjectiveDeck:    NewDeck(ObjectiveIDs(), rng),
	}

	edges := edgeTiles(tiles, ids)
	shuffleStrings(rng, edges)

	fs := Factions()
	for i := 0; i < setup.Players; i++ {
		pid := PlayerID(i)
		p := &Player{
			ID:         pid,
			Name:       fs[i].Name,
			Human:      pid == setup.HumanSeat,
			Faction:    fs[i],
			Resources:  Resources{Grain: 2, Stone: 1, Gold: 1},
			Objectives: []string{},
		}
		if !p.Human {
			p.AI = &AIState{Stance: Neutral, Traits: append([]Trait(nil), fs[i].Traits...)}
			if rules.Difficulty == Hard {
				p.AI.Fear = rules.Tuning.HardStartPsyche
				p.AI.Suspicion = rules.Tuning.HardStartPsyche
			}
		}

		capital := tiles[edges[i%len(edges)]]
		p.Resources = p.Resources.Plus(capitalBonus(capital.TrueType))
		capital.TrueType = Capital
		capital.PublicType = Capital
		capital.Revealed = true
		capital.Owner = pid
		capital.DeclaredBy = pid
		capital.Fort = &Fortification{Owner: pid, Level: 1}

		obj, _ := gs.ObjectiveDeck.Deal(rng, DefaultObjectiveID)
		p.Objectives = append(p.Objectives, obj)
		p.trackMaxResources()
		gs.Players = append(gs.Players, p)
	}

	gs.logf(LogPhase, "The Eclipse begins. %d factions contest a %dx%d world.", setup.Players, size, size)
	gs.logf(LogPhase, "Eclipse 1 - Income: starting supplies distributed.")
	return gs, nil
}

// capitalBonus is the extra starting bundle granted for the terrain a capital was built on.
func capitalBonus(original TileType) Resources {
	switch original {
	case Plains:
		return Resources{Grain: 2}
	case Mountains:
		return Resources{Stone: 2}
	case Goldmine:
		return Resources{Gold: 2}
	case RelicSite:
		return Resources{Gold: 1, Stone: 1}
	}
	return Resources{Grain: 1, Stone: 1}
}
