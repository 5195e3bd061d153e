package eclipse

// NextPhase returns the phase that follows gs.Phase.
// Scoring leads to EndGame after the final round and to the next Income otherwise.
func NextPhase(gs *GameState) Phase {
	switch gs.Phase {
	case PhaseIncome:
		return PhaseCitizenChoice
	case PhaseCitizenChoice:
		return PhaseAction
	case PhaseAction:
		return PhaseEvents
	case PhaseEvents:
		return PhaseScoring
	case PhaseScoring:
		if gs.Round >= gs.Rules.TotalRounds {
			return PhaseEndGame
		}
		return PhaseIncome
	}
	return PhaseEndGame
}

// AdvancePhase acknowledges the current phase and moves to the next one.
// It is rejected while a decision is pending, while a role is unchosen, or while
// players are still acting. EndGame advances to itself.
func AdvancePhase(gs *GameState, rng Rand) (*GameState, error) {
	if gs.Phase == PhaseEndGame {
		return gs.Clone(), nil
	}
	if gs.Awaiting() {
		return nil, reject(ReasonPendingDecision, "a decision is pending")
	}
	switch gs.Phase {
	case PhaseCitizenChoice:
		for _, p := range gs.Players {
			if p.Active() && p.Role == "" {
				return nil, reject(ReasonRolesPending, "%s has not chosen a role", p.Name)
			}
		}
	case PhaseAction:
		if !gs.allPassed() {
			return nil, reject(ReasonPlayersStillActing, "players are still acting")
		}
	}

	ns := gs.Clone()
	switch NextPhase(gs) {
	case PhaseCitizenChoice:
		ns.Phase = PhaseCitizenChoice
		ns.logf(LogPhase, "Eclipse %d - Citizen Choice: select your role.", ns.Round)
	case PhaseAction:
		enterAction(ns, rng)
	case PhaseEvents:
		enterEvents(ns, rng)
	case PhaseScoring:
		enterScoring(ns)
	case PhaseIncome:
		rollover(ns, rng)
	case PhaseEndGame:
		enterEndGame(ns)
	}
	return ns, nil
}

// checkElimination marks every player who owns no tiles as eliminated.
// Elimination is permanent.
func checkElimination(gs *GameState) {
	for _, p := range gs.Players {
		if !p.Active() || gs.TileCount(p.ID) > 0 {
			continue
		}
		p.Eliminated = true
		p.HasPassed = true
		gs.actorLogf(LogAlert, p.ID, "%s has been eliminated.", p.Name)
	}
}

// computeTurnOrder seeds the round from last round's pass order: first to pass acts first.
// Players missing from it are appended in id order. Round 1, or a round with no
// recorded passes, rotates the seats by round instead.
func computeTurnOrder(gs *GameState) []PlayerID {
	active := make([]PlayerID, 0, len(gs.Players))
	for _, p := range gs.Players {
		if p.Active() {
			active = append(active, p.ID)
		}
	}
	if len(active) == 0 {
		return active
	}
	if gs.Round > 1 && len(gs.PassOrder) > 0 {
		order := make([]PlayerID, 0, len(active))
		seen := make(map[PlayerID]bool, len(active))
		for _, pid := range gs.PassOrder {
			if p := gs.Player(pid); p != nil && p.Active() && !seen[pid] {
				order = append(order, pid)
				seen[pid] = true
			}
		}
		for _, pid := range active {
			if !seen[pid] {
				order = append(order, pid)
			}
		}
		return order
	}
	shift := (gs.Round - 1) % len(active)
	return append(append([]PlayerID{}, active[shift:]...), active[:shift]...)
}

func enterAction(gs *GameState, rng Rand) {
	checkElimination(gs)
	gs.Phase = PhaseAction
	gs.TurnOrder = computeTurnOrder(gs)
	gs.TurnIndex = 0
	gs.PassOrder = []PlayerID{}
	for _, p := range gs.Players {
		p.HasPassed = p.Eliminated
	}
	for _, p := range gs.Players {
		if p.Active() {
			gs.actorLogf(LogInfo, p.ID, "%s reveals %s.", p.Name, p.Role)
		}
	}
	names := ""
	for i, pid := range gs.TurnOrder {
		if i > 0 {
			names += ", "
		}
		names += gs.Players[pid].Name
	}
	gs.logf(LogPhase, "Eclipse %d - Action Phase. Turn order: %s.", gs.Round, names)
	if len(gs.TurnOrder) == 0 {
		enterEvents(gs, rng)
	}
}

func enterEvents(gs *GameState, rng Rand) {
	checkElimination(gs)
	gs.Phase = PhaseEvents
	gs.TurnIndex = 0
	card := drawEvent(gs, rng)
	gs.ActiveEvent = card.ID
	gs.addLog(LogEntry{
		Kind:    LogEvent,
		Text:    "Event: " + card.Title + " - " + card.Normal.Describe() + ".",
		Details: &LogDetails{Card: card.Title},
	})
	applyGlobalEffect(gs, card, rng)
}

func enterScoring(gs *GameState) {
	checkElimination(gs)
	gs.Phase = PhaseScoring
	ScoreAll(gs)
	gs.logf(LogPhase, "Eclipse %d - Scoring.", gs.Round)
	for _, p := range gs.Players {
		gs.actorLogf(LogInfo, p.ID, "%s: %d VP.", p.Name, p.VP)
	}
}

func enterEndGame(gs *GameState) {
	gs.Phase = PhaseEndGame
	gs.ActiveEvent = ""
	ScoreAll(gs)
	if w := Winner(gs); w != nil {
		gs.actorLogf(LogPhase, w.ID, "The Eclipse ends. %s is victorious with %d VP.", w.Name, w.VP)
	} else {
		gs.logf(LogPhase, "The Eclipse ends.")
	}
}

// rollover starts the next round: statuses reset, queued event effects land,
// roles clear, a public objective may be revealed, and income is paid.
func rollover(gs *GameState, rng Rand) {
	gs.Round++
	gs.Phase = PhaseIncome
	gs.ActiveEvent = ""
	for _, p := range gs.Players {
		p.Status = Status{}.merge(p.Queued)
		p.Queued = Status{}
		p.Role = ""
		p.ActionsTaken = 0
		if p.AI != nil {
			p.AI.Dialogue = ""
		}
	}
	if gs.Round >= 2 && gs.Round <= 4 {
		id, reshuffled := gs.ObjectiveDeck.Deal(rng, DefaultObjectiveID)
		if reshuffled {
			gs.logf(LogInfo, "Objective deck reshuffled.")
		}
		gs.PublicObjectives = append(gs.PublicObjectives, id)
		if o, ok := ObjectiveByID(id); ok {
			gs.logf(LogEvent, "Public objective revealed: %s (%s, %d VP).", o.Name, o.Description, o.VP)
		}
	}
	gs.logf(LogPhase, "Eclipse %d - Income.", gs.Round)
	applyIncome(gs, rng)
}

func drawEvent(gs *GameState, rng Rand) EventCard {
	id, reshuffled := gs.EventDeck.Draw(rng, DefaultEventCardID)
	if reshuffled {
		gs.logf(LogInfo, "Event deck empty. Discards reshuffled.")
	}
	return mustEventCard(id)
}
