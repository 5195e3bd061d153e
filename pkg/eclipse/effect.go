package eclipse

import "fmt"

// applyEffect resolves e for player pid. Status effects land on the queued record
// when queued is set, so they survive the next round's reset. It reports whether
// pid must now choose a resource.
func applyEffect(gs *GameState, pid PlayerID, e Effect, rng Rand, queued bool) bool {
	p := gs.Player(pid)
	var st *Status
	if p != nil {
		st = &p.Status
		if queued {
			st = &p.Queued
		}
	}

	switch e := e.(type) {
	case ResourceGain:
		if p == nil {
			return false
		}
		if e.Choice > 0 {
			if p.Human {
				return true
			}
			// AI splits the choice between grain and gold.
			p.Resources.Add(Grain, e.Choice/2)
			p.Resources.Add(Gold, e.Choice-e.Choice/2)
		} else {
			p.Resources = p.Resources.Plus(e.Grant)
		}
		p.trackMaxResources()
	case ResourceLoss:
		for _, victim := range lossVictims(gs, pid, e.Scope, rng) {
			lost := victim.Resources.Take(e.Resource, e.Amount)
			if lost > 0 {
				gs.actorLogf(LogEvent, victim.ID, "%s loses %d %s.", victim.Name, lost, e.Resource)
			}
		}
	case FortifyRemove:
		var forts []*Tile
		for _, id := range gs.TileIDs {
			if t := gs.Tiles[id]; t.Fort != nil {
				forts = append(forts, t)
			}
		}
		if len(forts) > 0 {
			t := forts[rng.Intn(len(forts))]
			owner := t.Fort.Owner
			t.Fort = nil
			gs.addLog(LogEntry{Kind: LogEvent, Target: seat(owner), Text: fmt.Sprintf("The fortification at %s collapses.", t.Label())})
		}
	case CombatBonus:
		if st != nil {
			st.CombatBonus += e.Amount
		}
	case BlockAttack:
		if st != nil {
			st.AttackBlocked = true
		}
	case PassiveIncome:
		// Income is paid after the round reset, so this always waits in the queue.
		if p != nil {
			p.Queued.PassiveIncome = true
		}
	case DoubleAction:
		if p == nil {
			return false
		}
		if p.Resources.Gold < e.GoldCost {
			gs.actorLogf(LogEvent, pid, "%s cannot afford a forced march.", p.Name)
			return false
		}
		p.Resources.Take(Gold, e.GoldCost)
		st.ExtraActions++
		gs.actorLogf(LogEvent, pid, "%s pays %d gold for a forced march.", p.Name, e.GoldCost)
	case GrantRelicPower:
		if p == nil {
			return false
		}
		p.RelicPower = e.Power
		gs.actorLogf(LogEvent, pid, "%s equips the %s.", p.Name, e.Power.Title())
	}
	return false
}

func lossVictims(gs *GameState, pid PlayerID, scope Scope, rng Rand) []*Player {
	switch scope {
	case ScopeAll:
		return gs.ActivePlayers()
	case ScopeEnemy:
		var rivals []*Player
		for _, p := range gs.ActivePlayers() {
			if p.ID != pid {
				rivals = append(rivals, p)
			}
		}
		if len(rivals) == 0 {
			return nil
		}
		return []*Player{rivals[rng.Intn(len(rivals))]}
	}
	if p := gs.Player(pid); p != nil {
		return []*Player{p}
	}
	return nil
}

// applyGlobalEffect resolves an Events-phase card. Map-wide effects happen once;
// everything else applies to each active player, with status effects queued for
// next round.
func applyGlobalEffect(gs *GameState, card EventCard, rng Rand) {
	if mapWide(card.Normal) {
		applyEffect(gs, NoPlayer, card.Normal, rng, true)
		return
	}
	var choosers []PlayerID
	for _, p := range gs.ActivePlayers() {
		if applyEffect(gs, p.ID, card.Normal, rng, true) {
			choosers = append(choosers, p.ID)
		}
	}
	if len(choosers) > 0 {
		gs.PendingChoice = &PendingChoice{Card: card.ID, Amount: choiceAmount(card.Normal), Players: choosers}
	}
}

func choiceAmount(e Effect) int {
	if g, ok := e.(ResourceGain); ok {
		return g.Choice
	}
	return 0
}

// ChooseEventResource answers a resource-selection event for pid.
func ChooseEventResource(gs *GameState, pid PlayerID, res Resource, rng Rand) (*GameState, error) {
	pc := gs.PendingChoice
	if pc == nil {
		return nil, reject(ReasonNothingPending, "no event awaits a resource choice")
	}
	if !pc.waitingOn(pid) {
		return nil, reject(ReasonNotYourTurn, "player %d has no choice to make", pid)
	}
	if res != Grain && res != Stone && res != Gold {
		return nil, reject(ReasonInvalidPayload, "cannot choose %q", res)
	}
	ns := gs.Clone()
	p := ns.Players[pid]
	p.Resources.Add(res, ns.PendingChoice.Amount)
	p.trackMaxResources()
	ns.actorLogf(LogEvent, pid, "%s takes %d %s.", p.Name, ns.PendingChoice.Amount, res)

	remaining := ns.PendingChoice.Players[:0]
	for _, w := range ns.PendingChoice.Players {
		if w != pid {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) > 0 {
		ns.PendingChoice.Players = remaining
		return ns, nil
	}
	ns.PendingChoice = nil
	if ns.Phase == PhaseAction {
		completeTurn(ns, pid, rng)
	}
	return ns, nil
}
