package eclipse

// SelectRole records pid's citizen for the round. A role may be changed until
// the phase advances.
func SelectRole(gs *GameState, pid PlayerID, role Role) (*GameState, error) {
	if gs.Phase != PhaseCitizenChoice {
		return nil, reject(ReasonWrongPhase, "roles are chosen during citizen choice, not %s", gs.Phase)
	}
	p := gs.Player(pid)
	if p == nil {
		return nil, reject(ReasonUnknownPlayer, "no player %d", pid)
	}
	if !p.Active() {
		return nil, reject(ReasonEliminated, "%s is eliminated", p.Name)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, reject(ReasonInvalidPayload, "%v", err)
	}
	ns := gs.Clone()
	ns.Players[pid].Role = role
	return ns, nil
}

// Pass ends pid's participation in this Action phase.
func Pass(gs *GameState, pid PlayerID, rng Rand) (*GameState, error) {
	if _, err := checkTurn(gs, pid); err != nil {
		return nil, err
	}
	ns := gs.Clone()
	p := ns.Players[pid]
	markPassed(ns, p)
	ns.actorLogf(LogInfo, pid, "%s passes.", p.Name)
	advanceTurn(ns, rng)
	return ns, nil
}

// checkTurn validates that pid may act right now.
func checkTurn(gs *GameState, pid PlayerID) (*Player, error) {
	if gs.Phase != PhaseAction {
		return nil, reject(ReasonWrongPhase, "actions are taken during the action phase, not %s", gs.Phase)
	}
	if gs.Awaiting() {
		return nil, reject(ReasonPendingDecision, "a decision is pending")
	}
	p := gs.Player(pid)
	if p == nil {
		return nil, reject(ReasonUnknownPlayer, "no player %d", pid)
	}
	if !p.Active() {
		return nil, reject(ReasonEliminated, "%s is eliminated", p.Name)
	}
	cur := gs.CurrentPlayer()
	if cur == nil || cur.ID != pid || p.HasPassed {
		return nil, reject(ReasonNotYourTurn, "it is not %s's turn", p.Name)
	}
	return p, nil
}

func markPassed(gs *GameState, p *Player) {
	if p.HasPassed {
		return
	}
	p.HasPassed = true
	gs.PassOrder = append(gs.PassOrder, p.ID)
}

// completeTurn books a finished action against the actor and moves play on.
func completeTurn(gs *GameState, pid PlayerID, rng Rand) {
	p := gs.Players[pid]
	p.ActionsTaken++
	p.trackMaxResources()
	advanceTurn(gs, rng)
}

// advanceTurn moves to the next seat that can act. An extra action keeps the
// current seat. When every rival has passed and the scan comes back to the
// current player, that player is forced to pass (the sunset rule).
func advanceTurn(gs *GameState, rng Rand) {
	if cur := gs.CurrentPlayer(); cur != nil && cur.Status.ExtraActions > 0 && !cur.HasPassed && cur.Active() {
		cur.Status.ExtraActions--
		gs.actorLogf(LogInfo, cur.ID, "%s takes an extra action.", cur.Name)
		return
	}

	n := len(gs.TurnOrder)
	start := gs.TurnIndex
	for i := 1; i <= n && !gs.allPassed(); i++ {
		j := (start + i) % n
		p := gs.Players[gs.TurnOrder[j]]
		if p.HasPassed || !p.Active() {
			continue
		}
		if j == start {
			if len(gs.ActivePlayers()) > 1 {
				markPassed(gs, p)
				gs.actorLogf(LogAlert, p.ID, "Sunset: %s stands alone and must pass.", p.Name)
			}
			break
		}
		if p.Status.TurnLost {
			markPassed(gs, p)
			gs.actorLogf(LogAlert, p.ID, "%s loses their turn as penalty.", p.Name)
			continue
		}
		gs.TurnIndex = j
		return
	}

	if gs.allPassed() {
		gs.logf(LogPhase, "All players passed. Events Phase beginning.")
		enterEvents(gs, rng)
	}
}
