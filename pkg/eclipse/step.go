package eclipse

import "fmt"

// TurnPlan is what a policy decides for one AI turn. Mind replaces the AI's
// psychology before the action is taken. A nil Action means pass.
type TurnPlan struct {
	Mind     *AIState
	Action   *Action
	Dialogue string
}

// Policy drives computer seats.
type Policy interface {
	ChooseRole(gs *GameState, pid PlayerID, rng Rand) Role
	PlanTurn(gs *GameState, pid PlayerID, rng Rand) TurnPlan
}

// MaxSteps bounds RunUntilBlocked.
const MaxSteps = 100000

// Step performs the next transition that needs no human input: non-interactive
// phase advances, AI role picks, and AI turns. It reports false when the game is
// over or waiting on the human.
func Step(gs *GameState, policy Policy, rng Rand) (*GameState, bool, error) {
	if gs.IsOver() || gs.PendingDeclaration != nil || gs.PendingChallenge != nil || gs.PendingChoice != nil {
		return gs, false, nil
	}

	switch gs.Phase {
	case PhaseIncome:
		ns, err := AdvancePhase(gs, rng)
		return ns, err == nil, err

	case PhaseCitizenChoice:
		ns := gs
		for _, p := range gs.Players {
			if !p.Active() || p.Human || p.Role != "" {
				continue
			}
			next, err := SelectRole(ns, p.ID, policy.ChooseRole(ns, p.ID, rng))
			if err != nil {
				next, err = SelectRole(ns, p.ID, Explorer)
				if err != nil {
					return gs, false, err
				}
			}
			ns = next
		}
		for _, p := range ns.Players {
			if p.Active() && p.Role == "" {
				return ns, ns != gs, nil
			}
		}
		next, err := AdvancePhase(ns, rng)
		return next, err == nil, err

	case PhaseAction:
		cur := gs.CurrentPlayer()
		if cur == nil {
			return gs, false, fmt.Errorf("action phase without a current player")
		}
		if cur.Human {
			return gs, false, nil
		}
		return playAITurn(gs, cur.ID, policy, rng)

	case PhaseEvents, PhaseScoring:
		if !autoAcknowledge(gs) {
			return gs, false, nil
		}
		ns, err := AdvancePhase(gs, rng)
		return ns, err == nil, err
	}
	return gs, false, nil
}

func autoAcknowledge(gs *GameState) bool {
	if gs.Rules.AutoAcknowledge {
		return true
	}
	h := gs.Human()
	return h == nil || !h.Active()
}

func playAITurn(gs *GameState, pid PlayerID, policy Policy, rng Rand) (*GameState, bool, error) {
	plan := policy.PlanTurn(gs, pid, rng)
	ns := gs.Clone()
	p := ns.Players[pid]
	if plan.Mind != nil && p.AI != nil {
		mind := *plan.Mind
		mind.Traits = append([]Trait(nil), p.AI.Traits...)
		*p.AI = mind
	}
	if plan.Dialogue != "" {
		ns.actorLogf(LogInfo, pid, "%s: \"%s\"", p.Name, plan.Dialogue)
	}
	if plan.Action != nil {
		if next, err := PerformAction(ns, pid, *plan.Action, rng); err == nil {
			return next, true, nil
		}
	}
	next, err := Pass(ns, pid, rng)
	return next, err == nil, err
}

// RunUntilBlocked steps until the game ends or needs the human.
func RunUntilBlocked(gs *GameState, policy Policy, rng Rand) (*GameState, error) {
	for i := 0; i < MaxSteps; i++ {
		next, progressed, err := Step(gs, policy, rng)
		if err != nil {
			return gs, err
		}
		if !progressed {
			return next, nil
		}
		gs = next
	}
	return gs, fmt.Errorf("game did not settle within %d steps", MaxSteps)
}
