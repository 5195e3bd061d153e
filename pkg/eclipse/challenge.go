package eclipse

import (
	"fmt"
	"time"
)

// claim pays for an explore and runs the declaration past the other players.
// A human claim is tested against each AI's challenge roll on the spot. An AI
// claim opens a timed window for the human when the human can still respond.
func claim(gs *GameState, p *Player, t *Tile, declared TileType, rng Rand) {
	ActionCost(p, ActionExplore).pay(p)

	if p.Human {
		if challenger := rollAIChallenge(gs, p, rng); challenger != nil {
			resolveChallenge(gs, p, challenger, t, declared, rng)
		} else {
			finalizeClaim(gs, p, t, declared, rng)
		}
		completeTurn(gs, p.ID, rng)
		return
	}

	if h := gs.Human(); h != nil && h.Active() && !h.HasPassed && !h.Status.TurnLost {
		gs.PendingChallenge = &PendingChallenge{
			Declarer: p.ID,
			TileID:   t.ID,
			Declared: declared,
			Deadline: gs.Clock + gs.Rules.ChallengeWindow,
		}
		gs.addLog(LogEntry{
			Kind:    LogBluff,
			Actor:   seat(p.ID),
			Target:  seat(h.ID),
			Text:    fmt.Sprintf("%s is attempting to claim %s as %s...", p.Name, t.Label(), declared.Label()),
			Details: &LogDetails{DeclaredType: declared},
		})
		return
	}

	finalizeClaim(gs, p, t, declared, rng)
	completeTurn(gs, p.ID, rng)
}

// ChallengeChance is the probability that ai contests a human declaration.
func ChallengeChance(rules Rules, ai *Player) float64 {
	if ai.AI == nil {
		return 0
	}
	tu := rules.Tuning
	chance := tu.ChallengeBase
	if ai.AI.Suspicion > tu.SuspicionThreshold {
		chance += tu.ChallengeSuspicious
	}
	if ai.AI.HasTrait(Paranoid) {
		chance += tu.ChallengeParanoid
	}
	if ai.AI.HasTrait(Greedy) {
		chance += tu.ChallengeGreedy
	}
	if rules.Difficulty == Hard {
		chance += tu.ChallengeHard
	}
	return chance
}

// rollAIChallenge returns the first AI, in seat order, whose roll beats its challenge chance.
func rollAIChallenge(gs *GameState, declarer *Player, rng Rand) *Player {
	for _, ai := range gs.Players {
		if ai.Human || ai.ID == declarer.ID || !ai.Active() || ai.Status.TurnLost || ai.AI == nil {
			continue
		}
		if rng.Float64() < ChallengeChance(gs.Rules, ai) {
			return ai
		}
	}
	return nil
}

// finalizeClaim hands an uncontested tile to its declarer.
func finalizeClaim(gs *GameState, p *Player, t *Tile, declared TileType, rng Rand) {
	t.Owner = p.ID
	t.PublicType = declared
	t.DeclaredBy = p.ID
	p.Stats.TilesRevealed++
	gs.addLog(LogEntry{
		Kind:    LogBluff,
		Actor:   seat(p.ID),
		Text:    fmt.Sprintf("%s claims %s as %s.", p.Name, t.Label(), declared.Label()),
		Details: &LogDetails{DeclaredType: declared},
	})
	relicDiscovery(gs, p, t, declared, rng)
}

// relicDiscovery rewards an honest relic site claim.
func relicDiscovery(gs *GameState, p *Player, t *Tile, declared TileType, rng Rand) {
	if t.TrueType != RelicSite || declared != RelicSite {
		return
	}
	p.Resources.Add(Relic, 1)
	p.Stats.RelicSitesRevealed++
	card := drawEvent(gs, rng)
	gs.addLog(LogEntry{
		Kind:    LogEvent,
		Actor:   seat(p.ID),
		Text:    fmt.Sprintf("%s secures a relic site at %s - %s.", p.Name, t.Label(), card.Title),
		Details: &LogDetails{Card: card.Title, TileType: RelicSite},
	})
	relicReward(gs, p, card, rng)
}

// resolveChallenge settles a contested declaration.
func resolveChallenge(gs *GameState, declarer, challenger *Player, t *Tile, declared TileType, rng Rand) {
	if declared != t.TrueType {
		challenger.BonusVP++
		challenger.VP++
		declarer.BonusVP--
		if declarer.VP > 0 {
			declarer.VP--
		}
		t.Neutralize()
		t.Reveal()
		gs.addLog(LogEntry{
			Kind:    LogCombat,
			Actor:   seat(challenger.ID),
			Target:  seat(declarer.ID),
			Text:    fmt.Sprintf("CHALLENGE! %s calls %s's bluff. %s is really %s. Tile neutralized.", challenger.Name, declarer.Name, t.Label(), t.TrueType.Label()),
			Details: &LogDetails{TileType: t.TrueType, DeclaredType: declared},
		})
		return
	}

	t.Owner = declarer.ID
	t.DeclaredBy = declarer.ID
	t.Reveal()
	declarer.Stats.TilesRevealed++
	penalty := ""
	if gs.Rules.Ruleset == Casual {
		fine := gs.Rules.Tuning.Reparation
		if challenger.Resources.Gold >= fine {
			challenger.Resources.Take(Gold, fine)
			declarer.Resources.Add(Gold, fine)
			penalty = fmt.Sprintf("%s pays %d gold in reparations.", challenger.Name, fine)
		} else {
			challenger.BonusVP--
			if challenger.VP > 0 {
				challenger.VP--
			}
			penalty = fmt.Sprintf("%s loses reputation (-1 VP).", challenger.Name)
		}
	} else {
		challenger.Status.TurnLost = true
		penalty = fmt.Sprintf("%s loses their next turn.", challenger.Name)
	}
	gs.addLog(LogEntry{
		Kind:    LogCombat,
		Actor:   seat(challenger.ID),
		Target:  seat(declarer.ID),
		Text:    fmt.Sprintf("CHALLENGE! %s doubts %s, but %s really is %s. %s", challenger.Name, declarer.Name, t.Label(), t.TrueType.Label(), penalty),
		Details: &LogDetails{TileType: t.TrueType, DeclaredType: declared},
	})
	relicDiscovery(gs, declarer, t, declared, rng)
}

// RespondToChallenge is the human's answer to an open AI claim.
func RespondToChallenge(gs *GameState, pid PlayerID, challenge bool, rng Rand) (*GameState, error) {
	pc := gs.PendingChallenge
	if pc == nil {
		return nil, reject(ReasonNothingPending, "no claim is open to challenge")
	}
	p := gs.Player(pid)
	if p == nil {
		return nil, reject(ReasonUnknownPlayer, "no player %d", pid)
	}
	if !p.Human || pid == pc.Declarer {
		return nil, reject(ReasonNotYourTurn, "%s cannot answer this claim", p.Name)
	}
	ns := gs.Clone()
	if challenge {
		settleChallenge(ns, ns.Players[pid], rng)
	} else {
		settleChallenge(ns, nil, rng)
	}
	return ns, nil
}

// AdvanceClock moves the logical game clock forward. An open challenge window
// whose deadline has passed resolves as trusted.
func AdvanceClock(gs *GameState, d time.Duration, rng Rand) *GameState {
	ns := gs.Clone()
	if d > 0 {
		ns.Clock += d
	}
	if pc := ns.PendingChallenge; pc != nil && ns.Clock >= pc.Deadline {
		settleChallenge(ns, nil, rng)
	}
	return ns
}

// ExpireChallenge closes the open challenge window as trusted regardless of the clock.
func ExpireChallenge(gs *GameState, rng Rand) (*GameState, error) {
	if gs.PendingChallenge == nil {
		return nil, reject(ReasonNothingPending, "no claim is open to challenge")
	}
	ns := gs.Clone()
	if ns.Clock < ns.PendingChallenge.Deadline {
		ns.Clock = ns.PendingChallenge.Deadline
	}
	settleChallenge(ns, nil, rng)
	return ns, nil
}

// settleChallenge closes the window. A nil challenger means the claim is trusted.
func settleChallenge(gs *GameState, challenger *Player, rng Rand) {
	pc := gs.PendingChallenge
	gs.PendingChallenge = nil
	declarer := gs.Players[pc.Declarer]
	t := gs.Tiles[pc.TileID]
	if challenger != nil {
		resolveChallenge(gs, declarer, challenger, t, pc.Declared, rng)
	} else {
		finalizeClaim(gs, declarer, t, pc.Declared, rng)
	}
	completeTurn(gs, declarer.ID, rng)
}
