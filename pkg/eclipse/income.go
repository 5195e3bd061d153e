package eclipse

// IncomeFor computes what p earns from its territory and relic power this round.
// The AI wild resource is random and granted separately.
func IncomeFor(gs *GameState, p *Player) Resources {
	var r Resources
	for _, t := range gs.OwnedTiles(p.ID) {
		bonus := 0
		if t.Fort != nil {
			bonus = 1
		}
		if t.TrueType == Capital {
			r.Grain += 1 + bonus
			r.Stone += 1 + bonus
			r.Gold += 1 + bonus
			continue
		}
		if res, ok := t.TrueType.Yield(); ok {
			r.Add(res, 1+bonus)
		}
	}
	if p.RelicPower == PowerPassiveIncome || p.Status.PassiveIncome {
		r.Grain++
		r.Gold++
	}
	return r
}

func applyIncome(gs *GameState, rng Rand) {
	for _, p := range gs.Players {
		if !p.Active() {
			continue
		}
		inc := IncomeFor(gs, p)
		p.Resources = p.Resources.Plus(inc)
		if !p.Human {
			common := CommonResources()
			p.Resources.Add(common[rng.Intn(len(common))], 1)
		}
		switch p.RelicPower {
		case PowerTradeBaron:
			p.Status.FreeTrades++
		case PowerDoubleTime:
			p.Status.ExtraActions++
		}
		p.trackMaxResources()
		gs.actorLogf(LogInfo, p.ID, "%s collects %s.", p.Name, describeBundle(inc))
	}
}
