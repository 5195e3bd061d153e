package eclipse

import "fmt"

// CombatResult is the outcome of one battle.
type CombatResult struct {
	Attack      int      `json:"attack"`
	Defense     int      `json:"defense"`
	AttackRoll  int      `json:"attack_roll"`
	DefenseRoll int      `json:"defense_roll"`
	Won         bool     `json:"won"`
	Loot        Resource `json:"loot,omitempty"`
}

// AttackStrength is the attacker's strength against tile t before dice.
func AttackStrength(gs *GameState, attacker *Player, t *Tile) int {
	s := 1
	if attacker.Role == Warrior {
		s++
	}
	s += gs.Support(t.ID, attacker.ID)
	s += attacker.Status.CombatBonus
	if attacker.RelicPower == PowerWarlord {
		s++
	}
	return s
}

// DefenseStrength is the holder's strength on tile t before dice.
func DefenseStrength(gs *GameState, t *Tile) int {
	s := 1
	if t.Fort != nil {
		s++
	}
	return s + gs.Support(t.ID, t.Owner)
}

// AttackerWins applies the tie rule: the attacker needs a strictly higher total.
func AttackerWins(attack, attackRoll, defense, defenseRoll int) bool {
	return attack+attackRoll > defense+defenseRoll
}

// resolveAttack rolls a battle for tile t and applies the result.
func resolveAttack(gs *GameState, attacker *Player, t *Tile, rng Rand) CombatResult {
	defender := gs.Players[t.Owner]
	res := CombatResult{
		Attack:  AttackStrength(gs, attacker, t),
		Defense: DefenseStrength(gs, t),
	}
	res.AttackRoll = RollDie(rng)
	res.DefenseRoll = RollDie(rng)
	res.Won = AttackerWins(res.Attack, res.AttackRoll, res.Defense, res.DefenseRoll)

	attacker.Stats.recordAttack(defender.ID)
	entry := LogEntry{
		Kind:   LogCombat,
		Actor:  seat(attacker.ID),
		Target: seat(defender.ID),
		Details: &LogDetails{Dice: &DiceDetail{
			Att: res.Attack, Def: res.Defense, AttRoll: res.AttackRoll, DefRoll: res.DefenseRoll,
		}},
	}

	if !res.Won {
		defender.Stats.BattlesWon++
		entry.Text = fmt.Sprintf("%s fails an attack on %s at %s.", attacker.Name, defender.Name, t.Label())
		gs.addLog(entry)
		return res
	}

	t.Owner = attacker.ID
	t.DeclaredBy = attacker.ID
	t.Fort = nil
	t.Reveal()
	attacker.Stats.BattlesWon++
	defender.Stats.TilesLost++
	entry.Text = fmt.Sprintf("%s attacks %s at %s and takes it!", attacker.Name, defender.Name, t.Label())

	var stealable []Resource
	for _, r := range CommonResources() {
		if defender.Resources.Get(r) > 0 {
			stealable = append(stealable, r)
		}
	}
	if len(stealable) > 0 {
		loot := stealable[rng.Intn(len(stealable))]
		defender.Resources.Take(loot, 1)
		attacker.Resources.Add(loot, 1)
		res.Loot = loot
		entry.Text += fmt.Sprintf(" Looted 1 %s.", loot)
	}
	gs.addLog(entry)
	return res
}
