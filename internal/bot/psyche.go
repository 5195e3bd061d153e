package bot

import "github.com/freeeve/relic-eclipse/pkg/eclipse"

// Dialogue line groups an AI draws flavor text from.
const (
	LinesCoalition  = "coalition"
	LinesFearAttack = "fear_attack"
	LinesAttack     = "attack"
	LinesFortify    = "fortify"
	LinesExpand     = "expand"
)

var dialogueLines = map[string][]string{
	LinesCoalition:  {"We must unite against the leader.", "They are too strong to ignore.", "An alliance of necessity."},
	LinesFearAttack: {"I strike out of fear!", "Don't come any closer!", "Pre-emptive defense!"},
	LinesAttack:     {"This territory is mine!", "Yield or perish.", "Your weakness is my opportunity."},
	LinesFortify:    {"Defense is the best offense.", "Safe behind walls.", "Try to breach this."},
	LinesExpand:     {"New horizons.", "Claiming this for the glory of the faction.", "Manifest destiny."},
}

// DialogueLines returns the flavor lines for a group.
func DialogueLines(group string) []string {
	return append([]string(nil), dialogueLines[group]...)
}

func pickLine(group string, rng eclipse.Rand) string {
	lines := dialogueLines[group]
	if len(lines) == 0 {
		return ""
	}
	return lines[rng.Intn(len(lines))]
}

// Rival returns the seat an AI measures itself against: the human while they
// are in the game, otherwise the strongest other active seat. Nil when the AI
// has no rival left.
func Rival(gs *eclipse.GameState, pid eclipse.PlayerID) *eclipse.Player {
	if h := gs.Human(); h != nil && h.ID != pid && h.Active() {
		return h
	}
	var best *eclipse.Player
	for _, p := range gs.ActivePlayers() {
		if p.ID == pid {
			continue
		}
		if best == nil || p.VP > best.VP || (p.VP == best.VP && gs.TileCount(p.ID) > gs.TileCount(best.ID)) {
			best = p
		}
	}
	return best
}

// StrengthRatio compares the rival's holdings to the AI's: tiles plus half the grain stock.
func StrengthRatio(gs *eclipse.GameState, ai, rival *eclipse.Player) float64 {
	theirs := float64(gs.TileCount(rival.ID)) + float64(rival.Resources.Grain)/2
	ours := float64(gs.TileCount(ai.ID)) + float64(ai.Resources.Grain)/2 + 0.1
	return theirs / ours
}

// Mood is the outcome of one psychology update.
type Mood struct {
	Mind      eclipse.AIState
	Rival     *eclipse.Player
	Attacked  bool
	Coalition bool
}

// UpdateMind advances an AI's fear, suspicion, and stance toward its rival for
// the start of its turn. The returned mind is a copy; the game state is not touched.
func UpdateMind(gs *eclipse.GameState, pid eclipse.PlayerID) Mood {
	ai := gs.Player(pid)
	if ai == nil || ai.AI == nil {
		return Mood{}
	}
	mind := *ai.AI
	mood := Mood{Mind: mind}
	rival := Rival(gs, pid)
	if rival == nil {
		return mood
	}
	mood.Rival = rival

	ratio := StrengthRatio(gs, ai, rival)
	fear, suspicion := mind.Fear, mind.Suspicion
	if ratio > 1.2 {
		fear += 5
	}
	if ratio < 0.8 {
		fear -= 2
	}

	mood.Attacked = rival.Stats.HasAttacked(pid) && !ai.Stats.HasAttacked(rival.ID)
	if mood.Attacked {
		suspicion = 100
	} else if ratio > 1.5 {
		suspicion += 2
	}
	if mind.HasTrait(eclipse.Paranoid) {
		suspicion += 10
	}
	if mind.HasTrait(eclipse.Cautious) {
		fear += 5
	}

	stance := mind.Stance
	if gs.Rules.Difficulty == eclipse.Hard {
		fear += 2
		suspicion += 2
		if rival.VP > ai.VP+5 && stance != eclipse.War {
			stance = eclipse.War
			mood.Coalition = true
		}
	}

	fear, suspicion = clamp(fear), clamp(suspicion)
	switch {
	case fear > 80 && suspicion > 80:
		stance = stance.Escalate(eclipse.War)
	case mood.Attacked:
		stance = stance.Escalate(eclipse.War)
	case suspicion > 50:
		stance = stance.Escalate(eclipse.Hostile)
	}

	mood.Mind.Fear = fear
	mood.Mind.Suspicion = suspicion
	mood.Mind.Stance = stance
	return mood
}

// Dialogue picks the line an AI speaks this turn, or "" when it stays quiet or
// has already spoken this round.
func Dialogue(prev *eclipse.AIState, mood Mood, role eclipse.Role, rng eclipse.Rand) string {
	if prev == nil || prev.Dialogue != "" {
		return ""
	}
	switch {
	case mood.Coalition:
		return pickLine(LinesCoalition, rng)
	case mood.Mind.Stance == eclipse.War && prev.Stance != eclipse.War:
		return pickLine(LinesFearAttack, rng)
	case mood.Mind.Stance == eclipse.War:
		return pickLine(LinesAttack, rng)
	case role == eclipse.Builder && mood.Mind.Fear > 50:
		return pickLine(LinesFortify, rng)
	case role == eclipse.Explorer:
		return pickLine(LinesExpand, rng)
	}
	return ""
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
