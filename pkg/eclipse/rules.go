package eclipse

import (
	"fmt"
	"time"
)

// Ruleset selects how a false accusation is punished.
type Ruleset string

const (
	Standard Ruleset = "standard"
	Casual   Ruleset = "casual"
)

// Difficulty tunes AI aggression and suspicion.
type Difficulty string

const (
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseRuleset converts a wire string to a Ruleset.
func ParseRuleset(s string) (Ruleset, error) {
	switch Ruleset(s) {
	case Standard, Casual:
		return Ruleset(s), nil
	}
	return "", fmt.Errorf("unknown ruleset %q", s)
}

// ParseDifficulty converts a wire string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Normal, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Tuning holds the probability and magnitude knobs that are balance choices
// rather than rules.
type Tuning struct {
	ChallengeBase       float64 `json:"challenge_base"`
	ChallengeSuspicious float64 `json:"challenge_suspicious"`
	ChallengeParanoid   float64 `json:"challenge_paranoid"`
	ChallengeGreedy     float64 `json:"challenge_greedy"`
	ChallengeHard       float64 `json:"challenge_hard"`
	SuspicionThreshold  int     `json:"suspicion_threshold"`
	HardStartPsyche     int     `json:"hard_start_psyche"`
	MarketRate          int     `json:"market_rate"`
	Reparation          int     `json:"reparation"`
}

// Rules configures one game.
type Rules struct {
	Ruleset           Ruleset       `json:"ruleset"`
	Difficulty        Difficulty    `json:"difficulty"`
	TotalRounds       int           `json:"total_rounds"`
	ChallengeWindow   time.Duration `json:"challenge_window"`
	AutoAcknowledge   bool          `json:"auto_acknowledge"`
	SurplusTradeGrain int           `json:"surplus_trade_grain"`
	Tuning            Tuning        `json:"tuning"`
}

// DefaultRules returns the standard five-round game.
func DefaultRules() Rules {
	return Rules{
		Ruleset:           Standard,
		Difficulty:        Normal,
		TotalRounds:       5,
		ChallengeWindow:   5 * time.Second,
		SurplusTradeGrain: 4,
		Tuning: Tuning{
			ChallengeBase:       0.05,
			ChallengeSuspicious: 0.3,
			ChallengeParanoid:   0.3,
			ChallengeGreedy:     0.1,
			ChallengeHard:       0.2,
			SuspicionThreshold:  60,
			HardStartPsyche:     20,
			MarketRate:          3,
			Reparation:          2,
		},
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Ruleset == "" {
		r.Ruleset = d.Ruleset
	}
	if r.Difficulty == "" {
		r.Difficulty = d.Difficulty
	}
	if r.TotalRounds <= 0 {
		r.TotalRounds = d.TotalRounds
	}
	if r.ChallengeWindow <= 0 {
		r.ChallengeWindow = d.ChallengeWindow
	}
	if r.SurplusTradeGrain <= 0 {
		r.SurplusTradeGrain = d.SurplusTradeGrain
	}
	if r.Tuning == (Tuning{}) {
		r.Tuning = d.Tuning
	}
	return r
}
