package model

import (
	"encoding/json"
	"time"
)

// Match is an archived game, either a finished human session or a headless simulation.
type Match struct {
	ID         string          `json:"id"`
	Source     string          `json:"source"` // session, simulation
	Seed       uint64          `json:"seed"`
	Players    int             `json:"players"`
	HumanSeat  int             `json:"human_seat"` // -1 when every seat is AI
	Ruleset    string          `json:"ruleset"`
	Difficulty string          `json:"difficulty"`
	Rounds     int             `json:"rounds"`
	WinnerSeat int             `json:"winner_seat"`
	Winner     string          `json:"winner,omitempty"` // faction name
	FinalState json.RawMessage `json:"final_state,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []MatchResult   `json:"results,omitempty"`
}

// MatchResult is one seat's final line in an archived match.
type MatchResult struct {
	MatchID    string `json:"match_id"`
	Seat       int    `json:"seat"`
	Faction    string `json:"faction"`
	Human      bool   `json:"human"`
	Rank       int    `json:"rank"`
	VP         int    `json:"vp"`
	Tiles      int    `json:"tiles"`
	Eliminated bool   `json:"eliminated"`
}

// FactionStat aggregates archived results for one faction.
type FactionStat struct {
	Faction    string  `json:"faction"`
	Games      int     `json:"games"`
	Wins       int     `json:"wins"`
	AvgVP      float64 `json:"avg_vp"`
	Eliminated int     `json:"eliminated"`
}

// Session is the live-game envelope kept in the cache next to the engine snapshot.
type Session struct {
	ID         string    `json:"id"`
	Seed       uint64    `json:"seed"`
	Players    int       `json:"players"`
	HumanSeat  int       `json:"human_seat"`
	Ruleset    string    `json:"ruleset"`
	Difficulty string    `json:"difficulty"`
	MatchID    string    `json:"match_id,omitempty"` // set once archived
	Steps      uint64    `json:"steps"`              // committed transitions, mixed into the RNG seed
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// ChallengeDeadline is the wall-clock end of an open challenge window.
	ChallengeDeadline *time.Time `json:"challenge_deadline,omitempty"`
}
