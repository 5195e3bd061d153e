package eclipse

import "fmt"

// LogKind tags a log entry for narration styling.
type LogKind string

const (
	LogInfo   LogKind = "info"
	LogCombat LogKind = "combat"
	LogEvent  LogKind = "event"
	LogPhase  LogKind = "phase"
	LogBluff  LogKind = "bluff"
	LogAlert  LogKind = "alert"
)

// DiceDetail records both sides of a battle.
type DiceDetail struct {
	Att     int `json:"att"`
	Def     int `json:"def"`
	AttRoll int `json:"att_roll"`
	DefRoll int `json:"def_roll"`
}

// LogDetails is optional structured data attached to a log entry.
type LogDetails struct {
	Dice         *DiceDetail `json:"dice,omitempty"`
	Card         string      `json:"card,omitempty"`
	TileType     TileType    `json:"tile_type,omitempty"`
	DeclaredType TileType    `json:"declared_type,omitempty"`
}

// LogEntry is one line of the append-only game narration.
type LogEntry struct {
	ID      int         `json:"id"`
	Round   int         `json:"round"`
	Kind    LogKind     `json:"kind"`
	Text    string      `json:"text"`
	Actor   *PlayerID   `json:"actor,omitempty"`
	Target  *PlayerID   `json:"target,omitempty"`
	Details *LogDetails `json:"details,omitempty"`
}

func seat(pid PlayerID) *PlayerID {
	return &pid
}

func (gs *GameState) addLog(e LogEntry) {
	e.ID = len(gs.Log) + 1
	e.Round = gs.Round
	gs.Log = append(gs.Log, e)
}

func (gs *GameState) logf(kind LogKind, format string, args ...any) {
	gs.addLog(LogEntry{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func (gs *GameState) actorLogf(kind LogKind, actor PlayerID, format string, args ...any) {
	gs.addLog(LogEntry{Kind: kind, Actor: seat(actor), Text: fmt.Sprintf(format, args...)})
}

// LogSince returns entries with an id greater than after.
func (gs *GameState) LogSince(after int) []LogEntry {
	if after < 0 {
		after = 0
	}
	if after >= len(gs.Log) {
		return nil
	}
	return gs.Log[after:]
}
