package service

// Session events pushed to connected clients. A "log" event carries the new
// eclipse.LogEntry values appended by one transition. A "snapshot" event is
// sent per seat and carries that seat's eclipse.PlayerView.
const (
	EventSnapshot       = "snapshot"
	EventStateChanged   = "state_changed"
	EventLog            = "log"
	EventChallengeOpen  = "challenge_opened"
	EventChallengeClose = "challenge_closed"
	EventGameEnded      = "game_ended"
)

// Broadcaster sends session events to the clients seated in a game.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data any)
	SendSeatEvent(gameID string, seat int, eventType string, data any)
}

// NoopBroadcaster drops every event. Used by headless runs and tests.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}

func (NoopBroadcaster) SendSeatEvent(string, int, string, any) {}
