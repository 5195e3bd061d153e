package eclipse

import "fmt"

// Reason is a machine-readable rejection code.
type Reason string

const (
	ReasonWrongPhase         Reason = "wrong_phase"
	ReasonNotYourTurn        Reason = "not_your_turn"
	ReasonInsufficient       Reason = "insufficient_resources"
	ReasonIllegalTarget      Reason = "illegal_target"
	ReasonNotAdjacent        Reason = "not_adjacent"
	ReasonWrongOwner         Reason = "wrong_owner"
	ReasonAlreadyFortified   Reason = "already_fortified"
	ReasonRoleRequired       Reason = "role_required"
	ReasonAttackBlocked      Reason = "attack_blocked"
	ReasonPendingDecision    Reason = "pending_decision"
	ReasonNothingPending     Reason = "nothing_pending"
	ReasonWindowClosed       Reason = "window_closed"
	ReasonUnknownPlayer      Reason = "unknown_player"
	ReasonInvalidPayload     Reason = "invalid_payload"
	ReasonEliminated         Reason = "eliminated"
	ReasonRolesPending       Reason = "roles_pending"
	ReasonPlayersStillActing Reason = "players_acting"
)

// ValidationError is returned when an intent is rejected. The state passed in
// is never modified.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func reject(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
