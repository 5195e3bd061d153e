package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// table deals a seeded game and fast-forwards it to the Action phase with
// every seat exploring and seat `turn` to act.
func table(t *testing.T, players int, human eclipse.PlayerID, turn eclipse.PlayerID) *eclipse.GameState {
	t.Helper()
	gs, err := eclipse.NewGame(eclipse.Setup{Players: players, HumanSeat: human}, eclipse.NewRand(7))
	require.NoError(t, err)
	gs.Phase = eclipse.PhaseAction
	gs.TurnOrder = nil
	for _, p := range gs.Players {
		p.Role = eclipse.Explorer
		gs.TurnOrder = append(gs.TurnOrder, p.ID)
	}
	gs.TurnIndex = int(turn)
	return gs
}
