package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

func TestHeuristicStrategy_ChooseRole(t *testing.T) {
	tests := []struct {
		name   string
		round  int
		res    eclipse.Resources
		floats []float64
		want   eclipse.Role
	}{
		{"first round explores", 1, eclipse.Resources{}, nil, eclipse.Explorer},
		{"broke seat trades", 2, eclipse.Resources{Grain: 0, Gold: 1}, nil, eclipse.Merchant},
		{"stone builds", 2, eclipse.Resources{Grain: 1, Stone: 2}, []float64{0.5}, eclipse.Builder},
		{"grain fights", 2, eclipse.Resources{Grain: 2}, []float64{0.5}, eclipse.Warrior},
		{"stone roll fails then grain", 2, eclipse.Resources{Grain: 2, Stone: 2}, []float64{0.1, 0.9}, eclipse.Warrior},
		{"rolls fail", 2, eclipse.Resources{Grain: 2, Stone: 2}, []float64{0.1, 0.1}, eclipse.Explorer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := table(t, 2, 0, 1)
			gs.Round = tt.round
			gs.Players[1].Resources = tt.res
			got := HeuristicStrategy{}.ChooseRole(gs, 1, &eclipse.FixedRand{Floats: tt.floats})
			if got != tt.want {
				t.Errorf("ChooseRole = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHeuristicStrategy_BuysRationsWhenShort(t *testing.T) {
	gs := table(t, 2, 0, 1)
	ai := gs.Players[1]
	ai.Role = eclipse.Warrior
	ai.Resources = eclipse.Resources{Gold: 3}

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionMarket, plan.Action.Kind)
	require.Equal(t, eclipse.Gold, plan.Action.Resource)

	ai.Resources = eclipse.Resources{Stone: 3}
	plan = HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.Stone, plan.Action.Resource)

	ai.Resources = eclipse.Resources{Stone: 2, Gold: 2}
	plan = HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.Nil(t, plan.Action, "nothing affordable means pass")
}

func TestHeuristicStrategy_UnveilsHiddenRelic(t *testing.T) {
	gs := table(t, 2, 0, 1)
	relic := gs.Frontier(1)[0]
	relic.Owner = 1
	relic.DeclaredBy = 1
	relic.TrueType = eclipse.RelicSite
	relic.PublicType = eclipse.Plains

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{Floats: []float64{0.8}})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionUnveil, plan.Action.Kind)
	require.Equal(t, relic.ID, plan.Action.Target)

	plan = HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{Floats: []float64{0.5}})
	if plan.Action != nil {
		require.NotEqual(t, eclipse.ActionUnveil, plan.Action.Kind)
	}
}

func TestHeuristicStrategy_MerchantTrades(t *testing.T) {
	gs := table(t, 2, 0, 1)
	gs.Players[1].Role = eclipse.Merchant
	gs.Players[1].Resources = eclipse.Resources{Grain: 3}

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionTrade, plan.Action.Kind)
}

func TestHeuristicStrategy_BuilderFortifiesOpenTile(t *testing.T) {
	gs := table(t, 2, 0, 1)
	ai := gs.Players[1]
	ai.Role = eclipse.Builder
	ai.Resources = eclipse.Resources{Stone: 3}
	open := gs.Frontier(1)[0]
	open.Owner = 1
	open.DeclaredBy = 1

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionFortify, plan.Action.Kind)
	require.Equal(t, open.ID, plan.Action.Target, "the capital is already fortified")
}

// warTable gives seat 1 a border with both the human and seat 2.
func warTable(t *testing.T) (*eclipse.GameState, *eclipse.Tile) {
	t.Helper()
	gs := table(t, 3, 0, 1)
	capital := gs.OwnedTiles(1)[0]
	front := gs.NeighborTiles(capital.ID)
	require.GreaterOrEqual(t, len(front), 2)
	for _, tile := range front {
		tile.Fort = nil
	}
	humanTile := front[1]
	humanTile.Owner = 0
	humanTile.DeclaredBy = 0
	front[0].Owner = 2
	front[0].DeclaredBy = 2
	gs.Players[1].Role = eclipse.Warrior
	gs.Players[1].Resources = eclipse.Resources{Grain: 3}
	return gs, humanTile
}

func TestHeuristicStrategy_WarriorAtWarTargetsRival(t *testing.T) {
	gs, humanTile := warTable(t)
	gs.Players[1].AI.Stance = eclipse.War

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{Ints: []int{0, 0}})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionAttack, plan.Action.Kind)
	require.Equal(t, humanTile.Owner, gs.Tile(plan.Action.Target).Owner)
	require.Contains(t, DialogueLines(LinesAttack), plan.Dialogue)
	require.Equal(t, plan.Dialogue, plan.Mind.Dialogue)
}

func TestHeuristicStrategy_VengefulWarriorTargetsRival(t *testing.T) {
	gs, humanTile := warTable(t)
	require.True(t, gs.Players[1].AI.HasTrait(eclipse.Vengeful))

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{Floats: []float64{0.5}})
	require.NotNil(t, plan.Action)
	require.Equal(t, humanTile.Owner, gs.Tile(plan.Action.Target).Owner)
}

func TestHeuristicStrategy_BlockedWarriorPasses(t *testing.T) {
	gs, _ := warTable(t)
	gs.Players[1].Status.AttackBlocked = true

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{})
	require.Nil(t, plan.Action)
}

func TestHeuristicStrategy_ExplorerBluffs(t *testing.T) {
	gs := table(t, 2, 0, 1)
	for _, tile := range gs.Frontier(1) {
		tile.TrueType = eclipse.Plains
		tile.PublicType = eclipse.Plains
	}
	target := gs.Frontier(1)[0]

	rng := &eclipse.FixedRand{Ints: []int{0, 0}, Floats: []float64{0.1, 0.9}}
	plan := HeuristicStrategy{}.PlanTurn(gs, 1, rng)
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionExplore, plan.Action.Kind)
	require.Equal(t, target.ID, plan.Action.Target)
	require.Equal(t, eclipse.Goldmine, plan.Action.Declared)
	require.Contains(t, DialogueLines(LinesExpand), plan.Dialogue)

	// The claim opens a challenge window for the human.
	ns, progressed, err := eclipse.Step(gs, HeuristicStrategy{}, &eclipse.FixedRand{Ints: []int{0, 0}, Floats: []float64{0.1, 0.9}})
	require.NoError(t, err)
	require.True(t, progressed)
	require.NotNil(t, ns.PendingChallenge)
	require.Equal(t, eclipse.Goldmine, ns.PendingChallenge.Declared)
	require.Equal(t, eclipse.PlayerID(1), ns.PendingChallenge.Declarer)
}

func TestHeuristicStrategy_ExploresFogWithoutDeclaring(t *testing.T) {
	gs := table(t, 2, 1, 1)
	gs.Players[1].Resources = eclipse.Resources{Grain: 3, Stone: 3, Gold: 3}
	view := eclipse.PlayerView(gs, 1)
	for _, tile := range view.Frontier(1) {
		require.Equal(t, eclipse.Fog, tile.TrueType)
	}

	plan := HeuristicStrategy{}.PlanTurn(view, 1, &eclipse.FixedRand{Ints: []int{0}})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionExplore, plan.Action.Kind)
	require.Empty(t, plan.Action.Declared, "unseen terrain is declared after the pick")
}

func TestHeuristicStrategy_ExplorerScavengesRuins(t *testing.T) {
	gs := table(t, 2, 0, 1)
	for _, tile := range gs.Frontier(1) {
		tile.TrueType = eclipse.Plains
		tile.PublicType = eclipse.Plains
	}
	ruin := gs.Frontier(1)[0]
	ruin.TrueType = eclipse.Ruins
	ruin.PublicType = eclipse.Ruins

	plan := HeuristicStrategy{}.PlanTurn(gs, 1, &eclipse.FixedRand{Floats: []float64{0.5}})
	require.NotNil(t, plan.Action)
	require.Equal(t, eclipse.ActionExplore, plan.Action.Kind)
	require.Equal(t, ruin.ID, plan.Action.Target)
}

func TestBluff(t *testing.T) {
	tests := []struct {
		real   eclipse.TileType
		floats []float64
		want   eclipse.TileType
	}{
		{eclipse.Plains, []float64{0.1, 0.9}, eclipse.Goldmine},
		{eclipse.Mountains, []float64{0.1, 0.2}, eclipse.RelicSite},
		{eclipse.Plains, []float64{0.5}, eclipse.Plains},
		{eclipse.Goldmine, []float64{0.0}, eclipse.Goldmine},
		{eclipse.RelicSite, []float64{0.0}, eclipse.RelicSite},
		{eclipse.Fog, []float64{0.0}, ""},
	}
	for _, tt := range tests {
		got := Bluff(tt.real, &eclipse.FixedRand{Floats: tt.floats})
		if got != tt.want {
			t.Errorf("Bluff(%s, %v) = %s, want %s", tt.real, tt.floats, got, tt.want)
		}
	}
}
