package eclipse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGame_Setup(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		gs, err := NewGame(Setup{Players: n, HumanSeat: 0}, NewRand(uint64(n)))
		require.NoError(t, err)
		require.Equal(t, PhaseIncome, gs.Phase)
		require.Equal(t, 1, gs.Round)
		require.Len(t, gs.Players, n)
		require.Equal(t, BoardSize(n)*BoardSize(n), len(gs.Tiles))
		require.Equal(t, DefaultRules(), gs.Rules)

		dealt := 0
		for _, p := range gs.Players {
			require.Equal(t, 1, gs.TileCount(p.ID), "each player starts with a capital")
			capital := gs.OwnedTiles(p.ID)[0]
			require.Equal(t, Capital, capital.TrueType)
			require.True(t, capital.Revealed)
			require.NotNil(t, capital.Fort)
			require.Len(t, p.Objectives, 1)
			require.GreaterOrEqual(t, p.Resources.Total(), 6)
			require.Equal(t, p.ID == 0, p.Human)
			require.Equal(t, !p.Human, p.AI != nil)
			dealt += len(p.Objectives)
		}
		require.Equal(t, len(objectives), gs.ObjectiveDeck.Total()+dealt+len(gs.PublicObjectives))
		require.Equal(t, len(eventCards), gs.EventDeck.Total())
		assertInvariants(t, gs)
	}
}

func TestNewGame_RejectsSeatCounts(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		_, err := NewGame(Setup{Players: n, HumanSeat: 0}, NewRand(1))
		requireReason(t, err, ReasonInvalidPayload)
	}
	_, err := NewGame(Setup{Players: 3, HumanSeat: 3}, NewRand(1))
	requireReason(t, err, ReasonInvalidPayload)
}

func TestNewGame_HardStartsWary(t *testing.T) {
	rules := DefaultRules()
	rules.Difficulty = Hard
	gs, err := NewGame(Setup{Players: 3, HumanSeat: 0, Rules: rules}, NewRand(9))
	require.NoError(t, err)
	for _, p := range gs.Players[1:] {
		require.Equal(t, 20, p.AI.Fear)
		require.Equal(t, 20, p.AI.Suspicion)
		require.Equal(t, p.Faction.Traits, p.AI.Traits)
	}
}

func TestNewGame_SeedReplays(t *testing.T) {
	a, err := NewGame(Setup{Players: 4, HumanSeat: NoPlayer}, NewRand(77))
	require.NoError(t, err)
	b, err := NewGame(Setup{Players: 4, HumanSeat: NoPlayer}, NewRand(77))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCapitalBonus(t *testing.T) {
	require.Equal(t, Resources{Grain: 2}, capitalBonus(Plains))
	require.Equal(t, Resources{Stone: 2}, capitalBonus(Mountains))
	require.Equal(t, Resources{Gold: 2}, capitalBonus(Goldmine))
	require.Equal(t, Resources{Gold: 1, Stone: 1}, capitalBonus(RelicSite))
	require.Equal(t, Resources{Grain: 1, Stone: 1}, capitalBonus(Ruins))
}

func TestGameState_CloneIndependent(t *testing.T) {
	gs, err := NewGame(Setup{Players: 3, HumanSeat: 0}, NewRand(5))
	require.NoError(t, err)
	c := gs.Clone()
	require.Equal(t, gs, c)

	c.Players[0].Resources.Grain = 99
	c.Players[0].Objectives[0] = "zzz"
	c.Players[1].AI.Traits[0] = Greedy
	for _, tile := range c.Tiles {
		if tile.Fort != nil {
			tile.Fort.Level = 9
		}
	}
	c.EventDeck.Cards[0] = "zzz"
	c.Log[0].Text = "changed"

	require.NotEqual(t, 99, gs.Players[0].Resources.Grain)
	require.NotEqual(t, "zzz", gs.Players[0].Objectives[0])
	require.NotEqual(t, Greedy, gs.Players[1].AI.Traits[0])
	for _, tile := range gs.Tiles {
		if tile.Fort != nil {
			require.Equal(t, 1, tile.Fort.Level)
		}
	}
	require.NotEqual(t, "zzz", gs.EventDeck.Cards[0])
	require.NotEqual(t, "changed", gs.Log[0].Text)
}
