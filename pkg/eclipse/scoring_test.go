package eclipse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore_Breakdown(t *testing.T) {
	gs := fixture(t, 2, 0)
	p := gs.Players[0]
	p.Objectives = []string{"o9"} // no attacks, 3 VP
	p.Resources.Relic = 2
	p.BonusVP = 1
	tileAt(gs, 0, 0).Fort = &Fortification{Owner: 0, Level: 1}
	relic := tileAt(gs, 1, 0)
	relic.Owner = 0
	relic.TrueType = RelicSite
	relic.PublicType = Plains
	ruins := tileAt(gs, 0, 1)
	ruins.Owner = 0
	ruins.TrueType = Ruins
	gs.PublicObjectives = []string{"o8", "o3"} // lose 0 tiles (4 VP), win 3 battles

	b := Score(gs, p)
	require.Equal(t, ScoreBreakdown{Tiles: 4, Forts: 1, Relics: 4, Secret: 3, Public: 4, Bonus: 1, Total: 17}, b)
}

func TestScore_FloorsAtZero(t *testing.T) {
	gs := fixture(t, 2, 0)
	p := gs.Players[0]
	p.Objectives = nil
	p.BonusVP = -20
	require.Equal(t, 0, Score(gs, p).Total)
}

func TestScoreAll_UsesTrueTypes(t *testing.T) {
	gs := fixture(t, 2, 0)
	gs.Players[0].Objectives = nil
	bluff := tileAt(gs, 1, 0)
	bluff.Owner = 0
	bluff.PublicType = RelicSite // really plains
	ScoreAll(gs)
	require.Equal(t, 3, gs.Players[0].VP)
}

func TestStandings_TieBreaks(t *testing.T) {
	gs := fixture(t, 3, 0)
	gs.Players[0].VP = 5
	gs.Players[1].VP = 7
	gs.Players[2].VP = 5
	tileAt(gs, -2, 1).Owner = 2

	s := Standings(gs)
	require.Equal(t, []PlayerID{1, 2, 0}, []PlayerID{s[0].ID, s[1].ID, s[2].ID})
	require.Equal(t, PlayerID(1), Winner(gs).ID)
}

func TestObjective_Progress(t *testing.T) {
	gs := fixture(t, 2, 0)
	p := gs.Players[0]
	o, ok := ObjectiveByID("o2")
	require.True(t, ok)
	require.Equal(t, "3/5", o.Progress(gs, p))
	require.False(t, o.Met(gs, p))
	p.Resources.Stone = 5
	require.True(t, o.Met(gs, p))

	o, _ = ObjectiveByID("o9")
	require.Equal(t, "Peaceful", o.Progress(gs, p))
	p.Stats.AttacksMade = 1
	require.Equal(t, "Failed", o.Progress(gs, p))

	require.Len(t, ObjectiveIDs(), 13)
	_, ok = ObjectiveByID("o99")
	require.False(t, ok)
}
