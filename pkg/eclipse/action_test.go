package eclipse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireReason(t *testing.T, err error, want Reason) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	require.Equal(t, want, ve.Reason, ve.Message)
}

func TestPerformAction_TruthfulPlainsClaim(t *testing.T) {
	gs := fixture(t, 2, 0)
	target := tileAt(gs, 1, 0)
	rng := &FixedRand{Floats: []float64{0.9}} // AI does not challenge

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: target.ID, Declared: Plains}, rng)
	require.NoError(t, err)

	got := ns.Tiles[target.ID]
	require.Equal(t, PlayerID(0), got.Owner)
	require.Equal(t, Plains, got.PublicType)
	require.Equal(t, 2, ns.Players[0].Resources.Grain)
	require.Equal(t, 1, ns.Players[0].Stats.TilesRevealed)
	require.Equal(t, 1, ns.Players[0].ActionsTaken)
	require.Equal(t, PlayerID(1), ns.CurrentPlayer().ID)

	// original snapshot untouched
	require.False(t, gs.Tiles[target.ID].Owned())
	require.Equal(t, 3, gs.Players[0].Resources.Grain)
	assertInvariants(t, ns)
}

func TestPerformAction_HumanPendingDeclaration(t *testing.T) {
	gs := fixture(t, 2, 0)
	target := tileAt(gs, 0, 1)

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: target.ID}, &FixedRand{})
	require.NoError(t, err)
	require.NotNil(t, ns.PendingDeclaration)
	require.Equal(t, 3, ns.Players[0].Resources.Grain, "nothing is paid until the declaration")

	_, err = Pass(ns, 0, &FixedRand{})
	requireReason(t, err, ReasonPendingDecision)

	cancelled, err := CancelDeclaration(ns, 0)
	require.NoError(t, err)
	require.Nil(t, cancelled.PendingDeclaration)
	require.Equal(t, PlayerID(0), cancelled.CurrentPlayer().ID)

	declared, err := DeclareTileType(ns, 0, Plains, &FixedRand{Floats: []float64{0.99}})
	require.NoError(t, err)
	require.Nil(t, declared.PendingDeclaration)
	require.Equal(t, PlayerID(0), declared.Tiles[target.ID].Owner)
	require.Equal(t, 2, declared.Players[0].Resources.Grain)
}

func TestPerformAction_Fatigue(t *testing.T) {
	gs := fixture(t, 2, 0)
	gs.Players[0].Role = Builder
	gs.Players[0].Resources.Stone = 10
	gs.Players[0].Status.ExtraActions = 1

	ns, err := PerformAction(gs, 0, Action{Kind: ActionFortify, Target: tileAt(gs, 0, 0).ID}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 8, ns.Players[0].Resources.Stone, "first fortify costs base")
	require.Equal(t, PlayerID(0), ns.CurrentPlayer().ID, "extra action keeps the seat")

	// claim a second tile to fortify
	ns.Tiles[tileAt(ns, 1, 0).ID].Owner = 0
	ns, err = PerformAction(ns, 0, Action{Kind: ActionFortify, Target: tileAt(ns, 1, 0).ID}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 5, ns.Players[0].Resources.Stone, "second fortify costs base+1")
	require.Equal(t, 2, ns.Players[0].ActionsTaken)
}

func TestActionCost_Monotonic(t *testing.T) {
	p := &Player{}
	for _, kind := range []ActionKind{ActionTrade, ActionFortify, ActionAttack, ActionExplore} {
		p.ActionsTaken = 0
		first := ActionCost(p, kind).Amount
		p.ActionsTaken = 1
		second := ActionCost(p, kind).Amount
		p.ActionsTaken = 4
		later := ActionCost(p, kind).Amount
		if second != first+1 || later != second {
			t.Errorf("%s costs %d, %d, %d; want base, base+1, base+1", kind, first, second, later)
		}
	}
}

func TestValidateAction_Rejections(t *testing.T) {
	gs := fixture(t, 2, 0)
	own := tileAt(gs, 0, 0).ID
	far := tileAt(gs, -2, -1).ID
	rival := tileAt(gs, 2, -2).ID

	tests := []struct {
		name   string
		setup  func(gs *GameState)
		pid    PlayerID
		action Action
		want   Reason
	}{
		{"not your turn", nil, 1, Action{Kind: ActionMarket, Resource: Gold}, ReasonNotYourTurn},
		{"unknown player", nil, 9, Action{Kind: ActionMarket, Resource: Gold}, ReasonUnknownPlayer},
		{"role required", nil, 0, Action{Kind: ActionFortify, Target: own}, ReasonRoleRequired},
		{"explore not adjacent", nil, 0, Action{Kind: ActionExplore, Target: far}, ReasonNotAdjacent},
		{"explore owned", nil, 0, Action{Kind: ActionExplore, Target: own}, ReasonIllegalTarget},
		{"explore insufficient", func(gs *GameState) { gs.Players[0].Resources.Grain = 0 }, 0,
			Action{Kind: ActionExplore, Target: tileAt(gs, 1, 0).ID}, ReasonInsufficient},
		{"declare ruins", nil, 0, Action{Kind: ActionExplore, Target: tileAt(gs, 1, 0).ID, Declared: Ruins}, ReasonInvalidPayload},
		{"fortify twice", func(gs *GameState) {
			gs.Players[0].Role = Builder
			gs.Tiles[own].Fort = &Fortification{Owner: 0, Level: 1}
		}, 0, Action{Kind: ActionFortify, Target: own}, ReasonAlreadyFortified},
		{"fortify rival", func(gs *GameState) { gs.Players[0].Role = Builder }, 0,
			Action{Kind: ActionFortify, Target: rival}, ReasonWrongOwner},
		{"attack blocked", func(gs *GameState) {
			gs.Players[0].Role = Warrior
			gs.Players[0].Status.AttackBlocked = true
		}, 0, Action{Kind: ActionAttack, Target: rival}, ReasonAttackBlocked},
		{"attack not adjacent", func(gs *GameState) { gs.Players[0].Role = Warrior }, 0,
			Action{Kind: ActionAttack, Target: rival}, ReasonNotAdjacent},
		{"attack own", func(gs *GameState) { gs.Players[0].Role = Warrior }, 0,
			Action{Kind: ActionAttack, Target: own}, ReasonWrongOwner},
		{"market bad resource", nil, 0, Action{Kind: ActionMarket, Resource: Grain}, ReasonInvalidPayload},
		{"market insufficient", func(gs *GameState) { gs.Players[0].Resources.Gold = 2 }, 0,
			Action{Kind: ActionMarket, Resource: Gold}, ReasonInsufficient},
		{"unveil no relic", nil, 0, Action{Kind: ActionUnveil, Target: own}, ReasonIllegalTarget},
		{"unknown kind", nil, 0, Action{Kind: "dance"}, ReasonInvalidPayload},
		{"wrong phase", func(gs *GameState) { gs.Phase = PhaseEvents }, 0, Action{Kind: ActionMarket, Resource: Gold}, ReasonWrongPhase},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := gs.Clone()
			if tc.setup != nil {
				tc.setup(s)
			}
			before := s.Clone()
			_, err := PerformAction(s, tc.pid, tc.action, &FixedRand{})
			requireReason(t, err, tc.want)
			require.Equal(t, before, s, "rejected intent must not change state")
		})
	}
}

func TestPerformAction_TradeUsesFreeCreditFirst(t *testing.T) {
	gs := fixture(t, 2, 0)
	p := gs.Players[0]
	p.Role = Merchant
	p.Status.FreeTrades = 1
	p.Status.ExtraActions = 1

	ns, err := PerformAction(gs, 0, Action{Kind: ActionTrade}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 3, ns.Players[0].Resources.Grain)
	require.Equal(t, 4, ns.Players[0].Resources.Gold)
	require.Equal(t, 0, ns.Players[0].Status.FreeTrades)

	ns, err = PerformAction(ns, 0, Action{Kind: ActionTrade}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 0, ns.Players[0].Resources.Grain, "paid trade after the first action costs 3")
	require.Equal(t, 5, ns.Players[0].Resources.Gold)
}

func TestPerformAction_SurplusGrainUnlocksTrade(t *testing.T) {
	gs := fixture(t, 2, 0)
	gs.Players[0].Role = Warrior
	_, err := PerformAction(gs, 0, Action{Kind: ActionTrade}, &FixedRand{})
	requireReason(t, err, ReasonRoleRequired)

	gs.Players[0].Resources.Grain = 5
	ns, err := PerformAction(gs, 0, Action{Kind: ActionTrade}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 3, ns.Players[0].Resources.Grain)
}

func TestPerformAction_FreeFortifyRelicPower(t *testing.T) {
	gs := fixture(t, 2, 0)
	p := gs.Players[0]
	p.Role = Builder
	p.RelicPower = PowerFreeFortify
	p.Resources.Stone = 0

	ns, err := PerformAction(gs, 0, Action{Kind: ActionFortify, Target: tileAt(gs, 0, 0).ID}, &FixedRand{})
	require.NoError(t, err)
	require.NotNil(t, ns.Tiles[tileAt(gs, 0, 0).ID].Fort)
	require.Equal(t, 0, ns.Players[0].Resources.Stone)
}

func TestPerformAction_Market(t *testing.T) {
	gs := fixture(t, 2, 0)
	ns, err := PerformAction(gs, 0, Action{Kind: ActionMarket, Resource: Stone}, &FixedRand{})
	require.NoError(t, err)
	require.Equal(t, 0, ns.Players[0].Resources.Stone)
	require.Equal(t, 4, ns.Players[0].Resources.Grain)
	require.Equal(t, 1, ns.Players[0].ActionsTaken)
}

func TestPerformAction_ScavengeRuins(t *testing.T) {
	gs := fixture(t, 2, 0)
	ruin := tileAt(gs, 1, 0)
	ruin.TrueType = Ruins
	ruin.PublicType = Ruins
	gs.EventDeck = Deck{Cards: []string{"e6"}, Discard: []string{"e1", "e2", "e3", "e4", "e5", "e99", "e98", "e9", "e8"}}

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: ruin.ID}, &FixedRand{})
	require.NoError(t, err)
	got := ns.Tiles[ruin.ID]
	require.Equal(t, Plains, got.TrueType)
	require.Equal(t, Plains, got.PublicType)
	require.True(t, got.Revealed)
	require.False(t, got.Owned(), "ruins are never owned")
	require.Equal(t, 2, ns.Players[0].Resources.Grain)
	require.Equal(t, 5, ns.Players[0].Resources.Gold, "merchant windfall grants 2 gold")
	require.Equal(t, 1, ns.Players[0].Stats.TilesRevealed)
	require.Equal(t, PlayerID(1), ns.CurrentPlayer().ID)
	assertInvariants(t, ns)
}

func TestPerformAction_ScavengeSupplyDropWaitsForChoice(t *testing.T) {
	gs := fixture(t, 2, 0)
	ruin := tileAt(gs, 1, 0)
	ruin.TrueType = Ruins
	gs.EventDeck = Deck{Cards: []string{"e2", "e3", "e4", "e5", "e6", "e99", "e98", "e9", "e8", "e1"}, Discard: []string{}}

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: ruin.ID}, &FixedRand{})
	require.NoError(t, err)
	require.NotNil(t, ns.PendingChoice)
	require.Equal(t, PlayerID(0), ns.CurrentPlayer().ID)

	_, err = ChooseEventResource(ns, 0, Relic, &FixedRand{})
	requireReason(t, err, ReasonInvalidPayload)

	ns, err = ChooseEventResource(ns, 0, Stone, &FixedRand{})
	require.NoError(t, err)
	require.Nil(t, ns.PendingChoice)
	require.Equal(t, 5, ns.Players[0].Resources.Stone)
	require.Equal(t, 1, ns.Players[0].ActionsTaken)
	require.Equal(t, PlayerID(1), ns.CurrentPlayer().ID)
}

func TestPerformAction_UnveilHiddenRelic(t *testing.T) {
	gs := fixture(t, 2, 0)
	relic := tileAt(gs, 1, 0)
	relic.TrueType = RelicSite
	relic.PublicType = Plains
	relic.Owner = 0
	relic.DeclaredBy = 0
	gs.EventDeck = Deck{Cards: []string{"e5"}, Discard: []string{"e1", "e2", "e3", "e4", "e6", "e99", "e98", "e9", "e8"}}

	ns, err := PerformAction(gs, 0, Action{Kind: ActionUnveil, Target: relic.ID}, &FixedRand{})
	require.NoError(t, err)
	got := ns.Tiles[relic.ID]
	require.True(t, got.Revealed)
	require.Equal(t, RelicSite, got.PublicType)
	require.Equal(t, PowerWarlord, ns.Players[0].RelicPower)
	require.Equal(t, 1, ns.Players[0].Stats.RelicSitesRevealed)
	require.Equal(t, 1, ns.Players[0].Stats.RelicEventsTriggered)
	assertInvariants(t, ns)
}

func TestPerformAction_TruthfulRelicClaimRewards(t *testing.T) {
	gs := fixture(t, 2, 0)
	relic := tileAt(gs, 0, 1)
	relic.TrueType = RelicSite
	relic.PublicType = RelicSite
	gs.EventDeck = Deck{Cards: []string{"e3"}, Discard: []string{"e1", "e2", "e4", "e5", "e6", "e99", "e98", "e9", "e8"}}

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: relic.ID, Declared: RelicSite}, &FixedRand{Floats: []float64{0.9}})
	require.NoError(t, err)
	p := ns.Players[0]
	require.Equal(t, 1, p.Resources.Relic)
	require.Equal(t, 1, p.Stats.RelicSitesRevealed)
	require.Equal(t, PowerPassiveIncome, p.RelicPower)
}

func TestPerformAction_HiddenRelicBluffForfeitsReward(t *testing.T) {
	gs := fixture(t, 2, 0)
	relic := tileAt(gs, 0, 1)
	relic.TrueType = RelicSite

	ns, err := PerformAction(gs, 0, Action{Kind: ActionExplore, Target: relic.ID, Declared: Plains}, &FixedRand{Floats: []float64{0.9}})
	require.NoError(t, err)
	require.Equal(t, 0, ns.Players[0].Resources.Relic)
	require.True(t, ns.Tiles[relic.ID].IsBluffed())
	require.False(t, ns.Tiles[relic.ID].Revealed)
	assertInvariants(t, ns)
}
