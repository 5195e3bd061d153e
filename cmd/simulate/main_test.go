package main

import (
	"testing"

	"github.com/freeeve/relic-eclipse/internal/bot"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

func TestSummarize(t *testing.T) {
	results := []*bot.ArenaResult{
		{
			Winner: 0,
			Standings: []bot.SeatResult{
				{Seat: 0, Faction: "Terran Republic", VP: 12, Tiles: 6},
				{Seat: 1, Faction: "Mars Confederacy", VP: 4, Tiles: 0, Eliminated: true},
			},
		},
		nil, // failed game
		{
			Winner: eclipse.NoPlayer,
			Standings: []bot.SeatResult{
				{Seat: 0, Faction: "Terran Republic", VP: 6, Tiles: 4},
				{Seat: 1, Faction: "Mars Confederacy", VP: 6, Tiles: 4},
			},
		},
	}

	sum := summarize(results)

	if sum.Completed != 2 {
		t.Errorf("expected 2 completed, got %d", sum.Completed)
	}
	if sum.Draws != 1 {
		t.Errorf("expected 1 draw, got %d", sum.Draws)
	}
	if len(sum.Factions) != 2 {
		t.Fatalf("expected 2 factions, got %d", len(sum.Factions))
	}
	terran := sum.Factions[0]
	if terran.Faction != "Terran Republic" || terran.Wins != 1 {
		t.Errorf("expected Terran Republic first with 1 win, got %+v", terran)
	}
	if terran.AvgVP != 9 || terran.AvgTiles != 5 {
		t.Errorf("unexpected averages %+v", terran)
	}
	mars := sum.Factions[1]
	if mars.Eliminations != 1 || mars.Wins != 0 {
		t.Errorf("unexpected mars stats %+v", mars)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := summarize(nil)
	if sum.Completed != 0 || len(sum.Factions) != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}
