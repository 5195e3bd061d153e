package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/bot"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

func main() {
	url := flag.String("url", "http://localhost:8009", "server base URL")
	strategyName := flag.String("strategy", bot.StrategyHeuristic, "strategy for the human seat (heuristic, random, passive)")
	players := flag.Int("players", eclipse.MaxPlayers, "players in the game (2-4)")
	difficulty := flag.String("difficulty", string(eclipse.Normal), "AI difficulty (normal, hard)")
	ruleset := flag.String("ruleset", string(eclipse.Standard), "ruleset (standard, casual)")
	rounds := flag.Int("rounds", 0, "rounds (0 = default)")
	seed := flag.Uint64("seed", 0, "game seed (0 = server picks)")
	poll := flag.Duration("poll", 2*time.Second, "state refresh interval when no event arrives")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	ap := bot.NewAutopilot(bot.NewClient(*url), bot.StrategyFor(*strategyName), uint64(time.Now().UnixNano()), *poll)
	final, err := ap.Run(ctx, bot.NewGameRequest{
		Players:    *players,
		Ruleset:    *ruleset,
		Difficulty: *difficulty,
		Seed:       *seed,
		Rounds:     *rounds,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Autopilot failed")
	}
	for i, p := range eclipse.Standings(final) {
		log.Info().Int("rank", i+1).Str("faction", p.Faction.Name).Bool("human", p.Human).Int("vp", p.VP).Msg("Final standing")
	}
}
