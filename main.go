package main

import (
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"bauernschach/agent"
	"bauernschach/api"
	"bauernschach/config"
	"bauernschach/engine"
	"bauernschach/experiments"
	"bauernschach/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	settings := config.LoadSettings()

	mode := flag.String("mode", "serve", "serve: play against the AI over HTTP; selfplay: AI against AI")
	flag.StringVar(&settings.GameDataPath, "config", settings.GameDataPath, "game data file (JSON or YAML), empty for the built-in game")
	flag.StringVar(&settings.HTTPAddr, "addr", settings.HTTPAddr, "listen address in serve mode")
	flag.IntVar(&settings.Games, "games", settings.Games, "number of self-play games")
	flag.IntVar(&settings.MaxTurns, "max-turns", settings.MaxTurns, "turn limit per game, must be positive")
	flag.Uint64Var(&settings.Seed, "seed", settings.Seed, "AI seed, 0 for random")
	flag.StringVar(&settings.OutDir, "out", settings.OutDir, "directory for self-play records, empty to skip")
	agents := flag.String("agents", "greedy", "comma separated agent names per AI player: random, greedy, mcts")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(lvl)

	if settings.MaxTurns <= 0 {
		log.Fatal().Int("max_turns", settings.MaxTurns).Msg("turn limit must be positive")
	}

	gd, err := settings.GameData()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load game data")
	}
	agentNames := strings.Split(*agents, ",")

	switch *mode {
	case "serve":
		serve(settings, gd, agentNames)
	case "selfplay":
		_, err := experiments.RunSelfPlay(experiments.SelfPlay{
			Name:     "selfplay",
			GameData: gd,
			Games:    settings.Games,
			MaxTurns: settings.MaxTurns,
			Agents:   agentNames,
			Seed:     settings.Seed,
			OutDir:   settings.OutDir,
		})
		if err != nil {
			fatal(err, "self-play failed")
		}
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func serve(settings config.Settings, gd *config.GameData, agentNames []string) {
	setup, err := gd.Setup()
	if err != nil {
		fatal(err, "invalid game data")
	}

	agents := make(map[string]agent.Agent)
	i := 0
	for _, p := range setup.Players {
		if p.Kind != game.AI {
			continue
		}
		opts := []agent.Option{agent.WithCatalog(setup.Catalog)}
		if settings.Seed != 0 {
			opts = append(opts, agent.WithSeed(settings.Seed+uint64(i)))
		}
		a, ok := agent.New(agentNames[i%len(agentNames)], opts...)
		if !ok {
			log.Fatal().Str("agent", agentNames[i%len(agentNames)]).Msg("unknown agent")
		}
		agents[p.ID] = a
		i++
	}

	hub := api.NewHub()
	e, err := engine.LocalEngine(setup, agents, engine.WithNotifier(hub), engine.WithMaxTurns(settings.MaxTurns))
	if err != nil {
		fatal(err, "failed to start game")
	}
	if err := api.NewServer(e, hub).Run(settings.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func fatal(err error, msg string) {
	var cfgErr *game.ConfigurationError
	if errors.As(err, &cfgErr) {
		log.Fatal().Str("subject", cfgErr.Subject).Int("rule", cfgErr.Rule).Msg(cfgErr.Reason)
	}
	log.Fatal().Err(err).Msg(msg)
}
