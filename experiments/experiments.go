package experiments

import (
	"fmt"

	"bauernschach/agent"
	"bauernschach/config"
	"bauernschach/engine"
	"bauernschach/experiments/metrics"
	"bauernschach/game"

	"github.com/rs/zerolog/log"
)

// SelfPlay describes a batch of AI-only games.
type SelfPlay struct {
	Name     string
	GameData *config.GameData
	Games    int
	MaxTurns int
	Agents   []string // agent name per player, repeated when shorter than the player list
	Seed     uint64   // 0 picks random seeds
	OutDir   string   // empty skips writing records
}

// RunSelfPlay plays the configured games, rotating the starting player from
// game to game, and stores the records under OutDir.
func RunSelfPlay(sp SelfPlay) ([]metrics.GameRecord, error) {
	if sp.Games <= 0 {
		return nil, fmt.Errorf("number of games must be positive, got %d", sp.Games)
	}
	if sp.MaxTurns <= 0 {
		return nil, fmt.Errorf("turn limit must be positive, got %d", sp.MaxTurns)
	}
	if len(sp.Agents) == 0 {
		sp.Agents = []string{"random"}
	}
	for _, name := range sp.Agents {
		if !agent.Known(name) {
			return nil, fmt.Errorf("unknown agent %q", name)
		}
	}

	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	var configs []metrics.AgentConfig

	log.Info().Msgf("starting %s self-play with %d games...", sp.Name, sp.Games)

	for i := 0; i < sp.Games; i++ {
		setup, err := sp.GameData.AllAI().Setup()
		if err != nil {
			return nil, err
		}
		setup.Players = rotate(setup.Players, i)

		agents, names, gameConfigs := sp.agentsFor(setup, i)
		if i == 0 {
			configs = gameConfigs
		}

		winner, gameMetric, moveMetrics, err := runGame(setup, agents, sp.MaxTurns)
		if err != nil {
			return nil, err
		}
		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         i + 1,
			Agents:     names,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{
				Game:       i + 1,
				MoveMetric: mm,
			})
		}

		log.Info().Msgf("completed game %d of %d with winner: %q after %d turns", i+1, sp.Games, winner, gameMetric.Turns)
	}

	log.Info().Msgf("completed %s self-play", sp.Name)

	if sp.OutDir == "" {
		return gameRecords, nil
	}
	if err := store(sp.OutDir, sp.Name, configs, gameRecords, moveRecords); err != nil {
		return nil, err
	}
	return gameRecords, nil
}

func (sp SelfPlay) agentsFor(setup game.Setup, gameIndex int) (map[string]agent.Agent, []string, []metrics.AgentConfig) {
	players := setup.Players
	agents := make(map[string]agent.Agent, len(players))
	names := make([]string, len(players))
	configs := make([]metrics.AgentConfig, len(players))
	for j, p := range players {
		name := sp.Agents[j%len(sp.Agents)]
		opts := []agent.Option{agent.WithCatalog(setup.Catalog)}
		var seed uint64
		if sp.Seed != 0 {
			seed = sp.Seed + uint64(gameIndex*len(players)+j)
			opts = append(opts, agent.WithSeed(seed))
		}
		agents[p.ID], _ = agent.New(name, opts...)
		names[j] = name
		configs[j] = metrics.AgentConfig{PlayerID: p.ID, Agent: name, Seed: seed}
	}
	return agents, names, configs
}

// runGame executes a single game and returns the winner
func runGame(setup game.Setup, agents map[string]agent.Agent, maxTurns int) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	e, err := engine.LocalEngine(setup, agents, engine.WithMaxTurns(maxTurns))
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	return e.Run()
}

func rotate(players []*game.Player, n int) []*game.Player {
	if len(players) == 0 {
		return players
	}
	n %= len(players)
	out := make([]*game.Player, 0, len(players))
	out = append(out, players[n:]...)
	return append(out, players[:n]...)
}

func store(root, name string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(games)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moves)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored move records")
	return nil
}
