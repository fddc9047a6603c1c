package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bauernschach/game"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start("p1")
	c.AddMove(1, game.MoveOutcome{UnitID: "a", PlayerID: "p1", From: game.Cell{Row: 0, Col: 0}, To: game.Cell{Row: 1, Col: 0}})
	c.AddMove(2, game.MoveOutcome{UnitID: "b", PlayerID: "p2", To: game.Cell{Row: 1, Col: 0}, Captured: &game.Unit{ID: "a"}})

	gm, moves := c.Complete("p2", 2)

	require.Equal(t, "p1", gm.StartingPlayer)
	require.Equal(t, "p2", gm.Winner)
	require.Equal(t, 2, gm.TotalMoves)
	require.Equal(t, 2, gm.Turns)
	require.Equal(t, 1, gm.Captures)
	require.False(t, gm.EndTime.Before(gm.StartTime))
	require.Len(t, moves, 2)
	require.Equal(t, 1, moves[0].Step)
	require.Empty(t, moves[0].Captured)
	require.Equal(t, 2, moves[1].Step)
	require.Equal(t, "a", moves[1].Captured)

	t.Run("start resets the collector", func(t *testing.T) {
		c.Start("p2")
		gm, moves := c.Complete("", 0)
		require.Zero(t, gm.TotalMoves)
		require.Zero(t, gm.Captures)
		require.Empty(t, moves)
	})
}

func TestDummyCollector(t *testing.T) {
	c := NewDummyCollector()
	c.Start("p1")
	c.AddMove(1, game.MoveOutcome{UnitID: "a"})

	gm, moves := c.Complete("p1", 4)

	require.Equal(t, "p1", gm.Winner)
	require.Equal(t, 4, gm.Turns)
	require.Nil(t, moves)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "selfplay")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "selfplay"), filepath.Dir(w.Dir()))

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{PlayerID: "p1", Agent: "random", Seed: 5}}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{
		ID:     1,
		Agents: []string{"random", "greedy"},
		GameMetric: GameMetric{
			StartingPlayer: "p1",
			Winner:         "p2",
			StartTime:      start,
			EndTime:        start.Add(time.Second),
			Duration:       time.Second,
			TotalMoves:     12,
			Turns:          7,
			Captures:       3,
		},
	}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game: 1,
		MoveMetric: MoveMetric{
			Step: 1, Turn: 1, Player: "p1", Unit: "a",
			From: game.Cell{Row: 6, Col: 0}, To: game.Cell{Row: 5, Col: 0},
		},
	}}))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, [][]string{{"player", "agent", "seed"}, {"p1", "random", "5"}}, configs)

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2)
	require.Equal(t, []string{"1", "random|greedy", "p1", "p2", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "12", "7", "3"}, games[1])

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, []string{"1", "1", "1", "p1", "a", "6", "0", "5", "0", ""}, moves[1])
}
