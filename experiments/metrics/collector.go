package metrics

import (
	"time"

	"bauernschach/game"
)

type AgentConfig struct {
	PlayerID string
	Agent    string // agent name, e.g. "random"
	Seed     uint64
}

type MoveMetric struct {
	Step     int
	Turn     int
	Player   string // Player ID
	Unit     string
	From     game.Cell
	To       game.Cell
	Captured string // Unit ID, empty when nothing was captured
}

type GameMetric struct {
	StartingPlayer string // Player ID
	Winner         string // Player ID
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Turns          int
	Captures       int
}

// Collector records one game as it is played.
type Collector interface {
	Start(startingPlayer string)
	AddMove(turn int, out game.MoveOutcome)
	Complete(winner string, turns int) (GameMetric, []MoveMetric)
}

type collector struct {
	startingPlayer string
	startTime      time.Time
	captures       int
	moves          []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(startingPlayer string) {
	m.startingPlayer = startingPlayer
	m.startTime = time.Now()
	m.captures = 0
	m.moves = nil
}

func (m *collector) AddMove(turn int, out game.MoveOutcome) {
	mm := MoveMetric{
		Step:   len(m.moves) + 1,
		Turn:   turn,
		Player: out.PlayerID,
		Unit:   out.UnitID,
		From:   out.From,
		To:     out.To,
	}
	if out.Captured != nil {
		mm.Captured = out.Captured.ID
		m.captures++
	}
	m.moves = append(m.moves, mm)
}

func (m *collector) Complete(winner string, turns int) (GameMetric, []MoveMetric) {
	end := time.Now()
	return GameMetric{
		StartingPlayer: m.startingPlayer,
		Winner:         winner,
		StartTime:      m.startTime,
		EndTime:        end,
		Duration:       end.Sub(m.startTime),
		TotalMoves:     len(m.moves),
		Turns:          turns,
		Captures:       m.captures,
	}, m.moves
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(startingPlayer string)            {}
func (m *dummyCollector) AddMove(turn int, out game.MoveOutcome) {}
func (m *dummyCollector) Complete(winner string, turns int) (GameMetric, []MoveMetric) {
	return GameMetric{Winner: winner, Turns: turns}, nil
}
