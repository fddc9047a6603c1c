package engine

import (
	"errors"

	"bauernschach/game"
)

var (
	ErrNotHumanTurn = errors.New("it is not a human player's turn")
	ErrHumanTurn    = errors.New("game is waiting for a human player")
)

type EventType string

const (
	EventTurnStarted EventType = "turn_started"
	EventMoveApplied EventType = "move_applied"
	EventGameOver    EventType = "game_over"
)

// Event is pushed to the Notifier between calls into the game.
type Event struct {
	Type       EventType         `json:"type"`
	Turn       int               `json:"turn"`
	PlayerID   string            `json:"playerId,omitempty"`
	Move       *game.MoveOutcome `json:"move,omitempty"`
	Winner     string            `json:"winner,omitempty"`
	Eliminated []string          `json:"eliminated,omitempty"`
}

// Notifier receives engine events, e.g. to redraw a board.
type Notifier interface {
	Notify(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) {
	f(e)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
