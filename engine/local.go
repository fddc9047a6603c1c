package engine

import (
	"fmt"

	"bauernschach/agent"
	"bauernschach/experiments/metrics"
	"bauernschach/game"
	"bauernschach/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Option func(*Engine)

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}

// WithMaxTurns stops AI play once the turn counter passes n. Values below 1
// keep the default limit.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// WithMaxActionsPerTurn caps the moves an AI makes before its turn is ended
// for it. Units without a cooldown could otherwise move forever.
func WithMaxActionsPerTurn(n int) Option {
	return func(e *Engine) {
		e.maxActions = n
	}
}

// Engine drives a session: human input is passed through on human turns and
// AI players are played by their agents until a human is to move again.
// It is not safe for concurrent use.
type Engine struct {
	session    *game.Session
	agents     map[string]agent.Agent
	notifier   Notifier
	collector  metrics.Collector
	maxTurns   int
	maxActions int

	started bool
	pending []game.TurnEvent
}

// LocalEngine creates the session for setup. Every AI player needs an agent
// in agents, keyed by player id.
func LocalEngine(setup game.Setup, agents map[string]agent.Agent, opts ...Option) (*Engine, error) {
	for _, p := range setup.Players {
		if p.Kind == game.AI && agents[p.ID] == nil {
			return nil, fmt.Errorf("no agent for AI player %q", p.ID)
		}
	}

	e := &Engine{
		agents:     agents,
		notifier:   nopNotifier{},
		collector:  metrics.NewCollector(),
		maxTurns:   meta.MAX_TURNS,
		maxActions: meta.MAX_ACTIONS_PER_TURN,
	}
	for _, opt := range opts {
		opt(e)
	}

	session, err := game.NewSession(setup, game.WithTurnListener(func(ev game.TurnEvent) {
		e.pending = append(e.pending, ev)
	}))
	if err != nil {
		return nil, err
	}
	e.session = session
	return e, nil
}

// Start announces the first turn and plays AI players up to the first human
// turn. Later calls do nothing.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.collector.Start(e.session.CurrentPlayer().ID)
	log.Info().Msgf("player %s is starting", e.session.CurrentPlayer().ID)
	e.flush()
	e.playAI()
}

// Select selects a unit for the human player whose turn it is.
func (e *Engine) Select(unitID string) ([]game.Cell, error) {
	if err := e.humanTurn(); err != nil {
		return nil, err
	}
	return e.session.SelectUnit(unitID)
}

// Confirm moves the selected unit for the human player whose turn it is.
func (e *Engine) Confirm(dest game.Cell) (game.MoveOutcome, error) {
	if err := e.humanTurn(); err != nil {
		return game.MoveOutcome{}, err
	}
	turn := e.session.Turn()
	out, err := e.session.ConfirmMove(dest)
	if err != nil {
		return game.MoveOutcome{}, err
	}
	e.applied(turn, out)
	e.playAI()
	return out, nil
}

// EndTurn ends the human player's turn.
func (e *Engine) EndTurn() error {
	if err := e.humanTurn(); err != nil {
		return err
	}
	player := e.session.CurrentPlayer().ID
	if err := e.session.EndTurn(); err != nil {
		return err
	}
	log.Debug().Str("player", player).Msg("turn ended")
	e.flush()
	e.playAI()
	return nil
}

// Run plays a game without human players to the end, or until the turn
// limit is reached, and returns the winner and the collected metrics.
func (e *Engine) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	e.Start()
	if !e.session.Over() && !e.exhausted() && e.session.CurrentPlayer().Kind == game.Human {
		return "", metrics.GameMetric{}, nil, ErrHumanTurn
	}

	winner := e.session.Winner()
	if winner != "" {
		log.Info().Str("winner", winner).Int("turn", e.session.Turn()).Msg("game ended due to a winner")
	} else {
		log.Info().Int("turn", e.session.Turn()).Msg("game stopped without a winner")
	}
	gameMetric, moveMetrics := e.collector.Complete(winner, e.session.Turn())
	return winner, gameMetric, moveMetrics, nil
}

func (e *Engine) Snapshot() game.Snapshot {
	return e.session.Snapshot()
}

func (e *Engine) LegalMoves(playerID string) []game.Action {
	return e.session.LegalMovesForPlayer(playerID)
}

func (e *Engine) Over() bool {
	return e.session.Over()
}

func (e *Engine) Winner() string {
	return e.session.Winner()
}

func (e *Engine) humanTurn() error {
	e.Start()
	if e.session.Over() {
		return game.ErrGameOver
	}
	if e.session.CurrentPlayer().Kind != game.Human {
		return ErrNotHumanTurn
	}
	return nil
}

func (e *Engine) exhausted() bool {
	return e.session.Turn() > e.maxTurns
}

func (e *Engine) playAI() {
	for !e.session.Over() && !e.exhausted() && e.session.CurrentPlayer().Kind == game.AI {
		e.takeTurn()
	}
}

// takeTurn lets the current AI player move until its turn ends.
func (e *Engine) takeTurn() {
	player := e.session.CurrentPlayer()
	turn := e.session.Turn()
	ag := e.agents[player.ID]

	for i := 0; i < e.maxActions; i++ {
		moves := e.session.LegalMovesForPlayer(player.ID)
		if len(moves) == 0 {
			break
		}
		action, ok := ag.ChooseMove(moves, e.session.Snapshot())
		if !ok {
			break
		}
		if !slices.Contains(moves, action) {
			log.Warn().Str("player", player.ID).Interface("action", action).Msg("agent returned an illegal move, using the first legal one")
			action = moves[0]
		}
		out, err := e.session.Play(action)
		if err != nil {
			log.Error().Err(err).Str("player", player.ID).Msg("legal move was rejected")
			break
		}
		e.applied(turn, out)
		if out.TurnEnded || out.GameOver {
			return
		}
	}

	if err := e.session.EndTurn(); err != nil {
		log.Error().Err(err).Str("player", player.ID).Msg("failed to end turn")
		return
	}
	e.flush()
}

func (e *Engine) applied(turn int, out game.MoveOutcome) {
	e.collector.AddMove(turn, out)
	ev := log.Debug().Str("player", out.PlayerID).Str("unit", out.UnitID).
		Interface("from", out.From).Interface("to", out.To)
	if out.Captured != nil {
		ev = ev.Str("captured", out.Captured.ID)
	}
	ev.Msg("move applied")

	e.notifier.Notify(Event{Type: EventMoveApplied, Turn: turn, PlayerID: out.PlayerID, Move: &out})
	e.flush()
	if out.GameOver {
		winner := e.session.Winner()
		log.Info().Str("winner", winner).Strs("eliminated", e.session.Eliminated()).Msg("game over")
		e.notifier.Notify(Event{
			Type:       EventGameOver,
			Turn:       e.session.Turn(),
			Winner:     winner,
			Eliminated: e.session.Eliminated(),
		})
	}
}

// flush forwards turn starts recorded by the session listener.
func (e *Engine) flush() {
	pending := e.pending
	e.pending = nil
	for _, ev := range pending {
		log.Debug().Str("player", ev.PlayerID).Int("turn", ev.Turn).Msg("turn started")
		e.notifier.Notify(Event{Type: EventTurnStarted, Turn: ev.Turn, PlayerID: ev.PlayerID})
	}
}
