package game

import (
	"golang.org/x/exp/slices"
)

// Setup is everything needed to start a game.
type Setup struct {
	Board   Board
	Catalog *Catalog
	Players []*Player
}

// TurnEvent is emitted each time a player's turn starts.
type TurnEvent struct {
	Turn        int    `json:"turn"`
	PlayerIndex int    `json:"playerIndex"`
	PlayerID    string `json:"playerId"`
}

type Option func(s *Session)

// WithTurnListener registers fn to be called after every TurnStart,
// including the first one. fn must not call back into the session.
func WithTurnListener(fn func(TurnEvent)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onTurn = fn
		}
	}
}

// Session runs one game. It is not safe for concurrent use: callers
// serialise SelectUnit, ConfirmMove and EndTurn.
type Session struct {
	board    Board
	catalog  *Catalog
	players  []*Player
	units    map[string]*Unit
	turns    *TurnController
	resolver *ActionResolver

	selected *Unit
	legal    []Cell

	over       bool
	eliminated []string
	onTurn     func(TurnEvent)
}

// NewSession validates the setup and starts the first player's turn.
// Invalid setups return a *ConfigurationError. The session works on its own
// copy of the players and units; later changes to setup do not reach it.
func NewSession(setup Setup, opts ...Option) (*Session, error) {
	if err := validateSetup(setup); err != nil {
		return nil, err
	}
	players, units := copyPlayers(setup.Players)
	s := &Session{
		board:   setup.Board,
		catalog: setup.Catalog,
		players: players,
		units:   units,
		onTurn:  func(TurnEvent) {},
	}
	for _, p := range s.players {
		for _, u := range p.Units {
			u.OwnerID = p.ID
		}
	}
	s.turns = newTurnController(s.players)
	s.resolver = newActionResolver(s.catalog, s.players)
	for _, opt := range opts {
		opt(s)
	}
	s.startTurn()
	return s, nil
}

func validateSetup(setup Setup) error {
	if setup.Catalog == nil {
		return configErr("catalog", "missing unit type catalog")
	}
	if setup.Board.Width <= 0 || setup.Board.Height <= 0 {
		return configErr("board", "dimensions must be positive, got %dx%d", setup.Board.Width, setup.Board.Height)
	}
	if len(setup.Players) < 2 {
		return configErr("players", "need at least two players, got %d", len(setup.Players))
	}

	playerIDs := make(map[string]bool)
	unitIDs := make(map[string]bool)
	cells := make(map[Cell]string)
	for _, p := range setup.Players {
		if p.ID == "" {
			return configErr("player", "empty player id")
		}
		if playerIDs[p.ID] {
			return configErr("player "+p.ID, "duplicate player id")
		}
		playerIDs[p.ID] = true
		if p.Kind != Human && p.Kind != AI {
			return configErr("player "+p.ID, "unknown kind %q", p.Kind)
		}

		for _, u := range p.Units {
			subject := "unit " + u.ID
			switch {
			case u.ID == "":
				return configErr("player "+p.ID, "unit with empty id")
			case unitIDs[u.ID]:
				return configErr(subject, "duplicate unit id")
			case u.OwnerID != "" && u.OwnerID != p.ID:
				return configErr(subject, "owner %q does not match player %q", u.OwnerID, p.ID)
			case u.Cooldown < 0:
				return configErr(subject, "negative cooldown %d", u.Cooldown)
			case !setup.Board.InBounds(u.Position):
				return configErr(subject, "position (%d, %d) is off the board", u.Position.Row, u.Position.Col)
			}
			if _, ok := setup.Catalog.Lookup(u.TypeID); !ok {
				return configErr(subject, "unknown type %q", u.TypeID)
			}
			if other, taken := cells[u.Position]; taken {
				return configErr(subject, "shares (%d, %d) with unit %s", u.Position.Row, u.Position.Col, other)
			}
			unitIDs[u.ID] = true
			cells[u.Position] = u.ID
		}
	}
	return nil
}

// SelectUnit selects one of the current player's units and returns the
// cells it may move to. The selection replaces any earlier one.
func (s *Session) SelectUnit(unitID string) ([]Cell, error) {
	if s.over {
		return nil, ErrGameOver
	}
	u, ok := s.units[unitID]
	if !ok {
		return nil, ErrUnknownUnit
	}
	if u.OwnerID != s.turns.Current().ID {
		return nil, ErrNotYourUnit
	}
	if u.Cooldown > 0 {
		return nil, ErrUnitCoolingDown
	}
	s.selected = u
	s.legal = s.legalMoves(u)
	return slices.Clone(s.legal), nil
}

// ConfirmMove moves the selected unit to dest. dest must be one of the cells
// returned by the last SelectUnit in this turn.
func (s *Session) ConfirmMove(dest Cell) (MoveOutcome, error) {
	if s.over {
		return MoveOutcome{}, ErrGameOver
	}
	if s.selected == nil {
		return MoveOutcome{}, ErrNoSelection
	}
	if !slices.Contains(s.legal, dest) {
		return MoveOutcome{}, ErrIllegalDestination
	}

	out := s.resolver.ApplyMove(s.selected, dest)
	if out.Captured != nil {
		delete(s.units, out.Captured.ID)
	}
	s.clearSelection()

	out.TurnEnded = s.turns.AfterMove()
	if out.TurnEnded {
		s.turns.Advance()
	}
	out.GameOver = s.checkGameOver()
	if out.TurnEnded && !s.over {
		s.startTurn()
	}
	return out, nil
}

// EndTurn ends the current player's turn regardless of units left to move.
func (s *Session) EndTurn() error {
	if s.over {
		return ErrGameOver
	}
	s.turns.End()
	s.clearSelection()
	s.turns.Advance()
	s.startTurn()
	return nil
}

// Play selects a.UnitID and moves it to a.To in one step. Either both
// succeed or the session is left as it was.
func (s *Session) Play(a Action) (MoveOutcome, error) {
	prevSelected, prevLegal := s.selected, s.legal
	if _, err := s.SelectUnit(a.UnitID); err != nil {
		return MoveOutcome{}, err
	}
	out, err := s.ConfirmMove(a.To)
	if err != nil {
		s.selected, s.legal = prevSelected, prevLegal
		return MoveOutcome{}, err
	}
	return out, nil
}

// LegalMovesForPlayer lists every move of the player's units that have no
// cooldown left, in unit order.
func (s *Session) LegalMovesForPlayer(playerID string) []Action {
	var actions []Action
	for _, p := range s.players {
		if p.ID != playerID {
			continue
		}
		for _, u := range p.Units {
			if u.Cooldown > 0 {
				continue
			}
			for _, c := range s.legalMoves(u) {
				actions = append(actions, Action{UnitID: u.ID, From: u.Position, To: c})
			}
		}
	}
	return actions
}

func (s *Session) legalMoves(u *Unit) []Cell {
	t, _ := s.catalog.Lookup(u.TypeID)
	return LegalMoves(s.board, t, u, Occupy(s.players))
}

func (s *Session) startTurn() {
	s.turns.Begin()
	s.onTurn(TurnEvent{
		Turn:        s.turns.Turn(),
		PlayerIndex: s.turns.CurrentIndex(),
		PlayerID:    s.turns.Current().ID,
	})
}

func (s *Session) clearSelection() {
	s.selected = nil
	s.legal = nil
}

// checkGameOver ends the game as soon as any player has lost every unit.
func (s *Session) checkGameOver() bool {
	for _, p := range s.players {
		if len(p.Units) == 0 && !slices.Contains(s.eliminated, p.ID) {
			s.eliminated = append(s.eliminated, p.ID)
		}
	}
	if len(s.eliminated) > 0 {
		s.over = true
		s.clearSelection()
	}
	return s.over
}

// Over reports whether the game has ended.
func (s *Session) Over() bool {
	return s.over
}

// Eliminated returns the ids of players left without units, in the order
// they were detected.
func (s *Session) Eliminated() []string {
	return slices.Clone(s.eliminated)
}

// Winner returns the only player with units left once the game is over, or
// "" when the game is still running or several players survive.
func (s *Session) Winner() string {
	if !s.over {
		return ""
	}
	winner := ""
	for _, p := range s.players {
		if len(p.Units) == 0 {
			continue
		}
		if winner != "" {
			return ""
		}
		winner = p.ID
	}
	return winner
}

// CurrentPlayer describes the player whose turn it is.
func (s *Session) CurrentPlayer() PlayerView {
	return viewOf(s.turns.Current())
}

// Players describes all players in turn order.
func (s *Session) Players() []PlayerView {
	out := make([]PlayerView, len(s.players))
	for i, p := range s.players {
		out[i] = viewOf(p)
	}
	return out
}

// Turn returns the number of turns started so far.
func (s *Session) Turn() int {
	return s.turns.Turn()
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Width:         s.board.Width,
		Height:        s.board.Height,
		Obstacles:     s.board.Obstacles(),
		Players:       s.Players(),
		Units:         []Unit{},
		Legal:         slices.Clone(s.legal),
		CurrentPlayer: s.turns.CurrentIndex(),
		Phase:         s.turns.Phase().String(),
		Turn:          s.turns.Turn(),
		Over:          s.over,
		Winner:        s.Winner(),
	}
	if snap.Legal == nil {
		snap.Legal = []Cell{}
	}
	if s.selected != nil {
		snap.Selected = s.selected.ID
	}
	for _, p := range s.players {
		for _, u := range p.Units {
			snap.Units = append(snap.Units, *u)
		}
	}
	return snap
}
