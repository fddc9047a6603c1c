package game

import "golang.org/x/exp/slices"

// Clone returns an independent copy of the session for look-ahead. The
// copy shares the read-only board and catalog, drops the turn listener and
// keeps the current selection.
func (s *Session) Clone() *Session {
	players, units := copyPlayers(s.players)
	c := &Session{
		board:      s.board,
		catalog:    s.catalog,
		players:    players,
		units:      units,
		legal:      slices.Clone(s.legal),
		over:       s.over,
		eliminated: slices.Clone(s.eliminated),
		onTurn:     func(TurnEvent) {},
	}
	if s.selected != nil {
		c.selected = c.units[s.selected.ID]
	}
	c.turns = &TurnController{
		players: c.players,
		current: s.turns.current,
		phase:   s.turns.phase,
		turn:    s.turns.turn,
	}
	c.resolver = newActionResolver(c.catalog, c.players)
	return c
}

// copyPlayers deep-copies players and their units and indexes the copies by
// unit id.
func copyPlayers(players []*Player) ([]*Player, map[string]*Unit) {
	out := make([]*Player, len(players))
	units := make(map[string]*Unit)
	for i, p := range players {
		cp := &Player{ID: p.ID, Name: p.Name, Kind: p.Kind, Units: make([]*Unit, len(p.Units))}
		for j, u := range p.Units {
			cu := *u
			cp.Units[j] = &cu
			units[cu.ID] = &cu
		}
		out[i] = cp
	}
	return out, units
}

// Restore rebuilds a session from a snapshot taken while a player was to
// act. The current player's TurnStart is not run again.
func Restore(snap Snapshot, catalog *Catalog) (*Session, error) {
	board, err := NewBoard(snap.Width, snap.Height, snap.Obstacles...)
	if err != nil {
		return nil, err
	}
	if snap.CurrentPlayer < 0 || snap.CurrentPlayer >= len(snap.Players) {
		return nil, configErr("snapshot", "current player %d out of range", snap.CurrentPlayer)
	}

	players := make([]*Player, len(snap.Players))
	byID := make(map[string]*Player, len(snap.Players))
	for i, pv := range snap.Players {
		players[i] = &Player{ID: pv.ID, Name: pv.Name, Kind: pv.Kind}
		byID[pv.ID] = players[i]
	}
	for _, u := range snap.Units {
		p, ok := byID[u.OwnerID]
		if !ok {
			return nil, configErr("unit "+u.ID, "unknown owner %q", u.OwnerID)
		}
		cu := u
		p.Units = append(p.Units, &cu)
	}

	setup := Setup{Board: board, Catalog: catalog, Players: players}
	if err := validateSetup(setup); err != nil {
		return nil, err
	}

	s := &Session{
		board:   board,
		catalog: catalog,
		players: players,
		units:   make(map[string]*Unit, len(snap.Units)),
		over:    snap.Over,
		onTurn:  func(TurnEvent) {},
	}
	for _, p := range players {
		for _, u := range p.Units {
			s.units[u.ID] = u
		}
		if len(p.Units) == 0 && s.over {
			s.eliminated = append(s.eliminated, p.ID)
		}
	}
	s.turns = &TurnController{
		players: players,
		current: snap.CurrentPlayer,
		phase:   AwaitingAction,
		turn:    snap.Turn,
	}
	s.resolver = newActionResolver(catalog, players)
	if snap.Selected != "" {
		if u, ok := s.units[snap.Selected]; ok {
			s.selected = u
			s.legal = s.legalMoves(u)
		}
	}
	return s, nil
}
