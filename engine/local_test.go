package engine

import (
	"testing"

	"bauernschach/agent"
	"bauernschach/game"
	"bauernschach/meta"

	"github.com/stretchr/testify/require"
)

type scripted struct {
	choose func(moves []game.Action) (game.Action, bool)
	calls  int
}

func (s *scripted) ChooseMove(moves []game.Action, _ game.Snapshot) (game.Action, bool) {
	s.calls++
	return s.choose(moves)
}

func first() *scripted {
	return &scripted{choose: func(moves []game.Action) (game.Action, bool) { return moves[0], true }}
}

func passer() *scripted {
	return &scripted{choose: func([]game.Action) (game.Action, bool) { return game.Action{}, false }}
}

func cheater() *scripted {
	return &scripted{choose: func([]game.Action) (game.Action, bool) {
		return game.Action{UnitID: "ghost", To: game.Cell{Row: 9, Col: 9}}, true
	}}
}

func testSetup(t *testing.T, players ...*game.Player) game.Setup {
	t.Helper()
	board, err := game.NewBoard(5, 5)
	require.NoError(t, err)
	catalog, err := game.NewCatalog([]game.UnitType{
		{ID: "step", CooldownAfterMove: 1, Rules: []game.MovementRule{
			{DX: 0, DY: 1, Kind: game.KindJump},
			{DX: 0, DY: -1, Kind: game.KindJump},
			{DX: 1, DY: 0, Kind: game.KindJump},
			{DX: -1, DY: 0, Kind: game.KindJump},
		}},
		{ID: "runner", Rules: []game.MovementRule{
			{DX: 1, DY: 0, Kind: game.KindMove},
			{DX: -1, DY: 0, Kind: game.KindMove},
		}},
	})
	require.NoError(t, err)
	return game.Setup{Board: board, Catalog: catalog, Players: players}
}

func player(id string, kind game.PlayerKind, typeID string, row, col int) *game.Player {
	return &game.Player{ID: id, Name: id, Kind: kind, Units: []*game.Unit{
		{ID: id + "1", TypeID: typeID, Position: game.Cell{Row: row, Col: col}},
	}}
}

func recorder(events *[]Event) Notifier {
	return NotifierFunc(func(e Event) { *events = append(*events, e) })
}

func TestLocalEngineRequiresAgents(t *testing.T) {
	setup := testSetup(t, player("h", game.Human, "step", 0, 0), player("b", game.AI, "step", 4, 4))

	_, err := LocalEngine(setup, nil)

	require.Error(t, err)
}

func TestEngineHumanTurns(t *testing.T) {
	t.Run("ending the human turn lets the AI move", func(t *testing.T) {
		var events []Event
		bot := first()
		setup := testSetup(t, player("h", game.Human, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"b": bot}, WithNotifier(recorder(&events)))
		require.NoError(t, err)
		e.Start()

		require.NoError(t, e.EndTurn())

		require.Equal(t, 1, bot.calls)
		types := []EventType{}
		for _, ev := range events {
			types = append(types, ev.Type)
		}
		require.Equal(t, []EventType{EventTurnStarted, EventTurnStarted, EventMoveApplied, EventTurnStarted}, types)
		require.Equal(t, "b", events[2].PlayerID)
		require.Equal(t, game.Cell{Row: 3, Col: 4}, events[2].Move.To)
		require.Equal(t, "h", events[3].PlayerID)
		require.Equal(t, 3, events[3].Turn)

		snap := e.Snapshot()
		unit, ok := snap.Unit("b1")
		require.True(t, ok)
		require.Equal(t, game.Cell{Row: 3, Col: 4}, unit.Position)
	})

	t.Run("human moves are passed through", func(t *testing.T) {
		setup := testSetup(t, player("h", game.Human, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"b": first()})
		require.NoError(t, err)

		legal, err := e.Select("h1")
		require.NoError(t, err)
		require.Equal(t, []game.Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}}, legal)

		out, err := e.Confirm(game.Cell{Row: 1, Col: 0})
		require.NoError(t, err)
		require.True(t, out.TurnEnded)
		require.Equal(t, "h", e.Snapshot().Players[e.Snapshot().CurrentPlayer].ID, "the AI answered and it is the human's turn again")

		_, err = e.Select("b1")
		require.ErrorIs(t, err, game.ErrNotYourUnit)
	})

	t.Run("human input is refused on an AI turn", func(t *testing.T) {
		setup := testSetup(t, player("a", game.AI, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": first(), "b": first()}, WithMaxTurns(1))
		require.NoError(t, err)

		_, err = e.Select("b1")
		require.ErrorIs(t, err, ErrNotHumanTurn)
		_, err = e.Confirm(game.Cell{Row: 3, Col: 4})
		require.ErrorIs(t, err, ErrNotHumanTurn)
		require.ErrorIs(t, e.EndTurn(), ErrNotHumanTurn)
	})

	t.Run("human input is refused once the game is over", func(t *testing.T) {
		setup := testSetup(t, player("h", game.Human, "step", 0, 0), player("b", game.AI, "step", 0, 1))
		e, err := LocalEngine(setup, map[string]agent.Agent{"b": first()})
		require.NoError(t, err)

		_, err = e.Select("h1")
		require.NoError(t, err)
		out, err := e.Confirm(game.Cell{Row: 0, Col: 1})
		require.NoError(t, err)
		require.True(t, out.GameOver)
		require.True(t, e.Over())
		require.Equal(t, "h", e.Winner())

		require.ErrorIs(t, e.EndTurn(), game.ErrGameOver)
	})
}

func TestEngineRun(t *testing.T) {
	t.Run("capture ends the game with a winner", func(t *testing.T) {
		var events []Event
		setup := testSetup(t, player("a", game.AI, "step", 0, 0), player("b", game.AI, "step", 0, 1))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": first(), "b": first()}, WithNotifier(recorder(&events)))
		require.NoError(t, err)

		winner, gm, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, "a", winner)
		require.Equal(t, "a", gm.StartingPlayer)
		require.Equal(t, 1, gm.TotalMoves)
		require.Equal(t, 1, gm.Captures)
		require.Len(t, moves, 1)
		require.Equal(t, "b1", moves[0].Captured)
		last := events[len(events)-1]
		require.Equal(t, EventGameOver, last.Type)
		require.Equal(t, "a", last.Winner)
		require.Equal(t, []string{"b"}, last.Eliminated)
	})

	t.Run("illegal agent moves fall back to the first legal move", func(t *testing.T) {
		setup := testSetup(t, player("a", game.AI, "step", 0, 0), player("b", game.AI, "step", 0, 1))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": cheater(), "b": first()})
		require.NoError(t, err)

		winner, _, _, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, "a", winner)
	})

	t.Run("agents that pass play until the turn limit", func(t *testing.T) {
		setup := testSetup(t, player("a", game.AI, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": passer(), "b": passer()}, WithMaxTurns(4))
		require.NoError(t, err)

		winner, gm, moves, err := e.Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, 5, gm.Turns, "the fifth turn started but was not played")
		require.Zero(t, gm.TotalMoves)
		require.Empty(t, moves)
		require.False(t, e.Over())
	})

	t.Run("a turn limit below one keeps the default", func(t *testing.T) {
		setup := testSetup(t, player("a", game.AI, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": passer(), "b": passer()}, WithMaxTurns(0))
		require.NoError(t, err)

		winner, gm, _, err := e.Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, meta.MAX_TURNS+1, gm.Turns)
	})

	t.Run("moves per turn are capped", func(t *testing.T) {
		setup := testSetup(t, player("a", game.AI, "runner", 2, 2), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"a": first(), "b": first()},
			WithMaxTurns(1), WithMaxActionsPerTurn(3))
		require.NoError(t, err)

		_, gm, moves, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 3, gm.TotalMoves)
		for _, m := range moves {
			require.Equal(t, "a", m.Player)
			require.Equal(t, 1, m.Turn)
		}
	})

	t.Run("a human player stops the run", func(t *testing.T) {
		setup := testSetup(t, player("h", game.Human, "step", 0, 0), player("b", game.AI, "step", 4, 4))
		e, err := LocalEngine(setup, map[string]agent.Agent{"b": first()})
		require.NoError(t, err)

		_, _, _, err = e.Run()

		require.ErrorIs(t, err, ErrHumanTurn)
	})
}
