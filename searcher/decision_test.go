package searcher

import (
	"sync"
	"testing"

	"bauernschach/game"

	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, players ...*game.Player) *game.Session {
	t.Helper()
	board, err := game.NewBoard(5, 5)
	require.NoError(t, err)
	catalog, err := game.NewCatalog([]game.UnitType{{ID: "step", CooldownAfterMove: 1, Rules: []game.MovementRule{
		{DX: 0, DY: 1, Kind: game.KindJump},
		{DX: 0, DY: -1, Kind: game.KindJump},
		{DX: 1, DY: 0, Kind: game.KindJump},
		{DX: -1, DY: 0, Kind: game.KindJump},
	}}})
	require.NoError(t, err)
	s, err := game.NewSession(game.Setup{Board: board, Catalog: catalog, Players: players})
	require.NoError(t, err)
	return s
}

func stepper(id string, row, col int) *game.Player {
	return &game.Player{ID: id, Name: id, Kind: game.AI, Units: []*game.Unit{
		{ID: id + "1", TypeID: "step", Position: game.Cell{Row: row, Col: col}},
	}}
}

func TestDecisionSelectOrExpand(t *testing.T) {
	t.Run("expandable node adds the next move as a child with a loss", func(t *testing.T) {
		state := newState(t, stepper("a", 0, 0), stepper("b", 4, 4))
		node := newDecision(nil, "", state)
		require.Equal(t, []game.Action{
			{UnitID: "a1", To: game.Cell{Row: 0, Col: 1}},
			{UnitID: "a1", To: game.Cell{Row: 1, Col: 0}},
			pass,
		}, node.moves, "Node should list legal moves and then the pass")

		child, expanded := node.selectOrExpand(state)

		require.True(t, expanded, "Node should perform expansion")
		require.Equal(t, []*decision{child}, node.children)
		require.Equal(t, "a", child.mover, "Child should remember who moved")
		require.Equal(t, "b", child.player, "Child should be the opponent's turn")
		require.Equal(t, LOSS, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 1, child.visits, "Child should apply a temporary loss")
		a1, _ := state.Snapshot().Unit("a1")
		require.Equal(t, game.Cell{Row: 0, Col: 1}, a1.Position, "State should update by the expanded move")
	})

	t.Run("fully expanded node selects the child with max UCB", func(t *testing.T) {
		state := newState(t, stepper("a", 0, 0), stepper("b", 4, 4))
		moves := state.LegalMovesForPlayer("a")
		maxChild := &decision{rewards: 1, visits: 1}
		otherChild := &decision{rewards: 0, visits: 1}
		node := &decision{
			moves:    moves,
			children: []*decision{otherChild, maxChild},
			rewards:  1,
			visits:   2,
		}

		child, expanded := node.selectOrExpand(state)

		require.False(t, expanded, "Node should perform selection")
		require.Same(t, maxChild, child, "Node should select child with max UCB value")
		require.Equal(t, 1+LOSS, child.rewards, "Child should apply a temporary loss")
		require.Equal(t, 2, child.visits, "Child should apply a temporary loss")
		require.Equal(t, 2, node.visits, "Node stats should not change")
		a1, _ := state.Snapshot().Unit("a1")
		require.Equal(t, moves[1].To, a1.Position, "State should update by the selected move")
	})

	t.Run("unvisited child is selected first", func(t *testing.T) {
		state := newState(t, stepper("a", 0, 0), stepper("b", 4, 4))
		moves := state.LegalMovesForPlayer("a")
		fresh := &decision{}
		node := &decision{
			moves:    moves,
			children: []*decision{{rewards: 5, visits: 5}, fresh},
			visits:   5,
		}

		child, _ := node.selectOrExpand(state)

		require.Same(t, fresh, child)
	})

	t.Run("terminal node returns itself", func(t *testing.T) {
		state := newState(t, stepper("a", 0, 0), stepper("b", 0, 1))
		_, err := state.Play(game.Action{UnitID: "a1", To: game.Cell{Row: 0, Col: 1}})
		require.NoError(t, err)
		node := newDecision(nil, "a", state)

		child, expanded := node.selectOrExpand(state)

		require.Same(t, node, child)
		require.False(t, expanded)
		require.Empty(t, node.moves)
	})
}

func TestDecisionBackup(t *testing.T) {
	t.Run("reverses the loss and adds the mover's reward up to the root", func(t *testing.T) {
		root := &decision{}
		child := &decision{parent: root, mover: "a"}
		grandChild := &decision{parent: child, mover: "b"}
		child.applyLoss()
		grandChild.applyLoss()

		backup(grandChild, rewarder("a"))

		require.Equal(t, WIN, child.rewards)
		require.Equal(t, 1, child.visits)
		require.Equal(t, LOSS, grandChild.rewards)
		require.Equal(t, 1, grandChild.visits)
		require.Equal(t, 1, root.visits, "Root should count the visit without a loss to reverse")
	})

	t.Run("concurrent backups are all counted", func(t *testing.T) {
		root := &decision{}
		child := &decision{parent: root, mover: "a"}

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				child.applyLoss()
				backup(child, rewarder("a"))
			}()
		}
		wg.Wait()

		require.Equal(t, 100, child.Visits())
		require.Equal(t, 100*WIN, child.rewards)
		require.Equal(t, 100, root.Visits())
	})
}

func TestBestMove(t *testing.T) {
	moves := []game.Action{{UnitID: "x"}, {UnitID: "y"}, pass}
	node := &decision{
		moves:    moves,
		children: []*decision{{visits: 3}, {visits: 9}, {visits: 4}},
	}

	move, ok := node.bestMove()

	require.True(t, ok)
	require.Equal(t, moves[1], move, "Most visited child should win")

	_, ok = (&decision{moves: moves}).bestMove()
	require.False(t, ok)
}
