package searcher

import (
	"math"
	"sync"

	"bauernschach/game"

	"golang.org/x/exp/slices"
)

// pass is the tree move that ends the current turn.
var pass = game.Action{}

type decision struct {
	sync.RWMutex
	parent   *decision
	mover    string // player whose move led here
	player   string // player to act
	moves    []game.Action
	children []*decision
	rewards  float64
	visits   int
}

func newDecision(parent *decision, mover string, state *game.Session) *decision {
	var moves []game.Action
	player := state.CurrentPlayer().ID
	if !state.Over() {
		moves = append(state.LegalMovesForPlayer(player), pass)
	}

	return &decision{
		parent:   parent,
		mover:    mover,
		player:   player,
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// selectOrExpand descends one level, applying the chosen move to state.
// The flag reports that a new child was added, which ends selection.
func (d *decision) selectOrExpand(state *game.Session) (*decision, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, false
	}

	if len(d.moves) > len(d.children) { // Expandable node
		move := d.moves[len(d.children)]
		apply(state, move)
		child := newDecision(d, d.player, state)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, true
	}

	// Fully expanded node
	ith := d.pickChild()
	apply(state, d.moves[ith])
	child := d.children[ith]
	child.applyLoss()
	return child, false
}

func (d *decision) pickChild() int {
	normalizer := C_SQUARED * math.Log(float64(max(d.visits, 1)))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if score == math.Inf(1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

// applyLoss counts a visit that has not finished yet as a loss, steering
// other goroutines away from the same path.
func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += LOSS
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= LOSS
	d.visits--
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

func (d *decision) backup(reward func(player string) float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.mover)
	d.visits++

	return d.parent
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// bestMove returns the most visited move, or false if nothing was explored.
func (d *decision) bestMove() (game.Action, bool) {
	d.RLock()
	defer d.RUnlock()

	if len(d.children) == 0 {
		return game.Action{}, false
	}
	visits := make([]int, len(d.children))
	for i, child := range d.children {
		visits[i] = child.Visits()
	}
	best := slices.Index(visits, slices.Max(visits))
	return d.moves[best], true
}

func apply(state *game.Session, move game.Action) {
	if move == pass {
		_ = state.EndTurn()
		return
	}
	_, _ = state.Play(move)
}
