package searcher

import (
	"sync"
	"sync/atomic"
	"time"

	"bauernschach/game"
	"bauernschach/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Evaluate scores a position that a rollout stopped in before the game
// ended, per player, in [LOSS, WIN].
type Evaluate func(state *game.Session) func(player string) float64

// EvaluateUnits rewards each player with its share of the units left.
func EvaluateUnits(state *game.Session) func(player string) float64 {
	units := make(map[string]int)
	total := 0
	for _, p := range state.Players() {
		units[p.ID] = p.Units
		total += p.Units
	}
	return func(player string) float64 {
		if total == 0 {
			return LOSS
		}
		return float64(units[player]) / float64(total)
	}
}

type Option func(mcts *MCTS)

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
			m.episodes = 0
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
			m.duration = 0
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed.Store(seed)
	}
}

func WithMetrics(collector MetricsCollector) Option {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

// MCTS searches the game tree from the position it is asked about, with
// goroutines sharing one tree. It implements agent.Agent.
type MCTS struct {
	catalog    *game.Catalog
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	evaluate   Evaluate
	seed       atomic.Uint64
	metrics    MetricsCollector
}

func NewMCTS(catalog *game.Catalog, goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		catalog:    catalog,
		goroutines: max(goroutines, 1),
		episodes:   meta.EPISODES,
		cutoff:     meta.WITH_CUTOFF,
		evaluate:   EvaluateUnits,
		metrics:    NewMetricsCollector(),
	}
	m.seed.Store(rand.Uint64())
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) ChooseMove(moves []game.Action, snap game.Snapshot) (game.Action, bool) {
	if len(moves) == 0 {
		return game.Action{}, false
	}
	state, err := game.Restore(snap, m.catalog)
	if err != nil {
		log.Warn().Err(err).Msg("cannot search from snapshot, playing the first legal move")
		return moves[0], true
	}

	root := m.search(state)
	move, ok := root.bestMove()
	if !ok || move == pass {
		return game.Action{}, false
	}
	return move, true
}

// search grows a tree from state and returns its root. state is not modified.
func (m *MCTS) search(state *game.Session) *decision {
	root := newDecision(nil, "", state)

	m.metrics.Start(m.goroutines)
	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}
	metric := m.metrics.Complete()
	log.Debug().
		Str("player", root.player).
		Int64("episodes", metric.Episodes).
		Int64("full_playouts", metric.FullPlayouts).
		Dur("duration", metric.Duration).
		Msg("search completed")

	return root
}

func (m *MCTS) iterate(root *decision, state *game.Session) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				m.simulate(root, state, rng)
				m.metrics.AddEpisode()
			}
		}(m.newRand())
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state *game.Session) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state, rng)
					m.metrics.AddEpisode()
				}
			}
		}(m.newRand())
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) newRand() *rand.Rand {
	return rand.New(rand.NewSource(m.seed.Add(1)))
}

func (m *MCTS) simulate(root *decision, state *game.Session, rng *rand.Rand) {
	episode := state.Clone()
	newNode := selectThenExpand(root, episode)
	reward := m.rollout(episode, rng)
	backup(newNode, reward)
}

func selectThenExpand(root *decision, state *game.Session) *decision {
	node := root
	for {
		child, expanded := node.selectOrExpand(state)
		if expanded || child == node {
			return child
		}
		node = child
	}
}

func (m *MCTS) rollout(state *game.Session, rng *rand.Rand) func(player string) float64 {
	// Rollout till game over or for cutoff number of actions
	for depth := 0; depth < m.cutoff && !state.Over(); depth++ {
		moves := state.LegalMovesForPlayer(state.CurrentPlayer().ID)
		if len(moves) == 0 {
			_ = state.EndTurn()
			continue
		}
		_, _ = state.Play(moves[rng.Intn(len(moves))]) // Random rollout policy
	}

	if winner := state.Winner(); winner != "" {
		m.metrics.AddFullPlayout()
		return rewarder(winner)
	}

	// At cutoff, or when several players survive, score the position
	return m.evaluate(state)
}

func backup(newNode *decision, reward func(player string) float64) {
	node := newNode
	for node != nil {
		node = node.backup(reward)
	}
}
