package agent

import (
	"bauernschach/game"
	"bauernschach/meta"
	"bauernschach/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Agent decides moves for an AI player. It receives every legal move of
// the player whose turn it is and a read-only copy of the game. Returning
// false ends the agent's turn.
type Agent interface {
	ChooseMove(moves []game.Action, snap game.Snapshot) (game.Action, bool)
}

type Option func(*config)

type config struct {
	seed    uint64
	catalog *game.Catalog
}

// WithSeed fixes the random source so games can be replayed.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithCatalog gives search-based agents the unit types they play with.
func WithCatalog(catalog *game.Catalog) Option {
	return func(c *config) {
		c.catalog = catalog
	}
}

func newConfig(opts []Option) *config {
	c := &config{seed: rand.Uint64()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newRand(opts []Option) *rand.Rand {
	return rand.New(rand.NewSource(newConfig(opts).seed))
}

// Random picks uniformly among the legal moves.
type Random struct {
	rng *rand.Rand
}

func NewRandom(opts ...Option) *Random {
	return &Random{rng: newRand(opts)}
}

func (r *Random) ChooseMove(moves []game.Action, _ game.Snapshot) (game.Action, bool) {
	if len(moves) == 0 {
		return game.Action{}, false
	}
	return moves[r.rng.Intn(len(moves))], true
}

// Greedy takes a capture whenever one is available and otherwise moves at
// random.
type Greedy struct {
	rng *rand.Rand
}

func NewGreedy(opts ...Option) *Greedy {
	return &Greedy{rng: newRand(opts)}
}

func (g *Greedy) ChooseMove(moves []game.Action, snap game.Snapshot) (game.Action, bool) {
	if len(moves) == 0 {
		return game.Action{}, false
	}
	var captures []game.Action
	for _, m := range moves {
		if target, ok := snap.At(m.To); ok && target.ID != m.UnitID {
			captures = append(captures, m)
		}
	}
	if len(captures) > 0 {
		choice := captures[g.rng.Intn(len(captures))]
		log.Debug().Str("unit", choice.UnitID).Int("captures", len(captures)).Msg("greedy capture")
		return choice, true
	}
	return moves[g.rng.Intn(len(moves))], true
}

var names = []string{"random", "greedy", "mcts"}

// Known reports whether New can build an agent called name.
func Known(name string) bool {
	return slices.Contains(names, name)
}

// New returns the agent registered under name: "random", "greedy" or
// "mcts". The mcts agent needs WithCatalog.
func New(name string, opts ...Option) (Agent, bool) {
	switch name {
	case "random":
		return NewRandom(opts...), true
	case "greedy":
		return NewGreedy(opts...), true
	case "mcts":
		c := newConfig(opts)
		if c.catalog == nil {
			return nil, false
		}
		return searcher.NewMCTS(c.catalog, meta.GO_ROUTINES, searcher.WithSeed(c.seed)), true
	}
	return nil, false
}
