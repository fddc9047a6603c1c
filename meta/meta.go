package meta

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 150

// WITH_CUTOFF defines the cutoff value for MCTS.
const WITH_CUTOFF = 100

// GAMES defines the number of self-play games per run.
const GAMES = 20

// MAX_TURNS defines the number of turns after which a game is stopped without a winner.
const MAX_TURNS = 300

// MAX_ACTIONS_PER_TURN caps the moves an AI player makes in one turn.
const MAX_ACTIONS_PER_TURN = 64
