package searcher

import "math"

// Hyperparameters for MCTS

const C_SQUARED = 2.0 // Exploration constant

// Use rewards to estimate the chance of winning
const WIN = 1.0
const LOSS = 1 - WIN

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

func rewarder(winner string) func(player string) float64 {
	return func(player string) float64 {
		if player == winner {
			return WIN
		}
		return LOSS
	}
}
