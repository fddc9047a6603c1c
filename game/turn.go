package game

// TurnPhase is the state of the turn machine.
type TurnPhase int

const (
	TurnStart TurnPhase = iota
	AwaitingAction
	TurnEnd
)

func (p TurnPhase) String() string {
	switch p {
	case TurnStart:
		return "turn_start"
	case AwaitingAction:
		return "awaiting_action"
	case TurnEnd:
		return "turn_end"
	}
	return "unknown"
}

// TurnController rotates turns between players and advances cooldowns.
type TurnController struct {
	players []*Player
	current int
	phase   TurnPhase
	turn    int // number of turns started so far
}

func newTurnController(players []*Player) *TurnController {
	return &TurnController{players: players, phase: TurnStart}
}

// Current returns the player whose turn it is.
func (tc *TurnController) Current() *Player {
	return tc.players[tc.current]
}

// CurrentIndex returns the index of the current player.
func (tc *TurnController) CurrentIndex() int {
	return tc.current
}

// Phase returns the current turn phase.
func (tc *TurnController) Phase() TurnPhase {
	return tc.phase
}

// Turn returns how many turns have started, counting the current one.
func (tc *TurnController) Turn() int {
	return tc.turn
}

// Begin runs TurnStart for the current player: every owned unit's cooldown
// drops by one, floored at zero.
func (tc *TurnController) Begin() {
	if tc.phase != TurnStart {
		return
	}
	for _, u := range tc.Current().Units {
		if u.Cooldown > 0 {
			u.Cooldown--
		}
	}
	tc.turn++
	tc.phase = AwaitingAction
}

// AfterMove records that the current player moved a unit. The turn ends
// once no owned unit is left without cooldown; the return value reports
// whether that happened.
func (tc *TurnController) AfterMove() bool {
	if tc.phase != AwaitingAction {
		return false
	}
	if tc.Current().HasReadyUnit() {
		return false
	}
	tc.phase = TurnEnd
	return true
}

// End ends the current turn on request.
func (tc *TurnController) End() {
	tc.phase = TurnEnd
}

// Advance hands the turn to the next player in rotation. The next player's
// TurnStart still has to be run with Begin.
func (tc *TurnController) Advance() {
	if tc.phase != TurnEnd {
		return
	}
	tc.current = (tc.current + 1) % len(tc.players)
	tc.phase = TurnStart
}
