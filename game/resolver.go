package game

// MoveOutcome describes an applied move.
type MoveOutcome struct {
	UnitID    string `json:"unitId"`
	PlayerID  string `json:"playerId"`
	From      Cell   `json:"from"`
	To        Cell   `json:"to"`
	Cooldown  int    `json:"cooldown"`
	Captured  *Unit  `json:"captured,omitempty"` // nil when the destination was empty
	TurnEnded bool   `json:"turnEnded"`
	GameOver  bool   `json:"gameOver"`
}

// ActionResolver applies moves to the unit registry.
type ActionResolver struct {
	catalog *Catalog
	players []*Player
}

func newActionResolver(catalog *Catalog, players []*Player) *ActionResolver {
	return &ActionResolver{catalog: catalog, players: players}
}

// ApplyMove relocates u to dest, removes any unit of another player standing
// on dest and puts u on its type's cooldown. dest must come from LegalMoves.
func (r *ActionResolver) ApplyMove(u *Unit, dest Cell) MoveOutcome {
	out := MoveOutcome{UnitID: u.ID, PlayerID: u.OwnerID, From: u.Position, To: dest}

	for _, p := range r.players {
		if p.ID == u.OwnerID {
			continue
		}
		for _, other := range p.Units {
			if other.Position == dest {
				p.removeUnit(other.ID)
				out.Captured = other
				break
			}
		}
	}

	u.Position = dest
	u.Cooldown = r.catalog.CooldownAfterMove(u.TypeID)
	out.Cooldown = u.Cooldown
	return out
}
