package game

// Snapshot is a read-only copy of everything a renderer or an AI needs to
// look at. Mutating it has no effect on the session.
type Snapshot struct {
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	Obstacles     []Cell       `json:"obstacles"`
	Players       []PlayerView `json:"players"`
	Units         []Unit       `json:"units"`
	Selected      string       `json:"selected,omitempty"`
	Legal         []Cell       `json:"legal"`
	CurrentPlayer int          `json:"currentPlayer"`
	Phase         string       `json:"phase"`
	Turn          int          `json:"turn"`
	Over          bool         `json:"over"`
	Winner        string       `json:"winner,omitempty"`
}

// PlayerView is the public description of a player.
type PlayerView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Kind  PlayerKind `json:"kind"`
	Units int        `json:"units"`
}

func viewOf(p *Player) PlayerView {
	return PlayerView{ID: p.ID, Name: p.Name, Kind: p.Kind, Units: len(p.Units)}
}

// Unit returns the snapshot copy of a unit.
func (s Snapshot) Unit(id string) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// At returns the unit standing on c.
func (s Snapshot) At(c Cell) (Unit, bool) {
	for _, u := range s.Units {
		if u.Position == c {
			return u, true
		}
	}
	return Unit{}, false
}
