package game

import "golang.org/x/exp/slices"

// PlayerKind tells the engine who makes decisions for a player.
type PlayerKind string

const (
	Human PlayerKind = "human"
	AI    PlayerKind = "ai"
)

// Unit is a piece on the board.
type Unit struct {
	ID       string `json:"id"`
	Position Cell   `json:"position"`
	TypeID   string `json:"typeId"`
	OwnerID  string `json:"ownerId"`
	Cooldown int    `json:"cooldown"` // turns to wait before the unit may move again
}

// Player owns an ordered collection of units.
type Player struct {
	ID    string
	Name  string
	Kind  PlayerKind
	Units []*Unit
}

// HasReadyUnit reports whether any owned unit has no cooldown left.
func (p *Player) HasReadyUnit() bool {
	return slices.ContainsFunc(p.Units, func(u *Unit) bool { return u.Cooldown == 0 })
}

func (p *Player) removeUnit(id string) {
	p.Units = slices.DeleteFunc(p.Units, func(u *Unit) bool { return u.ID == id })
}

// Occupancy maps every occupied cell to the unit standing on it.
type Occupancy map[Cell]*Unit

// Occupy indexes the live units of all players by position.
func Occupy(players []*Player) Occupancy {
	occ := make(Occupancy)
	for _, p := range players {
		for _, u := range p.Units {
			occ[u.Position] = u
		}
	}
	return occ
}

func (o Occupancy) friendly(c Cell, owner string) bool {
	u, ok := o[c]
	return ok && u.OwnerID == owner
}

func (o Occupancy) enemy(c Cell, owner string) bool {
	u, ok := o[c]
	return ok && u.OwnerID != owner
}
