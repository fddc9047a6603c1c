package game

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// MoveKind selects which legality rule governs a movement offset.
type MoveKind int

const (
	KindJump    MoveKind = iota // target may be empty or hold an enemy
	KindMove                    // target must be empty
	KindCapture                 // target must hold an enemy
	KindSlide                   // step towards the offset, blocked by friends, stopped by enemies
)

func (k MoveKind) String() string {
	switch k {
	case KindJump:
		return "jump"
	case KindMove:
		return "move"
	case KindCapture:
		return "capture"
	case KindSlide:
		return "slide"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MovementRule is one [dx, dy, kind, reserved] entry of a unit type.
// Reserved is carried from the game data and never read.
type MovementRule struct {
	DX       int      `json:"dx"`
	DY       int      `json:"dy"`
	Kind     MoveKind `json:"kind"`
	Reserved int      `json:"reserved"`
}

// UnitType describes how units of one type move.
type UnitType struct {
	ID                string         `json:"id"`
	Rules             []MovementRule `json:"rules"`
	CooldownAfterMove int            `json:"cooldownAfterMove"`
}

// Catalog is the validated, read-only table of unit types.
type Catalog struct {
	types map[string]UnitType
}

// NewCatalog validates the given types and returns a catalog holding them.
// Any violation is returned as a *ConfigurationError.
func NewCatalog(types []UnitType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]UnitType, len(types))}
	for _, t := range types {
		if err := validateType(t); err != nil {
			return nil, err
		}
		if _, dup := c.types[t.ID]; dup {
			return nil, configErr("type "+t.ID, "duplicate type id")
		}
		t.Rules = slices.Clone(t.Rules)
		c.types[t.ID] = t
	}
	return c, nil
}

func validateType(t UnitType) error {
	if t.ID == "" {
		return configErr("type", "empty type id")
	}
	subject := "type " + t.ID
	if t.CooldownAfterMove < 0 {
		return configErr(subject, "negative cooldownAfterMove %d", t.CooldownAfterMove)
	}
	for i, r := range t.Rules {
		if r.Kind < KindJump || r.Kind > KindSlide {
			return &ConfigurationError{Subject: subject, Rule: i, Reason: fmt.Sprintf("unknown move kind %d", int(r.Kind))}
		}
		if r.Kind == KindSlide && r.DX != 0 && r.DY != 0 && abs(r.DX) != abs(r.DY) {
			return &ConfigurationError{
				Subject: subject,
				Rule:    i,
				Reason:  fmt.Sprintf("slide (%d, %d) is neither axis-aligned nor diagonal", r.DX, r.DY),
			}
		}
	}
	return nil
}

// Lookup returns the type with the given id.
func (c *Catalog) Lookup(id string) (UnitType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// CooldownAfterMove returns the post-move cooldown of a type, 0 if unknown.
func (c *Catalog) CooldownAfterMove(id string) int {
	return c.types[id].CooldownAfterMove
}

// IDs returns the type ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.types))
	for id := range c.types {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
