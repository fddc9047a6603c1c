package game

import (
	"errors"
	"fmt"
)

// Rejections returned by Session. A rejected call never changes the session.
var (
	ErrGameOver           = errors.New("game is over - no moves allowed")
	ErrUnknownUnit        = errors.New("unknown unit")
	ErrNotYourUnit        = errors.New("unit does not belong to the current player")
	ErrUnitCoolingDown    = errors.New("unit is cooling down")
	ErrNoSelection        = errors.New("no unit selected")
	ErrIllegalDestination = errors.New("illegal destination")
)

// ConfigurationError reports invalid game data. It is fatal: no session is
// created from a setup that produces one.
type ConfigurationError struct {
	Subject string // e.g. "type rook", "unit p1-3", "board"
	Rule    int    // index into the type's rules, -1 if not rule specific
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Rule >= 0 {
		return fmt.Sprintf("configuration: %s rule %d: %s", e.Subject, e.Rule, e.Reason)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Subject, e.Reason)
}

func configErr(subject, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Rule: -1, Reason: fmt.Sprintf(format, args...)}
}
