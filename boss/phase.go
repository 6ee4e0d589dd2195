package boss

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPhase = errors.New("boss: unknown phase")

// Phase is one step of the boss attack cycle.
type Phase uint8

const (
	PhaseEngage Phase = iota
	PhaseVolley
	PhaseRain
	PhaseHeavyOrbs
	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseEngage:    "ENGAGE",
	PhaseVolley:    "VOLLEY",
	PhaseRain:      "RAIN",
	PhaseHeavyOrbs: "HEAVY_ORBS",
}

// cycle is the natural rotation entered once ENGAGE ends.
var cycle = [...]Phase{PhaseVolley, PhaseRain, PhaseHeavyOrbs}

func (p Phase) Valid() bool { return p < phaseCount }

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// ParsePhase accepts phase names case-insensitively, with '-' or ' ' in place
// of '_'.
func ParsePhase(s string) (Phase, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for i, name := range phaseNames {
		if name == norm {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
}

// MustParsePhase is ParsePhase for static names; it panics on error.
func MustParsePhase(s string) Phase {
	p, err := ParsePhase(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
