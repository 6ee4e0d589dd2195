package director

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidWave = errors.New("director: invalid wave")

// Lane names the side of the belt a formation enters from.
type Lane string

const (
	LaneTop    Lane = "top"
	LaneBottom Lane = "bottom"
)

// Pattern is the geometric layout of a formation.
type Pattern string

const (
	PatternLine Pattern = "line"
	PatternArc  Pattern = "arc"
)

// FormationWave is an immutable spawn instruction consumed once by the
// director when its trigger time passes.
type FormationWave struct {
	Time          float64
	Archetype     string
	Lane          Lane
	Pattern       Pattern
	Count         int
	Spacing       float64
	Radius        float64
	MinProgress   float64
	MinDifficulty float64
}

// Validate reports configuration mistakes. They are load-time errors and are
// never surfaced during a tick.
func (w FormationWave) Validate() error {
	var errs []error
	if w.Time < 0 {
		errs = append(errs, fmt.Errorf("negative time %v", w.Time))
	}
	if w.Count < 0 {
		errs = append(errs, fmt.Errorf("negative count %d", w.Count))
	}
	if strings.TrimSpace(w.Archetype) == "" {
		errs = append(errs, errors.New("missing archetype"))
	}
	switch w.Pattern {
	case PatternLine, PatternArc:
	case "":
		errs = append(errs, errors.New("missing pattern"))
	default:
		errs = append(errs, fmt.Errorf("unknown pattern %q", w.Pattern))
	}
	switch w.Lane {
	case LaneTop, LaneBottom:
	default:
		errs = append(errs, fmt.Errorf("unknown lane %q", w.Lane))
	}
	if w.Spacing < 0 || w.Radius < 0 {
		errs = append(errs, errors.New("spacing and radius must not be negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidWave, errors.Join(errs...))
}
