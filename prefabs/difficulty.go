package prefabs

import (
	"fmt"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// A difficulty script defines curve(progress, elapsed, base) returning a
// number. The dispatch below calls it with the current inputs.
const difficultyDispatchScript = `
__out := curve(__progress, __elapsed, __base)
`

// DifficultyCurve evaluates a scripted difficulty ramp. It is not safe for
// concurrent use.
type DifficultyCurve struct {
	name     string
	base     float64
	compiled *tengo.Compiled
}

// LoadDifficultyCurve builds the curve named by spec. An empty script yields
// a constant curve at spec.Base.
func LoadDifficultyCurve(spec DifficultySpec) (*DifficultyCurve, error) {
	name := strings.TrimSpace(spec.Script)
	if name == "" {
		return &DifficultyCurve{base: spec.Base}, nil
	}
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return NewDifficultyCurve(name, src, spec.Base)
}

// NewDifficultyCurve compiles src. Missing or misspelled curve functions fail
// here rather than on the first Eval.
func NewDifficultyCurve(name string, src []byte, base float64) (*DifficultyCurve, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + difficultyDispatchScript))
	_ = script.Add("__progress", 0.0)
	_ = script.Add("__elapsed", 0.0)
	_ = script.Add("__base", base)

	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile %s: %w", name, err)
	}
	return &DifficultyCurve{name: name, base: base, compiled: compiled}, nil
}

// Eval runs the curve. A curve without a script returns its base.
func (c *DifficultyCurve) Eval(progress, elapsed float64) (float64, error) {
	if c == nil {
		return 0, nil
	}
	if c.compiled == nil {
		return c.base, nil
	}
	if err := c.compiled.Set("__progress", progress); err != nil {
		return 0, err
	}
	if err := c.compiled.Set("__elapsed", elapsed); err != nil {
		return 0, err
	}
	if err := c.compiled.Set("__base", c.base); err != nil {
		return 0, err
	}
	if err := c.compiled.Run(); err != nil {
		return 0, fmt.Errorf("prefabs: run %s: %w", c.name, err)
	}

	var out float64
	switch v := c.compiled.Get("__out").Value().(type) {
	case float64:
		out = v
	case int64:
		out = float64(v)
	default:
		return 0, fmt.Errorf("prefabs: %s: curve returned %T, want a number", c.name, v)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("prefabs: %s: curve returned %v", c.name, out)
	}
	return out, nil
}

func (c *DifficultyCurve) Name() string { return c.name }
