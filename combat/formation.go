package combat

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/director"
)

const (
	DefaultSpacing = 60.0
	DefaultRadius  = 80.0
)

// Formation appends the positions of every member of w to buf and returns
// it. Lines run along +x from baseX. Arcs trace a half circle centred on
// baseX; the top lane bows down into the belt and the bottom lane bows up.
func Formation(buf []cp.Vector, w director.FormationWave, baseX, laneY float64) []cp.Vector {
	n := w.Count
	if n <= 0 {
		return buf
	}
	switch w.Pattern {
	case director.PatternArc:
		r := w.Radius
		if r <= 0 {
			r = DefaultRadius
		}
		sign := 1.0
		if w.Lane == director.LaneBottom {
			sign = -1
		}
		for i := 0; i < n; i++ {
			t := 0.5
			if n > 1 {
				t = float64(i) / float64(n-1)
			}
			a := math.Pi * t
			buf = append(buf, cp.Vector{
				X: baseX - r*math.Cos(a),
				Y: laneY + sign*r*math.Sin(a),
			})
		}
	default:
		spacing := w.Spacing
		if spacing <= 0 {
			spacing = DefaultSpacing
		}
		for i := 0; i < n; i++ {
			buf = append(buf, cp.Vector{X: baseX + float64(i)*spacing, Y: laneY})
		}
	}
	return buf
}
