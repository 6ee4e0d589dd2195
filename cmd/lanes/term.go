package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"

	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/lane"
	"github.com/jfad2010/ivangohsgreen/pool"
	"github.com/jfad2010/ivangohsgreen/prefabs"
)

// moveHold is how many ticks a key press keeps the player moving. Terminals
// only report key repeats, never key releases.
const moveHold = 8

type terminal struct {
	screen    tcell.Screen
	encounter string
	logger    *log.Logger

	resolver *combat.Resolver
	curve    *prefabs.DifficultyCurve

	move     cp.Vector
	moveLeft int
	fire     bool
	paused   bool
}

func runTerminal(encounter string, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	t := &terminal{screen: screen, encounter: encounter, logger: logger}
	if err := t.load(); err != nil {
		return err
	}
	return t.run()
}

func (t *terminal) load() error {
	spec, err := prefabs.LoadEncounter(t.encounter)
	if err != nil {
		return err
	}
	curve, err := prefabs.LoadDifficultyCurve(spec.Difficulty)
	if err != nil {
		return err
	}
	r, err := combat.New(spec.Config(), spec.FormationWaves())
	if err != nil {
		return err
	}
	t.resolver, t.curve = r, curve
	return nil
}

func (t *terminal) run() error {
	const dt = 1.0 / 60
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !t.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if t.paused {
				t.draw()
				continue
			}
			in := combat.Input{DT: dt, Fire: t.fire}
			if t.moveLeft > 0 {
				in.Move = t.move
				t.moveLeft--
			}
			t.fire = false
			if d, err := t.curve.Eval(t.resolver.Progress(), t.resolver.Clock()); err == nil {
				in.Difficulty = d
			}
			t.resolver.Tick(in)
			t.draw()
		}
	}
}

// handle applies one terminal event. It returns false when the user quits.
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			t.push(cp.Vector{X: -1})
		case tcell.KeyRight:
			t.push(cp.Vector{X: 1})
		case tcell.KeyUp:
			t.push(cp.Vector{Y: -1})
		case tcell.KeyDown:
			t.push(cp.Vector{Y: 1})
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ', 'j':
				t.fire = true
			case 'e':
				t.resolver.RaiseShield()
			case 'p':
				t.paused = !t.paused
			case 'r':
				if err := t.load(); err != nil {
					t.logger.Printf("lanes: restart: %v", err)
				}
			case 'h', 'a', 'd':
				if t.resolver.Ally() != nil {
					t.resolver.SetAllyCommand(map[rune]combat.AllyCommand{
						'h': combat.AllyHold, 'a': combat.AllyAdvance, 'd': combat.AllyRetreat,
					}[ev.Rune()])
				}
			case 'q':
				return false
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *terminal) push(dir cp.Vector) {
	t.move = dir
	t.moveLeft = moveHold
}

func (t *terminal) draw() {
	s := t.screen
	s.Clear()
	w, h := s.Size()
	if w < 20 || h < 8 {
		s.Show()
		return
	}

	r := t.resolver
	cfg := r.Config()
	cam := r.Camera()
	top, bottom := 2, h-3

	col := func(x float64) int {
		return int((x - cam.L) / (cam.R - cam.L) * float64(w-1))
	}
	row := func(y float64) int {
		span := cfg.World.LaneBottom - cfg.World.LaneTop
		if span <= 0 {
			return bottom
		}
		return top + int((y-cfg.World.LaneTop)/span*float64(bottom-top)+0.5)
	}
	put := func(x, y float64, ch rune, st tcell.Style) {
		c, rw := col(x), row(y)
		if c < 0 || c >= w || rw < top || rw > bottom {
			return
		}
		s.SetContent(c, rw, ch, nil, st)
	}

	edge := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x < w; x++ {
		s.SetContent(x, top-1, '─', nil, edge)
		s.SetContent(x, bottom+1, '─', nil, edge)
	}

	r.Particles().Each(func(p *pool.Particle) {
		put(p.Pos.X, p.Pos.Y, '.', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	})
	r.EachPickup(func(p *combat.Pickup) {
		ch := '+'
		if p.Big {
			ch = '#'
		}
		put(p.Pos.X, p.Pos.Y, ch, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	})
	enemies := r.Enemies()
	for i := range enemies {
		e := &enemies[i]
		if !e.Alive() {
			continue
		}
		ch := 'e'
		if e.Class == lane.SizeLarge {
			ch = 'E'
		}
		put(e.Pos.X, e.Pos.Y, ch, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	if b := r.Boss(); b != nil && !b.Defeated() {
		st := tcell.StyleDefault.Foreground(tcell.ColorPurple)
		if b.Telegraphing() {
			st = st.Reverse(true)
		}
		put(b.Pos().X, b.Pos().Y, 'B', st)
	}
	if a := r.Ally(); a != nil && a.Alive() {
		put(a.Pos.X, a.Pos.Y, 'a', tcell.StyleDefault.Foreground(tcell.ColorTeal))
	}
	r.Projectiles().Each(func(p *pool.Projectile) {
		ch, st := '-', tcell.StyleDefault.Foreground(tcell.ColorLightBlue)
		if p.Origin == component.FactionEnemy {
			ch, st = '*', tcell.StyleDefault.Foreground(tcell.ColorOrange)
		}
		put(p.Pos.X, p.Pos.Y, ch, st)
	})
	p := r.Player()
	if p.Alive() {
		st := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
		if p.Shielded() {
			st = st.Reverse(true)
		}
		put(p.Pos.X, p.Pos.Y, '@', st)
	}

	status := fmt.Sprintf("t %.1fs  HP %.0f/%.0f  shield %.0f%%  pressure %.1f",
		r.Clock(), p.Health.Current, p.Health.Max, p.ShieldCharge()*100, r.Director().Pressure())
	if r.Director().VolleyOpen() {
		status += "  VOLLEY"
	}
	if b := r.Boss(); b != nil {
		status += fmt.Sprintf("  boss %s %.0f", b.Phase(), b.HP())
	}
	if t.paused {
		status += "  [paused]"
	}
	printAt(s, 0, 0, status, tcell.StyleDefault)
	printAt(s, 0, h-1, "arrows move  space fire  e shield  h/a/d ally  p pause  r restart  q quit", edge)
	s.Show()
}

func printAt(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, st)
		x++
	}
}
