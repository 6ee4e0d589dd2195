package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/prefabs"
	"github.com/jfad2010/ivangohsgreen/telemetry"
)

const statusFrames = 180

var allyOrders = []combat.AllyCommand{combat.AllyHold, combat.AllyAdvance, combat.AllyRetreat}

type Game struct {
	frames int
	debug  bool

	encounter string
	logger    *log.Logger
	hub       *telemetry.Hub
	watcher   *prefabs.Watcher

	spec       *prefabs.EncounterSpec
	resolver   *combat.Resolver
	curve      *prefabs.DifficultyCurve
	report     *combat.Report
	difficulty float64
	order      int

	viewWidth  float64
	viewHeight float64

	input   *Input
	paused  bool
	pauseUI *ebitenui.UI

	status     string
	statusLeft int
}

// NewGame loads the encounter and builds the first resolver. A nil hub
// disables telemetry; a nil watcher disables hot reload.
func NewGame(encounter string, debug bool, logger *log.Logger, hub *telemetry.Hub, watcher *prefabs.Watcher) (*Game, error) {
	g := &Game{
		debug:     debug,
		encounter: encounter,
		logger:    logger,
		hub:       hub,
		watcher:   watcher,
		input:     NewInput(),
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// load reads the encounter and script and swaps in a fresh resolver. On
// error the running fight is left untouched.
func (g *Game) load() error {
	spec, err := prefabs.LoadEncounter(g.encounter)
	if err != nil {
		return err
	}
	curve, err := prefabs.LoadDifficultyCurve(spec.Difficulty)
	if err != nil {
		return err
	}
	cfg := spec.Config()
	if g.debug {
		cfg.Logger = g.logger
	}
	r, err := combat.New(cfg, spec.FormationWaves())
	if err != nil {
		return err
	}

	g.spec = spec
	g.curve = curve
	g.resolver = r
	g.report = nil
	g.order = 0
	g.viewWidth = r.Config().World.ViewWidth
	g.viewHeight = r.Config().World.ViewHeight
	g.resolver.Events.Subscribe(g.onCombatEvent)
	return nil
}

func (g *Game) restart(reason string) {
	if err := g.load(); err != nil {
		g.logger.Printf("game: %s failed: %v", reason, err)
		g.flash(fmt.Sprintf("%s failed, see log", reason))
		return
	}
	g.logger.Printf("game: %s %q", reason, g.spec.Name)
	g.flash(reason)
}

func (g *Game) Update() error {
	g.frames++
	if g.statusLeft > 0 {
		g.statusLeft--
	}
	g.pollReload()

	g.input.Update()
	if g.input.Quit {
		return ebiten.Termination
	}
	if g.input.Debug {
		g.debug = !g.debug
	}
	if g.input.Pause {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if g.input.Restart {
		g.restart("restart")
		return nil
	}
	if g.input.Copy {
		g.copySnapshot()
	}
	if g.input.Order {
		g.order = (g.order + 1) % len(allyOrders)
		g.resolver.SetAllyCommand(allyOrders[g.order])
	}
	if g.input.Shield {
		g.resolver.RaiseShield()
	}

	r := g.resolver
	if d, err := g.curve.Eval(r.Progress(), r.Clock()); err == nil {
		g.difficulty = d
	} else if g.frames%600 == 1 {
		g.logger.Printf("game: difficulty: %v", err)
	}

	g.report = r.Tick(combat.Input{
		DT:         1 / float64(ebiten.TPS()),
		Move:       g.input.Move,
		Fire:       g.input.Fire,
		Difficulty: g.difficulty,
	})
	if g.report.PlayerDown {
		g.flash("down, press R to restart")
	}
	if g.hub != nil {
		if err := g.hub.Publish(telemetry.NewFrame(r, g.report)); err != nil && g.debug {
			g.logger.Printf("game: publish: %v", err)
		}
	}
	return nil
}

// pollReload rebuilds the fight when the encounter or a script changes on
// disk.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.restart(fmt.Sprintf("reload %s (%s)", filepath.Base(c.Path), c.Kind))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Printf("game: watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) onCombatEvent(e component.CombatEvent) {
	switch e.Type {
	case component.EventBossPhase:
		g.flash("boss: " + e.Detail)
	case component.EventBossDefeated:
		g.flash("boss defeated")
	case component.EventVolleyOpened:
		if g.debug {
			g.logger.Printf("game: volley window opened at %.1fs", g.resolver.Clock())
		}
	}
}

func (g *Game) copySnapshot() {
	if g.report == nil {
		return
	}
	if err := copySnapshot(telemetry.NewFrame(g.resolver, g.report)); err != nil {
		g.logger.Printf("game: %v", err)
		g.flash("copy failed")
		return
	}
	g.flash("snapshot copied")
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusLeft = statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawWorld(screen)
	g.drawHUD(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.viewWidth, g.viewHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
