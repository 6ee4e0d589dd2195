package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/lane"
	"github.com/jfad2010/ivangohsgreen/pool"
)

// bodySize is the drawn width of a combatant of the given class.
func bodySize(s lane.SizeClass) float32 {
	switch s {
	case lane.SizeSmall:
		return 14
	case lane.SizeLarge:
		return 64
	}
	return 28
}

func healthColor(frac float64) color.Color {
	switch {
	case frac > 0.66:
		return colornames.Olivedrab
	case frac > 0.33:
		return colornames.Goldenrod
	}
	return colornames.Firebrick
}

func factionColor(f component.Faction) color.Color {
	switch f {
	case component.FactionPlayer:
		return colornames.Lightskyblue
	case component.FactionAlly:
		return colornames.Aquamarine
	case component.FactionEnemy:
		return colornames.Orangered
	}
	return colornames.White
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	r := g.resolver
	cfg := r.Config()
	camX := r.Camera().L

	sx := func(x float64) float32 { return float32(x - camX) }

	top, bottom := float32(cfg.World.LaneTop), float32(cfg.World.LaneBottom)
	vector.FillRect(screen, 0, top, float32(g.viewWidth), bottom-top, color.RGBA{0x22, 0x22, 0x44, 0xff}, false)
	vector.StrokeLine(screen, 0, top, float32(g.viewWidth), top, 1, colornames.Slategray, false)
	vector.StrokeLine(screen, 0, bottom, float32(g.viewWidth), bottom, 1, colornames.Slategray, false)

	r.EachPickup(func(p *combat.Pickup) {
		rad := float32(5)
		if p.Big {
			rad = 12
		}
		vector.FillCircle(screen, sx(p.Pos.X), float32(p.Pos.Y), rad, colornames.Lime, true)
	})

	enemies := r.Enemies()
	for i := range enemies {
		e := &enemies[i]
		if !e.Alive() {
			continue
		}
		s := bodySize(e.Class)
		x, y := sx(e.Pos.X)-s/2, float32(e.Pos.Y)-s
		vector.FillRect(screen, x, y, s, s, healthColor(e.Health.Fraction()), false)
	}

	if b := r.Boss(); b != nil && !b.Defeated() {
		s := bodySize(b.Size())
		x, y := sx(b.Pos().X)-s/2, float32(b.Pos().Y)-s
		clr := color.Color(colornames.Darkorchid)
		if b.Telegraphing() && (g.frames/4)%2 == 0 {
			clr = colornames.White
		} else if b.Enraged() {
			clr = colornames.Crimson
		}
		vector.FillRect(screen, x, y, s, s, clr, false)
		frac := float32(b.HP() / b.MaxHP())
		vector.FillRect(screen, x, y-10, s*frac, 4, colornames.Red, false)
		vector.StrokeRect(screen, x, y-10, s, 4, 1, colornames.White, false)
	}

	if a := r.Ally(); a != nil && a.Alive() {
		s := bodySize(a.Size())
		vector.FillRect(screen, sx(a.Pos.X)-s/2, float32(a.Pos.Y)-s, s, s, colornames.Teal, false)
	}

	p := r.Player()
	if p.Alive() {
		s := bodySize(p.Class)
		px, py := sx(p.Pos.X), float32(p.Pos.Y)
		vector.FillRect(screen, px-s/2, py-s, s, s, colornames.Crimson, false)
		if p.Shielded() {
			vector.StrokeCircle(screen, px, py-s/2, s, 2, colornames.Lightskyblue, true)
		}
	}

	r.Projectiles().Each(func(pr *pool.Projectile) {
		rad := float32(3)
		if pr.Size == lane.SizeLarge {
			rad = 6
		}
		vector.FillCircle(screen, sx(pr.Pos.X), float32(pr.Pos.Y)-12, rad, factionColor(pr.Origin), true)
	})

	r.Particles().Each(func(pt *pool.Particle) {
		a := uint8(255 * pt.Fade)
		vector.FillCircle(screen, sx(pt.Pos.X), float32(pt.Pos.Y)-12, 2+4*float32(1-pt.Fade), color.NRGBA{0xff, 0xcc, 0x55, a}, true)
	})
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	r := g.resolver
	p := r.Player()
	d := r.Director()

	volley := ""
	if d.VolleyOpen() {
		volley = "  VOLLEY"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %.0f/%.0f  shield %.0f%%", p.Health.Current, p.Health.Max, p.ShieldCharge()*100), 8, 8)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("pressure %.1f  difficulty %.2f  waves left %d%s", d.Pressure(), g.difficulty, d.Pending(), volley), 8, 24)

	if a := r.Ally(); a != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ally %s  HP %.0f", a.Command, a.Health.Current), 8, 40)
	}
	if b := r.Boss(); b != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("boss %s  HP %.0f/%.0f", b.Phase(), b.HP(), b.MaxHP()), 8, 56)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f  TPS %.0f  shots %d/%d  sparks %d/%d  t %.1fs",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			r.Projectiles().Active(), r.Projectiles().Cap(),
			r.Particles().Active(), r.Particles().Cap(), r.Clock()), 8, int(g.viewHeight)-20)
	}
	if g.statusLeft > 0 {
		ebitenutil.DebugPrintAt(screen, g.status, int(g.viewWidth)/2-len(g.status)*3, 80)
	}
}
