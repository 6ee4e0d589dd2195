// Package telemetry turns resolver reports into flat frames and streams them
// to websocket observers.
package telemetry

import (
	"github.com/jfad2010/ivangohsgreen/combat"
	"gopkg.in/yaml.v3"
)

// Frame is the observable state after one tick.
type Frame struct {
	Clock         float64     `json:"clock" yaml:"clock"`
	Pressure      float64     `json:"pressure" yaml:"pressure"`
	VolleyOpen    bool        `json:"volley_open" yaml:"volley_open"`
	Player        PlayerFrame `json:"player" yaml:"player"`
	Ally          *AllyFrame  `json:"ally,omitempty" yaml:"ally,omitempty"`
	Boss          *BossFrame  `json:"boss,omitempty" yaml:"boss,omitempty"`
	Enemies       int         `json:"enemies" yaml:"enemies"`
	Projectiles   int         `json:"projectiles" yaml:"projectiles"`
	Particles     int         `json:"particles" yaml:"particles"`
	Pickups       int         `json:"pickups" yaml:"pickups"`
	Waves         int         `json:"waves" yaml:"waves"`
	Spawns        int         `json:"spawns" yaml:"spawns"`
	Hits          int         `json:"hits" yaml:"hits"`
	Blocked       int         `json:"blocked" yaml:"blocked"`
	DroppedShots  int         `json:"dropped_shots" yaml:"dropped_shots"`
	DroppedSpawns int         `json:"dropped_spawns" yaml:"dropped_spawns"`
	Kills         []KillFrame `json:"kills,omitempty" yaml:"kills,omitempty"`
}

type PlayerFrame struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	HP       float64 `json:"hp" yaml:"hp"`
	MaxHP    float64 `json:"max_hp" yaml:"max_hp"`
	Shielded bool    `json:"shielded" yaml:"shielded"`
	Shield   float64 `json:"shield_charge" yaml:"shield_charge"`
	Down     bool    `json:"down" yaml:"down"`
}

type AllyFrame struct {
	X       float64 `json:"x" yaml:"x"`
	HP      float64 `json:"hp" yaml:"hp"`
	Command string  `json:"command" yaml:"command"`
}

type BossFrame struct {
	Phase        string  `json:"phase" yaml:"phase"`
	Telegraphing bool    `json:"telegraphing" yaml:"telegraphing"`
	HP           float64 `json:"hp" yaml:"hp"`
	MaxHP        float64 `json:"max_hp" yaml:"max_hp"`
	Enraged      bool    `json:"enraged" yaml:"enraged"`
	Defeated     bool    `json:"defeated" yaml:"defeated"`
	X            float64 `json:"x" yaml:"x"`
	Y            float64 `json:"y" yaml:"y"`
}

type KillFrame struct {
	Owner      uint64 `json:"owner" yaml:"owner"`
	OwnerAlive bool   `json:"owner_alive" yaml:"owner_alive"`
	Victim     uint64 `json:"victim" yaml:"victim"`
	Origin     string `json:"origin" yaml:"origin"`
	Archetype  string `json:"archetype" yaml:"archetype"`
}

// NewFrame copies what observers need out of r and the report it just
// produced. The frame does not alias the report's reused slices.
func NewFrame(r *combat.Resolver, rep *combat.Report) Frame {
	p := r.Player()
	f := Frame{
		Clock:      rep.Clock,
		Pressure:   rep.Pressure,
		VolleyOpen: rep.VolleyOpen,
		Player: PlayerFrame{
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			HP:       p.Health.Current,
			MaxHP:    p.Health.Max,
			Shielded: p.Shielded(),
			Shield:   p.ShieldCharge(),
			Down:     !p.Alive(),
		},
		Enemies:       len(r.Enemies()),
		Projectiles:   r.Projectiles().Active(),
		Particles:     r.Particles().Active(),
		Waves:         rep.Waves,
		Spawns:        len(rep.Spawns),
		Hits:          rep.Hits,
		Blocked:       rep.Blocked,
		DroppedShots:  rep.DroppedShots,
		DroppedSpawns: rep.DroppedSpawns,
	}
	r.EachPickup(func(*combat.Pickup) { f.Pickups++ })

	if a := r.Ally(); a != nil {
		f.Ally = &AllyFrame{X: a.Pos.X, HP: a.Health.Current, Command: string(a.Command)}
	}
	if b := rep.Boss; b.Present {
		f.Boss = &BossFrame{
			Phase:        b.Phase.String(),
			Telegraphing: b.Telegraphing,
			HP:           b.HP,
			MaxHP:        b.MaxHP,
			Enraged:      b.Enraged,
			Defeated:     b.Defeated,
			X:            b.Pos.X,
			Y:            b.Pos.Y,
		}
	}
	for _, k := range rep.Kills {
		f.Kills = append(f.Kills, KillFrame{
			Owner:      uint64(k.Owner),
			OwnerAlive: k.OwnerAlive,
			Victim:     uint64(k.Victim),
			Origin:     k.Origin.String(),
			Archetype:  k.Archetype,
		})
	}
	return f
}

// YAML renders the frame as a human readable snapshot.
func (f Frame) YAML() ([]byte, error) {
	return yaml.Marshal(f)
}
