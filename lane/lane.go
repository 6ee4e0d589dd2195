// Package lane implements the band-tolerant vertical overlap test used for
// every combat interaction. The world scrolls along x; two things only touch
// when their y positions sit within a tolerance band of each other.
//
// The band is always derived from the size class of the thing being hit (the
// target, or the player for contact and pickups), never from the projectile
// or attacker. Large targets are easier to hit, small ones harder; this
// asymmetry is deliberate balancing and callers must not swap the arguments.
package lane

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultBand is the base band width in world units.
const DefaultBand = 40.0

// DefaultReach is the x distance within which the lane test applies.
const DefaultReach = 24.0

var ErrUnknownSize = errors.New("lane: unknown size class")

// SizeClass classifies how wide a target's lane band is. The zero value is
// medium.
type SizeClass uint8

const (
	SizeMedium SizeClass = iota
	SizeSmall
	SizeLarge
)

func (s SizeClass) String() string {
	switch s {
	case SizeSmall:
		return "small"
	case SizeLarge:
		return "large"
	}
	return "medium"
}

// ParseSizeClass accepts small|medium|large or the single letters S|M|L.
// An empty string is medium.
func ParseSizeClass(s string) (SizeClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "medium":
		return SizeMedium, nil
	case "s", "small":
		return SizeSmall, nil
	case "l", "large":
		return SizeLarge, nil
	}
	return SizeMedium, fmt.Errorf("%w: %q", ErrUnknownSize, s)
}

// UnmarshalText lets size classes be authored as strings in yaml.
func (s *SizeClass) UnmarshalText(text []byte) error {
	v, err := ParseSizeClass(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s SizeClass) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Target is anything that occupies a lane position with a size.
type Target interface {
	LaneY() float64
	Size() SizeClass
}

// Band maps a size class to a tolerance width. A non-positive base falls back
// to DefaultBand.
func Band(size SizeClass, base float64) float64 {
	if base <= 0 {
		base = DefaultBand
	}
	switch size {
	case SizeSmall:
		return base * 0.5
	case SizeLarge:
		return base * 1.5
	}
	return base
}

// Overlap is true iff |aY - bY| < band.
func Overlap(aY, bY, band float64) bool {
	return math.Abs(aY-bY) < band
}

// Reach is the x counterpart of Overlap: |aX - bX| < reach.
func Reach(aX, bX, reach float64) bool {
	if reach <= 0 {
		reach = DefaultReach
	}
	return math.Abs(aX-bX) < reach
}

// ProjectileHitsTarget tests a projectile's y against the target's band.
func ProjectileHitsTarget(projectileY float64, target Target, base float64) bool {
	if target == nil {
		return false
	}
	return Overlap(projectileY, target.LaneY(), Band(target.Size(), base))
}

// EnemyHitsPlayer tests contact using the player's band.
func EnemyHitsPlayer(enemyY float64, player Target, base float64) bool {
	return ProjectileHitsTarget(enemyY, player, base)
}

// PickupHitsPlayer tests collection using the player's band.
func PickupHitsPlayer(pickupY float64, player Target, base float64) bool {
	return ProjectileHitsTarget(pickupY, player, base)
}
