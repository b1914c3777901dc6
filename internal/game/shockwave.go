package game

import (
	"math"

	"LoopSnake/internal/geom"
)

type ShockPhase int

const (
	ShockIdle ShockPhase = iota
	ShockCharging
	ShockActive
)

func (p ShockPhase) String() string {
	switch p {
	case ShockCharging:
		return "charging"
	case ShockActive:
		return "active"
	default:
		return "idle"
	}
}

// Shockwave is the per-player charge and release state machine:
// idle -> charging -> (cancelled | released) -> active -> idle.
type Shockwave struct {
	Phase     ShockPhase
	Charge    float64
	Origin    geom.Vec2
	Radius    float64
	ActiveFor float64
}

// Blast is the outcome of a release.
type Blast struct {
	Origin geom.Vec2
	Radius float64
	Ratio  float64
	Cost   int
}

// Press starts charging. Refused while a shockwave is active or when the
// trail is too short to pay for one.
func (s *Shockwave) Press(maxTrail int, origin geom.Vec2, r Rules) bool {
	if maxTrail <= r.ShockMinTrail || s.Phase != ShockIdle {
		return false
	}
	s.Phase = ShockCharging
	s.Charge = 0
	s.Origin = origin
	return true
}

func (s *Shockwave) Ratio(r Rules) float64 {
	return math.Min(1, s.Charge/r.ShockMaxCharge)
}

// Advance moves the timers forward. While charging the origin follows the
// head; the return value is true when the charge cap was reached and the
// caller must release.
func (s *Shockwave) Advance(dt float64, head geom.Vec2, r Rules) bool {
	switch s.Phase {
	case ShockCharging:
		s.Charge = math.Min(s.Charge+dt, r.ShockMaxCharge)
		s.Origin = head
		return s.Charge >= r.ShockMaxCharge
	case ShockActive:
		s.ActiveFor += dt
		if s.ActiveFor >= r.ShockDuration {
			s.Phase = ShockIdle
			s.ActiveFor = 0
			s.Radius = 0
		}
	}
	return false
}

// Release ends a charge. Below the minimum ratio the charge is discarded and
// ok is false.
func (s *Shockwave) Release(maxTrail int, r Rules) (Blast, bool) {
	if s.Phase != ShockCharging {
		return Blast{}, false
	}
	ratio := s.Ratio(r)
	if ratio < r.ShockMinRatio {
		s.Phase = ShockIdle
		s.Charge = 0
		return Blast{}, false
	}
	b := BlastFor(maxTrail, ratio, r)
	b.Origin = s.Origin
	s.activate(b.Radius)
	return b, true
}

// Fire puts the machine straight into the active phase. The server uses it
// for blasts whose charge happened on the client.
func (s *Shockwave) Fire(origin geom.Vec2, radius float64) {
	s.Origin = origin
	s.activate(radius)
}

func (s *Shockwave) Active() bool { return s.Phase == ShockActive }

func (s *Shockwave) activate(radius float64) {
	s.Phase = ShockActive
	s.Charge = 0
	s.Radius = radius
	s.ActiveFor = 0
}

// MaxBlastRadius is the radius of a full charge at this trail capacity.
func MaxBlastRadius(maxTrail int, r Rules) float64 {
	return math.Min(r.ShockCapRadius, float64(maxTrail)*ShockRadiusPerLen)
}

func BlastFor(maxTrail int, ratio float64, r Rules) Blast {
	return Blast{
		Radius: MaxBlastRadius(maxTrail, r) * ratio,
		Ratio:  ratio,
		Cost:   int(math.Floor(float64(maxTrail) * r.ShockCostRatio * ratio)),
	}
}

// PayBlast shrinks the firing snake's capacity and trail.
func PayBlast(s *Snake, cost int, r Rules) {
	s.MaxTrail = max(r.ShockTrailFloor, s.MaxTrail-cost)
	s.TrimTrail(s.MaxTrail)
}

// HitResult describes what a received shockwave did to a snake.
type HitResult struct {
	Hit       bool
	Reduction int
	Fatal     bool
}

// ApplyShockwaveHit tests the snake's head against a blast and applies the
// capacity loss. Fatal means the caller must knock the snake out.
func ApplyShockwaveHit(s *Snake, origin geom.Vec2, radius float64, r Rules) HitResult {
	if geom.Distance2(s.Head, origin) > radius*radius {
		return HitResult{}
	}
	reduction := int(math.Floor(float64(s.MaxTrail) * r.HitReduction))
	s.MaxTrail = max(r.HitFloor, s.MaxTrail-reduction)
	s.TrimTrail(s.MaxTrail)
	return HitResult{
		Hit:       true,
		Reduction: reduction,
		Fatal:     s.MaxTrail < r.DeathThreshold,
	}
}
