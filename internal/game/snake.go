package game

import (
	"math"

	"LoopSnake/internal/geom"
)

// Snake is the per-player state both the server and the predictor keep:
// head, trail (newest last), trail capacity and score.
type Snake struct {
	Head     geom.Vec2
	Trail    []geom.Vec2
	MaxTrail int
	Score    int
}

// TrimTrail keeps the newest n points.
func (s *Snake) TrimTrail(n int) {
	if n < 0 {
		n = 0
	}
	if len(s.Trail) > n {
		s.Trail = append(s.Trail[:0], s.Trail[len(s.Trail)-n:]...)
	}
}

func (s *Snake) AwardCollect(r Rules) {
	s.Score += r.CollectScore
	s.MaxTrail = min(r.MaxTrailCap, s.MaxTrail+r.CollectGrow)
}

// AwardCapture credits one captured static. The capacity penalty never
// raises a trail that is already below the floor.
func (s *Snake) AwardCapture(r Rules) {
	s.Score += r.CaptureScore
	if r.CapturePenalty > 0 {
		s.MaxTrail = max(min(s.MaxTrail, r.CaptureFloor), s.MaxTrail-r.CapturePenalty)
	}
}

// Life tracks the knocked-out cycle that follows a fatal shockwave hit.
type Life struct {
	Downed    bool
	DownedFor float64
	Lifetime  int // score banked at each knock-out
}

func (l *Life) KnockOut(s *Snake) {
	if l.Downed {
		return
	}
	l.Downed = true
	l.DownedFor = 0
	l.Lifetime += s.Score
	s.Trail = s.Trail[:0]
}

// Advance runs the downed timer and respawns once it expires. It reports
// whether a respawn happened during this call.
func (l *Life) Advance(dt float64, s *Snake, r Rules) bool {
	if !l.Downed {
		return false
	}
	l.DownedFor += dt
	if l.DownedFor < r.DownedSeconds {
		return false
	}
	l.Downed = false
	l.DownedFor = 0
	s.Trail = s.Trail[:0]
	s.MaxTrail = r.StartMaxTrail
	s.Score = int(math.Floor(float64(l.Lifetime) * RespawnScoreFactor))
	return true
}
