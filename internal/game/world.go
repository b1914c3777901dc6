package game

import (
	"math/rand"

	"LoopSnake/internal/geom"
)

type EntityID int64

// Point is a roaming collectible.
type Point struct {
	ID   EntityID `json:"id"`
	Seed int64    `json:"seed"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	VX   float64  `json:"vx"`
	VY   float64  `json:"vy"`
	R    float64  `json:"r"`
	Hue  float64  `json:"hue"`
}

func (p *Point) Pos() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

// Static is a capturable target. Captured only ever goes false to true.
type Static struct {
	ID       EntityID `json:"id"`
	Seed     int64    `json:"seed"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	R        float64  `json:"r"`
	Captured bool     `json:"captured"`
}

func (s *Static) Pos() geom.Vec2 { return geom.Vec2{X: s.X, Y: s.Y} }

// Capture marks the static and reports whether this call flipped it.
func (s *Static) Capture() bool {
	if s.Captured {
		return false
	}
	s.Captured = true
	return true
}

// World is the in-memory store of collectibles, statics and scroll state.
// It is not safe for concurrent use; Room serializes access.
type World struct {
	nextEntity EntityID

	Points  []*Point
	Statics []*Static

	CameraY    float64
	LastSpawnY float64
	Spawn      SpawnParams

	rng *rand.Rand
}

func NewWorld(params SpawnParams, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &World{
		Spawn: SanitizeSpawnParams(params),
		rng:   rng,
	}
}

// NewEntity hands out the next id. Ids are never reused.
func (w *World) NewEntity() EntityID {
	w.nextEntity++
	return w.nextEntity
}

// LastEntity is the most recently issued id.
func (w *World) LastEntity() EntityID { return w.nextEntity }

func (w *World) Point(id EntityID) *Point {
	for _, p := range w.Points {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (w *World) RemovePoint(id EntityID) (*Point, bool) {
	for i, p := range w.Points {
		if p.ID == id {
			w.Points = append(w.Points[:i], w.Points[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

func (w *World) Static(id EntityID) *Static {
	for _, s := range w.Statics {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (w *World) UncapturedStatics() []*Static {
	out := make([]*Static, 0, len(w.Statics))
	for _, s := range w.Statics {
		if !s.Captured {
			out = append(out, s)
		}
	}
	return out
}

// PointsCopy and StaticsCopy detach entity values from the live store so they
// can be serialized after the lock is released.
func (w *World) PointsCopy() []Point {
	out := make([]Point, len(w.Points))
	for i, p := range w.Points {
		out[i] = *p
	}
	return out
}

func (w *World) StaticsCopy() []Static {
	out := make([]Static, len(w.Statics))
	for i, s := range w.Statics {
		out[i] = *s
	}
	return out
}
