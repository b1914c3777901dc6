// Package predict is the client-side twin of the room: it runs the same
// movement, collection, capture and shockwave rules locally so a client can
// act without waiting for the server, then reconciles against broadcasts.
package predict

import (
	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
	"LoopSnake/internal/wire"
)

const (
	// SendInterval throttles updateState to the server tick rate.
	SendInterval = 0.05
	// ClaimTimeout is how long an optimistic award waits for confirmation.
	ClaimTimeout = 2.0
	// SettleWindow is how long after a confirmation our own server record
	// is ignored, since snapshots already in flight predate the award.
	SettleWindow = 0.25
)

// Stats counts reconciliation outcomes.
type Stats struct {
	Snapshots   int
	Divergences int
	Confirmed   int
	Reverted    int
	Hits        int
	KnockOuts   int
}

// claim is an optimistic award waiting for the server, with the exact deltas
// it applied so a revert restores the previous numbers.
type claim struct {
	at    float64
	score int
	trail int
}

// Predictor is not safe for concurrent use; one goroutine owns it.
type Predictor struct {
	ID    string
	Name  string
	Rules game.Rules

	game.Snake
	Shock game.Shockwave
	Life  game.Life

	CameraY     float64
	ScrollSpeed float64
	Points      []*game.Point
	Statics     []*game.Static
	Others      map[string]game.PlayerView
	Tick        uint64
	Stats       Stats

	joined    bool
	clock     float64
	sinceSend float64
	outbox    []wire.ClientMessage

	pendingPoints  map[game.EntityID]claim
	pendingStatics map[game.EntityID]claim
	// authoritative captured flags from the last adopted snapshot
	serverStatics map[game.EntityID]bool
	// points the server already removed, kept for ClaimTimeout so a
	// snapshot sent before the removal cannot bring them back
	gone map[game.EntityID]float64
	// own server record is adopted only once clock reaches holdUntil
	holdUntil float64
}

func New(id, name string, rules game.Rules) *Predictor {
	rules = game.SanitizeRules(rules)
	return &Predictor{
		ID:             id,
		Name:           name,
		Rules:          rules,
		Snake:          game.Snake{MaxTrail: rules.StartMaxTrail},
		ScrollSpeed:    game.DefaultScrollSpeed,
		Others:         map[string]game.PlayerView{},
		pendingPoints:  map[game.EntityID]claim{},
		pendingStatics: map[game.EntityID]claim{},
		serverStatics:  map[game.EntityID]bool{},
		gone:           map[game.EntityID]float64{},
	}
}

// Joined reports whether the server has acknowledged a join.
func (p *Predictor) Joined() bool { return p.joined }

// Join queues a join intent starting at x.
func (p *Predictor) Join(x float64) {
	p.Head = geom.Vec2{X: x, Y: p.CameraY + game.JoinOffsetY}
	p.send(wire.Join{ID: wire.Text(p.ID), Name: wire.Text(p.Name), X: wire.N(p.Head.X), Y: wire.N(p.Head.Y)})
}

// Drain hands over everything queued since the last call.
func (p *Predictor) Drain() []wire.ClientMessage {
	out := p.outbox
	p.outbox = nil
	return out
}

func (p *Predictor) send(m wire.ClientMessage) { p.outbox = append(p.outbox, m) }

// Step advances the local simulation by dt seconds with the head steering
// toward target (world coordinates).
func (p *Predictor) Step(dt float64, target geom.Vec2) {
	if !(dt > 0) {
		return
	}
	p.clock += dt
	p.CameraY += p.ScrollSpeed * dt
	game.IntegratePoints(p.Points, dt)

	if p.Life.Downed {
		if p.Shock.Active() {
			p.Shock.Advance(dt, p.Head, p.Rules)
		}
		if p.Life.Advance(dt, &p.Snake, p.Rules) {
			p.Head.Y = p.CameraY + game.JoinOffsetY
		}
	} else {
		p.Head = game.SteerHead(p.Head, target, p.CameraY, game.ViewH)
		game.ExtendTrail(&p.Snake)
		p.collect()
		p.capture()
		if p.Shock.Advance(dt, p.Head, p.Rules) {
			p.Release()
		}
	}
	p.expireClaims()

	p.sinceSend += dt
	if p.joined && p.sinceSend >= SendInterval {
		p.sinceSend = 0
		p.send(wire.UpdateState{
			ID:       wire.Text(p.ID),
			Name:     wire.Text(p.Name),
			X:        wire.N(p.Head.X),
			Y:        wire.N(p.Head.Y),
			Trail:    wire.TrailOf(p.Trail),
			MaxTrail: wire.N(float64(p.MaxTrail)),
			Score:    wire.N(float64(p.Score)),
		})
	}
}

func (p *Predictor) collect() {
	for _, id := range game.Reachable(p.Head, p.Points, p.Rules) {
		p.removePoint(id)
		p.pendingPoints[id] = p.award(func(s *game.Snake) { s.AwardCollect(p.Rules) })
		p.send(wire.CollectPoint{PointID: wire.N(float64(id))})
	}
}

func (p *Predictor) capture() {
	if len(p.Trail) <= geom.LoopMinTrail {
		return
	}
	ids := game.Captures(p.Trail, p.Statics, nil)
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		if s := p.static(id); s != nil && s.Capture() {
			p.pendingStatics[id] = p.award(func(s *game.Snake) { s.AwardCapture(p.Rules) })
		}
	}
	p.TrimTrail(p.MaxTrail)
	p.send(wire.CaptureStatic{StaticIDs: wire.IDList(ids)})
}

// Press starts charging a shockwave.
func (p *Predictor) Press() bool {
	if p.Life.Downed {
		return false
	}
	return p.Shock.Press(p.MaxTrail, p.Head, p.Rules)
}

// Release fires the charged shockwave, paying its cost locally and queuing
// the claim. A charge below the minimum ratio is discarded silently.
func (p *Predictor) Release() bool {
	blast, ok := p.Shock.Release(p.MaxTrail, p.Rules)
	if !ok {
		return false
	}
	game.PayBlast(&p.Snake, blast.Cost, p.Rules)
	p.send(wire.Shockwave{X: wire.N(blast.Origin.X), Y: wire.N(blast.Origin.Y), Radius: wire.N(blast.Radius)})
	return true
}

func (p *Predictor) expireClaims() {
	for id, c := range p.pendingPoints {
		if p.clock-c.at < ClaimTimeout {
			continue
		}
		// A won collect is always broadcast, so silence means it was lost.
		delete(p.pendingPoints, id)
		p.revert(c)
	}
	for id, at := range p.gone {
		if p.clock-at >= ClaimTimeout {
			delete(p.gone, id)
		}
	}
	for id, c := range p.pendingStatics {
		if p.clock-c.at < ClaimTimeout {
			continue
		}
		delete(p.pendingStatics, id)
		if captured, known := p.serverStatics[id]; known && !captured {
			p.revert(c)
			if s := p.static(id); s != nil {
				s.Captured = false
			}
		}
	}
}

func (p *Predictor) award(apply func(*game.Snake)) claim {
	score, trail := p.Score, p.MaxTrail
	apply(&p.Snake)
	return claim{at: p.clock, score: p.Score - score, trail: p.MaxTrail - trail}
}

func (p *Predictor) revert(c claim) {
	p.Score = max(0, p.Score-c.score)
	p.MaxTrail = min(p.Rules.MaxTrailCap, max(p.Rules.ShockTrailFloor, p.MaxTrail-c.trail))
	p.TrimTrail(p.MaxTrail)
	p.Stats.Reverted++
}

func (p *Predictor) removePoint(id game.EntityID) {
	for i, pt := range p.Points {
		if pt.ID == id {
			p.Points = append(p.Points[:i], p.Points[i+1:]...)
			return
		}
	}
}

func (p *Predictor) static(id game.EntityID) *game.Static {
	for _, s := range p.Statics {
		if s.ID == id {
			return s
		}
	}
	return nil
}
