package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"LoopSnake/internal/geom"
)

// JoinRequest is a validated join intent. X is nil when the client sent no
// usable value.
type JoinRequest struct {
	ID   string
	Name string
	X    *float64
}

// StateUpdate carries the fields of one update intent that survived
// validation. Nil fields are left untouched.
type StateUpdate struct {
	Name     string
	X        *float64
	Y        *float64
	Trail    []geom.Vec2
	HasTrail bool
	MaxTrail *int
	Score    *int
}

// DefaultName derives a display name from the id when the client sent none.
func DefaultName(id string) string {
	suffix := id
	if n := len(suffix); n > 4 {
		suffix = suffix[n-4:]
	}
	return "Player" + suffix
}

func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameRunes {
		name = string([]rune(name)[:MaxNameRunes])
	}
	return name
}

// Join creates (or replaces) the player record. The player starts at the
// current camera offset so late joiners appear in view.
func (r *Room) Join(req JoinRequest, now time.Time) (FullState, []Event) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	name := CleanName(req.Name)
	if name == "" {
		name = DefaultName(req.ID)
	}
	x := WorldW * 0.5
	if req.X != nil && geom.IsFinite(*req.X) {
		x = geom.Clamp(*req.X, 0, WorldW)
	}
	p := &Player{
		ID:   req.ID,
		Name: name,
		Snake: Snake{
			Head:     geom.Vec2{X: x, Y: r.World.CameraY + JoinOffsetY},
			MaxTrail: r.Rules.StartMaxTrail,
		},
		JoinedAt: now,
		LastSeen: now,
	}
	r.Players[p.ID] = p
	return r.FullStateLocked(), []Event{PlayerJoined{Player: p.View()}}
}

// UpdateState applies a player's own position, name and trail, then lets the
// server look for captures in the new trail.
func (r *Room) UpdateState(id string, u StateUpdate, now time.Time) []Event {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.Players[id]
	if p == nil {
		return nil
	}
	p.LastSeen = now
	if name := CleanName(u.Name); name != "" {
		p.Name = name
	}
	if u.X != nil && geom.IsFinite(*u.X) {
		p.Head.X = *u.X
	}
	if u.Y != nil && geom.IsFinite(*u.Y) {
		p.Head.Y = *u.Y
	}
	// Capacity and score reports may only lower the server's numbers: hits
	// are evaluated on the client and never re-validated here.
	if u.MaxTrail != nil && *u.MaxTrail >= 0 && *u.MaxTrail < p.MaxTrail {
		p.MaxTrail = *u.MaxTrail
	}
	if u.Score != nil && *u.Score >= 0 && *u.Score < p.Score {
		p.Score = *u.Score
	}
	if u.HasTrail {
		trail := p.Trail[:0]
		for _, pt := range u.Trail {
			if pt.Finite() {
				trail = append(trail, pt)
			}
		}
		p.Trail = trail
	}
	p.TrimTrail(p.MaxTrail)

	if p.Life.Downed || len(p.Trail) <= geom.LoopMinTrail {
		return nil
	}
	if ev, ok := r.captureLocked(p, nil); ok {
		return []Event{ev}
	}
	return nil
}

// KnockOut records a client-reported fatal hit so the server's score and
// capacity follow the same respawn rules as the client.
func (r *Room) KnockOut(id string, now time.Time) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p := r.Players[id]
	if p == nil || p.Life.Downed {
		return false
	}
	p.LastSeen = now
	p.Life.KnockOut(&p.Snake)
	return true
}

// Leave removes the record when the transport closes.
func (r *Room) Leave(id string) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if _, ok := r.Players[id]; !ok {
		return false
	}
	delete(r.Players, id)
	return true
}

// ReapIdleLocked drops players silent for longer than the idle timeout.
func (r *Room) ReapIdleLocked(now time.Time) []string {
	var reaped []string
	for id, p := range r.Players {
		if now.Sub(p.LastSeen) > r.IdleTimeout {
			delete(r.Players, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

func (r *Room) HasPlayer(id string) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	_, ok := r.Players[id]
	return ok
}
