package game

import (
	"math/rand"
	"sync"
	"time"

	"LoopSnake/internal/geom"
)

type Player struct {
	ID   string
	Name string
	Snake
	Shock    Shockwave
	Life     Life
	JoinedAt time.Time
	LastSeen time.Time
}

func (p *Player) View() PlayerView {
	trail := make([]geom.Vec2, len(p.Trail))
	copy(trail, p.Trail)
	return PlayerView{
		ID:       p.ID,
		Name:     p.Name,
		Score:    p.Score,
		X:        p.Head.X,
		Y:        p.Head.Y,
		Trail:    trail,
		MaxTrail: p.MaxTrail,
		Downed:   p.Life.Downed,
	}
}

// Room owns the world and every player record. Mu serializes all mutation:
// the tick and every message handler take it for one discrete operation and
// never hold it across I/O. Methods with the Locked suffix expect Mu held.
type Room struct {
	ID          string
	World       *World
	Players     map[string]*Player
	Rules       Rules
	IdleTimeout time.Duration
	Ticks       uint64
	Mu          sync.Mutex

	lastTick time.Time
}

func NewRoom(id string, spawn SpawnParams, rules Rules, rng *rand.Rand) *Room {
	r := &Room{
		ID:          id,
		World:       NewWorld(spawn, rng),
		Players:     map[string]*Player{},
		Rules:       SanitizeRules(rules),
		IdleTimeout: time.Duration(IdleTimeout * float64(time.Second)),
	}
	r.World.Populate()
	return r
}

// TickResult is what one authoritative update produced.
type TickResult struct {
	Snapshot Snapshot
	Reaped   []string
}

// Tick advances the room to now: scroll and spawn, shockwave and downed
// timers, idle reaping. It returns a snapshot for broadcast.
func (r *Room) Tick(now time.Time) TickResult {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	dt := Dt
	if !r.lastTick.IsZero() {
		dt = geom.Clamp(now.Sub(r.lastTick).Seconds(), 0, MaxTickDt)
	}
	r.lastTick = now

	r.World.Step(dt)
	for _, p := range r.Players {
		p.Shock.Advance(dt, p.Head, r.Rules)
		p.Life.Advance(dt, &p.Snake, r.Rules)
	}
	reaped := r.ReapIdleLocked(now)
	r.Ticks++
	return TickResult{Snapshot: r.SnapshotLocked(), Reaped: reaped}
}

func (r *Room) SnapshotLocked() Snapshot {
	players := make(map[string]PlayerView, len(r.Players))
	for id, p := range r.Players {
		players[id] = p.View()
	}
	return Snapshot{
		Tick:    r.Ticks,
		CameraY: r.World.CameraY,
		Points:  r.World.PointsCopy(),
		Statics: r.World.StaticsCopy(),
		Players: players,
	}
}

func (r *Room) FullStateLocked() FullState {
	return FullState{
		Snapshot:    r.SnapshotLocked(),
		ScrollSpeed: r.World.Spawn.ScrollSpeed,
		ChunkHeight: r.World.Spawn.ChunkHeight,
		LastSpawnY:  r.World.LastSpawnY,
		Width:       WorldW,
		ViewHeight:  ViewH,
	}
}

// Stats is a cheap summary for health reporting.
type Stats struct {
	Players int
	Points  int
	Statics int
	CameraY float64
	Ticks   uint64
}

func (r *Room) Stats() Stats {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return Stats{
		Players: len(r.Players),
		Points:  len(r.World.Points),
		Statics: len(r.World.Statics),
		CameraY: r.World.CameraY,
		Ticks:   r.Ticks,
	}
}
