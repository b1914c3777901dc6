package game

import (
	"time"

	"LoopSnake/internal/geom"
)

// CollectPoint resolves a collection claim. The first claim for a point wins;
// later claims, and claims from unknown players, are silent no-ops.
func (r *Room) CollectPoint(playerID string, pointID EntityID, now time.Time) (PointCollected, bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.Players[playerID]
	if p == nil || p.Life.Downed {
		return PointCollected{}, false
	}
	if _, ok := r.World.RemovePoint(pointID); !ok {
		return PointCollected{}, false
	}
	p.LastSeen = now
	p.AwardCollect(r.Rules)
	replacement := r.World.SpawnReplacement()
	return PointCollected{
		PointID:  pointID,
		NewPoint: *replacement,
		PlayerID: playerID,
	}, true
}

// CaptureClaim honours only the claimed statics that the server's own copy of
// the player's trail encloses.
func (r *Room) CaptureClaim(playerID string, staticIDs []EntityID, now time.Time) (StaticsCaptured, bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.Players[playerID]
	if p == nil || p.Life.Downed || len(staticIDs) == 0 {
		return StaticsCaptured{}, false
	}
	p.LastSeen = now
	claimed := make(map[EntityID]struct{}, len(staticIDs))
	for _, id := range staticIDs {
		claimed[id] = struct{}{}
	}
	return r.captureLocked(p, func(id EntityID) bool {
		_, ok := claimed[id]
		return ok
	})
}

func (r *Room) captureLocked(p *Player, filter func(EntityID) bool) (StaticsCaptured, bool) {
	ids := Captures(p.Trail, r.World.Statics, filter)
	var captured []EntityID
	for _, id := range ids {
		if s := r.World.Static(id); s != nil && s.Capture() {
			p.AwardCapture(r.Rules)
			captured = append(captured, id)
		}
	}
	if len(captured) == 0 {
		return StaticsCaptured{}, false
	}
	p.TrimTrail(p.MaxTrail)
	return StaticsCaptured{StaticIDs: captured, PlayerID: p.ID}, true
}

// FireShockwave accepts a blast charged on the client. Only numeric sanity is
// checked; the charge ratio is recovered from the radius so the trail cost
// matches what the client paid.
func (r *Room) FireShockwave(playerID string, origin geom.Vec2, radius float64, now time.Time) (ShockwaveFired, bool) {
	if !origin.Finite() || !geom.IsFinite(radius) || radius <= 0 || radius > r.Rules.ShockCapRadius {
		return ShockwaveFired{}, false
	}

	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.Players[playerID]
	if p == nil || p.Life.Downed || p.Shock.Active() {
		return ShockwaveFired{}, false
	}
	p.LastSeen = now
	ratio := 1.0
	if full := MaxBlastRadius(p.MaxTrail, r.Rules); full > 0 {
		ratio = geom.Clamp(radius/full, 0, 1)
	}
	blast := BlastFor(p.MaxTrail, ratio, r.Rules)
	PayBlast(&p.Snake, blast.Cost, r.Rules)
	p.Shock.Fire(origin, radius)
	return ShockwaveFired{PlayerID: playerID, Origin: origin, Radius: radius}, true
}
