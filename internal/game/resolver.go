package game

import "LoopSnake/internal/geom"

// Reachable lists points within eating distance of the head. Iteration runs
// newest to oldest so callers can remove as they go.
func Reachable(head geom.Vec2, points []*Point, r Rules) []EntityID {
	var ids []EntityID
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		reach := r.EatRadius + p.R
		if geom.Distance2(head, p.Pos()) <= reach*reach {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Captures runs loop detection on the trail and returns every uncaptured
// static the loop fully encloses. Statics not accepted by filter are skipped;
// a nil filter accepts all.
func Captures(trail []geom.Vec2, statics []*Static, filter func(EntityID) bool) []EntityID {
	loop, ok := geom.DetectLoop(trail)
	if !ok {
		return nil
	}
	var ids []EntityID
	for _, s := range statics {
		if s.Captured || (filter != nil && !filter(s.ID)) {
			continue
		}
		if geom.Encloses(loop.Points, s.Pos(), s.R) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
