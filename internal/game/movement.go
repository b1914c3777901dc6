package game

import "LoopSnake/internal/geom"

// SteerHead eases the head toward target and keeps it inside the visible
// band [cameraY, cameraY+viewH].
func SteerHead(head, target geom.Vec2, cameraY, viewH float64) geom.Vec2 {
	head.Y = geom.Clamp(head.Y, cameraY, cameraY+viewH)
	return head.Add(target.Sub(head).Scale(HeadLerp))
}

// ExtendTrail appends the head once it has moved far enough from the last
// trail point, then trims to the capacity. Capacity counts points, so a
// snake of capacity 60 can close a loop roughly 120 units across.
func ExtendTrail(s *Snake) bool {
	if n := len(s.Trail); n > 0 && geom.Distance2(s.Head, s.Trail[n-1]) <= TrailSpacing*TrailSpacing {
		return false
	}
	s.Trail = append(s.Trail, s.Head)
	s.TrimTrail(s.MaxTrail)
	return true
}
