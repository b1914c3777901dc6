package geom

const (
	// LoopMinTrail is the trail length at or below which no loop is reported.
	LoopMinTrail = 25
	// LoopMinGap excludes the points nearest the head from closing a loop.
	LoopMinGap = 18
	// LoopCloseDist is how near the head must come to an older point.
	LoopCloseDist = 20.0
)

type Loop struct {
	Start  int
	Points []Vec2
}

// DetectLoop looks for the earliest trail point the head has come back to.
// Earliest wins so that the enclosed area is as large as possible.
func DetectLoop(trail []Vec2) (Loop, bool) {
	if len(trail) <= LoopMinTrail {
		return Loop{}, false
	}
	head := trail[len(trail)-1]
	const close2 = LoopCloseDist * LoopCloseDist
	for i := 0; i < len(trail)-LoopMinGap; i++ {
		if Distance2(head, trail[i]) <= close2 {
			pts := make([]Vec2, len(trail)-i)
			copy(pts, trail[i:])
			return Loop{Start: i, Points: pts}, true
		}
	}
	return Loop{}, false
}
