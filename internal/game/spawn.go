package game

import "math"

func (w *World) randRange(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}

func (w *World) newSeed() int64 { return int64(w.rng.Float64() * SeedRange) }

// SpawnPoint adds a roaming point somewhere in [yMin, yMax).
func (w *World) SpawnPoint(yMin, yMax float64) *Point {
	speed := w.randRange(PointMinSpeed, PointMaxSpeed)
	heading := w.rng.Float64() * 2 * math.Pi
	p := &Point{
		ID:   w.NewEntity(),
		Seed: w.newSeed(),
		X:    w.rng.Float64() * WorldW,
		Y:    w.randRange(yMin, yMax),
		VX:   math.Cos(heading) * speed,
		VY:   math.Sin(heading) * speed * PointVYDamp,
		R:    w.randRange(PointMinR, PointMaxR),
		Hue:  w.randRange(PointMinHue, PointMaxHue),
	}
	w.Points = append(w.Points, p)
	return p
}

func (w *World) SpawnStatic(yMin, yMax float64) *Static {
	s := &Static{
		ID:   w.NewEntity(),
		Seed: w.newSeed(),
		X:    w.rng.Float64() * WorldW,
		Y:    w.randRange(yMin, yMax),
		R:    StaticR,
	}
	w.Statics = append(w.Statics, s)
	return s
}

// chunkBand is the strip just past the bottom of the view where new content
// appears.
func (w *World) chunkBand() (float64, float64) {
	top := w.CameraY + ViewH + ChunkBandTop
	return top, w.CameraY + ViewH*(1+ChunkBandSpan)
}

func (w *World) floorBand() (float64, float64) {
	top := w.CameraY + ViewH + ChunkBandTop
	return top, w.CameraY + ViewH*(1+FloorBandSpan)
}

// Populate resets scroll state and fills the view with the initial counts.
func (w *World) Populate() {
	w.CameraY = 0
	w.LastSpawnY = 0
	w.Points = nil
	w.Statics = nil
	yMin, yMax := w.CameraY-ViewH, w.CameraY+ViewH*2
	for i := 0; i < w.Spawn.InitialPoints; i++ {
		w.SpawnPoint(yMin, yMax)
	}
	for i := 0; i < w.Spawn.InitialStatics; i++ {
		w.SpawnStatic(yMin, yMax)
	}
}

// SpawnReplacement adds one point ahead of the camera, keeping density after
// a collection.
func (w *World) SpawnReplacement() *Point {
	yMin, yMax := w.chunkBand()
	return w.SpawnPoint(yMin, yMax)
}

// Step runs one scheduler pass: scroll, integrate, cull, spawn chunks, then
// top up to the configured floors.
func (w *World) Step(dt float64) {
	if dt > 0 {
		w.CameraY += w.Spawn.ScrollSpeed * dt
	}
	w.integrate(dt)
	w.cull()
	w.spawnChunks()
	w.enforceFloors()
}

func (w *World) integrate(dt float64) { IntegratePoints(w.Points, dt) }

// IntegratePoints moves points by their velocity and bounces them off the
// side walls. A point past a wall always ends up heading back inside. The
// predictor runs the same function on its mirror.
func IntegratePoints(points []*Point, dt float64) {
	if dt <= 0 {
		return
	}
	for _, p := range points {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		if p.X < p.R {
			p.X = p.R
			p.VX = math.Abs(p.VX)
		}
		if p.X > WorldW-p.R {
			p.X = WorldW - p.R
			p.VX = -math.Abs(p.VX)
		}
	}
}

func (w *World) outOfBand(y float64) bool {
	return y < w.CameraY-CullAbove || y > w.CameraY+ViewH+CullBelow
}

func (w *World) cull() {
	points := w.Points[:0]
	for _, p := range w.Points {
		if !w.outOfBand(p.Y) {
			points = append(points, p)
		}
	}
	clear(w.Points[len(points):])
	w.Points = points

	statics := w.Statics[:0]
	for _, s := range w.Statics {
		if !w.outOfBand(s.Y) {
			statics = append(statics, s)
		}
	}
	clear(w.Statics[len(statics):])
	w.Statics = statics
}

func (w *World) spawnChunks() {
	for w.CameraY-w.LastSpawnY >= w.Spawn.ChunkHeight {
		yMin, yMax := w.chunkBand()
		for k := 0; k < w.Spawn.PointsPerChunk; k++ {
			w.SpawnPoint(yMin, yMax)
		}
		for k := 0; k < w.Spawn.StaticsPerChunk; k++ {
			w.SpawnStatic(yMin, yMax)
		}
		w.LastSpawnY += w.Spawn.ChunkHeight
	}
}

func (w *World) enforceFloors() {
	yMin, yMax := w.floorBand()
	for n := w.Spawn.MinPoints - len(w.Points); n > 0; n-- {
		w.SpawnPoint(yMin, yMax)
	}
	for n := w.Spawn.MinStatics - len(w.Statics); n > 0; n-- {
		w.SpawnStatic(yMin, yMax)
	}
}
