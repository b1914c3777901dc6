package game

import "math"

// SpawnParams controls world density as the camera scrolls.
type SpawnParams struct {
	ScrollSpeed     float64
	ChunkHeight     float64
	PointsPerChunk  int
	StaticsPerChunk int
	MinPoints       int
	MinStatics      int
	InitialPoints   int
	InitialStatics  int
}

// Rules holds every award, cost and threshold shared by the server resolver
// and the client predictor. Both sides must run with the same values.
type Rules struct {
	StartMaxTrail  int
	MaxTrailCap    int
	CollectScore   int
	CollectGrow    int
	CaptureScore   int
	CapturePenalty int // maxTrail lost per capture; 0 disables
	CaptureFloor   int
	EatRadius      float64

	ShockMinTrail   int
	ShockMaxCharge  float64
	ShockMinRatio   float64
	ShockCapRadius  float64
	ShockCostRatio  float64
	ShockTrailFloor int
	ShockDuration   float64

	HitReduction   float64
	HitFloor       int
	DeathThreshold int
	DownedSeconds  float64
}

func DefaultSpawnParams() SpawnParams {
	return SpawnParams{
		ScrollSpeed:     DefaultScrollSpeed,
		ChunkHeight:     DefaultChunkHeight,
		PointsPerChunk:  DefaultPointsPerChunk,
		StaticsPerChunk: DefaultStaticsPerChunk,
		MinPoints:       DefaultMinPoints,
		MinStatics:      DefaultMinStatics,
		InitialPoints:   DefaultInitialPoints,
		InitialStatics:  DefaultInitialStatics,
	}
}

func DefaultRules() Rules {
	return Rules{
		StartMaxTrail:   StartMaxTrail,
		MaxTrailCap:     MaxTrailCap,
		CollectScore:    CollectScore,
		CollectGrow:     CollectGrow,
		CaptureScore:    CaptureScore,
		CapturePenalty:  CapturePenalty,
		CaptureFloor:    CaptureFloor,
		EatRadius:       EatRadius,
		ShockMinTrail:   ShockMinTrail,
		ShockMaxCharge:  ShockMaxCharge,
		ShockMinRatio:   ShockMinRatio,
		ShockCapRadius:  ShockCapRadius,
		ShockCostRatio:  ShockCostRatio,
		ShockTrailFloor: ShockTrailFloor,
		ShockDuration:   ShockDuration,
		HitReduction:    HitReduction,
		HitFloor:        HitFloor,
		DeathThreshold:  DeathThreshold,
		DownedSeconds:   DownedSeconds,
	}
}

// SanitizeSpawnParams replaces unusable values with defaults. A chunk height
// of zero would spin the chunk loop forever.
func SanitizeSpawnParams(p SpawnParams) SpawnParams {
	d := DefaultSpawnParams()
	if !(p.ScrollSpeed >= 0) || math.IsInf(p.ScrollSpeed, 0) {
		p.ScrollSpeed = d.ScrollSpeed
	}
	if !(p.ChunkHeight > 0) || math.IsInf(p.ChunkHeight, 0) {
		p.ChunkHeight = d.ChunkHeight
	}
	if p.PointsPerChunk < 0 {
		p.PointsPerChunk = d.PointsPerChunk
	}
	if p.StaticsPerChunk < 0 {
		p.StaticsPerChunk = d.StaticsPerChunk
	}
	if p.MinPoints < 0 {
		p.MinPoints = d.MinPoints
	}
	if p.MinStatics < 0 {
		p.MinStatics = d.MinStatics
	}
	if p.InitialPoints < 0 {
		p.InitialPoints = d.InitialPoints
	}
	if p.InitialStatics < 0 {
		p.InitialStatics = d.InitialStatics
	}
	return p
}

func SanitizeRules(r Rules) Rules {
	d := DefaultRules()
	if r.StartMaxTrail <= 0 {
		r.StartMaxTrail = d.StartMaxTrail
	}
	if r.MaxTrailCap < r.StartMaxTrail {
		r.MaxTrailCap = max(d.MaxTrailCap, r.StartMaxTrail)
	}
	if r.CollectScore < 0 {
		r.CollectScore = d.CollectScore
	}
	if r.CollectGrow < 0 {
		r.CollectGrow = d.CollectGrow
	}
	if r.CaptureScore < 0 {
		r.CaptureScore = d.CaptureScore
	}
	if r.CapturePenalty < 0 {
		r.CapturePenalty = 0
	}
	if r.CaptureFloor < 0 {
		r.CaptureFloor = d.CaptureFloor
	}
	if !(r.EatRadius > 0) {
		r.EatRadius = d.EatRadius
	}
	if r.ShockMinTrail < 0 {
		r.ShockMinTrail = d.ShockMinTrail
	}
	if !(r.ShockMaxCharge > 0) {
		r.ShockMaxCharge = d.ShockMaxCharge
	}
	if !(r.ShockMinRatio >= 0 && r.ShockMinRatio <= 1) {
		r.ShockMinRatio = d.ShockMinRatio
	}
	if !(r.ShockCapRadius > 0) {
		r.ShockCapRadius = d.ShockCapRadius
	}
	if !(r.ShockCostRatio >= 0 && r.ShockCostRatio <= 1) {
		r.ShockCostRatio = d.ShockCostRatio
	}
	if r.ShockTrailFloor < 0 {
		r.ShockTrailFloor = d.ShockTrailFloor
	}
	if !(r.ShockDuration > 0) {
		r.ShockDuration = d.ShockDuration
	}
	if !(r.HitReduction >= 0 && r.HitReduction <= 1) {
		r.HitReduction = d.HitReduction
	}
	if r.HitFloor < 0 {
		r.HitFloor = d.HitFloor
	}
	if r.DeathThreshold < 0 {
		r.DeathThreshold = d.DeathThreshold
	}
	if !(r.DownedSeconds >= 0) {
		r.DownedSeconds = d.DownedSeconds
	}
	return r
}
