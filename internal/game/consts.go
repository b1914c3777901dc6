package game

const (
	SimHz       = 20.0 // server tick rate
	Dt          = 1.0 / SimHz
	MaxTickDt   = 0.1 // catch-up cap after a stall, two missed ticks
	IdleTimeout = 30.0

	WorldW = 800.0 // playfield width
	ViewH  = 600.0 // viewport height the bands are measured against

	CullAbove     = 600.0 // behind the camera
	CullBelow     = 300.0 // past the bottom of the view
	ChunkBandTop  = 100.0 // chunk band starts ViewH+100 ahead of the camera
	ChunkBandSpan = 0.5   // and runs for half a view
	FloorBandSpan = 0.3
	JoinOffsetY   = 300.0

	PointMinSpeed = 40.0
	PointMaxSpeed = 120.0
	PointVYDamp   = 0.4
	PointMinR     = 6.0
	PointMaxR     = 11.0
	PointMinHue   = 200.0
	PointMaxHue   = 320.0
	StaticR       = 16.0
	SeedRange     = 1e9

	DefaultScrollSpeed     = 120.0
	DefaultChunkHeight     = 320.0
	DefaultPointsPerChunk  = 8
	DefaultStaticsPerChunk = 3
	DefaultMinPoints       = 28
	DefaultMinStatics      = 8
	DefaultInitialPoints   = 16
	DefaultInitialStatics  = 5

	StartMaxTrail      = 60
	MaxTrailCap        = 300
	CollectScore       = 1
	CollectGrow        = 10
	CaptureScore       = 5
	CapturePenalty     = 5
	CaptureFloor       = 60
	EatRadius          = 18.0
	TrailSpacing       = 8.0
	HeadLerp           = 0.05
	ShockMinTrail      = 20
	ShockMaxCharge     = 2.0
	ShockMinRatio      = 0.25
	ShockCapRadius     = 200.0
	ShockRadiusPerLen  = 2.0
	ShockCostRatio     = 0.3
	ShockTrailFloor    = 20
	ShockDuration      = 0.5
	HitReduction       = 0.5
	HitFloor           = 20
	DeathThreshold     = 100
	DownedSeconds      = 3.0
	RespawnScoreFactor = 0.5
	MaxNameRunes       = 24
)
