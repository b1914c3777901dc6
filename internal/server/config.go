package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"LoopSnake/internal/game"
)

// ServerParams are the transport and scheduling knobs.
type ServerParams struct {
	TickHz      float64
	IdleTimeout float64 // seconds without join/update traffic before reaping
	RateLimit   float64 // inbound frames per second per connection
	RateBurst   int
	SendBuffer  int // queued outbound frames per connection
}

func DefaultServerParams() ServerParams {
	return ServerParams{
		TickHz:      game.SimHz,
		IdleTimeout: game.IdleTimeout,
		RateLimit:   60,
		RateBurst:   120,
		SendBuffer:  64,
	}
}

func SanitizeServerParams(p ServerParams) ServerParams {
	d := DefaultServerParams()
	if !(p.TickHz > 0) || p.TickHz > 240 {
		p.TickHz = d.TickHz
	}
	if !(p.IdleTimeout > 0) {
		p.IdleTimeout = d.IdleTimeout
	}
	if !(p.RateLimit > 0) {
		p.RateLimit = d.RateLimit
	}
	if p.RateBurst < 1 {
		p.RateBurst = d.RateBurst
	}
	if p.SendBuffer < 1 {
		p.SendBuffer = d.SendBuffer
	}
	return p
}

func (p ServerParams) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / p.TickHz)
}

func (p ServerParams) IdleDuration() time.Duration {
	return time.Duration(p.IdleTimeout * float64(time.Second))
}

// Settings is the fully resolved configuration.
type Settings struct {
	Spawn  game.SpawnParams
	Rules  game.Rules
	Server ServerParams
}

func DefaultSettings() Settings {
	return Settings{
		Spawn:  game.DefaultSpawnParams(),
		Rules:  game.DefaultRules(),
		Server: DefaultServerParams(),
	}
}

func (s Settings) Sanitize() Settings {
	return Settings{
		Spawn:  game.SanitizeSpawnParams(s.Spawn),
		Rules:  game.SanitizeRules(s.Rules),
		Server: SanitizeServerParams(s.Server),
	}
}

type spawnConfig struct {
	ScrollSpeed     *float64 `json:"scrollSpeed"`
	ChunkHeight     *float64 `json:"chunkHeight"`
	PointsPerChunk  *int     `json:"pointsPerChunk"`
	StaticsPerChunk *int     `json:"staticsPerChunk"`
	MinPoints       *int     `json:"minPoints"`
	MinStatics      *int     `json:"minStatics"`
	InitialPoints   *int     `json:"initialPoints"`
	InitialStatics  *int     `json:"initialStatics"`
}

type rulesConfig struct {
	StartMaxTrail  *int     `json:"startMaxTrail"`
	MaxTrailCap    *int     `json:"maxTrailCap"`
	CollectScore   *int     `json:"collectScore"`
	CollectGrow    *int     `json:"collectGrow"`
	CaptureScore   *int     `json:"captureScore"`
	CapturePenalty *int     `json:"capturePenalty"`
	CaptureFloor   *int     `json:"captureFloor"`
	EatRadius      *float64 `json:"eatRadius"`
	ShockMinTrail  *int     `json:"shockMinTrail"`
	ShockMaxCharge *float64 `json:"shockMaxCharge"`
	ShockCapRadius *float64 `json:"shockCapRadius"`
	ShockDuration  *float64 `json:"shockDuration"`
	HitReduction   *float64 `json:"hitReduction"`
	DeathThreshold *int     `json:"deathThreshold"`
	DownedSeconds  *float64 `json:"downedSeconds"`
}

type serverConfig struct {
	TickHz      *float64 `json:"tickHz"`
	IdleTimeout *float64 `json:"idleTimeoutSeconds"`
	RateLimit   *float64 `json:"rateLimit"`
	RateBurst   *int     `json:"rateBurst"`
	SendBuffer  *int     `json:"sendBuffer"`
}

type worldConfig struct {
	Spawn  *spawnConfig  `json:"spawn"`
	Rules  *rulesConfig  `json:"rules"`
	Server *serverConfig `json:"server"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergeWorldConfig(base Settings, cfg worldConfig) Settings {
	if s := cfg.Spawn; s != nil {
		set(&base.Spawn.ScrollSpeed, s.ScrollSpeed)
		set(&base.Spawn.ChunkHeight, s.ChunkHeight)
		set(&base.Spawn.PointsPerChunk, s.PointsPerChunk)
		set(&base.Spawn.StaticsPerChunk, s.StaticsPerChunk)
		set(&base.Spawn.MinPoints, s.MinPoints)
		set(&base.Spawn.MinStatics, s.MinStatics)
		set(&base.Spawn.InitialPoints, s.InitialPoints)
		set(&base.Spawn.InitialStatics, s.InitialStatics)
	}
	if r := cfg.Rules; r != nil {
		set(&base.Rules.StartMaxTrail, r.StartMaxTrail)
		set(&base.Rules.MaxTrailCap, r.MaxTrailCap)
		set(&base.Rules.CollectScore, r.CollectScore)
		set(&base.Rules.CollectGrow, r.CollectGrow)
		set(&base.Rules.CaptureScore, r.CaptureScore)
		set(&base.Rules.CapturePenalty, r.CapturePenalty)
		set(&base.Rules.CaptureFloor, r.CaptureFloor)
		set(&base.Rules.EatRadius, r.EatRadius)
		set(&base.Rules.ShockMinTrail, r.ShockMinTrail)
		set(&base.Rules.ShockMaxCharge, r.ShockMaxCharge)
		set(&base.Rules.ShockCapRadius, r.ShockCapRadius)
		set(&base.Rules.ShockDuration, r.ShockDuration)
		set(&base.Rules.HitReduction, r.HitReduction)
		set(&base.Rules.DeathThreshold, r.DeathThreshold)
		set(&base.Rules.DownedSeconds, r.DownedSeconds)
	}
	if s := cfg.Server; s != nil {
		set(&base.Server.TickHz, s.TickHz)
		set(&base.Server.IdleTimeout, s.IdleTimeout)
		set(&base.Server.RateLimit, s.RateLimit)
		set(&base.Server.RateBurst, s.RateBurst)
		set(&base.Server.SendBuffer, s.SendBuffer)
	}
	return base.Sanitize()
}

// loadSettingsFromFile merges the tuning file over base. A missing file is
// not an error; a broken one returns base together with the error.
func loadSettingsFromFile(path string, base Settings) (Settings, error) {
	if path == "" {
		return base.Sanitize(), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return base.Sanitize(), nil
		}
		return base.Sanitize(), fmt.Errorf("read world config %q: %w", cleanPath, err)
	}
	var cfg worldConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base.Sanitize(), fmt.Errorf("parse world config %q: %w", cleanPath, err)
	}
	return mergeWorldConfig(base, cfg), nil
}

// Overrides are optional command-line values applied after the file.
type Overrides struct {
	ScrollSpeed    *float64
	ChunkHeight    *float64
	CapturePenalty *int
	TickHz         *float64
	IdleTimeout    *float64
	RateLimit      *float64
}

func (o Overrides) apply(base Settings) Settings {
	set(&base.Spawn.ScrollSpeed, o.ScrollSpeed)
	set(&base.Spawn.ChunkHeight, o.ChunkHeight)
	set(&base.Rules.CapturePenalty, o.CapturePenalty)
	set(&base.Server.TickHz, o.TickHz)
	set(&base.Server.IdleTimeout, o.IdleTimeout)
	set(&base.Server.RateLimit, o.RateLimit)
	return base.Sanitize()
}
