package server

import (
	"context"
	"log"
	"math/rand"
	"time"

	"LoopSnake/internal/game"
)

type AppConfig struct {
	ConfigPath string
	Overrides  Overrides
	Seed       int64 // 0 seeds from the clock
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		ConfigPath: "configs/world.json",
	}
}

func resolveSettings(cfg AppConfig) Settings {
	settings := DefaultSettings()
	loaded, err := loadSettingsFromFile(cfg.ConfigPath, settings)
	if err != nil {
		log.Printf("world config: %v (using defaults)", err)
	} else {
		settings = loaded
	}
	return cfg.Overrides.apply(settings)
}

// App ties the room, the hub and the tick loop together.
type App struct {
	Settings Settings
	Hub      *Hub
}

func NewApp(cfg AppConfig) *App {
	settings := resolveSettings(cfg)
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	room := game.NewRoom("main", settings.Spawn, settings.Rules, rand.New(rand.NewSource(seed)))
	room.IdleTimeout = settings.Server.IdleDuration()
	return &App{
		Settings: settings,
		Hub:      NewHub(room, settings.Server),
	}
}

// Run drives the authoritative tick until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ticker := time.NewTicker(a.Settings.Server.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.Hub.Tick(now)
		}
	}
}

func StartApp(addr string, cfg AppConfig) {
	app := NewApp(cfg)
	go app.Run(context.Background())

	s := app.Settings
	log.Printf("starting server on %s (tick %.0fHz, scroll %.0f, chunk %.0f, idle %.0fs)",
		addr, s.Server.TickHz, s.Spawn.ScrollSpeed, s.Spawn.ChunkHeight, s.Server.IdleTimeout)
	startServer(app.Hub, addr)
}
