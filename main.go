package main

import (
	"flag"
	"log"
	"math"
	"os"

	"LoopSnake/internal/server"

	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env: %v", err)
	}

	cfg := server.DefaultAppConfig()
	addr := flag.String("addr", envOr("SNAKE_ADDR", ":8080"), "address to listen on (e.g., 127.0.0.1:8080)")
	configPath := flag.String("config", envOr("SNAKE_CONFIG", cfg.ConfigPath), "path to world tuning JSON")
	scroll := flag.Float64("scroll", math.NaN(), "override camera scroll speed (world units/s)")
	chunk := flag.Float64("chunk", math.NaN(), "override spawn chunk height")
	penalty := flag.Int("capture-penalty", -1, "override maxTrail lost per capture (0 disables)")
	tickHz := flag.Float64("tick-hz", math.NaN(), "override authoritative tick rate")
	idle := flag.Float64("idle", math.NaN(), "override idle timeout in seconds")
	rateLimit := flag.Float64("rate", math.NaN(), "override inbound messages per second per connection")
	seed := flag.Int64("seed", 0, "world seed (0 = time based)")
	flag.Parse()

	cfg.ConfigPath = *configPath
	cfg.Seed = *seed

	var overrides server.Overrides
	if !math.IsNaN(*scroll) {
		val := *scroll
		overrides.ScrollSpeed = &val
	}
	if !math.IsNaN(*chunk) {
		val := *chunk
		overrides.ChunkHeight = &val
	}
	if *penalty >= 0 {
		val := *penalty
		overrides.CapturePenalty = &val
	}
	if !math.IsNaN(*tickHz) {
		val := *tickHz
		overrides.TickHz = &val
	}
	if !math.IsNaN(*idle) {
		val := *idle
		overrides.IdleTimeout = &val
	}
	if !math.IsNaN(*rateLimit) {
		val := *rateLimit
		overrides.RateLimit = &val
	}
	cfg.Overrides = overrides

	server.StartApp(*addr, cfg)
}
