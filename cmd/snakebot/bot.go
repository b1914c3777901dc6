package main

import (
	"math"
	"math/rand"

	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
	"LoopSnake/internal/predict"
)

const (
	circleRadius = 60.0
	circleSpeed  = 220.0 // world units per second along the circle
	holdSeconds  = 1.0
)

// bot steers a predictor around a circle that rides with the camera, so its
// trail keeps closing loops, and fires a half-charged shockwave now and then.
type bot struct {
	p   *predict.Predictor
	rng *rand.Rand

	lane     float64
	angle    float64
	cooldown float64
	holding  float64
}

func newBot(id, name string, rng *rand.Rand) *bot {
	return &bot{
		p:        predict.New(id, name, game.DefaultRules()),
		rng:      rng,
		lane:     circleRadius + rng.Float64()*(game.WorldW-2*circleRadius),
		cooldown: 3 + rng.Float64()*4,
	}
}

func (b *bot) target(dt float64) geom.Vec2 {
	b.angle = math.Mod(b.angle+dt*circleSpeed/circleRadius, 2*math.Pi)
	centre := geom.Vec2{X: b.lane, Y: b.p.CameraY + game.JoinOffsetY}
	return centre.Add(geom.Vec2{X: math.Cos(b.angle), Y: math.Sin(b.angle)}.Scale(circleRadius))
}

func (b *bot) step(dt float64) {
	if b.p.Joined() {
		b.shock(dt)
	}
	b.p.Step(dt, b.target(dt))
}

func (b *bot) shock(dt float64) {
	if b.holding > 0 {
		b.holding -= dt
		if b.holding <= 0 {
			b.p.Release()
		}
		return
	}
	b.cooldown -= dt
	if b.cooldown > 0 {
		return
	}
	b.cooldown = 4 + b.rng.Float64()*4
	if b.p.Press() {
		b.holding = holdSeconds
	}
}
