package main

import (
	"math/rand"
	"testing"

	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
	"LoopSnake/internal/wire"
)

func joinedBot(t *testing.T) *bot {
	t.Helper()
	b := newBot("bot", "Bot", rand.New(rand.NewSource(3)))
	b.p.Join(b.lane)
	b.p.Handle(wire.FullGameState{
		Players:  map[string]game.PlayerView{"bot": {ID: "bot", X: b.lane, Y: game.JoinOffsetY, MaxTrail: game.StartMaxTrail}},
		YourID:   "bot",
		Protocol: wire.ProtocolVersion,
	})
	b.p.Drain()
	return b
}

func TestBotTargetStaysOnCircle(t *testing.T) {
	b := joinedBot(t)
	centre := geom.Vec2{X: b.lane, Y: b.p.CameraY + game.JoinOffsetY}
	for i := 0; i < 40; i++ {
		got := b.target(0.05)
		if d := geom.Distance(got, centre); d < circleRadius-1e-6 || d > circleRadius+1e-6 {
			t.Fatalf("expected target on the circle, got distance %.3f", d)
		}
	}
	if b.lane < circleRadius || b.lane > game.WorldW-circleRadius {
		t.Fatalf("lane %.1f puts the circle outside the world", b.lane)
	}
}

func TestBotSendsUpdatesAndShockwave(t *testing.T) {
	b := joinedBot(t)
	b.cooldown = 0
	updates, shocks := 0, 0
	for i := 0; i < 40; i++ {
		b.step(0.05)
		for _, m := range b.p.Drain() {
			switch m.(type) {
			case wire.UpdateState:
				updates++
			case wire.Shockwave:
				shocks++
			}
		}
	}
	if updates == 0 {
		t.Fatal("expected throttled state updates")
	}
	if shocks != 1 {
		t.Fatalf("expected one shockwave after the hold, got %d", shocks)
	}
}

func TestDialURLAppendsOptions(t *testing.T) {
	if got := dialURL("ws://h/ws", wire.Options{}); got != "ws://h/ws" {
		t.Fatalf("expected bare url, got %q", got)
	}
	got := dialURL("ws://h/ws?x=1", wire.Options{Codec: wire.MsgPack, Compress: true})
	if got != "ws://h/ws?x=1&codec=msgpack&compress=lz4" {
		t.Fatalf("unexpected url %q", got)
	}
}
