package predict

import (
	"math"
	"testing"

	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
	"LoopSnake/internal/wire"
)

var home = geom.Vec2{X: 400, Y: 300}

func joined(t *testing.T, points []game.Point, statics []game.Static) *Predictor {
	t.Helper()
	p := New("tmp", "Me", game.DefaultRules())
	p.Join(home.X)
	p.Handle(wire.FullGameState{
		GameState: wire.GameState{Points: points, Statics: statics, ScrollSpeed: 120},
		Players: map[string]game.PlayerView{
			"me":    {ID: "me", X: home.X, Y: home.Y, MaxTrail: game.StartMaxTrail},
			"other": {ID: "other", X: 10, Y: 10, MaxTrail: game.StartMaxTrail},
		},
		YourID:   "me",
		Protocol: wire.ProtocolVersion,
	})
	if !p.Joined() || p.ID != "me" {
		t.Fatalf("expected joined as me, got %v %q", p.Joined(), p.ID)
	}
	p.ScrollSpeed = 0
	p.Drain()
	return p
}

func kinds(msgs []wire.ClientMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Kind()
	}
	return out
}

func find[T wire.ClientMessage](msgs []wire.ClientMessage) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func square(c geom.Vec2, side float64) []geom.Vec2 {
	h := side / 2
	corners := []geom.Vec2{
		{X: c.X - h, Y: c.Y - h}, {X: c.X + h, Y: c.Y - h},
		{X: c.X + h, Y: c.Y + h}, {X: c.X - h, Y: c.Y + h},
		{X: c.X - h, Y: c.Y - h},
	}
	var out []geom.Vec2
	for k := 0; k < 4; k++ {
		a, b := corners[k], corners[k+1]
		n := int(math.Round(geom.Distance(a, b) / game.TrailSpacing))
		for i := 0; i < n; i++ {
			out = append(out, a.Add(b.Sub(a).Scale(float64(i)/float64(n))))
		}
	}
	return append(out, corners[0])
}

func TestJoinAdoptsServerRecord(t *testing.T) {
	p := joined(t, nil, nil)
	if p.Head != home || p.MaxTrail != game.StartMaxTrail {
		t.Fatalf("unexpected local snake %+v", p.Snake)
	}
	if _, ok := p.Others["other"]; !ok || len(p.Others) != 1 {
		t.Fatalf("expected one other player, got %v", p.Others)
	}
}

func TestOptimisticCollectConfirmed(t *testing.T) {
	pt := game.Point{ID: 7, X: home.X, Y: home.Y, R: 8}
	p := joined(t, []game.Point{pt}, nil)
	p.Step(0.05, home)

	out := p.Drain()
	claim, ok := find[wire.CollectPoint](out)
	if !ok {
		t.Fatalf("expected a collect claim, got %v", kinds(out))
	}
	if id, _ := claim.PointID.ID(); id != 7 {
		t.Fatalf("expected claim for 7, got %d", id)
	}
	if p.Score != 1 || p.MaxTrail != game.StartMaxTrail+game.CollectGrow {
		t.Fatalf("expected optimistic award, got score %d maxTrail %d", p.Score, p.MaxTrail)
	}

	// A snapshot that raced the claim must not bring the point back.
	p.Handle(wire.GameStateUpdate{
		GameState: wire.GameState{Points: []game.Point{pt}},
		Players:   map[string]game.PlayerView{"me": {ID: "me"}},
	})
	if len(p.Points) != 0 {
		t.Fatal("pending point reappeared from a stale snapshot")
	}

	p.Handle(wire.PointCollected{PointID: 7, NewPoint: game.Point{ID: 50, X: 1, Y: 900}, PlayerID: "me"})
	if p.Stats.Confirmed != 1 || p.Score != 1 {
		t.Fatalf("expected confirmation, got %+v score %d", p.Stats, p.Score)
	}
	if len(p.Points) != 1 || p.Points[0].ID != 50 {
		t.Fatal("replacement point not mirrored")
	}
}

func TestConfirmedPointStaysGoneAfterStaleSnapshot(t *testing.T) {
	pt := game.Point{ID: 7, X: home.X, Y: home.Y, R: 8}
	p := joined(t, []game.Point{pt}, nil)
	p.Step(0.05, home)
	p.Handle(wire.PointCollected{PointID: 7, NewPoint: game.Point{ID: 50, X: 1, Y: 900}, PlayerID: "me"})

	// Sent before the server removed 7.
	p.Handle(wire.GameStateUpdate{
		GameState: wire.GameState{Points: []game.Point{pt}},
		Players:   map[string]game.PlayerView{"me": {ID: "me", X: home.X, Y: home.Y, MaxTrail: game.StartMaxTrail}},
	})
	p.Step(0.05, home)
	if _, ok := find[wire.CollectPoint](p.Drain()); ok {
		t.Fatal("confirmed point was claimed a second time")
	}

	fresh := game.PlayerView{ID: "me", X: home.X, Y: home.Y, Score: 1, MaxTrail: game.StartMaxTrail + game.CollectGrow}
	for i := 0; i < 60; i++ {
		p.Handle(wire.GameStateUpdate{
			GameState: wire.GameState{Points: []game.Point{{ID: 50, X: 1, Y: 900}}},
			Players:   map[string]game.PlayerView{"me": fresh},
		})
		p.Step(0.05, home)
	}
	if _, ok := find[wire.CollectPoint](p.Drain()); ok {
		t.Fatal("unexpected collect claim")
	}
	if p.Score != 1 || p.MaxTrail != game.StartMaxTrail+game.CollectGrow {
		t.Fatalf("expected score 1 maxTrail %d, got score %d maxTrail %d", game.StartMaxTrail+game.CollectGrow, p.Score, p.MaxTrail)
	}
	if p.Stats.Confirmed != 1 || p.Stats.Reverted != 0 {
		t.Fatalf("unexpected reconciliation %+v", p.Stats)
	}
}

func TestUnconfirmedCollectExpires(t *testing.T) {
	p := joined(t, []game.Point{{ID: 7, X: home.X, Y: home.Y, R: 8}}, nil)
	p.Step(0.05, home)
	// The server dropped 7 for another reason and never broadcast a winner.
	p.Handle(wire.GameStateUpdate{
		Players: map[string]game.PlayerView{"me": {ID: "me", X: home.X, Y: home.Y, MaxTrail: game.StartMaxTrail}},
	})
	p.Step(ClaimTimeout+0.1, home)
	if p.Score != 0 || p.MaxTrail != game.StartMaxTrail || p.Stats.Reverted != 1 {
		t.Fatalf("expected revert, got score %d maxTrail %d stats %+v", p.Score, p.MaxTrail, p.Stats)
	}
}

func TestOwnRecordAdoptedWhenIdle(t *testing.T) {
	p := joined(t, nil, nil)
	p.Handle(wire.GameStateUpdate{
		Players: map[string]game.PlayerView{"me": {ID: "me", Score: 6, MaxTrail: 90}},
	})
	if p.Score != 6 || p.MaxTrail != 90 {
		t.Fatalf("expected server record adopted, got score %d maxTrail %d", p.Score, p.MaxTrail)
	}
}

func TestPointsBounceLikeServer(t *testing.T) {
	p := joined(t, []game.Point{{ID: 7, X: 3, Y: 900, VX: 50, R: 6}}, nil)
	p.Step(0.05, home)
	pt := p.Points[0]
	if pt.X != 6 || pt.VX != 50 {
		t.Fatalf("expected x 6 vx 50, got x %.2f vx %.2f", pt.X, pt.VX)
	}
}

func TestLostCollectRaceIsReverted(t *testing.T) {
	p := joined(t, []game.Point{{ID: 7, X: home.X, Y: home.Y, R: 8}}, nil)
	p.Step(0.05, home)
	p.Handle(wire.PointCollected{PointID: 7, NewPoint: game.Point{ID: 50}, PlayerID: "other"})

	if p.Score != 0 || p.MaxTrail != game.StartMaxTrail {
		t.Fatalf("expected award reverted, got score %d maxTrail %d", p.Score, p.MaxTrail)
	}
	if p.Stats.Reverted != 1 {
		t.Fatalf("expected one revert, got %+v", p.Stats)
	}
}

func TestUnconfirmedCaptureExpires(t *testing.T) {
	s := game.Static{ID: 3, X: home.X, Y: home.Y, R: game.StaticR}
	p := joined(t, nil, []game.Static{s})
	p.Trail = square(home, 100)
	p.Head = p.Trail[len(p.Trail)-1]

	p.Step(0.25, p.Head)
	if _, ok := find[wire.CaptureStatic](p.Drain()); !ok {
		t.Fatal("expected a capture claim")
	}
	if p.Score != game.CaptureScore || !p.Statics[0].Captured {
		t.Fatalf("expected optimistic capture, got score %d", p.Score)
	}

	p.Step(ClaimTimeout, p.Head)
	if p.Score != 0 || p.Statics[0].Captured {
		t.Fatalf("expected capture reverted, got score %d captured %v", p.Score, p.Statics[0].Captured)
	}
	if p.Stats.Reverted != 1 {
		t.Fatalf("expected one revert, got %+v", p.Stats)
	}
}

func TestCaptureConfirmedByBroadcast(t *testing.T) {
	s := game.Static{ID: 3, X: home.X, Y: home.Y, R: game.StaticR}
	p := joined(t, nil, []game.Static{s})
	p.Trail = square(home, 100)
	p.Head = p.Trail[len(p.Trail)-1]
	p.Step(0.25, p.Head)

	p.Handle(wire.StaticsCaptured{StaticIDs: []game.EntityID{3}, PlayerID: "me"})
	p.Step(ClaimTimeout, p.Head)
	if p.Score != game.CaptureScore || p.Stats.Confirmed != 1 || p.Stats.Reverted != 0 {
		t.Fatalf("expected confirmed capture, got score %d stats %+v", p.Score, p.Stats)
	}
}

func TestShockwaveFromOtherKnocksOut(t *testing.T) {
	p := joined(t, nil, nil)
	p.Score = 8
	p.Handle(wire.ShockwaveFired{PlayerID: "other", X: home.X + 10, Y: home.Y, Radius: 50})

	if p.MaxTrail != 30 || !p.Life.Downed {
		t.Fatalf("expected fatal hit, got maxTrail %d downed %v", p.MaxTrail, p.Life.Downed)
	}
	if _, ok := find[wire.Downed](p.Drain()); !ok {
		t.Fatal("expected downed report")
	}
	p.Step(game.DownedSeconds, home)
	if p.Life.Downed || p.MaxTrail != game.StartMaxTrail || p.Score != 4 {
		t.Fatalf("expected respawn with score 4, got downed %v maxTrail %d score %d", p.Life.Downed, p.MaxTrail, p.Score)
	}
}

func TestOwnAndDistantShockwavesIgnored(t *testing.T) {
	p := joined(t, nil, nil)
	p.Handle(wire.ShockwaveFired{PlayerID: "me", X: home.X, Y: home.Y, Radius: 100})
	p.Handle(wire.ShockwaveFired{PlayerID: "other", X: home.X + 200, Y: home.Y, Radius: 100})
	if p.MaxTrail != game.StartMaxTrail || p.Stats.Hits != 0 {
		t.Fatalf("expected no hit, got maxTrail %d hits %d", p.MaxTrail, p.Stats.Hits)
	}
}

func TestChargedReleaseQueuesShockwave(t *testing.T) {
	p := joined(t, nil, nil)
	p.MaxTrail = 100
	if !p.Press() {
		t.Fatal("expected press accepted")
	}
	p.Step(game.ShockMaxCharge, home)

	sw, ok := find[wire.Shockwave](p.Drain())
	if !ok {
		t.Fatal("expected auto release at full charge")
	}
	if sw.Radius.V != 200 {
		t.Fatalf("expected radius 200, got %.2f", sw.Radius.V)
	}
	if p.MaxTrail != 70 || !p.Shock.Active() {
		t.Fatalf("expected maxTrail 70 and active, got %d %s", p.MaxTrail, p.Shock.Phase)
	}
	if p.Press() {
		t.Fatal("press must be refused while active")
	}
}

func TestShortChargeIsCancelled(t *testing.T) {
	p := joined(t, nil, nil)
	p.Press()
	p.Step(0.1, home)
	if p.Release() {
		t.Fatal("release at ratio 0.05 must be a no-op")
	}
	if _, ok := find[wire.Shockwave](p.Drain()); ok {
		t.Fatal("cancelled charge must not be sent")
	}
	if p.MaxTrail != game.StartMaxTrail {
		t.Fatalf("expected no cost, got maxTrail %d", p.MaxTrail)
	}
}

func TestUpdateStateIsThrottled(t *testing.T) {
	p := joined(t, nil, nil)
	count := func() int {
		n := 0
		for _, m := range p.Drain() {
			if _, ok := m.(wire.UpdateState); ok {
				n++
			}
		}
		return n
	}
	p.Step(0.02, home)
	p.Step(0.02, home)
	if n := count(); n != 0 {
		t.Fatalf("expected no update within 40ms, got %d", n)
	}
	p.Step(0.02, home)
	if n := count(); n != 1 {
		t.Fatalf("expected one update, got %d", n)
	}
}

func TestDigestMismatchCounted(t *testing.T) {
	p := joined(t, nil, nil)
	points := []game.Point{{ID: 1}}
	players := map[string]game.PlayerView{"me": {ID: "me"}}
	p.Handle(wire.GameStateUpdate{GameState: wire.GameState{Points: points}, Players: players, Digest: wire.Digest(points, nil)})
	if p.Stats.Divergences != 0 {
		t.Fatal("matching digest counted as divergence")
	}
	p.Handle(wire.GameStateUpdate{GameState: wire.GameState{Points: points}, Players: players, Digest: "bogus"})
	if p.Stats.Divergences != 1 {
		t.Fatalf("expected one divergence, got %d", p.Stats.Divergences)
	}
}

func TestReapedPlayerRejoins(t *testing.T) {
	p := joined(t, nil, nil)
	p.Handle(wire.GameStateUpdate{Players: map[string]game.PlayerView{"other": {ID: "other"}}})
	if p.Joined() {
		t.Fatal("expected unjoined after disappearing from the snapshot")
	}
	if _, ok := find[wire.Join](p.Drain()); !ok {
		t.Fatal("expected a fresh join")
	}
}
