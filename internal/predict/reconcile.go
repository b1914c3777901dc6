package predict

import (
	"LoopSnake/internal/game"
	"LoopSnake/internal/geom"
	"LoopSnake/internal/wire"
)

// Handle folds one server message into the local view.
func (p *Predictor) Handle(msg wire.ServerMessage) {
	switch m := msg.(type) {
	case wire.FullGameState:
		p.ID = m.YourID
		p.joined = true
		if m.GameState.ScrollSpeed > 0 {
			p.ScrollSpeed = m.GameState.ScrollSpeed
		}
		if me, ok := m.Players[p.ID]; ok {
			p.Head = geom.Vec2{X: me.X, Y: me.Y}
			p.MaxTrail = me.MaxTrail
			p.Score = me.Score
			p.Trail = p.Trail[:0]
		}
		p.adopt(m.GameState, m.Players)
	case wire.GameStateUpdate:
		p.Tick = m.Tick
		if m.Digest != "" && wire.Digest(m.GameState.Points, m.GameState.Statics) != m.Digest {
			p.Stats.Divergences++
		}
		if _, ok := m.Players[p.ID]; p.joined && !ok {
			// Reaped for inactivity: the connection is unjoined again.
			p.joined = false
			p.Join(p.Head.X)
		}
		p.adopt(m.GameState, m.Players)
	case wire.PointCollected:
		p.removePoint(m.PointID)
		p.gone[m.PointID] = p.clock
		np := m.NewPoint
		p.Points = append(p.Points, &np)
		if c, pending := p.pendingPoints[m.PointID]; pending {
			delete(p.pendingPoints, m.PointID)
			if m.PlayerID == p.ID {
				p.Stats.Confirmed++
				p.holdUntil = p.clock + SettleWindow
			} else {
				p.revert(c)
			}
		}
	case wire.StaticsCaptured:
		for _, id := range m.StaticIDs {
			if s := p.static(id); s != nil {
				s.Captured = true
			}
			p.serverStatics[id] = true
			c, pending := p.pendingStatics[id]
			if !pending {
				continue
			}
			delete(p.pendingStatics, id)
			if m.PlayerID == p.ID {
				p.Stats.Confirmed++
				p.holdUntil = p.clock + SettleWindow
			} else {
				p.revert(c)
			}
		}
	case wire.ShockwaveFired:
		if m.PlayerID == p.ID || p.Life.Downed {
			return
		}
		res := game.ApplyShockwaveHit(&p.Snake, geom.Vec2{X: m.X, Y: m.Y}, m.Radius, p.Rules)
		if !res.Hit {
			return
		}
		p.Stats.Hits++
		if res.Fatal {
			p.Life.KnockOut(&p.Snake)
			if p.Shock.Phase == game.ShockCharging {
				p.Shock = game.Shockwave{}
			}
			p.Stats.KnockOuts++
			p.send(wire.Downed{})
		}
	case wire.PlayerJoined:
		if m.Player.ID != p.ID {
			p.Others[m.Player.ID] = m.Player
		}
	case wire.PlayerLeft:
		delete(p.Others, m.PlayerID)
	}
}

// adopt replaces the world mirror with an authoritative snapshot, keeping
// pending optimistic claims applied on top of it.
func (p *Predictor) adopt(gs wire.GameState, players map[string]game.PlayerView) {
	p.Stats.Snapshots++
	p.CameraY = gs.CameraY

	p.Points = p.Points[:0]
	for i := range gs.Points {
		pt := gs.Points[i]
		if _, pending := p.pendingPoints[pt.ID]; pending {
			continue
		}
		if _, removed := p.gone[pt.ID]; removed {
			continue
		}
		p.Points = append(p.Points, &pt)
	}

	clear(p.serverStatics)
	p.Statics = p.Statics[:0]
	for i := range gs.Statics {
		s := gs.Statics[i]
		p.serverStatics[s.ID] = s.Captured
		if _, pending := p.pendingStatics[s.ID]; pending {
			s.Captured = true
		}
		p.Statics = append(p.Statics, &s)
	}

	clear(p.Others)
	for id, v := range players {
		if id != p.ID {
			p.Others[id] = v
		}
	}

	// With nothing in flight the server record is the truth for our own
	// numbers; otherwise it may predate a claim and is ignored.
	me, ok := players[p.ID]
	if !ok || me.MaxTrail <= 0 || me.Downed || p.Life.Downed {
		return
	}
	if len(p.pendingPoints) > 0 || len(p.pendingStatics) > 0 || p.clock < p.holdUntil {
		return
	}
	p.Score = me.Score
	p.MaxTrail = me.MaxTrail
	p.TrimTrail(p.MaxTrail)
}
