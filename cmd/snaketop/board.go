package main

import (
	"fmt"
	"sort"

	"LoopSnake/internal/game"
	"LoopSnake/internal/wire"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const nameWidth = 16

// board is the spectator's view of the room, rebuilt from broadcasts.
type board struct {
	players  map[string]game.PlayerView
	points   int
	statics  int
	captured int
	cameraY  float64
	tick     uint64

	updates     int
	divergences int
	collected   int
	captures    int
	shockwaves  int
}

func newBoard() *board {
	return &board{players: map[string]game.PlayerView{}}
}

func (b *board) apply(msg wire.ServerMessage) {
	switch m := msg.(type) {
	case wire.GameStateUpdate:
		b.updates++
		if m.Digest != "" && wire.Digest(m.GameState.Points, m.GameState.Statics) != m.Digest {
			b.divergences++
		}
		b.world(m.GameState)
		b.tick = m.Tick
		b.setPlayers(m.Players)
	case wire.FullGameState:
		b.world(m.GameState)
		b.setPlayers(m.Players)
	case wire.PlayerJoined:
		b.players[m.Player.ID] = m.Player
	case wire.PlayerLeft:
		delete(b.players, m.PlayerID)
	case wire.PointCollected:
		b.collected++
	case wire.StaticsCaptured:
		b.captures += len(m.StaticIDs)
	case wire.ShockwaveFired:
		b.shockwaves++
	}
}

func (b *board) setPlayers(players map[string]game.PlayerView) {
	b.players = players
	if b.players == nil {
		b.players = map[string]game.PlayerView{}
	}
}

func (b *board) world(gs wire.GameState) {
	b.points = len(gs.Points)
	b.statics = len(gs.Statics)
	b.captured = 0
	for _, s := range gs.Statics {
		if s.Captured {
			b.captured++
		}
	}
	b.cameraY = gs.CameraY
}

// ranking orders players by score, then id.
func (b *board) ranking() []game.PlayerView {
	out := make([]game.PlayerView, 0, len(b.players))
	for _, p := range b.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// fitName pads or truncates to exactly w terminal columns.
func fitName(name string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(name, w, "…"), w)
}

// putText writes s from (x, y), advancing by each rune's display width.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if x+rw > sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		x += rw
	}
}

func (b *board) render(scr tcell.Screen, addr string) {
	hdr := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	body := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	down := tcell.StyleDefault.Foreground(tcell.ColorRed)

	scr.Clear()
	putText(scr, 0, 0, "snaketop "+addr, hdr)
	putText(scr, 0, 1, fmt.Sprintf("tick %d  camera %.0f  points %d  statics %d (%d captured)",
		b.tick, b.cameraY, b.points, b.statics, b.captured), body)
	putText(scr, 0, 2, fmt.Sprintf("collected %d  captured %d  shockwaves %d  updates %d  divergences %d",
		b.collected, b.captures, b.shockwaves, b.updates, b.divergences), dim)

	putText(scr, 0, 4, fmt.Sprintf("%-3s %s %6s %6s  %s", "#", fitName("NAME", nameWidth), "SCORE", "TRAIL", "STATE"), hdr)
	_, sh := scr.Size()
	for i, p := range b.ranking() {
		y := 5 + i
		if y >= sh-1 {
			break
		}
		state, st := "alive", body
		if p.Downed {
			state, st = "downed", down
		}
		putText(scr, 0, y, fmt.Sprintf("%-3d %s %6d %6d  %s", i+1, fitName(p.Name, nameWidth), p.Score, p.MaxTrail, state), st)
	}
	putText(scr, 0, sh-1, "q / esc to quit", dim)
	scr.Show()
}
