package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"LoopSnake/internal/game"
	"LoopSnake/internal/wire"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait   = 5 * time.Second
	maxPlayerID = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConnState is the transport lifecycle of one socket.
type ConnState int32

const (
	ConnConnecting ConnState = iota
	ConnActive
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnActive:
		return "active"
	case ConnClosed:
		return "closed"
	}
	return "unknown"
}

// Phase is the session view of a connection, derived from its state and
// whether a player is bound to it.
type Phase string

const (
	PhaseUnjoined     Phase = "unjoined"
	PhaseActive       Phase = "active"
	PhaseDisconnected Phase = "disconnected"
)

// Conn is one websocket client. The reader goroutine decodes and dispatches
// intents; the writer goroutine drains send.
type Conn struct {
	ID   uuid.UUID
	Opts wire.Options

	ws      *websocket.Conn
	send    chan wire.Frame
	limiter *rate.Limiter
	state   atomic.Int32

	dropped   atomic.Int64
	throttled atomic.Int64

	playerID string // guarded by Hub.mu
}

func newConn(ws *websocket.Conn, opts wire.Options, p ServerParams) *Conn {
	return &Conn{
		ID:      uuid.New(),
		Opts:    opts,
		ws:      ws,
		send:    make(chan wire.Frame, p.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(p.RateLimit), p.RateBurst),
	}
}

func (c *Conn) State() ConnState     { return ConnState(c.state.Load()) }
func (c *Conn) setState(s ConnState) { c.state.Store(int32(s)) }

// enqueue never blocks: a slow client loses frames, nobody else waits.
func (c *Conn) enqueue(f wire.Frame) {
	if c.State() == ConnClosed {
		return
	}
	select {
	case c.send <- f:
	default:
		if n := c.dropped.Add(1); n == 1 || n%100 == 0 {
			log.Printf("ws %s: send buffer full, dropped %d frames", c.ID, n)
		}
	}
}

// PhaseOf reports the session phase of c.
func (h *Hub) PhaseOf(c *Conn) Phase {
	if c.State() == ConnClosed {
		return PhaseDisconnected
	}
	if h.PlayerOf(c) == "" {
		return PhaseUnjoined
	}
	return PhaseActive
}

func serveWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	opts, err := wire.ParseOptions(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws: upgrade:", err)
		return
	}
	ws.SetReadLimit(wire.MaxFrameBytes)

	c := newConn(ws, opts, h.Params)
	h.register(c)
	c.setState(ConnActive)
	log.Printf("ws %s: connected (%s)", c.ID, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			msgType, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if !c.limiter.Allow() {
				if n := c.throttled.Add(1); n == 1 || n%100 == 0 {
					log.Printf("ws %s: rate limited, dropped %d frames", c.ID, n)
				}
				continue
			}
			frame := wire.Frame{Binary: msgType == websocket.BinaryMessage, Data: data}
			msg, err := wire.DecodeClientFrame(frame, c.Opts)
			if err != nil {
				log.Printf("ws %s: malformed frame: %v", c.ID, err)
				continue
			}
			h.dispatch(c, msg, time.Now())
		}
	}()

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case f := <-c.send:
				msgType := websocket.TextMessage
				if f.Binary {
					msgType = websocket.BinaryMessage
				}
				_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
				if err := ws.WriteMessage(msgType, f.Data); err != nil {
					log.Printf("ws %s: write: %v", c.ID, err)
					return
				}
			}
		}
	}()

	<-ctx.Done()
	c.setState(ConnClosed)
	ws.Close()

	if pid, ok := h.unregister(c); ok && h.Room.Leave(pid) {
		log.Printf("ws %s: player %s left", c.ID, pid)
		h.Broadcast(wire.PlayerLeft{PlayerID: pid}, nil)
	}
	log.Printf("ws %s: closed", c.ID)
}

// dispatch applies one decoded intent. Every intent except join needs a
// bound player; the player id always comes from the binding, never from the
// message.
func (h *Hub) dispatch(c *Conn, msg wire.ClientMessage, now time.Time) {
	if m, ok := msg.(wire.Join); ok {
		h.handleJoin(c, m, now)
		return
	}
	pid := h.PlayerOf(c)
	if pid == "" {
		log.Printf("ws %s: %s before join ignored", c.ID, msg.Kind())
		return
	}
	switch m := msg.(type) {
	case wire.UpdateState:
		h.publish(h.Room.UpdateState(pid, m.Update(), now), c)
	case wire.CollectPoint:
		id, ok := m.PointID.ID()
		if !ok {
			return
		}
		if ev, ok := h.Room.CollectPoint(pid, id, now); ok {
			h.publish([]game.Event{ev}, c)
		}
	case wire.CaptureStatic:
		if ev, ok := h.Room.CaptureClaim(pid, []game.EntityID(m.StaticIDs), now); ok {
			h.publish([]game.Event{ev}, c)
		}
	case wire.Shockwave:
		origin, ok := m.Origin()
		if !ok || !m.Radius.OK {
			return
		}
		if ev, ok := h.Room.FireShockwave(pid, origin, m.Radius.V, now); ok {
			h.publish([]game.Event{ev}, c)
		}
	case wire.Downed:
		if h.Room.KnockOut(pid, now) {
			log.Printf("ws %s: player %s knocked out", c.ID, pid)
		}
	}
}

func (h *Hub) handleJoin(c *Conn, m wire.Join, now time.Time) {
	id := strings.TrimSpace(string(m.ID))
	if id == "" || len(id) > maxPlayerID {
		id = uuid.NewString()
	}
	if prev := h.bind(c, id); prev != "" && h.Room.Leave(prev) {
		h.Broadcast(wire.PlayerLeft{PlayerID: prev}, nil)
	}
	full, events := h.Room.Join(m.Request(id), now)
	h.SendTo(c, wire.NewFullGameState(full, id))
	h.publish(events, c)
	log.Printf("ws %s: joined as %s", c.ID, id)
}
