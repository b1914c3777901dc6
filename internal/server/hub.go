package server

import (
	"log"
	"sync"
	"time"

	"LoopSnake/internal/game"
	"LoopSnake/internal/wire"
)

// Hub owns the room and the set of live connections. It binds player ids to
// the connection that joined them and fans broadcasts out to every socket.
type Hub struct {
	Room   *game.Room
	Params ServerParams

	mu     sync.RWMutex
	conns  map[*Conn]struct{}
	owners map[string]*Conn
}

func NewHub(room *game.Room, params ServerParams) *Hub {
	return &Hub{
		Room:   room,
		Params: SanitizeServerParams(params),
		conns:  map[*Conn]struct{}{},
		owners: map[string]*Conn{},
	}
}

func (h *Hub) register(c *Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

// unregister drops the connection and reports the player it still owned.
func (h *Hub) unregister(c *Conn) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	pid := c.playerID
	c.playerID = ""
	if pid == "" || h.owners[pid] != c {
		return "", false
	}
	delete(h.owners, pid)
	return pid, true
}

// bind makes c the owner of pid. A connection that owned pid before is left
// unjoined, as is any player c owned under a different id.
func (h *Hub) bind(c *Conn, pid string) (previous string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old := h.owners[pid]; old != nil && old != c {
		old.playerID = ""
	}
	if prev := c.playerID; prev != "" && prev != pid && h.owners[prev] == c {
		delete(h.owners, prev)
		previous = prev
	}
	c.playerID = pid
	h.owners[pid] = c
	return previous
}

// release forgets pid after the room reaped it.
func (h *Hub) release(pid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c := h.owners[pid]; c != nil {
		c.playerID = ""
		delete(h.owners, pid)
	}
}

// PlayerOf is the player id bound to c, or "" while unjoined.
func (h *Hub) PlayerOf(c *Conn) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.playerID
}

func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) snapshotConns() []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast sends msg to every connection except skip. Each distinct codec
// is encoded once.
func (h *Hub) Broadcast(msg wire.ServerMessage, skip *Conn) {
	frames := map[wire.Options]wire.Frame{}
	for _, c := range h.snapshotConns() {
		if c == skip {
			continue
		}
		f, ok := frames[c.Opts]
		if !ok {
			var err error
			f, err = wire.Encode(msg, c.Opts)
			if err != nil {
				log.Printf("broadcast: encode %s as %s: %v", msg.Kind(), c.Opts, err)
				continue
			}
			frames[c.Opts] = f
		}
		c.enqueue(f)
	}
}

// SendTo queues msg for one connection.
func (h *Hub) SendTo(c *Conn, msg wire.ServerMessage) {
	f, err := wire.Encode(msg, c.Opts)
	if err != nil {
		log.Printf("ws %s: encode %s: %v", c.ID, msg.Kind(), err)
		return
	}
	c.enqueue(f)
}

// publish broadcasts room events. Shockwaves never go back to the sender.
func (h *Hub) publish(events []game.Event, origin *Conn) {
	for _, ev := range events {
		msg, ok := wire.FromEvent(ev)
		if !ok {
			continue
		}
		skip := (*Conn)(nil)
		switch ev.(type) {
		case game.ShockwaveFired, game.PlayerJoined:
			skip = origin
		}
		h.Broadcast(msg, skip)
	}
}

// Tick runs one authoritative update and broadcasts the snapshot.
func (h *Hub) Tick(now time.Time) {
	res := h.Room.Tick(now)
	for _, pid := range res.Reaped {
		log.Printf("tick: reaped idle player %s", pid)
		h.release(pid)
		h.Broadcast(wire.PlayerLeft{PlayerID: pid}, nil)
	}
	if h.Connections() == 0 {
		return
	}
	h.Broadcast(wire.NewGameStateUpdate(res.Snapshot), nil)
}
