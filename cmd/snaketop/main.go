// Command snaketop is a terminal spectator: it connects without joining and
// shows the live scoreboard and world counts.
package main

import (
	"flag"
	"log"
	"os"

	"LoopSnake/internal/wire"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readFrames decodes server frames into inbox until the socket fails or
// done is closed. inbox is closed on return.
func readFrames(ws *websocket.Conn, inbox chan<- wire.ServerMessage, done <-chan struct{}) {
	defer close(inbox)
	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		msg, err := wire.DecodeServerFrame(wire.Frame{Binary: msgType == websocket.BinaryMessage, Data: data}, wire.Options{})
		if err != nil {
			continue
		}
		select {
		case inbox <- msg:
		case <-done:
			return
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env: %v", err)
	}
	addr := flag.String("url", envOr("SNAKE_URL", "ws://localhost:8080/ws"), "server websocket URL")
	flag.Parse()

	ws, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer ws.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()

	done := make(chan struct{})
	defer close(done)

	inbox := make(chan wire.ServerMessage, 64)
	go readFrames(ws, inbox, done)

	events := make(chan tcell.Event, 32)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	b := newBoard()
	b.render(screen, *addr)
	for {
		select {
		case msg, ok := <-inbox:
			if !ok {
				return
			}
			b.apply(msg)
			if _, snapshot := msg.(wire.GameStateUpdate); snapshot {
				b.render(screen, *addr)
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				b.render(screen, *addr)
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
			}
		}
	}
}
