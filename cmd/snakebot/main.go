// Command snakebot plays the game headlessly: each bot runs the client
// predictor against a live server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"LoopSnake/internal/predict"
	"LoopSnake/internal/wire"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
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
	addr := flag.String("url", envOr("SNAKE_URL", "ws://localhost:8080/ws"), "server websocket URL")
	codec := flag.String("codec", "json", "wire codec: json, msgpack or proto")
	lz4 := flag.Bool("lz4", false, "compress frames with lz4")
	count := flag.Int("bots", 1, "number of bots")
	flag.Parse()

	q := url.Values{"codec": {*codec}}
	if *lz4 {
		q.Set("compress", "lz4")
	}
	opts, err := wire.ParseOptions(q)
	if err != nil {
		log.Fatalf("options: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < *count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := runBot(ctx, *addr, opts, i); err != nil {
				log.Printf("bot %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()
}

func dialURL(base string, opts wire.Options) string {
	q := opts.Query().Encode()
	if q == "" {
		return base
	}
	if strings.Contains(base, "?") {
		return base + "&" + q
	}
	return base + "?" + q
}

func runBot(ctx context.Context, addr string, opts wire.Options, idx int) error {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, dialURL(addr, opts), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer ws.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(idx)))
	b := newBot(uuid.NewString(), fmt.Sprintf("bot-%d", idx), rng)
	b.p.Join(b.lane)

	inbox := make(chan wire.ServerMessage, 64)
	readErr := make(chan error, 1)
	go func() {
		for {
			msgType, data, err := ws.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			msg, err := wire.DecodeServerFrame(wire.Frame{Binary: msgType == websocket.BinaryMessage, Data: data}, opts)
			if err != nil {
				log.Printf("bot %d: decode: %v", idx, err)
				continue
			}
			select {
			case inbox <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(predict.SendInterval * float64(time.Second)))
	defer ticker.Stop()
	report := time.NewTicker(10 * time.Second)
	defer report.Stop()
	last := time.Now()

	for {
		if err := flush(ws, b.p.Drain(), opts); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		case msg := <-inbox:
			b.p.Handle(msg)
		case now := <-ticker.C:
			b.step(now.Sub(last).Seconds())
			last = now
		case <-report.C:
			s := b.p.Stats
			log.Printf("bot %d (%s): score %d trail %d/%d confirmed %d reverted %d divergences %d knockouts %d",
				idx, b.p.ID, b.p.Score, len(b.p.Trail), b.p.MaxTrail, s.Confirmed, s.Reverted, s.Divergences, s.KnockOuts)
		}
	}
}

func flush(ws *websocket.Conn, msgs []wire.ClientMessage, opts wire.Options) error {
	for _, m := range msgs {
		f, err := wire.Encode(m, opts)
		if err != nil {
			return fmt.Errorf("encode %s: %w", m.Kind(), err)
		}
		msgType := websocket.TextMessage
		if f.Binary {
			msgType = websocket.BinaryMessage
		}
		if err := ws.WriteMessage(msgType, f.Data); err != nil {
			return fmt.Errorf("write %s: %w", m.Kind(), err)
		}
	}
	return nil
}
