package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// NewHandler routes the websocket endpoint and the health probe.
func NewHandler(h *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, w, r)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newHealthDTO(h))
	})
	return mux
}

func startServer(h *Hub, addr string) {
	log.Fatal(http.ListenAndServe(addr, NewHandler(h)))
}
