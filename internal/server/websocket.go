package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// handleRoundSocket upgrades the connection, registers it with the
// broadcaster and pushes a full snapshot so late joiners start from the
// current state instead of replayed events.
func (s *Server) handleRoundSocket(w http.ResponseWriter, r *http.Request) {
	rawID, ok := parseSocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	roundID, err := validateRoundID(rawID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := findRound(s.db, roundID); err != nil {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected round_id=%s remote=%s", roundID, r.RemoteAddr)

	// Subscribe before reading the snapshot so no emission can fall into
	// the gap between the two.
	sub := s.hub.Subscribe(roundID)
	snap, err := s.roundSnapshot(roundID)
	if err != nil {
		sub.Close()
		_ = conn.Close()
		return
	}
	if err := conn.WriteJSON(map[string]any{
		"type":     EventSnapshot,
		"snapshot": snap,
	}); err != nil {
		sub.Close()
		_ = conn.Close()
		return
	}
	go s.writeWS(roundID, conn, sub)
	go s.readWS(roundID, conn, sub)
}

// writeWS owns all writes after the snapshot: broadcast events plus the
// keepalive pings clients use to detect dead connections.
func (s *Server) writeWS(roundID string, conn *websocket.Conn, sub *subscription) {
	pingInterval := time.Duration(s.cfg.WSPingSeconds) * time.Second
	writeWait := time.Duration(s.cfg.WSWriteTimeoutSeconds) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("ws write failed round_id=%s error=%v", roundID, err)
				sub.Close()
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				sub.Close()
				_ = conn.Close()
				return
			}
		}
	}
}

func (s *Server) readWS(roundID string, conn *websocket.Conn, sub *subscription) {
	defer func() {
		sub.Close()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected round_id=%s error=%v", roundID, err)
			return
		}
	}
}
