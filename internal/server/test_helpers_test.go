package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clueboard/internal/config"
	"clueboard/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("skipping test; sqlite unavailable: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	return New(conn, config.Default()), conn
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// seedUser inserts a user plus a live session and returns the bearer token.
func seedUser(t *testing.T, conn *gorm.DB, id, name string) string {
	t.Helper()
	user := db.User{
		ID:    id,
		Name:  name,
		Email: id + "@example.com",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	session := db.Session{
		ID:        "sess-" + id,
		Token:     "tok-" + id,
		UserID:    id,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := conn.Create(&session).Error; err != nil {
		t.Fatalf("seed session %s: %v", id, err)
	}
	return session.Token
}

// seedCatalog creates count categories, each fully covering tiers 100..500.
func seedCatalog(t *testing.T, conn *gorm.DB, count int) {
	t.Helper()
	for c := 1; c <= count; c++ {
		category := db.Category{Name: fmt.Sprintf("Category %d", c)}
		if err := conn.Create(&category).Error; err != nil {
			t.Fatalf("seed category %d: %v", c, err)
		}
		for _, value := range clueTiers {
			question := db.Question{
				CategoryID: category.ID,
				Value:      value,
				Prompt:     fmt.Sprintf("Prompt %d-%d", c, value),
				Answer:     fmt.Sprintf("Answer %d-%d", c, value),
			}
			if err := conn.Create(&question).Error; err != nil {
				t.Fatalf("seed question %d-%d: %v", c, value, err)
			}
		}
	}
}

// newPlayingRound seeds a catalog, creates a round as host and joins the
// given players in order. Returns the round id.
func newPlayingRound(t *testing.T, srv *Server, conn *gorm.DB, hostID string, playerIDs ...string) string {
	t.Helper()
	seedCatalog(t, conn, 6)
	seedUser(t, conn, hostID, "Host "+hostID)
	roundID, err := srv.createRound(hostID)
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	for i, playerID := range playerIDs {
		seedUser(t, conn, playerID, fmt.Sprintf("Player %d", i+1))
		if _, err := srv.joinRound(roundID, playerID); err != nil {
			t.Fatalf("join %s: %v", playerID, err)
		}
	}
	return roundID
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func fetchRound(t *testing.T, conn *gorm.DB, roundID string) db.Round {
	t.Helper()
	var round db.Round
	if err := conn.Where("id = ?", roundID).First(&round).Error; err != nil {
		t.Fatalf("fetch round: %v", err)
	}
	return round
}

func fetchScore(t *testing.T, conn *gorm.DB, roundID, userID string) int {
	t.Helper()
	var membership db.RoundPlayer
	if err := conn.Where("round_id = ? AND user_id = ?", roundID, userID).First(&membership).Error; err != nil {
		t.Fatalf("fetch membership: %v", err)
	}
	return membership.Score
}

// drain empties a subscription's buffered events.
func drain(sub *subscription) {
	for {
		select {
		case <-sub.Events():
		default:
			return
		}
	}
}

// nextEvent waits briefly for an event, failing the test on timeout.
func nextEvent(t *testing.T, sub *subscription) Event {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed while waiting for event")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

// noEvent asserts nothing is pending on the subscription.
func noEvent(t *testing.T, sub *subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event %q", event.Type)
	default:
	}
}
