package server

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type     string             `json:"type"`
	Snapshot *RoundSnapshot     `json:"snapshot"`
	Clue     *CluePayload       `json:"clue"`
	State    *RoundStatePayload `json:"state"`
}

func readWSMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	return msg
}

func TestWebsocketSnapshotThenEvents(t *testing.T) {
	srv, conn := newServer(t)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rounds/" + roundID
	socket, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = socket.Close() })

	first := readWSMessage(t, socket)
	if first.Type != EventSnapshot || first.Snapshot == nil {
		t.Fatalf("expected snapshot first, got %#v", first)
	}
	if first.Snapshot.RoundID != roundID || len(first.Snapshot.Board) != 6 {
		t.Fatalf("unexpected snapshot %#v", first.Snapshot)
	}

	if err := srv.startRound(roundID, "host"); err != nil {
		t.Fatalf("start: %v", err)
	}
	event := readWSMessage(t, socket)
	if event.Type != EventRoundState || event.State == nil || event.State.Status != "active" {
		t.Fatalf("expected round-state over ws, got %#v", event)
	}

	questionID := boardQuestion(t, conn, roundID, 0, 0)
	if _, _, err := srv.revealClue(roundID, questionID, "host"); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	event = readWSMessage(t, socket)
	if event.Type != EventClueRevealed || event.Clue == nil || event.Clue.QuestionID != questionID {
		t.Fatalf("expected clue-revealed over ws, got %#v", event)
	}
}

func TestWebsocketUnknownRound(t *testing.T) {
	srv, _ := newServer(t)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rounds/05e0bb80-4c51-4f5e-9f0a-2d3f7b9a4c6e"
	if _, resp, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("expected dial to fail for unknown round")
	} else if resp != nil && resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebsocketTeardownUnsubscribes(t *testing.T) {
	srv, conn := newServer(t)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rounds/" + roundID
	socket, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readWSMessage(t, socket) // snapshot

	if got := srv.hub.listenerCount(roundID); got != 1 {
		t.Fatalf("expected one listener, got %d", got)
	}
	_ = socket.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.listenerCount(roundID) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("listener was not unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
