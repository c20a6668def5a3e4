package server

import (
	"strings"
	"testing"

	"clueboard/internal/db"
)

func TestJoinRoundSeedsActivePlayerOnce(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host")
	seedUser(t, conn, "ada", "Ada")
	seedUser(t, conn, "ben", "Ben")

	sub := srv.hub.Subscribe(roundID)
	defer sub.Close()

	if _, err := srv.joinRound(roundID, "ada"); err != nil {
		t.Fatalf("ada join: %v", err)
	}
	round := fetchRound(t, conn, roundID)
	if round.CurrentPlayerID == nil || *round.CurrentPlayerID != "ada" {
		t.Fatalf("first join must seed the turn pointer, got %v", round.CurrentPlayerID)
	}
	if event := nextEvent(t, sub); event.Type != EventParticipantsUpdate {
		t.Fatalf("expected participants-update, got %q", event.Type)
	}
	event := nextEvent(t, sub)
	if event.Type != EventRoundState || event.State == nil || event.State.ActivePlayerID == nil || *event.State.ActivePlayerID != "ada" {
		t.Fatalf("expected round-state for seeded pointer, got %#v", event)
	}

	if _, err := srv.joinRound(roundID, "ben"); err != nil {
		t.Fatalf("ben join: %v", err)
	}
	round = fetchRound(t, conn, roundID)
	if round.CurrentPlayerID == nil || *round.CurrentPlayerID != "ada" {
		t.Fatalf("second join must not move the pointer, got %v", round.CurrentPlayerID)
	}
	if event := nextEvent(t, sub); event.Type != EventParticipantsUpdate {
		t.Fatalf("expected participants-update, got %q", event.Type)
	}
	noEvent(t, sub)
}

func TestJoinRoundIdempotent(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")

	sub := srv.hub.Subscribe(roundID)
	defer sub.Close()

	alreadyJoined, err := srv.joinRound(roundID, "ada")
	if err != nil {
		t.Fatalf("re-join: %v", err)
	}
	if !alreadyJoined {
		t.Fatal("expected alreadyJoined flag")
	}
	noEvent(t, sub)

	var count int64
	conn.Model(&db.RoundPlayer{}).Where("round_id = ? AND user_id = ?", roundID, "ada").Count(&count)
	if count != 1 {
		t.Fatalf("membership must stay unique, got %d rows", count)
	}
}

func TestJoinRoundAfterStart(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")
	seedUser(t, conn, "late", "Late")
	if err := srv.startRound(roundID, "host"); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := srv.joinRound(roundID, "late")
	if err == nil || !strings.Contains(err.Error(), "already started") {
		t.Fatalf("roster is frozen after start, got %v", err)
	}
}

func TestJoinMissingRound(t *testing.T) {
	srv, conn := newServer(t)
	seedUser(t, conn, "ada", "Ada")

	if _, err := srv.joinRound("7b6e4f6e-8d33-4b89-b44c-6e1f4d9f3a10", "ada"); err == nil {
		t.Fatal("expected missing-round error")
	}
}

func TestLeaveRoundReassignsActivePlayer(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada", "ben", "cam")
	if err := srv.startRound(roundID, "host"); err != nil {
		t.Fatalf("start: %v", err)
	}

	sub := srv.hub.Subscribe(roundID)
	defer sub.Close()

	if err := srv.leaveRound(roundID, "ada"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	round := fetchRound(t, conn, roundID)
	if round.CurrentPlayerID == nil || *round.CurrentPlayerID != "ben" {
		t.Fatalf("expected turn to pass to ben, got %v", round.CurrentPlayerID)
	}
	if event := nextEvent(t, sub); event.Type != EventParticipantsUpdate {
		t.Fatalf("expected participants-update, got %q", event.Type)
	}
	event := nextEvent(t, sub)
	if event.Type != EventRoundState || event.State == nil || event.State.ActivePlayerID == nil || *event.State.ActivePlayerID != "ben" {
		t.Fatalf("expected reassignment event, got %#v", event)
	}
}

func TestLeaveRoundLastPlayerClearsPointer(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")

	sub := srv.hub.Subscribe(roundID)
	defer sub.Close()

	if err := srv.leaveRound(roundID, "ada"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	round := fetchRound(t, conn, roundID)
	if round.CurrentPlayerID != nil {
		t.Fatalf("expected cleared pointer, got %v", *round.CurrentPlayerID)
	}
	if event := nextEvent(t, sub); event.Type != EventParticipantsUpdate {
		t.Fatalf("expected participants-update, got %q", event.Type)
	}
	event := nextEvent(t, sub)
	if event.Type != EventRoundState || event.State == nil || event.State.ActivePlayerID != nil {
		t.Fatalf("expected null active player, got %#v", event)
	}
}

func TestLeaveRoundInactivePlayerKeepsPointer(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada", "ben")

	sub := srv.hub.Subscribe(roundID)
	defer sub.Close()

	if err := srv.leaveRound(roundID, "ben"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	round := fetchRound(t, conn, roundID)
	if round.CurrentPlayerID == nil || *round.CurrentPlayerID != "ada" {
		t.Fatalf("pointer must not move, got %v", round.CurrentPlayerID)
	}
	if event := nextEvent(t, sub); event.Type != EventParticipantsUpdate {
		t.Fatalf("expected participants-update, got %q", event.Type)
	}
	noEvent(t, sub)
}

func TestHostCannotLeave(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")

	err := srv.leaveRound(roundID, "host")
	if err == nil || !strings.Contains(err.Error(), "host cannot leave") {
		t.Fatalf("expected host-leave rejection, got %v", err)
	}
}

func TestLeaveWithoutMembership(t *testing.T) {
	srv, conn := newServer(t)
	roundID := newPlayingRound(t, srv, conn, "host", "ada")
	seedUser(t, conn, "drifter", "Drifter")

	if err := srv.leaveRound(roundID, "drifter"); err == nil {
		t.Fatal("expected not-a-member error")
	}
}
