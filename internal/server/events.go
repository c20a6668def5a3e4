package server

import (
	"encoding/json"
	"log"
	"time"

	"clueboard/internal/db"

	"gorm.io/datatypes"
)

// Event type constants shared by the broadcaster, the websocket transport
// and the persisted event log.
const (
	EventRoundCreated       = "round-created"
	EventParticipantsUpdate = "participants-update"
	EventClueRevealed       = "clue-revealed"
	EventRoundState         = "round-state"
	EventSnapshot           = "snapshot"
)

// CluePayload is broadcast to every subscriber of a round when a clue is
// revealed. The answer field is included for all listeners; restricting it
// to the host's own view is left to the UI layer.
type CluePayload struct {
	RoundID      string `json:"roundId"`
	QuestionID   uint   `json:"questionId"`
	Prompt       string `json:"prompt"`
	Answer       string `json:"answer"`
	Value        int    `json:"value"`
	CategoryName string `json:"categoryName"`
}

// RoundStatePayload carries the mutable round fields. Absent optional
// fields mean "unchanged"; ActivePlayerID is always present and is
// explicitly null when the round closes or the last player leaves.
type RoundStatePayload struct {
	RoundID        string   `json:"roundId"`
	ActivePlayerID *string  `json:"activePlayerId"`
	Status         string   `json:"status,omitempty"`
	QuestionID     uint     `json:"questionId,omitempty"`
	Result         string   `json:"result,omitempty"`
	Winners        []Winner `json:"winners,omitempty"`
}

type Winner struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Event is a single emission delivered to round subscribers.
type Event struct {
	Type  string             `json:"type"`
	Clue  *CluePayload       `json:"clue,omitempty"`
	State *RoundStatePayload `json:"state,omitempty"`
}

func (s *Server) emitParticipantsUpdate(roundID string) {
	s.hub.Publish(roundID, Event{Type: EventParticipantsUpdate})
	s.persistEvent(roundID, nil, EventParticipantsUpdate, struct{}{})
}

func (s *Server) emitClueRevealed(roundID string, clue CluePayload) {
	s.hub.Publish(roundID, Event{Type: EventClueRevealed, Clue: &clue})
	s.persistEvent(roundID, nil, EventClueRevealed, clue)
}

func (s *Server) emitRoundState(roundID string, state RoundStatePayload) {
	s.hub.Publish(roundID, Event{Type: EventRoundState, State: &state})
	s.persistEvent(roundID, nil, EventRoundState, state)
}

// persistEvent appends the emission to the events table. Actions have
// already committed by the time events go out, so failures here are
// logged rather than surfaced to the caller.
func (s *Server) persistEvent(roundID string, userID *string, eventType string, payload any) {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event payload marshal failed round_id=%s type=%s error=%v", roundID, eventType, err)
		return
	}
	record := db.Event{
		RoundID:   roundID,
		UserID:    userID,
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("event persist failed round_id=%s type=%s error=%v", roundID, eventType, err)
	}
}
