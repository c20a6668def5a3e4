package server

import (
	"net/http"
)

type revealRequest struct {
	QuestionID uint `json:"questionId"`
}

type evaluateRequest struct {
	QuestionID uint   `json:"questionId"`
	Result     string `json:"result"`
}

func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	roundID, err := s.createRound(userID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"roundId": roundID,
	})
}

func (s *Server) handleRoundSubroutes(w http.ResponseWriter, r *http.Request) {
	rawID, action, ok := parseRoundPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	roundID, err := validateRoundID(rawID)
	if err != nil {
		writeActionError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		switch action {
		case "":
			s.handleGetRound(w, r, roundID)
		case "participants":
			s.handleGetParticipants(w, r, roundID)
		default:
			http.NotFound(w, r)
		}
		return
	}

	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	switch action {
	case "join":
		s.handleJoinRound(w, roundID, userID)
	case "leave":
		s.handleLeaveRound(w, roundID, userID)
	case "start":
		s.handleStartRound(w, roundID, userID)
	case "close":
		s.handleCloseRound(w, roundID, userID)
	case "reveal":
		s.handleRevealClue(w, r, roundID, userID)
	case "evaluate":
		s.handleEvaluateClue(w, r, roundID, userID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetRound(w http.ResponseWriter, _ *http.Request, roundID string) {
	snap, err := s.roundSnapshot(roundID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetParticipants(w http.ResponseWriter, _ *http.Request, roundID string) {
	if _, err := findRound(s.db, roundID); err != nil {
		writeActionError(w, err)
		return
	}
	participants, err := roundParticipants(s.db, roundID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"participants": participants,
	})
}

func (s *Server) handleJoinRound(w http.ResponseWriter, roundID, userID string) {
	alreadyJoined, err := s.joinRound(roundID, userID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"alreadyJoined": alreadyJoined,
	})
}

func (s *Server) handleLeaveRound(w http.ResponseWriter, roundID, userID string) {
	if err := s.leaveRound(roundID, userID); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleStartRound(w http.ResponseWriter, roundID, userID string) {
	if err := s.startRound(roundID, userID); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCloseRound(w http.ResponseWriter, roundID, userID string) {
	if err := s.closeRound(roundID, userID); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRevealClue(w http.ResponseWriter, r *http.Request, roundID, userID string) {
	var req revealRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateQuestionID(req.QuestionID); err != nil {
		writeActionError(w, err)
		return
	}
	clue, alreadyRevealed, err := s.revealClue(roundID, req.QuestionID, userID)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"clue":            clue,
		"alreadyRevealed": alreadyRevealed,
	})
}

func (s *Server) handleEvaluateClue(w http.ResponseWriter, r *http.Request, roundID, userID string) {
	var req evaluateRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateQuestionID(req.QuestionID); err != nil {
		writeActionError(w, err)
		return
	}
	result, err := validateResult(req.Result)
	if err != nil {
		writeActionError(w, err)
		return
	}
	if _, err := s.evaluateClue(roundID, req.QuestionID, result, userID); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"questionId": req.QuestionID,
		"result":     result,
	})
}
