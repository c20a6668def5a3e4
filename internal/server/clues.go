package server

import (
	"log"
	"time"

	"clueboard/internal/db"

	"gorm.io/gorm"
)

type clueRow struct {
	Revealed     bool
	Answered     bool
	Prompt       string
	Answer       string
	Value        int
	CategoryName string
}

func findClueRow(tx *gorm.DB, roundID string, questionID uint) (*clueRow, error) {
	var row clueRow
	result := tx.Table("round_clues").
		Select("round_clues.revealed AS revealed, round_clues.answered AS answered, questions.prompt AS prompt, questions.answer AS answer, questions.value AS value, categories.name AS category_name").
		Joins("INNER JOIN questions ON questions.id = round_clues.question_id").
		Joins("INNER JOIN categories ON categories.id = questions.category_id").
		Where("round_clues.round_id = ? AND round_clues.question_id = ?", roundID, questionID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errNotFound("this clue is not part of this round")
	}
	return &row, nil
}

// revealClue is phase one of the two-phase clue protocol: host-only,
// active rounds only. Re-revealing is not an error; the same payload is
// broadcast again and the caller is told it had already been opened.
func (s *Server) revealClue(roundID string, questionID uint, userID string) (CluePayload, bool, error) {
	var (
		payload         CluePayload
		alreadyRevealed bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireHost(tx, roundID, userID, "only the host can reveal clues"); err != nil {
			return err
		}
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		if round.Status != db.RoundStatusActive {
			return errConflict("the round has not been started")
		}
		row, err := findClueRow(tx, roundID, questionID)
		if err != nil {
			return err
		}
		alreadyRevealed = row.Revealed
		if !row.Revealed {
			if err := tx.Model(&db.RoundClue{}).
				Where("round_id = ? AND question_id = ?", roundID, questionID).
				Update("revealed", true).Error; err != nil {
				return err
			}
		}
		payload = CluePayload{
			RoundID:      roundID,
			QuestionID:   questionID,
			Prompt:       row.Prompt,
			Answer:       row.Answer,
			Value:        row.Value,
			CategoryName: row.CategoryName,
		}
		return nil
	})
	if err != nil {
		return CluePayload{}, false, err
	}
	log.Printf("clue revealed round_id=%s question_id=%d already=%t", roundID, questionID, alreadyRevealed)
	s.emitClueRevealed(roundID, payload)
	return payload, alreadyRevealed, nil
}

// evaluateClue is phase two: the host judges the active player's answer.
// Score delta, the answered flag and the turn rotation commit atomically.
// The answered flip is a conditional update, so of two overlapping
// evaluations of the same clue exactly one applies the delta and rotation;
// the other sees zero affected rows and is rejected.
func (s *Server) evaluateClue(roundID string, questionID uint, result, userID string) (RoundStatePayload, error) {
	var state RoundStatePayload
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireHost(tx, roundID, userID, "only the host can evaluate answers"); err != nil {
			return err
		}
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		switch round.Status {
		case db.RoundStatusIdle:
			return errConflict("the round has not been started")
		case db.RoundStatusClosed:
			return errConflict("the round has already finished")
		}
		row, err := findClueRow(tx, roundID, questionID)
		if err != nil {
			return err
		}
		if !row.Revealed {
			return errConflict("this clue has not been opened yet")
		}
		players, err := playerMembers(tx, roundID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return errConflict("no players are registered for this round")
		}
		orderedIDs := orderedPlayerIDs(players)
		active := resolveActivePlayer(round.CurrentPlayerID, orderedIDs)
		if active == "" {
			return errConflict("could not determine the active player")
		}

		now := time.Now().UTC()
		flip := tx.Model(&db.RoundClue{}).
			Where("round_id = ? AND question_id = ? AND answered = ?", roundID, questionID, false).
			Updates(map[string]any{"answered": true, "answered_at": now})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return errConflict("this clue has already been evaluated")
		}

		delta := row.Value
		if result == resultIncorrect {
			delta = -delta
		}
		if delta != 0 {
			if err := tx.Model(&db.RoundPlayer{}).
				Where("round_id = ? AND user_id = ?", roundID, active).
				Update("score", gorm.Expr("score + ?", delta)).Error; err != nil {
				return err
			}
		}

		next := nextPlayerAfter(active, orderedIDs)
		if err := tx.Model(&db.Round{}).Where("id = ?", roundID).
			Update("current_player_id", next).Error; err != nil {
			return err
		}
		state = RoundStatePayload{
			RoundID:        roundID,
			ActivePlayerID: &next,
			QuestionID:     questionID,
			Result:         result,
		}
		return nil
	})
	if err != nil {
		return RoundStatePayload{}, err
	}
	log.Printf("clue evaluated round_id=%s question_id=%d result=%s next_player=%s",
		roundID, questionID, result, *state.ActivePlayerID)
	s.emitParticipantsUpdate(roundID)
	s.emitRoundState(roundID, state)
	return state, nil
}
