package server

import (
	"errors"
	"fmt"
	"log"
	"time"

	"clueboard/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The five fixed value tiers of a board column, in row order.
var clueTiers = [5]int{100, 200, 300, 400, 500}

const boardColumns = 6

// createRound inserts the round, the host membership and a fully sampled
// 6x5 board in one transaction. Either the complete board exists
// afterwards or nothing does.
func (s *Server) createRound(userID string) (string, error) {
	roundID := uuid.NewString()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var categoryCount int64
		if err := tx.Model(&db.Category{}).Count(&categoryCount).Error; err != nil {
			return err
		}
		if categoryCount < boardColumns {
			return errCatalog(fmt.Sprintf("at least %d categories are required to build a board", boardColumns))
		}

		now := time.Now().UTC()
		round := db.Round{
			ID:     roundID,
			Status: db.RoundStatusIdle,
		}
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		host := db.RoundPlayer{
			RoundID:  roundID,
			UserID:   userID,
			Role:     db.RoleHost,
			JoinedAt: now,
		}
		if err := tx.Create(&host).Error; err != nil {
			return err
		}

		var categories []db.Category
		if err := tx.Order("random()").Limit(boardColumns).Find(&categories).Error; err != nil {
			return err
		}

		for column, category := range categories {
			entry := db.RoundCategory{
				RoundID:     roundID,
				CategoryID:  category.ID,
				ColumnIndex: column,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			for row, value := range clueTiers {
				var question db.Question
				err := tx.Where("category_id = ? AND value = ?", category.ID, value).
					Order("random()").
					First(&question).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errCatalog(fmt.Sprintf(
						"category %q has no question worth %d; seed every category with values 100 through 500",
						category.Name, value,
					))
				}
				if err != nil {
					return err
				}
				clue := db.RoundClue{
					RoundID:     roundID,
					QuestionID:  question.ID,
					ColumnIndex: column,
					RowIndex:    row,
				}
				if err := tx.Create(&clue).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("round created round_id=%s host=%s", roundID, userID)
	s.persistEvent(roundID, &userID, EventRoundCreated, map[string]string{"roundId": roundID})
	return roundID, nil
}

// startRound moves idle -> active and pins the first turn. Only the host
// may start, and only with at least one player joined.
func (s *Server) startRound(roundID, userID string) error {
	var state RoundStatePayload
	err := s.db.Transaction(func(tx *gorm.DB) error {
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		switch round.Status {
		case db.RoundStatusActive:
			return errConflict("the round is already running")
		case db.RoundStatusClosed:
			return errConflict("the round has already finished")
		}
		if err := requireHost(tx, roundID, userID, "only the host can start the round"); err != nil {
			return err
		}
		players, err := playerMembers(tx, roundID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return errConflict("at least one player must join before the round starts")
		}
		active := resolveActivePlayer(round.CurrentPlayerID, orderedPlayerIDs(players))
		updates := map[string]any{
			"status":            db.RoundStatusActive,
			"current_player_id": active,
		}
		if err := tx.Model(&db.Round{}).Where("id = ?", roundID).Updates(updates).Error; err != nil {
			return err
		}
		state = RoundStatePayload{
			RoundID:        roundID,
			Status:         db.RoundStatusActive,
			ActivePlayerID: &active,
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("round started round_id=%s active_player=%s", roundID, *state.ActivePlayerID)
	s.emitRoundState(roundID, state)
	return nil
}

// closeRound is terminal and idempotent: closing an already-closed round
// succeeds without touching state or broadcasting. Closing from idle is
// allowed so a host can abort before play.
func (s *Server) closeRound(roundID, userID string) error {
	var (
		alreadyClosed bool
		winners       []Winner
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		if round.Status == db.RoundStatusClosed {
			alreadyClosed = true
			return nil
		}
		if err := requireHost(tx, roundID, userID, "only the host can close the round"); err != nil {
			return err
		}
		participants, err := roundParticipants(tx, roundID)
		if err != nil {
			return err
		}
		winners = determineWinners(participants)
		updates := map[string]any{
			"status":            db.RoundStatusClosed,
			"current_player_id": nil,
		}
		return tx.Model(&db.Round{}).Where("id = ?", roundID).Updates(updates).Error
	})
	if err != nil {
		return err
	}
	if alreadyClosed {
		return nil
	}
	log.Printf("round closed round_id=%s winners=%d", roundID, len(winners))
	s.emitParticipantsUpdate(roundID)
	s.emitRoundState(roundID, RoundStatePayload{
		RoundID:        roundID,
		Status:         db.RoundStatusClosed,
		ActivePlayerID: nil,
		Winners:        winners,
	})
	return nil
}
