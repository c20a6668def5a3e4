package server

import (
	"log"
	"time"

	"clueboard/internal/db"

	"gorm.io/gorm"
)

// joinRound adds a player membership while the round is still idle. The
// first player to join pre-seeds the turn pointer so start has a
// deterministic opener. Joining twice is reported as success.
func (s *Server) joinRound(roundID, userID string) (bool, error) {
	var (
		alreadyJoined bool
		seededActive  bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		membership, err := findMembership(tx, roundID, userID)
		if err != nil {
			return err
		}
		if membership != nil {
			alreadyJoined = true
			return nil
		}
		if round.Status != db.RoundStatusIdle {
			return errConflict("the round has already started")
		}
		player := db.RoundPlayer{
			RoundID:  roundID,
			UserID:   userID,
			Role:     db.RolePlayer,
			JoinedAt: time.Now().UTC(),
		}
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
		if round.CurrentPlayerID == nil {
			// Conditional so two first joiners cannot both seed the pointer.
			seed := tx.Model(&db.Round{}).
				Where("id = ? AND current_player_id IS NULL", roundID).
				Update("current_player_id", userID)
			if seed.Error != nil {
				return seed.Error
			}
			seededActive = seed.RowsAffected == 1
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if alreadyJoined {
		return true, nil
	}
	log.Printf("player joined round_id=%s user=%s", roundID, userID)
	s.emitParticipantsUpdate(roundID)
	if seededActive {
		s.emitRoundState(roundID, RoundStatePayload{
			RoundID:        roundID,
			ActivePlayerID: &userID,
		})
	}
	return false, nil
}

// leaveRound removes a player membership. The host can never leave: a
// round without a host could not authorize any further host-only action.
// If the leaver held the turn it passes to the earliest-joined remaining
// player, or clears entirely when nobody is left.
func (s *Server) leaveRound(roundID, userID string) error {
	var (
		activeChanged bool
		newActive     *string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		round, err := findRound(tx, roundID)
		if err != nil {
			return err
		}
		membership, err := findMembership(tx, roundID, userID)
		if err != nil {
			return err
		}
		if membership == nil {
			return errForbidden("you have not joined this round")
		}
		if membership.Role == db.RoleHost {
			return errForbidden("the host cannot leave the round")
		}
		if err := tx.Delete(&db.RoundPlayer{}, "round_id = ? AND user_id = ?", roundID, userID).Error; err != nil {
			return err
		}
		remaining, err := playerMembers(tx, roundID)
		if err != nil {
			return err
		}
		wasActive := round.CurrentPlayerID != nil && *round.CurrentPlayerID == userID
		if !wasActive {
			return nil
		}
		if len(remaining) > 0 {
			newActive = &remaining[0].UserID
		}
		activeChanged = true
		return tx.Model(&db.Round{}).Where("id = ?", roundID).
			Update("current_player_id", newActive).Error
	})
	if err != nil {
		return err
	}
	log.Printf("player left round_id=%s user=%s", roundID, userID)
	s.emitParticipantsUpdate(roundID)
	if activeChanged {
		s.emitRoundState(roundID, RoundStatePayload{
			RoundID:        roundID,
			ActivePlayerID: newActive,
		})
	}
	return nil
}
