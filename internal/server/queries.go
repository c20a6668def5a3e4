package server

import (
	"errors"

	"clueboard/internal/db"

	"gorm.io/gorm"
)

func findRound(tx *gorm.DB, roundID string) (*db.Round, error) {
	var round db.Round
	err := tx.Where("id = ?", roundID).First(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound("this round does not exist")
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func findMembership(tx *gorm.DB, roundID, userID string) (*db.RoundPlayer, error) {
	var membership db.RoundPlayer
	err := tx.Where("round_id = ? AND user_id = ?", roundID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func requireHost(tx *gorm.DB, roundID, userID, message string) error {
	membership, err := findMembership(tx, roundID, userID)
	if err != nil {
		return err
	}
	if membership == nil || membership.Role != db.RoleHost {
		return errForbidden(message)
	}
	return nil
}

// playerMembers returns the round's player-role memberships in turn order.
func playerMembers(tx *gorm.DB, roundID string) ([]db.RoundPlayer, error) {
	var players []db.RoundPlayer
	err := tx.Where("round_id = ? AND role = ?", roundID, db.RolePlayer).
		Order("joined_at asc, id asc").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// roundParticipants joins memberships with user names, ordered by join
// time. Missing user rows degrade to an empty name rather than an error.
func roundParticipants(tx *gorm.DB, roundID string) ([]Participant, error) {
	var participants []Participant
	err := tx.Table("round_players").
		Select("round_players.user_id AS user_id, COALESCE(users.name, '') AS name, round_players.role AS role, round_players.score AS score, round_players.joined_at AS joined_at").
		Joins("LEFT JOIN users ON users.id = round_players.user_id").
		Where("round_players.round_id = ?", roundID).
		Order("round_players.joined_at asc, round_players.id asc").
		Scan(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}
