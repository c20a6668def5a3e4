package server

import "time"

// Participant is the membership view returned to clients and fed into
// winner determination, ordered by join time.
type Participant struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

// determineWinners filters to player-role members and returns everyone
// tied at the maximum score. Hosts never win; no players means no winners.
func determineWinners(participants []Participant) []Winner {
	best := 0
	found := false
	for _, participant := range participants {
		if participant.Role != "player" {
			continue
		}
		if !found || participant.Score > best {
			best = participant.Score
			found = true
		}
	}
	if !found {
		return []Winner{}
	}
	winners := make([]Winner, 0, 1)
	for _, participant := range participants {
		if participant.Role != "player" || participant.Score != best {
			continue
		}
		winners = append(winners, Winner{
			UserID: participant.UserID,
			Name:   participant.Name,
			Score:  participant.Score,
		})
	}
	return winners
}
