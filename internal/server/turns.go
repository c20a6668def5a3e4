package server

import "clueboard/internal/db"

// Turn order is always re-derived from the membership rows, never cached.
// Player queries sort by joined_at with id as tie-break, so the slices
// handled here are already in turn order.

func orderedPlayerIDs(players []db.RoundPlayer) []string {
	ids := make([]string, 0, len(players))
	for _, player := range players {
		ids = append(ids, player.UserID)
	}
	return ids
}

// resolveActivePlayer returns the player the turn belongs to. A stored
// pointer that no longer references a current player falls back to the
// earliest-joined player; with no players the result is empty.
func resolveActivePlayer(currentPlayerID *string, orderedIDs []string) string {
	if len(orderedIDs) == 0 {
		return ""
	}
	if currentPlayerID != nil {
		for _, id := range orderedIDs {
			if id == *currentPlayerID {
				return id
			}
		}
	}
	return orderedIDs[0]
}

// nextPlayerAfter rotates to the player immediately after activeID in join
// order, wrapping to the first. An activeID missing from the list rotates
// to the first player.
func nextPlayerAfter(activeID string, orderedIDs []string) string {
	if len(orderedIDs) == 0 {
		return ""
	}
	for i, id := range orderedIDs {
		if id == activeID {
			return orderedIDs[(i+1)%len(orderedIDs)]
		}
	}
	return orderedIDs[0]
}
