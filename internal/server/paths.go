package server

import "strings"

// parseRoundPath splits /api/rounds/{id} and /api/rounds/{id}/{action}
// into the round id and the optional action segment.
func parseRoundPath(path string) (string, string, bool) {
	rest, ok := strings.CutPrefix(path, "/api/rounds/")
	if !ok || rest == "" {
		return "", "", false
	}
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	switch len(parts) {
	case 1:
		return parts[0], "", parts[0] != ""
	case 2:
		return parts[0], parts[1], parts[0] != "" && parts[1] != ""
	default:
		return "", "", false
	}
}

func parseSocketPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/ws/rounds/")
	if !ok {
		return "", false
	}
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
