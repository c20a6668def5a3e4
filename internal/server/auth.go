package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"clueboard/internal/db"

	"gorm.io/gorm"
)

// authStore resolves bearer tokens to user ids. Tokens are issued by the
// surrounding application; this core only looks them up. Without a
// database connection it falls back to an in-memory table.
type authStore struct {
	db     *gorm.DB
	mu     sync.Mutex
	tokens map[string]string
}

func newAuthStore(conn *gorm.DB) *authStore {
	return &authStore{
		db:     conn,
		tokens: make(map[string]string),
	}
}

func (a *authStore) UserForToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if a.db == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		userID, ok := a.tokens[token]
		return userID, ok
	}
	var session db.Session
	err := a.db.Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		First(&session).Error
	if err != nil {
		return "", false
	}
	return session.UserID, true
}

func (a *authStore) AddToken(token, userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = userID
}

// authenticate resolves the caller's identity or writes a 401.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		writeError(w, http.StatusUnauthorized, "sign in to continue")
		return "", false
	}
	userID, ok := s.auth.UserForToken(strings.TrimSpace(token))
	if !ok {
		writeError(w, http.StatusUnauthorized, "your session has expired, sign in again")
		return "", false
	}
	return userID, true
}
