package server

import (
	"net/http"

	"clueboard/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	db   *gorm.DB
	hub  *roundHub
	cfg  config.Config
	auth *authStore
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		db:   conn,
		hub:  newRoundHub(cfg.EventBufferSize),
		cfg:  cfg,
		auth: newAuthStore(conn),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rounds", s.handleCreateRound)
	mux.HandleFunc("GET /api/rounds/", s.handleRoundSubroutes)
	mux.HandleFunc("POST /api/rounds/", s.handleRoundSubroutes)
	mux.HandleFunc("GET /ws/rounds/", s.handleRoundSocket)
	return mux
}
