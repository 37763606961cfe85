// Package api is the small operational HTTP surface: health, bot status
// and credit balance lookups.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ConversationCounter reports how many intake conversations are live.
type ConversationCounter interface {
	Active() int
}

// BalanceReader looks up a user's prepaid credit balance.
type BalanceReader interface {
	Balance(ctx context.Context, userID int64) (int64, error)
}

type Server struct {
	router  *chi.Mux
	port    int
	convs   ConversationCounter
	credits BalanceReader
}

func NewServer(port int, convs ConversationCounter, credits BalanceReader) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		convs:   convs,
		credits: credits,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/bot/status", s.status)
	router.Get("/api/v1/credits/{userID}", s.balance)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":                "listingbot",
		"status":               "running",
		"active_conversations": s.convs.Active(),
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	balance, err := s.credits.Balance(r.Context(), userID)
	if err != nil {
		slog.Error("balance lookup failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "balance lookup failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": balance,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
