// Package server exposes the event-fetch proxy over HTTP: a single
// rate-limited route that returns a normalized event as JSON, for UIs
// that cannot call the Raid-Helper API directly.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/veskos/raidbridge/pkg/clients/raidhelper"
	"github.com/veskos/raidbridge/pkg/core/model"
)

// EventFetcher fetches one normalized event.
type EventFetcher interface {
	FetchEvent(ctx context.Context, eventID string) (*model.RaidEvent, error)
}

// Server is the HTTP proxy.
type Server struct {
	fetcher EventFetcher
	limiter *RateLimiter
	logger  *zap.Logger
	router  chi.Router
}

// New wires the router. The rate limiter is injected so its lifecycle
// belongs to the caller, not to package state.
func New(fetcher EventFetcher, limiter *RateLimiter, logger *zap.Logger) *Server {
	s := &Server{
		fetcher: fetcher,
		limiter: limiter,
		logger:  logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	router.Get("/api/event", s.handleEvent)
	s.router = router

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// clientIP prefers the forwarded-for chain's first hop, then the
// real-ip header, then the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.limiter.Allow(ip) {
		s.logger.Warn("rate limited", zap.String("ip", ip))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Try again in a minute."})
		return
	}

	eventID := r.URL.Query().Get("id")
	if eventID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing event ID"})
		return
	}

	event, err := s.fetcher.FetchEvent(r.Context(), eventID)
	switch {
	case errors.Is(err, raidhelper.ErrInvalidEventID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid event ID format"})
	case errors.Is(err, raidhelper.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Event not found"})
	case err != nil:
		s.logger.Error("event fetch failed", zap.String("event_id", eventID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to fetch event from Raid-Helper"})
	default:
		writeJSON(w, http.StatusOK, event)
	}
}
