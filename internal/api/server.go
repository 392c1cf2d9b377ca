// Package api serves the token catalog over HTTP and pushes leaderboard
// updates over websockets.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/leaderboard"
	"pokelaunch/internal/observability"
	"pokelaunch/internal/service"
	"pokelaunch/internal/storage"
)

// maxBodyBytes caps launch request bodies.
const maxBodyBytes = 64 << 10

// Catalog is the read and launch surface the handlers depend on.
type Catalog interface {
	Tokens(ctx context.Context, filter string) ([]domain.TokenRecord, bool, error)
	Token(ctx context.Context, id string) (*domain.TokenRecord, error)
	History(ctx context.Context, id string, start, end int64) ([]*domain.MarketSnapshot, error)
	Launch(ctx context.Context, req service.LaunchRequest) (*domain.TokenRecord, error)
	Leaderboard(ctx context.Context, field leaderboard.CreatorField, dir leaderboard.Direction) ([]domain.CreatorAggregate, error)
	TokenLeaderboard(ctx context.Context, field leaderboard.TokenField, dir leaderboard.Direction) ([]domain.TokenRecord, error)
	Templates(ctx context.Context) ([]domain.Template, error)
}

// RefreshStatus reports the market refresher state.
type RefreshStatus interface {
	Status() (running bool, lastRun time.Time, runs int)
}

// Options configures a Server.
type Options struct {
	Catalog   Catalog
	Hub       *Hub          // optional, disables /ws when nil
	Refresher RefreshStatus // optional
	Logger    *zap.Logger
	// AccessLog enables Apache-style request logging to stdout.
	AccessLog bool
}

// Server routes HTTP requests to the catalog.
type Server struct {
	catalog   Catalog
	hub       *Hub
	refresher RefreshStatus
	log       *zap.Logger
	accessLog bool
	started   time.Time
}

// NewServer creates a Server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		catalog:   opts.Catalog,
		hub:       opts.Hub,
		refresher: opts.Refresher,
		log:       opts.Logger,
		accessLog: opts.AccessLog,
		started:   time.Now(),
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/metrics", observability.Handler()).Methods("GET")
	r.HandleFunc("/api/status", s.handleStatus).Methods("GET")

	r.HandleFunc("/api/tokens", s.handleListTokens).Methods("GET")
	r.HandleFunc("/api/tokens", s.handleLaunch).Methods("POST")
	r.HandleFunc("/api/tokens/{id}", s.handleGetToken).Methods("GET")
	r.HandleFunc("/api/tokens/{id}/history", s.handleHistory).Methods("GET")
	r.HandleFunc("/api/templates", s.handleTemplates).Methods("GET")
	r.HandleFunc("/api/leaderboard/creators", s.handleCreatorLeaderboard).Methods("GET")
	r.HandleFunc("/api/leaderboard/tokens", s.handleTokenLeaderboard).Methods("GET")

	if s.hub != nil {
		r.Handle("/ws", s.hub).Methods("GET")
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	if s.accessLog {
		return handlers.LoggingHandler(os.Stdout, r)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusResponse is the JSON response for /api/status.
type StatusResponse struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	Started        time.Time `json:"started"`
	RefreshRunning bool      `json:"refresh_running"`
	LastRefresh    time.Time `json:"last_refresh,omitempty"`
	RefreshRuns    int       `json:"refresh_runs"`
	WSClients      int       `json:"ws_clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Status:  "running",
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Started: s.started,
	}
	if s.refresher != nil {
		resp.RefreshRunning, resp.LastRefresh, resp.RefreshRuns = s.refresher.Status()
	}
	if s.hub != nil {
		resp.WSClients = s.hub.Clients()
	}
	writeJSON(w, http.StatusOK, resp)
}

type tokenListResponse struct {
	Filter string      `json:"filter"`
	Known  bool        `json:"known"`
	Count  int         `json:"count"`
	Tokens []TokenView `json:"tokens"`
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	tokens, known, err := s.catalog.Tokens(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenListResponse{
		Filter: filter,
		Known:  known,
		Count:  len(tokens),
		Tokens: newTokenViews(tokens),
	})
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	rec, err := s.catalog.Token(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenView(*rec))
}

type historyPoint struct {
	Timestamp int64   `json:"timestamp"`
	MarketCap float64 `json:"marketCap"`
	PriceUSD  float64 `json:"priceUsd"`
	Volume24h float64 `json:"volume24h"`
	Holders   int64   `json:"holders"`
	Stage     int     `json:"stage"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	start, err := queryInt(r, "start")
	if err != nil {
		s.writeError(w, err)
		return
	}
	end, err := queryInt(r, "end")
	if err != nil {
		s.writeError(w, err)
		return
	}

	snaps, err := s.catalog.History(r.Context(), mux.Vars(r)["id"], start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]historyPoint, 0, len(snaps))
	for _, sn := range snaps {
		out = append(out, historyPoint{
			Timestamp: sn.TimestampMs,
			MarketCap: sn.MarketCap,
			PriceUSD:  sn.PriceUSD,
			Volume24h: sn.Volume24h,
			Holders:   sn.Holders,
			Stage:     int(sn.Stage),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req service.LaunchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	rec, err := s.catalog.Launch(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/tokens/"+rec.ID)
	writeJSON(w, http.StatusCreated, newTokenView(*rec))
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.catalog.Templates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTemplateViews(tpls))
}

func (s *Server) handleCreatorLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	board, err := s.catalog.Leaderboard(r.Context(),
		leaderboard.ParseCreatorField(q.Get("sort")),
		leaderboard.ParseDirection(q.Get("dir")),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	members, _ := strconv.ParseBool(q.Get("members"))
	writeJSON(w, http.StatusOK, newCreatorViews(board, members))
}

func (s *Server) handleTokenLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tokens, err := s.catalog.TokenLeaderboard(r.Context(),
		leaderboard.ParseTokenField(q.Get("sort")),
		leaderboard.ParseDirection(q.Get("dir")),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenViews(tokens))
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps storage and domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRecord):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, storage.ErrInvalidInput
	}
	return n, nil
}
