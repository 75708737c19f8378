package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/PacMenOrganizationLLC/HungryGame/game/engine"
	"github.com/PacMenOrganizationLLC/HungryGame/game/service"
	"github.com/PacMenOrganizationLLC/HungryGame/transport/websocket"
	"github.com/gorilla/mux"
)

// Server represents the REST API server.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	cache   *readCache
	chaos   *chaosInjector
}

// Options tunes the transport middleware.
type Options struct {
	// ChaosEvery fails every Nth API request with a 500 when > 0.
	ChaosEvery int
	// CacheTTL is the freshness window of the read endpoints. Zero
	// disables the cache.
	CacheTTL time.Duration
}

// NewServer creates an API server with a one second read cache and no
// fault injection.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	return NewServerWithOptions(gameService, hub, Options{CacheTTL: time.Second})
}

// NewServerWithOptions creates an API server with explicit middleware
// settings.
func NewServerWithOptions(gameService service.GameService, hub *websocket.Hub, opts Options) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	if opts.CacheTTL > 0 {
		s.cache = newReadCache(opts.CacheTTL)
	}
	if opts.ChaosEvery > 0 {
		s.chaos = newChaosInjector(opts.ChaosEvery)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Use(corsMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(loggingMiddleware)
	if s.chaos != nil {
		api.Use(s.chaos.middleware)
	}

	// Player operations
	api.HandleFunc("/join", s.handleJoin).Methods("POST")
	api.HandleFunc("/move", s.handleMove).Methods("POST")

	// Administration
	api.HandleFunc("/start", s.handleStart).Methods("POST")
	api.HandleFunc("/reset", s.handleReset).Methods("POST")

	// Read endpoints, served through the short-lived cache
	api.Handle("/players", s.cached(s.handlePlayers)).Methods("GET")
	api.Handle("/board", s.cached(s.handleBoard)).Methods("GET")
	api.Handle("/state", s.cached(s.handleState)).Methods("GET")

	// Start presets for the admin form
	api.HandleFunc("/configs", s.handleConfigs).Methods("GET")

	// WebSocket spectator feed
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Static files
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// cached wraps a read handler with the freshness-window cache when enabled.
func (s *Server) cached(handler http.HandlerFunc) http.Handler {
	if s.cache == nil {
		return handler
	}
	return s.cache.wrap(handler)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the game error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrUnknownToken):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateName),
		errors.Is(err, engine.ErrGameNotRunning),
		errors.Is(err, engine.ErrGameRunning),
		errors.Is(err, engine.ErrBoardFull):
		return http.StatusConflict
	default:
		// ErrInvalidConfig, bad directions, blank names.
		return http.StatusBadRequest
	}
}

func (s *Server) respondGameError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

// broadcastState pushes the post-mutation board to the spectator hub and
// drops the read cache so the next poll sees the new state.
func (s *Server) broadcastState(r *http.Request) {
	if s.cache != nil {
		s.cache.invalidate()
	}
	if s.hub == nil {
		return
	}
	board, err := s.service.Board(r.Context())
	if err != nil {
		return
	}
	status, err := s.service.Status(r.Context())
	if err != nil {
		return
	}
	s.hub.BroadcastBoard(status.State, board)
}

// Player Handlers

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.service.Join(r.Context(), req.Name)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	s.broadcastState(r)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token     string `json:"token"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.service.Move(r.Context(), req.Token, req.Direction)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	s.broadcastState(r)
	respondJSON(w, http.StatusOK, view)
}

// Admin Handlers

// handleStart accepts the start parameters either as a JSON object or as
// query-string values and normalizes both into one engine.GameConfig.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	cfg, err := startConfigFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.Start(r.Context(), cfg); err != nil {
		s.respondGameError(w, err)
		return
	}

	s.broadcastState(r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("password")
	if secret == "" {
		var req struct {
			Password string `json:"password"`
		}
		// Body is optional; a missing secret simply fails the match.
		json.NewDecoder(r.Body).Decode(&req)
		secret = req.Password
	}

	if err := s.service.Reset(r.Context(), secret); err != nil {
		s.respondGameError(w, err)
		return
	}

	s.broadcastState(r)
	w.WriteHeader(http.StatusNoContent)
}

// Read Handlers

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Leaderboard(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.Board(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, presets)
}

// startConfigFromRequest normalizes the two start entry shapes. Query
// parameters win when present; otherwise the JSON body is used.
func startConfigFromRequest(r *http.Request) (engine.GameConfig, error) {
	query := r.URL.Query()
	if query.Get("numRows") != "" || query.Get("numCols") != "" {
		var cfg engine.GameConfig
		var err error
		if cfg.NumRows, err = strconv.Atoi(query.Get("numRows")); err != nil {
			return engine.GameConfig{}, errors.New("numRows must be an integer")
		}
		if cfg.NumCols, err = strconv.Atoi(query.Get("numCols")); err != nil {
			return engine.GameConfig{}, errors.New("numCols must be an integer")
		}
		cfg.Secret = query.Get("password")
		if raw := query.Get("timeLimit"); raw != "" {
			if cfg.TimeLimit, err = strconv.Atoi(raw); err != nil {
				return engine.GameConfig{}, errors.New("timeLimit must be an integer")
			}
		}
		return cfg, nil
	}

	var cfg engine.GameConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		return engine.GameConfig{}, errors.New("invalid JSON body")
	}
	return cfg, nil
}
