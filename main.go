package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/baseball-sim/franchise-engine/models"
	"github.com/baseball-sim/franchise-engine/simulation"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8081"`
	DatabaseURL string `env:"DATABASE_URL"`
	Workers     int    `env:"WORKERS"`
	PolicyFile  string `env:"PITCHING_POLICY_FILE"`
	BaseSeed    int64  `env:"BASE_SEED" envDefault:"1"`
}

func NewConfig() (*Config, error) {
	// A local .env is optional; environment variables win.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

type Server struct {
	router     *mux.Router
	httpServer *http.Server
	config     *Config
	store      *simulation.Store // nil without DATABASE_URL
	policy     simulation.PitchingPolicy

	mu       sync.RWMutex
	teams    map[string]*models.Team
	schedule []*models.ScheduledGame
}

func NewServer(config *Config) (*Server, error) {
	policy := simulation.DefaultPitchingPolicy()
	if config.PolicyFile != "" {
		loaded, err := simulation.LoadPitchingPolicy(config.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pitching policy: %w", err)
		}
		policy = loaded
	}

	s := &Server{
		router: mux.NewRouter(),
		config: config,
		policy: policy,
		teams:  make(map[string]*models.Team),
	}

	if config.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := simulation.NewStore(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect store: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		s.store = store
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")

	s.router.HandleFunc("/teams", s.createTeamHandler).Methods("POST")
	s.router.HandleFunc("/teams", s.listTeamsHandler).Methods("GET")
	s.router.HandleFunc("/teams/{name}", s.getTeamHandler).Methods("GET")

	s.router.HandleFunc("/simulate", s.simulateHandler).Methods("POST")
	s.router.HandleFunc("/simulate/daily", s.simulateDailyHandler).Methods("POST")

	s.router.HandleFunc("/schedule/generate", s.generateScheduleHandler).Methods("POST")
	s.router.HandleFunc("/schedule/date/{date}", s.scheduleByDateHandler).Methods("GET")

	s.router.HandleFunc("/standings", s.standingsHandler).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

func (s *Server) Start() error {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})
	handler := c.Handler(handlers.CompressHandler(s.router))

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting franchise engine on port %s (workers=%d)", s.config.Port, s.config.Workers)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down franchise engine...")
	if s.store != nil {
		s.store.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("%s %s %d %v", r.Method, r.RequestURI, lrw.statusCode, time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Handlers

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"store":     s.store != nil,
	})
}

func (s *Server) createTeamHandler(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := json.NewDecoder(r.Body).Decode(&team); err != nil {
		http.Error(w, "Invalid team payload", http.StatusBadRequest)
		return
	}
	if team.Name == "" {
		http.Error(w, "Team name is required", http.StatusBadRequest)
		return
	}
	if team.Players == nil {
		team.Players = make(map[models.PlayerID]*models.Player)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.teams[team.Name]; exists {
		http.Error(w, fmt.Sprintf("Team %q already registered", team.Name), http.StatusConflict)
		return
	}
	s.teams[team.Name] = &team

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"name": team.Name, "status": "registered"})
}

func (s *Server) listTeamsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}
	writeJSON(w, map[string]interface{}{"teams": names, "count": len(names)})
}

func (s *Server) getTeamHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	s.mu.RLock()
	team, ok := s.teams[name]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}
	writeJSON(w, team)
}

type simulateRequest struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Seed     int64  `json:"seed,omitempty"`
	AllStar  bool   `json:"all_star,omitempty"`
}

func (s *Server) simulateHandler(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid simulation request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	home, ok := s.teams[req.HomeTeam]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown home team %q", req.HomeTeam), http.StatusNotFound)
		return
	}
	away, ok := s.teams[req.AwayTeam]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown away team %q", req.AwayTeam), http.StatusNotFound)
		return
	}

	opts := []simulation.EngineOption{simulation.WithPolicy(s.policy)}
	if req.Seed != 0 {
		opts = append(opts, simulation.WithSeed(req.Seed))
	}
	if req.AllStar {
		opts = append(opts, simulation.WithGameType(simulation.GameAllStar))
	}

	engine, err := simulation.NewLiveGameEngine(home, away, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := engine.Simulate(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	result, err := engine.FinalizeGameStats(time.Now().UTC())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.persistResult("", result, home, away)
	writeJSON(w, result)
}

type simulateDailyRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (s *Server) simulateDailyHandler(w http.ResponseWriter, r *http.Request) {
	var req simulateDailyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid daily simulation request", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slate := simulation.GamesOn(s.schedule, date)
	if len(slate) == 0 {
		http.Error(w, "No games scheduled on that date", http.StatusNotFound)
		return
	}

	runner := simulation.NewDayRunner(s.teams, s.policy, s.config.Workers, s.config.BaseSeed+date.Unix())
	report := runner.RunDay(date, slate)

	// Results come back in completion order; match them to schedule
	// entries by matchup (a team plays at most once per date).
	gameIDs := make(map[string]string, len(slate))
	for _, g := range slate {
		gameIDs[g.HomeTeam+"|"+g.AwayTeam] = g.ID
	}
	for _, res := range report.Completed {
		home := s.teams[res.HomeTeam]
		away := s.teams[res.AwayTeam]
		s.persistResult(gameIDs[res.HomeTeam+"|"+res.AwayTeam], res, home, away)
	}
	writeJSON(w, report)
}

// persistResult writes a finished game through the store when one is
// configured. Store errors are logged, never fatal to the request.
func (s *Server) persistResult(gameID string, result *simulation.GameResult, home, away *models.Team) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if gameID != "" {
		if err := s.store.MarkCompleted(ctx, gameID, result.HomeScore, result.AwayScore); err != nil {
			log.Printf("Failed to mark game completed: %v", err)
		}
		if err := s.store.SaveGameResult(ctx, gameID, result); err != nil {
			log.Printf("Failed to save game result: %v", err)
		}
	}
	for _, t := range []*models.Team{home, away} {
		if t == nil {
			continue
		}
		if err := s.store.UpsertSeasonStats(ctx, t); err != nil {
			log.Printf("Failed to upsert season stats for %s: %v", t.Name, err)
		}
		if err := s.store.SaveStandings(ctx, t); err != nil {
			log.Printf("Failed to save standings for %s: %v", t.Name, err)
		}
	}
}

type generateScheduleRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	Rounds    int    `json:"rounds"`
}

func (s *Server) generateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req generateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid schedule request", http.StatusBadRequest)
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.Rounds <= 0 {
		req.Rounds = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.teams))
	for name := range s.teams {
		names = append(names, name)
	}

	games, err := simulation.NewScheduleEngine(names, start).Generate(req.Rounds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.schedule = s.schedule[:0]
	for i := range games {
		s.schedule = append(s.schedule, &games[i])
	}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.store.SaveSchedule(ctx, games); err != nil {
			log.Printf("Failed to persist schedule: %v", err)
		}
	}

	writeJSON(w, map[string]interface{}{
		"games":      len(games),
		"start_date": req.StartDate,
		"rounds":     req.Rounds,
	})
}

func (s *Server) scheduleByDateHandler(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	slate := simulation.GamesOn(s.schedule, date)
	writeJSON(w, map[string]interface{}{"date": mux.Vars(r)["date"], "games": slate})
}

func (s *Server) standingsHandler(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		table, err := s.store.Standings(ctx)
		if err != nil {
			http.Error(w, "Failed to load standings", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"standings": table})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type row struct {
		Team   string `json:"team"`
		League string `json:"league"`
		Wins   int    `json:"wins"`
		Losses int    `json:"losses"`
		Draws  int    `json:"draws"`
	}
	table := make([]row, 0, len(s.teams))
	for _, t := range s.teams {
		table = append(table, row{Team: t.Name, League: t.League, Wins: t.Wins, Losses: t.Losses, Draws: t.Draws})
	}
	writeJSON(w, map[string]interface{}{"standings": table})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func main() {
	config, err := NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	server, err := NewServer(config)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Server shutdown failed:", err)
		}
		log.Println("Server shutdown complete")
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed to start:", err)
	}
}
