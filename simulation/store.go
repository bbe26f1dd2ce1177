package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baseball-sim/franchise-engine/models"
)

// Store persists schedules, game results, and season stat lines in
// Postgres. The engine itself never touches the store; the service layer
// writes through it after each simulated day.
type Store struct {
	db *pgxpool.Pool
}

// NewStore connects a pool to the database URL.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.db.Close()
}

// Init creates the schema when it does not exist.
func (s *Store) Init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS scheduled_games (
			id UUID PRIMARY KEY,
			game_date DATE NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			home_score INT NOT NULL DEFAULT 0,
			away_score INT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_scheduled_games_date ON scheduled_games (game_date);

		CREATE TABLE IF NOT EXISTS game_results (
			id UUID PRIMARY KEY,
			game_date DATE NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_score INT NOT NULL,
			away_score INT NOT NULL,
			walk_off BOOLEAN NOT NULL DEFAULT FALSE,
			draw BOOLEAN NOT NULL DEFAULT FALSE,
			box_score JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS season_stats (
			player_id UUID PRIMARY KEY,
			player_name TEXT NOT NULL,
			team TEXT NOT NULL,
			stat_line JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS standings (
			team TEXT PRIMARY KEY,
			league TEXT NOT NULL,
			wins INT NOT NULL DEFAULT 0,
			losses INT NOT NULL DEFAULT 0,
			draws INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SaveSchedule upserts a generated season calendar.
func (s *Store) SaveSchedule(ctx context.Context, games []models.ScheduledGame) error {
	query := `
		INSERT INTO scheduled_games (id, game_date, home_team, away_team, status, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    home_score = EXCLUDED.home_score,
		    away_score = EXCLUDED.away_score
	`
	for _, g := range games {
		if _, err := s.db.Exec(ctx, query,
			g.ID, g.Date, g.HomeTeam, g.AwayTeam, g.Status, g.HomeScore, g.AwayScore,
		); err != nil {
			return fmt.Errorf("failed to save scheduled game %s: %w", g.ID, err)
		}
	}
	return nil
}

// GamesOn loads the slate for one date.
func (s *Store) GamesOn(ctx context.Context, date time.Time) ([]models.ScheduledGame, error) {
	query := `
		SELECT id, game_date, home_team, away_team, status, home_score, away_score
		FROM scheduled_games
		WHERE game_date = $1
		ORDER BY id
	`
	rows, err := s.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query slate for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var games []models.ScheduledGame
	for rows.Next() {
		var g models.ScheduledGame
		if err := rows.Scan(&g.ID, &g.Date, &g.HomeTeam, &g.AwayTeam, &g.Status, &g.HomeScore, &g.AwayScore); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// MarkCompleted flips a scheduled game to completed with its final score.
func (s *Store) MarkCompleted(ctx context.Context, gameID string, homeScore, awayScore int) error {
	query := `
		UPDATE scheduled_games
		SET status = $2, home_score = $3, away_score = $4
		WHERE id = $1
	`
	if _, err := s.db.Exec(ctx, query, gameID, models.GameCompleted, homeScore, awayScore); err != nil {
		return fmt.Errorf("failed to mark game %s completed: %w", gameID, err)
	}
	return nil
}

// SaveGameResult stores a finalized box score.
func (s *Store) SaveGameResult(ctx context.Context, gameID string, result *GameResult) error {
	box, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal box score: %w", err)
	}
	query := `
		INSERT INTO game_results (id, game_date, home_team, away_team, home_score, away_score, walk_off, draw, box_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.Exec(ctx, query,
		gameID, result.Date, result.HomeTeam, result.AwayTeam,
		result.HomeScore, result.AwayScore, result.WalkOff, result.Draw, box,
	); err != nil {
		return fmt.Errorf("failed to save game result %s: %w", gameID, err)
	}
	return nil
}

// UpsertSeasonStats writes the accumulated season line for every player on
// a team.
func (s *Store) UpsertSeasonStats(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO season_stats (player_id, player_name, team, stat_line, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET stat_line = EXCLUDED.stat_line,
		    team = EXCLUDED.team,
		    updated_at = NOW()
	`
	for _, p := range team.Players {
		line, err := json.Marshal(p.Season)
		if err != nil {
			return fmt.Errorf("failed to marshal stat line for %s: %w", p.Name, err)
		}
		if _, err := s.db.Exec(ctx, query, string(p.ID), p.Name, team.Name, line); err != nil {
			return fmt.Errorf("failed to upsert season stats for %s: %w", p.Name, err)
		}
	}
	return nil
}

// StandingsRow is one line of the league table.
type StandingsRow struct {
	Team   string `json:"team"`
	League string `json:"league"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// SaveStandings writes a team's current record.
func (s *Store) SaveStandings(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO standings (team, league, wins, losses, draws, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (team) DO UPDATE
		SET wins = EXCLUDED.wins,
		    losses = EXCLUDED.losses,
		    draws = EXCLUDED.draws,
		    updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, team.Name, team.League, team.Wins, team.Losses, team.Draws); err != nil {
		return fmt.Errorf("failed to save standings for %s: %w", team.Name, err)
	}
	return nil
}

// Standings loads the league table sorted by winning percentage.
func (s *Store) Standings(ctx context.Context) ([]StandingsRow, error) {
	query := `
		SELECT team, league, wins, losses, draws
		FROM standings
		ORDER BY CASE WHEN wins + losses = 0 THEN 0
		              ELSE wins::float / (wins + losses) END DESC, team
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var table []StandingsRow
	for rows.Next() {
		var r StandingsRow
		if err := rows.Scan(&r.Team, &r.League, &r.Wins, &r.Losses, &r.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		table = append(table, r)
	}
	return table, rows.Err()
}
