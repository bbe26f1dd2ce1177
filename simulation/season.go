package simulation

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/baseball-sim/franchise-engine/models"
)

// FailedGame reports a scheduled game that did not complete. One failing
// game never halts the rest of the day's slate.
type FailedGame struct {
	GameID string `json:"game_id"`
	Home   string `json:"home"`
	Away   string `json:"away"`
	Reason string `json:"reason"`
}

// DayReport is the outcome of one simulated calendar day.
type DayReport struct {
	Date      time.Time     `json:"date"`
	Completed []*GameResult `json:"completed"`
	Failed    []FailedGame  `json:"failed"`
}

// DayRunner simulates a full day's slate. Games on the same date never
// share a team, so they run concurrently across workers; each engine owns
// its two Team object graphs for the duration of the game.
type DayRunner struct {
	teams    map[string]*models.Team
	policy   PitchingPolicy
	gameType GameType
	workers  int
	baseSeed int64
}

// NewDayRunner creates a runner over a registry of teams keyed by name.
func NewDayRunner(teams map[string]*models.Team, policy PitchingPolicy, workers int, baseSeed int64) *DayRunner {
	if workers < 1 {
		workers = 1
	}
	return &DayRunner{
		teams:    teams,
		policy:   policy,
		gameType: GameRegular,
		workers:  workers,
		baseSeed: baseSeed,
	}
}

type gameJob struct {
	index int
	game  *models.ScheduledGame
}

type gameOutcome struct {
	result *GameResult
	failed *FailedGame
}

// RunDay simulates every scheduled game on a date, marks each completed
// with its final score, and ends with the daily recovery pass for every
// franchise. Games are distributed across the worker pool; the per-game
// seed is derived from the base seed and the game's slate position, so a
// day replays identically for a fixed schedule.
func (r *DayRunner) RunDay(date time.Time, slate []*models.ScheduledGame) *DayReport {
	report := &DayReport{Date: date}

	jobs := make(chan gameJob, len(slate))
	outcomes := make(chan gameOutcome, len(slate))
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				outcomes <- r.runGame(date, job)
			}
		}()
	}

	for i, g := range slate {
		if g.Status != models.GameScheduled {
			continue
		}
		jobs <- gameJob{index: i, game: g}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		if out.failed != nil {
			log.Printf("Game %s (%s at %s) failed: %s",
				out.failed.GameID, out.failed.Away, out.failed.Home, out.failed.Reason)
			report.Failed = append(report.Failed, *out.failed)
			continue
		}
		report.Completed = append(report.Completed, out.result)
	}

	for _, t := range r.teams {
		t.RecoverDaily()
	}
	return report
}

// runGame simulates a single scheduled game, converting any panic from a
// malformed roster into a failure report rather than crashing the slate.
func (r *DayRunner) runGame(date time.Time, job gameJob) (out gameOutcome) {
	g := job.game
	defer func() {
		if rec := recover(); rec != nil {
			out = gameOutcome{failed: &FailedGame{
				GameID: g.ID,
				Home:   g.HomeTeam,
				Away:   g.AwayTeam,
				Reason: fmt.Sprintf("panic: %v", rec),
			}}
		}
	}()

	home, ok := r.teams[g.HomeTeam]
	if !ok {
		return gameOutcome{failed: &FailedGame{GameID: g.ID, Home: g.HomeTeam, Away: g.AwayTeam,
			Reason: fmt.Sprintf("unknown home team %q", g.HomeTeam)}}
	}
	away, ok := r.teams[g.AwayTeam]
	if !ok {
		return gameOutcome{failed: &FailedGame{GameID: g.ID, Home: g.HomeTeam, Away: g.AwayTeam,
			Reason: fmt.Sprintf("unknown away team %q", g.AwayTeam)}}
	}

	engine, err := NewLiveGameEngine(home, away,
		WithSeed(r.baseSeed+int64(job.index)),
		WithPolicy(r.policy),
		WithGameType(r.gameType),
	)
	if err != nil {
		return gameOutcome{failed: &FailedGame{GameID: g.ID, Home: g.HomeTeam, Away: g.AwayTeam,
			Reason: err.Error()}}
	}
	if err := engine.Simulate(); err != nil {
		return gameOutcome{failed: &FailedGame{GameID: g.ID, Home: g.HomeTeam, Away: g.AwayTeam,
			Reason: err.Error()}}
	}
	result, err := engine.FinalizeGameStats(date)
	if err != nil {
		return gameOutcome{failed: &FailedGame{GameID: g.ID, Home: g.HomeTeam, Away: g.AwayTeam,
			Reason: err.Error()}}
	}

	g.Status = models.GameCompleted
	g.HomeScore = result.HomeScore
	g.AwayScore = result.AwayScore
	return gameOutcome{result: result}
}
