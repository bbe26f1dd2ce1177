package simulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baseball-sim/franchise-engine/models"
)

// ScheduleEngine generates a league calendar of matchups. Each calendar
// date holds one full slate in which no team appears twice, which is the
// guarantee the day runner relies on to parallelize games safely.
type ScheduleEngine struct {
	teams []string
	start time.Time
}

// NewScheduleEngine creates a generator over the given team names.
func NewScheduleEngine(teams []string, start time.Time) *ScheduleEngine {
	return &ScheduleEngine{teams: teams, start: start}
}

// Generate produces a season of round-robin play. Each round pairs every
// team once per date using the circle method; rounds repeat with home and
// away swapped on alternating cycles. With an odd team count one team sits
// out each date.
func (s *ScheduleEngine) Generate(rounds int) ([]models.ScheduledGame, error) {
	if len(s.teams) < 2 {
		return nil, fmt.Errorf("need at least 2 teams, have %d", len(s.teams))
	}
	if rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", rounds)
	}

	// Circle method: fix the first slot, rotate the rest each date.
	ring := make([]string, len(s.teams))
	copy(ring, s.teams)
	if len(ring)%2 == 1 {
		ring = append(ring, "") // bye slot
	}
	n := len(ring)
	datesPerRound := n - 1
	pairsPerDate := n / 2

	var games []models.ScheduledGame
	date := s.start
	for round := 0; round < rounds; round++ {
		for d := 0; d < datesPerRound; d++ {
			for p := 0; p < pairsPerDate; p++ {
				a := ring[p]
				b := ring[n-1-p]
				if a == "" || b == "" {
					continue
				}
				home, away := a, b
				// Alternate hosting by date parity, flipped every full
				// round so repeat matchups swap venues.
				if (d+round)%2 == 1 {
					home, away = b, a
				}
				games = append(games, models.ScheduledGame{
					ID:       uuid.New().String(),
					Date:     date,
					HomeTeam: home,
					AwayTeam: away,
					Status:   models.GameScheduled,
				})
			}
			// Rotate all slots but the first.
			last := ring[n-1]
			copy(ring[2:], ring[1:n-1])
			ring[1] = last
			date = date.AddDate(0, 0, 1)
		}
	}
	return games, nil
}

// GamesOn filters a schedule to the slate for one calendar date.
func GamesOn(games []*models.ScheduledGame, date time.Time) []*models.ScheduledGame {
	y, m, d := date.Date()
	var out []*models.ScheduledGame
	for _, g := range games {
		gy, gm, gd := g.Date.Date()
		if gy == y && gm == m && gd == d {
			out = append(out, g)
		}
	}
	return out
}
