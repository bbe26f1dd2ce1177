package simulation

import (
	"math/rand"

	"github.com/baseball-sim/franchise-engine/models"
)

// BaserunningResolver advances runners after a resolved play. It mutates
// the bases in GameState and credits runs through AddRuns; outs are
// returned to the caller, which owns RecordOuts.
type BaserunningResolver struct {
	rng    *rand.Rand
	lookup func(models.PlayerID) *models.Player
}

// NewBaserunningResolver creates a resolver. The lookup resolves any
// PlayerID that can appear on the bases; it must never be nil.
func NewBaserunningResolver(rng *rand.Rand, lookup func(models.PlayerID) *models.Player) *BaserunningResolver {
	return &BaserunningResolver{rng: rng, lookup: lookup}
}

func (b *BaserunningResolver) speedOf(id models.PlayerID) float64 {
	p := b.lookup(id)
	if p == nil {
		return 50
	}
	return float64(models.ClampRating(p.Ratings.Speed))
}

// StealResult reports one steal attempt.
type StealResult struct {
	Runner  models.PlayerID
	Success bool
}

// AdvanceOnHit moves runners for a base hit and places the batter. The
// returned slice lists every runner who scored, batter included on a home
// run, in scoring order.
func (b *BaserunningResolver) AdvanceOnHit(gs *models.GameState, batter *models.Player, basesTaken int, ball *BattedBall) []models.PlayerID {
	var scored []models.PlayerID
	score := func(id models.PlayerID) {
		gs.AddRuns(1, id)
		scored = append(scored, id)
	}

	switch basesTaken {
	case 4:
		if gs.Bases.Third != "" {
			score(gs.Bases.Third)
		}
		if gs.Bases.Second != "" {
			score(gs.Bases.Second)
		}
		if gs.Bases.First != "" {
			score(gs.Bases.First)
		}
		gs.Bases.Clear()
		score(batter.ID)
	case 3:
		if gs.Bases.Third != "" {
			score(gs.Bases.Third)
		}
		if gs.Bases.Second != "" {
			score(gs.Bases.Second)
		}
		if gs.Bases.First != "" {
			score(gs.Bases.First)
		}
		gs.Bases.Clear()
		gs.Bases.Third = batter.ID
	case 2:
		if gs.Bases.Third != "" {
			score(gs.Bases.Third)
		}
		if gs.Bases.Second != "" {
			score(gs.Bases.Second)
		}
		// Runner on first scores on a double only with speed behind him.
		if r := gs.Bases.First; r != "" {
			if b.rng.Float64() < 0.30+b.speedOf(r)*0.004 {
				score(r)
				gs.Bases.Third = ""
			} else {
				gs.Bases.Third = r
			}
		} else if gs.Bases.Third != "" {
			gs.Bases.Third = ""
		}
		gs.Bases.First = ""
		gs.Bases.Second = batter.ID
	default: // single
		if gs.Bases.Third != "" {
			score(gs.Bases.Third)
			gs.Bases.Third = ""
		}
		if r := gs.Bases.Second; r != "" {
			// Scoring from second depends on the runner and where the ball
			// went; a ball to right gives the extra step.
			p := 0.45 + b.speedOf(r)*0.004
			if ball != nil && ball.Direction > 15 {
				p += 0.10
			}
			if ball != nil && ball.InfieldHitLike() {
				p = 0
			}
			if b.rng.Float64() < p {
				score(r)
			} else {
				gs.Bases.Third = r
			}
			gs.Bases.Second = ""
		}
		if r := gs.Bases.First; r != "" {
			// First to third on a single to right.
			if gs.Bases.Third == "" && ball != nil && ball.Direction > 15 && !ball.InfieldHitLike() &&
				b.rng.Float64() < 0.20+b.speedOf(r)*0.003 {
				gs.Bases.Third = r
			} else {
				gs.Bases.Second = r
			}
		}
		gs.Bases.First = batter.ID
	}
	return scored
}

// AdvanceOnWalk applies force advances only: runners move up exactly when
// pushed by a trailing runner. Returns the scorer on a bases-loaded walk.
func (b *BaserunningResolver) AdvanceOnWalk(gs *models.GameState, batter *models.Player) []models.PlayerID {
	var scored []models.PlayerID
	if gs.Bases.First != "" {
		if gs.Bases.Second != "" {
			if gs.Bases.Third != "" {
				gs.AddRuns(1, gs.Bases.Third)
				scored = append(scored, gs.Bases.Third)
				gs.Bases.Third = ""
			}
			gs.Bases.Third = gs.Bases.Second
		}
		gs.Bases.Second = gs.Bases.First
	}
	gs.Bases.First = batter.ID
	return scored
}

// GroundOutResult is the bookkeeping from a ball fielded on the ground.
type GroundOutResult struct {
	Outs           int
	Scored         []models.PlayerID
	DoublePlay     bool
	FieldersChoice bool // batter reached while a runner was retired
}

// ResolveGroundOut plays out a grounder fielded cleanly. outsBefore is the
// out count when the ball was hit; infieldIn blocks the run-on-contact
// from third.
func (b *BaserunningResolver) ResolveGroundOut(gs *models.GameState, batter *models.Player, fielder *models.Player, outsBefore int, infieldIn bool) GroundOutResult {
	res := GroundOutResult{}

	// Force at second with a runner on first.
	if gs.Bases.First != "" && outsBefore < 2 {
		runnerSpeed := b.speedOf(gs.Bases.First)
		turn := 50.0
		if fielder != nil {
			turn = float64(models.ClampRating(fielder.Ratings.Fielding))
		}
		// Lead runner forced at second.
		gs.Bases.First = ""
		res.Outs++

		pTwo := clampProb(0.42+(turn-runnerSpeed)*0.004, 0.10, 0.75)
		if b.rng.Float64() < pTwo {
			// Turned two: batter out at first as well.
			res.Outs++
			res.DoublePlay = true
		} else {
			gs.Bases.First = batter.ID
			res.FieldersChoice = true
		}
	} else {
		// No force in front: batter retired at first, other runners move up.
		res.Outs++
		if gs.Bases.First != "" && gs.Bases.Second == "" {
			gs.Bases.Second = gs.Bases.First
			gs.Bases.First = ""
		}
	}

	// Runner from third scores on contact unless the infield was pulled in
	// or the grounder erased the inning.
	if gs.Bases.Third != "" && outsBefore+res.Outs < 3 {
		if infieldIn {
			// Cut down at the plate often enough to hold him.
			if b.rng.Float64() < 0.30 {
				gs.AddRuns(1, gs.Bases.Third)
				res.Scored = append(res.Scored, gs.Bases.Third)
				gs.Bases.Third = ""
			}
		} else {
			gs.AddRuns(1, gs.Bases.Third)
			res.Scored = append(res.Scored, gs.Bases.Third)
			gs.Bases.Third = ""
		}
	}

	// Runner on second takes third behind the throw when open.
	if gs.Bases.Second != "" && gs.Bases.Third == "" && outsBefore+res.Outs < 3 && !res.DoublePlay {
		gs.Bases.Third = gs.Bases.Second
		gs.Bases.Second = ""
	}
	return res
}

// ResolveSacFly decides whether the runner on third tags and scores after
// a fly-ball out. The catch itself is already an out owned by the caller.
func (b *BaserunningResolver) ResolveSacFly(gs *models.GameState, ball *BattedBall, outsAfterCatch int) []models.PlayerID {
	if gs.Bases.Third == "" || outsAfterCatch >= 3 {
		return nil
	}
	if ball.Traj == TrajPopup || ball.Distance < 200 {
		return nil
	}
	p := 0.55 + b.speedOf(gs.Bases.Third)*0.004
	if ball.Distance > 300 {
		p += 0.25
	}
	if b.rng.Float64() < p {
		scorer := gs.Bases.Third
		gs.Bases.Third = ""
		gs.AddRuns(1, scorer)
		return []models.PlayerID{scorer}
	}
	return nil
}

// ShouldAttemptSteal is the between-pitch green light: second base open,
// fast runner on first, not down to the last out of a blowout.
func (b *BaserunningResolver) ShouldAttemptSteal(gs *models.GameState) bool {
	if gs.Bases.First == "" || gs.Bases.Second != "" {
		return false
	}
	// No running with two down in a lopsided game.
	if gs.Outs == 2 {
		if diff := gs.BattingDiff(); diff <= -6 || diff >= 6 {
			return false
		}
	}
	speed := b.speedOf(gs.Bases.First)
	if speed < 70 {
		return false
	}
	// Attempt rate scales with speed above the green-light bar.
	return b.rng.Float64() < (speed-70)*0.004
}

// AttemptSteal runs the steal of second. On a caught stealing the out is
// returned to the caller; the resolver only clears the base.
func (b *BaserunningResolver) AttemptSteal(gs *models.GameState, catcher *models.Player) StealResult {
	runner := gs.Bases.First
	res := StealResult{Runner: runner}

	arm := 50.0
	if catcher != nil {
		arm = float64(models.ClampRating(catcher.Ratings.Arm))
	}
	p := clampProb(0.55+(b.speedOf(runner)-arm)*0.004, 0.20, 0.95)

	gs.Bases.First = ""
	if b.rng.Float64() < p {
		gs.Bases.Second = runner
		res.Success = true
	}
	return res
}
