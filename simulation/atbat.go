package simulation

import (
	"math"
	"math/rand"

	"github.com/baseball-sim/franchise-engine/models"
)

// Trajectory classifies a ball in play for the fielding resolver.
type Trajectory string

const (
	TrajGrounder Trajectory = "grounder"
	TrajLiner    Trajectory = "liner"
	TrajFly      Trajectory = "fly"
	TrajPopup    Trajectory = "popup"
)

// BattedBall carries the parameters handed to the fielding resolver.
// Direction is in degrees from straightaway center: negative toward the
// left-field line (-45), positive toward the right-field line (+45).
type BattedBall struct {
	Traj      Trajectory `json:"traj"`
	Direction float64    `json:"direction"`
	Speed     float64    `json:"speed"`    // exit velocity, mph
	Distance  float64    `json:"distance"` // projected carry, feet
	Bunt      bool       `json:"bunt"`
}

// InfieldHitLike reports a ball that never left the infield; trailing
// runners cannot take an extra base on it.
func (b *BattedBall) InfieldHitLike() bool {
	return b.Traj == TrajGrounder && (b.Bunt || b.Distance < 110)
}

// PitchResultType is the outcome of a single pitch.
type PitchResultType string

const (
	PitchBall           PitchResultType = "ball"
	PitchStrikeCalled   PitchResultType = "called_strike"
	PitchStrikeSwinging PitchResultType = "swinging_strike"
	PitchFoul           PitchResultType = "foul"
	PitchInPlay         PitchResultType = "in_play"
	PitchHitByPitch     PitchResultType = "hit_by_pitch"
)

// PitchResult is one pitch's outcome; Ball is set only for in-play results.
type PitchResult struct {
	Type PitchResultType
	Ball *BattedBall
}

// Situation is the at-bat context threaded into each pitch resolution.
// Pure value object; the resolver never touches game state directly.
type Situation struct {
	Balls      int
	Strikes    int
	Leverage   float64
	RunnersOn  bool
	Park       models.ParkFactors
	Conditions models.GameConditions
}

// AtBatResolver samples pitch outcomes from rating-derived probabilities.
// All randomness flows through the injected RNG, so a seeded source
// reproduces every pitch exactly.
type AtBatResolver struct {
	rng *rand.Rand
}

// NewAtBatResolver creates a resolver bound to the given random source.
func NewAtBatResolver(rng *rand.Rand) *AtBatResolver {
	return &AtBatResolver{rng: rng}
}

// effectiveRating clamps a rating and applies the tired-pitcher penalty:
// a depleted arm loses up to 15 points of stuff and control.
func effectivePitcherRating(rating int, stamina float64) float64 {
	r := float64(models.ClampRating(rating))
	if stamina < 25 {
		r -= (25 - stamina) * 0.6
		if r < 1 {
			r = 1
		}
	}
	return r
}

func clampProb(p, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, p))
}

// ResolvePitch simulates one pitch of the at-bat. The caller owns the
// count, stamina decrement, and at-bat termination rules.
func (r *AtBatResolver) ResolvePitch(batter, pitcher *models.Player, sit Situation) PitchResult {
	control := effectivePitcherRating(pitcher.Ratings.Control, pitcher.CurrentStamina)
	stuff := effectivePitcherRating(pitcher.Ratings.Stuff, pitcher.CurrentStamina)
	movement := float64(models.ClampRating(pitcher.Ratings.Movement))
	contact := float64(models.ClampRating(batter.Ratings.Contact))
	eye := float64(models.ClampRating(batter.Ratings.Eye))

	// Count-aware zone targeting: behind in the count the pitcher fills the
	// zone; ahead with two strikes he wastes pitches off the plate.
	countAdj := 0.0
	if sit.Balls > sit.Strikes {
		countAdj = 0.05 + float64(sit.Balls-sit.Strikes)*0.02
	} else if sit.Strikes == 2 && sit.Balls < 2 {
		countAdj = -0.08
	}
	pZone := clampProb(0.38+control*0.0038+countAdj, 0.25, 0.80)

	inZone := r.rng.Float64() < pZone

	if !inZone {
		// Occasional plunking on misses in.
		if r.rng.Float64() < 0.008 {
			return PitchResult{Type: PitchHitByPitch}
		}
		// Chase rate falls with plate discipline, rises protecting two
		// strikes.
		pChase := clampProb(0.36-eye*0.0025+movement*0.0012, 0.05, 0.55)
		if sit.Strikes == 2 {
			pChase += 0.12
		}
		if r.rng.Float64() >= pChase {
			return PitchResult{Type: PitchBall}
		}
		return r.resolveSwing(batter, pitcher, sit, contact-12, stuff)
	}

	// Swing decision on a strike: nearly automatic with two strikes.
	pSwing := 0.62
	if sit.Strikes == 2 {
		pSwing = 0.88
	} else if sit.Balls == 3 {
		pSwing = 0.45 // taking on 3-0 / 3-1
	}
	if r.rng.Float64() >= pSwing {
		return PitchResult{Type: PitchStrikeCalled}
	}
	return r.resolveSwing(batter, pitcher, sit, contact, stuff)
}

// resolveSwing settles a swing into whiff, foul, or ball in play.
func (r *AtBatResolver) resolveSwing(batter, pitcher *models.Player, sit Situation, contact, stuff float64) PitchResult {
	pContact := 0.58 + contact*0.0042 - stuff*0.0034

	// Platoon: same-handedness matchup favors the pitcher.
	if batter.Bats == pitcher.Throws {
		pContact -= 0.035
	} else {
		pContact += 0.025
	}

	// Clutch modifier in high leverage spots.
	if sit.Leverage > 1.8 {
		pContact += (float64(models.ClampRating(batter.Ratings.Clutch)) - 50) * 0.0006
	}

	pContact = clampProb(pContact, 0.35, 0.95)
	if r.rng.Float64() >= pContact {
		return PitchResult{Type: PitchStrikeSwinging}
	}
	if r.rng.Float64() < 0.44 {
		return PitchResult{Type: PitchFoul}
	}
	return PitchResult{Type: PitchInPlay, Ball: r.generateBattedBall(batter, sit)}
}

// generateBattedBall samples the trajectory class, direction, exit speed,
// and projected carry for a ball put in play.
func (r *AtBatResolver) generateBattedBall(batter *models.Player, sit Situation) *BattedBall {
	traj := r.sampleTrajectory(batter)

	power := float64(models.ClampRating(batter.Ratings.Power))
	speed := 52 + power*0.48 + r.rng.NormFloat64()*12
	speed = clampProb(speed, 20, 118)

	// Pull bias by handedness.
	pull := -12.0
	if batter.Bats == models.LeftHanded {
		pull = 12.0
	}
	dir := r.rng.NormFloat64()*16 + pull
	dir = clampProb(dir, -45, 45)

	ball := &BattedBall{Traj: traj, Direction: dir, Speed: speed}
	ball.Distance = r.projectDistance(ball, batter, sit)
	return ball
}

func (r *AtBatResolver) sampleTrajectory(batter *models.Player) Trajectory {
	t := float64(models.ClampRating(batter.Ratings.Trajectory))
	wGround := 0.50 - t*0.0030
	wFly := 0.18 + t*0.0030
	wLiner := 0.24
	wPopup := 0.08

	roll := r.rng.Float64() * (wGround + wFly + wLiner + wPopup)
	switch {
	case roll < wGround:
		return TrajGrounder
	case roll < wGround+wLiner:
		return TrajLiner
	case roll < wGround+wLiner+wFly:
		return TrajFly
	default:
		return TrajPopup
	}
}

// projectDistance converts exit speed and trajectory into carry, applying
// the day's conditions and the park's home-run factor to air balls. Whether
// the ball actually clears the fence is the fielding resolver's call.
func (r *AtBatResolver) projectDistance(ball *BattedBall, batter *models.Player, sit Situation) float64 {
	switch ball.Traj {
	case TrajFly:
		carry := sit.Conditions.CarryFactor()
		park := 0.92 + 0.08*sit.Park.HRMultiplier(batter.Bats)
		return ball.Speed * 3.35 * carry * park
	case TrajLiner:
		return ball.Speed * 2.3
	case TrajPopup:
		return 70 + ball.Speed*0.7
	default:
		return 40 + ball.Speed*1.1
	}
}

// ResolveBunt special-cases a sacrifice/squeeze attempt: no probability
// ladder, just a placement roll. A poor bunt pops up.
func (r *AtBatResolver) ResolveBunt(batter, pitcher *models.Player) PitchResult {
	skill := float64(models.ClampRating(batter.Ratings.Contact))
	if r.rng.Float64() < 0.08-skill*0.0004 {
		return PitchResult{Type: PitchInPlay, Ball: &BattedBall{
			Traj: TrajPopup, Direction: 0, Speed: 25, Distance: 40, Bunt: true,
		}}
	}
	// Placed toward either corner.
	dir := -30.0
	if r.rng.Float64() < 0.5 {
		dir = 30.0
	}
	return PitchResult{Type: PitchInPlay, Ball: &BattedBall{
		Traj: TrajGrounder, Direction: dir, Speed: 18 + r.rng.Float64()*10, Distance: 60, Bunt: true,
	}}
}
