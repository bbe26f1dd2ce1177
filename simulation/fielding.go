package simulation

import (
	"math"
	"math/rand"

	"github.com/baseball-sim/franchise-engine/models"
)

// Shift names a defensive alignment. Each shift applies a documented,
// deterministic coordinate offset to the affected fielders, which is the
// mechanism by which defensive strategy changes reachability.
type Shift string

const (
	ShiftNone            Shift = "none"
	ShiftInfieldIn       Shift = "infield_in"       // infielders 25 ft forward
	ShiftDoublePlay      Shift = "double_play"      // middle infield pinched 12 ft toward 2B, 5 ft in
	ShiftOutfieldShallow Shift = "outfield_shallow" // outfielders 30 ft forward
	ShiftPullLeft        Shift = "pull_left"        // vs RHB: infield+outfield 18 ft toward LF
	ShiftPullRight       Shift = "pull_right"       // vs LHB: infield+outfield 18 ft toward RF
)

// PlayType is the fielding resolver's verdict on a ball in play.
type PlayType string

const (
	PlayOut     PlayType = "out"
	PlayError   PlayType = "error"
	PlaySingle  PlayType = "single"
	PlayDouble  PlayType = "double"
	PlayTriple  PlayType = "triple"
	PlayHomeRun PlayType = "home_run"
)

// FieldingResult credits exactly one fielder per play, or none on a ball
// nobody could field (a home run).
type FieldingResult struct {
	Type       PlayType
	Fielder    *models.Player
	FielderPos models.Position
	InfieldHit bool
	AirBall    bool // caught in the air (sac-fly eligible)
}

// point is a field coordinate in feet: home plate at the origin, +y toward
// center field, +x toward the right-field line.
type point struct {
	x, y float64
}

func (p point) dist(o point) float64 {
	return math.Hypot(p.x-o.x, p.y-o.y)
}

// basePositions are neutral starting coordinates per fielding position.
var basePositions = map[models.Position]point{
	models.PositionPitcher:    {0, 60},
	models.PositionCatcher:    {0, 3},
	models.PositionFirstBase:  {68, 95},
	models.PositionSecondBase: {35, 145},
	models.PositionShortstop:  {-35, 145},
	models.PositionThirdBase:  {-68, 95},
	models.PositionLeftField:  {-127, 250},
	models.PositionCenter:     {0, 315},
	models.PositionRightField: {127, 250},
}

var infieldPositions = map[models.Position]bool{
	models.PositionPitcher:    true,
	models.PositionCatcher:    true,
	models.PositionFirstBase:  true,
	models.PositionSecondBase: true,
	models.PositionShortstop:  true,
	models.PositionThirdBase:  true,
}

// fielderCoord returns a position's starting coordinate under the active
// shift.
func fielderCoord(pos models.Position, shift Shift) point {
	pt := basePositions[pos]
	infield := infieldPositions[pos] && pos != models.PositionPitcher && pos != models.PositionCatcher
	outfield := !infieldPositions[pos]

	switch shift {
	case ShiftInfieldIn:
		if infield {
			pt.y -= 25
		}
	case ShiftDoublePlay:
		if pos == models.PositionSecondBase {
			pt.x -= 12
			pt.y -= 5
		}
		if pos == models.PositionShortstop {
			pt.x += 12
			pt.y -= 5
		}
	case ShiftOutfieldShallow:
		if outfield {
			pt.y -= 30
		}
	case ShiftPullLeft:
		if infield || outfield {
			pt.x -= 18
		}
	case ShiftPullRight:
		if infield || outfield {
			pt.x += 18
		}
	}
	return pt
}

// fenceDistance is the outfield wall distance at a direction: 400 ft to
// straightaway center tapering to 330 down each line.
func fenceDistance(direction float64) float64 {
	frac := math.Abs(direction) / 45.0
	return 400 - 70*frac
}

// landingPoint converts (direction, distance) polar parameters to field
// coordinates.
func landingPoint(ball *BattedBall) point {
	rad := ball.Direction * math.Pi / 180.0
	return point{x: ball.Distance * math.Sin(rad), y: ball.Distance * math.Cos(rad)}
}

// FieldingResolver decides which fielder reaches a ball in play and what
// the play becomes.
type FieldingResolver struct {
	rng *rand.Rand
}

// NewFieldingResolver creates a resolver bound to the given random source.
func NewFieldingResolver(rng *rand.Rand) *FieldingResolver {
	return &FieldingResolver{rng: rng}
}

// Resolve determines the play for a ball in play against the given
// defensive arrangement. Fielders maps each position to the player
// currently stationed there.
func (f *FieldingResolver) Resolve(ball *BattedBall, fielders map[models.Position]*models.Player, shift Shift, batter *models.Player) FieldingResult {
	if ball.Traj == TrajFly && ball.Distance >= fenceDistance(ball.Direction) {
		// Over the wall: nobody is credited.
		return FieldingResult{Type: PlayHomeRun}
	}
	if ball.Traj == TrajGrounder {
		return f.resolveGrounder(ball, fielders, shift, batter)
	}
	return f.resolveAirBall(ball, fielders, shift, batter)
}

// hangTime approximates how long an air ball stays up, which scales the
// ground a fielder can cover.
func hangTime(ball *BattedBall) float64 {
	switch ball.Traj {
	case TrajPopup:
		return 4.2
	case TrajFly:
		return 3.0 + ball.Distance/250.0
	default: // liner
		return 1.3
	}
}

func (f *FieldingResolver) resolveAirBall(ball *BattedBall, fielders map[models.Position]*models.Player, shift Shift, batter *models.Player) FieldingResult {
	landing := landingPoint(ball)

	// Nearest fielder to the landing spot owns the play.
	var nearest *models.Player
	var nearestPos models.Position
	nearestDist := math.MaxFloat64
	for pos, p := range fielders {
		if p == nil {
			continue
		}
		d := fielderCoord(pos, shift).dist(landing)
		if d < nearestDist {
			nearestDist = d
			nearest = p
			nearestPos = pos
		}
	}
	if nearest == nil {
		return FieldingResult{Type: PlaySingle}
	}

	hang := hangTime(ball)
	rangeRating := float64(models.ClampRating(nearest.Ratings.Fielding))
	reach := hang * (6.0 + rangeRating*0.13)

	if nearestDist <= reach {
		// Catch attempt; a muff drops the ball for an error.
		pErr := math.Max(0.003, 0.035-rangeRating*0.0003)
		if f.rng.Float64() < pErr {
			return FieldingResult{Type: PlayError, Fielder: nearest, FielderPos: nearestPos}
		}
		return FieldingResult{Type: PlayOut, Fielder: nearest, FielderPos: nearestPos, AirBall: true}
	}

	// Ball drops. Classify the hit by depth and placement.
	return f.classifyHit(ball, nearest, nearestPos, batter)
}

func (f *FieldingResolver) classifyHit(ball *BattedBall, fielder *models.Player, pos models.Position, batter *models.Player) FieldingResult {
	res := FieldingResult{Type: PlaySingle, Fielder: fielder, FielderPos: pos}
	absDir := math.Abs(ball.Direction)

	offWall := ball.Distance >= fenceDistance(ball.Direction)-35
	gapShot := ball.Traj == TrajLiner && ball.Speed > 92 && absDir > 10 && absDir < 35
	downLine := absDir > 38 && ball.Distance > 220

	if offWall || gapShot || downLine {
		res.Type = PlayDouble
		// Corner shots with real speed stretch into triples.
		speed := float64(models.ClampRating(batter.Ratings.Speed))
		if absDir > 32 && speed > 75 && f.rng.Float64() < (speed-75)*0.012 {
			res.Type = PlayTriple
		}
	}
	return res
}

func (f *FieldingResolver) resolveGrounder(ball *BattedBall, fielders map[models.Position]*models.Player, shift Shift, batter *models.Player) FieldingResult {
	// A grounder travels along its direction ray; each infielder's chance
	// is set by lateral distance from that ray.
	rad := ball.Direction * math.Pi / 180.0
	dirX, dirY := math.Sin(rad), math.Cos(rad)

	var best *models.Player
	var bestPos models.Position
	bestLateral := math.MaxFloat64
	for pos, p := range fielders {
		if p == nil || !infieldPositions[pos] {
			continue
		}
		pt := fielderCoord(pos, shift)
		// Perpendicular distance from the ray through the origin.
		along := pt.x*dirX + pt.y*dirY
		if along < 0 {
			continue
		}
		lateral := math.Abs(pt.x*dirY - pt.y*dirX)
		if lateral < bestLateral {
			bestLateral = lateral
			best = p
			bestPos = pos
		}
	}
	if best == nil {
		return FieldingResult{Type: PlaySingle}
	}

	rangeRating := float64(models.ClampRating(best.Ratings.Fielding))
	reach := 7.0 + rangeRating*0.14
	if ball.Speed > 70 {
		reach -= (ball.Speed - 70) * 0.08 // hot shots get through
	}
	if bestLateral > reach {
		// Through the hole.
		return FieldingResult{Type: PlaySingle, Fielder: best, FielderPos: bestPos}
	}

	pErr := math.Max(0.005, 0.045-rangeRating*0.0003)
	if f.rng.Float64() < pErr {
		return FieldingResult{Type: PlayError, Fielder: best, FielderPos: bestPos}
	}

	// Fielded cleanly; can the batter beat the throw?
	speed := float64(models.ClampRating(batter.Ratings.Speed))
	arm := float64(models.ClampRating(best.Ratings.Arm))
	pInfieldHit := clampProb(0.03+(speed-arm)*0.0018, 0.01, 0.22)
	if ball.Speed < 30 && !ball.Bunt {
		pInfieldHit += 0.10 // swinging-bat slow roller
	}
	if f.rng.Float64() < pInfieldHit {
		return FieldingResult{Type: PlaySingle, Fielder: best, FielderPos: bestPos, InfieldHit: true}
	}
	return FieldingResult{Type: PlayOut, Fielder: best, FielderPos: bestPos}
}
