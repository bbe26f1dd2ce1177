package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baseball-sim/franchise-engine/models"
)

func testDefense(fielding int) map[models.Position]*models.Player {
	m := make(map[models.Position]*models.Player)
	for pos := range basePositions {
		m[pos] = models.NewPlayer(string(pos), pos, models.RightHanded, models.RightHanded, models.Ratings{
			Fielding: fielding, Arm: 60, Speed: 55,
		})
	}
	return m
}

// TestFenceDistance tests the wall profile from center to the lines.
func TestFenceDistance(t *testing.T) {
	assert.Equal(t, 400.0, fenceDistance(0))
	assert.Equal(t, 330.0, fenceDistance(45))
	assert.Equal(t, 330.0, fenceDistance(-45))
	assert.Greater(t, fenceDistance(10), fenceDistance(30))
}

// TestHomeRunCreditsNobody tests that a ball over the wall names no
// fielder.
func TestHomeRunCreditsNobody(t *testing.T) {
	f := NewFieldingResolver(rand.New(rand.NewSource(1)))
	ball := &BattedBall{Traj: TrajFly, Direction: 0, Speed: 110, Distance: 420}

	res := f.Resolve(ball, testDefense(70), ShiftNone, testBatter(models.Ratings{Speed: 50}))
	assert.Equal(t, PlayHomeRun, res.Type)
	assert.Nil(t, res.Fielder)
}

// TestExactlyOneFielderCredited tests the single-credit invariant on
// every non-homer play.
func TestExactlyOneFielderCredited(t *testing.T) {
	f := NewFieldingResolver(rand.New(rand.NewSource(2)))
	r := rand.New(rand.NewSource(3))
	defense := testDefense(65)
	batter := testBatter(models.Ratings{Speed: 60})

	for i := 0; i < 500; i++ {
		ball := &BattedBall{
			Traj:      []Trajectory{TrajGrounder, TrajLiner, TrajFly, TrajPopup}[r.Intn(4)],
			Direction: r.Float64()*90 - 45,
			Speed:     30 + r.Float64()*80,
		}
		ball.Distance = 40 + ball.Speed*2
		res := f.Resolve(ball, defense, ShiftNone, batter)
		if res.Type == PlayHomeRun {
			assert.Nil(t, res.Fielder)
			continue
		}
		assert.NotNil(t, res.Fielder, "play %d: someone must be credited", i)
	}
}

// TestRoutinePopupCaught tests that a popup near an infielder is an out
// for a competent defense.
func TestRoutinePopupCaught(t *testing.T) {
	f := NewFieldingResolver(rand.New(rand.NewSource(4)))
	defense := testDefense(90)
	batter := testBatter(models.Ratings{Speed: 50})
	ball := &BattedBall{Traj: TrajPopup, Direction: -20, Speed: 40, Distance: 130}

	outs := 0
	for i := 0; i < 200; i++ {
		if f.Resolve(ball, defense, ShiftNone, batter).Type == PlayOut {
			outs++
		}
	}
	assert.Greater(t, outs, 180, "routine popups should almost always be caught")
}

// TestGapLinerFalls tests that a hard liner in the gap drops against a
// weak defense far more than a routine ball would.
func TestGapLinerFalls(t *testing.T) {
	f := NewFieldingResolver(rand.New(rand.NewSource(5)))
	defense := testDefense(20)
	batter := testBatter(models.Ratings{Speed: 60})
	ball := &BattedBall{Traj: TrajLiner, Direction: 22, Speed: 105, Distance: 240}

	hits := 0
	for i := 0; i < 200; i++ {
		res := f.Resolve(ball, defense, ShiftNone, batter)
		if res.Type == PlaySingle || res.Type == PlayDouble || res.Type == PlayTriple {
			hits++
		}
	}
	assert.Greater(t, hits, 150, "gap liners should mostly fall against poor range")
}

// TestShiftOffsets tests the documented deterministic coordinate changes.
func TestShiftOffsets(t *testing.T) {
	base := fielderCoord(models.PositionShortstop, ShiftNone)

	in := fielderCoord(models.PositionShortstop, ShiftInfieldIn)
	assert.Equal(t, base.y-25, in.y, "infield-in pulls infielders 25 ft forward")
	assert.Equal(t, base.x, in.x)

	dp := fielderCoord(models.PositionShortstop, ShiftDoublePlay)
	assert.Equal(t, base.x+12, dp.x, "double-play alignment pinches the shortstop toward second")

	of := fielderCoord(models.PositionCenter, ShiftOutfieldShallow)
	assert.Equal(t, basePositions[models.PositionCenter].y-30, of.y)

	pullL := fielderCoord(models.PositionLeftField, ShiftPullLeft)
	assert.Equal(t, basePositions[models.PositionLeftField].x-18, pullL.x)

	// Battery never moves with the infield.
	assert.Equal(t, basePositions[models.PositionPitcher], fielderCoord(models.PositionPitcher, ShiftInfieldIn))
	assert.Equal(t, basePositions[models.PositionCatcher], fielderCoord(models.PositionCatcher, ShiftInfieldIn))
}

// TestInfieldHitChance tests that batter speed beats a weak arm more
// often on fielded grounders.
func TestInfieldHitChance(t *testing.T) {
	defense := testDefense(70)
	for _, p := range defense {
		p.Ratings.Arm = 20
	}
	burner := testBatter(models.Ratings{Speed: 95})
	plodder := testBatter(models.Ratings{Speed: 10})
	// Straight at the first baseman.
	ball := &BattedBall{Traj: TrajGrounder, Direction: 35, Speed: 55, Distance: 100}

	countInfieldHits := func(batter *models.Player) int {
		f := NewFieldingResolver(rand.New(rand.NewSource(6)))
		c := 0
		for i := 0; i < 1000; i++ {
			res := f.Resolve(ball, defense, ShiftNone, batter)
			if res.Type == PlaySingle && res.InfieldHit {
				c++
			}
		}
		return c
	}

	assert.Greater(t, countInfieldHits(burner), countInfieldHits(plodder))
}

// TestLandingPoint tests polar-to-field conversion.
func TestLandingPoint(t *testing.T) {
	center := landingPoint(&BattedBall{Direction: 0, Distance: 300})
	assert.InDelta(t, 0, center.x, 0.001)
	assert.InDelta(t, 300, center.y, 0.001)

	right := landingPoint(&BattedBall{Direction: 45, Distance: 100})
	assert.Greater(t, right.x, 0.0)
	left := landingPoint(&BattedBall{Direction: -45, Distance: 100})
	assert.Less(t, left.x, 0.0)
}
