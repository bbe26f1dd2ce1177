package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baseball-sim/franchise-engine/models"
)

func testBatter(ratings models.Ratings) *models.Player {
	return models.NewPlayer("Batter", models.PositionCenter, models.RightHanded, models.RightHanded, ratings)
}

func testArm(ratings models.Ratings) *models.Player {
	p := models.NewPlayer("Arm", models.PositionPitcher, models.RightHanded, models.RightHanded, ratings)
	p.StartAppearance()
	return p
}

func neutralSituation() Situation {
	return Situation{Park: models.DefaultParkFactors(), Conditions: models.GameConditions{Temperature: 70, WindDir: "calm"}}
}

// TestResolvePitchDeterminism tests that a fixed seed reproduces the
// pitch sequence exactly.
func TestResolvePitchDeterminism(t *testing.T) {
	batter := testBatter(models.Ratings{Contact: 60, Power: 60, Eye: 55, Trajectory: 50})
	pitcher := testArm(models.Ratings{Control: 60, Stuff: 60, Movement: 55, Stamina: 70})
	sit := neutralSituation()

	run := func(seed int64) []PitchResultType {
		r := NewAtBatResolver(rand.New(rand.NewSource(seed)))
		var seq []PitchResultType
		for i := 0; i < 200; i++ {
			seq = append(seq, r.ResolvePitch(batter, pitcher, sit).Type)
		}
		return seq
	}

	assert.Equal(t, run(42), run(42), "same seed must reproduce every pitch")
}

// TestResolvePitchOutcomeRates tests directional effects of ratings on
// sampled outcome frequencies over a large sample.
func TestResolvePitchOutcomeRates(t *testing.T) {
	const n = 8000
	sit := neutralSituation()

	count := func(pitcher *models.Player, batter *models.Player, want PitchResultType) int {
		r := NewAtBatResolver(rand.New(rand.NewSource(9)))
		c := 0
		for i := 0; i < n; i++ {
			if r.ResolvePitch(batter, pitcher, sit).Type == want {
				c++
			}
		}
		return c
	}

	patientBatter := testBatter(models.Ratings{Contact: 50, Eye: 90, Trajectory: 50})
	freeSwinger := testBatter(models.Ratings{Contact: 50, Eye: 10, Trajectory: 50})
	wild := testArm(models.Ratings{Control: 5, Stuff: 50, Stamina: 70})
	painter := testArm(models.Ratings{Control: 95, Stuff: 50, Stamina: 70})

	assert.Greater(t, count(wild, patientBatter, PitchBall), count(painter, patientBatter, PitchBall),
		"low control should miss the zone more")
	assert.Greater(t, count(wild, patientBatter, PitchBall), count(wild, freeSwinger, PitchBall),
		"a disciplined eye should take more balls")

	power := testArm(models.Ratings{Control: 50, Stuff: 95, Stamina: 70})
	soft := testArm(models.Ratings{Control: 50, Stuff: 5, Stamina: 70})
	assert.Greater(t, count(power, freeSwinger, PitchStrikeSwinging), count(soft, freeSwinger, PitchStrikeSwinging),
		"high stuff should miss more bats")
}

// TestTiredPitcherPenalty tests that a depleted arm loses effectiveness.
func TestTiredPitcherPenalty(t *testing.T) {
	assert.Equal(t, 60.0, effectivePitcherRating(60, 80), "fresh arm keeps its rating")
	assert.Less(t, effectivePitcherRating(60, 10), 60.0, "tired arm is penalized")
	assert.GreaterOrEqual(t, effectivePitcherRating(5, 0), 1.0, "penalty never drops below the rating floor")
}

// TestTrajectorySampling tests the trajectory-rating bias.
func TestTrajectorySampling(t *testing.T) {
	const n = 6000
	sample := func(trajectory int) map[Trajectory]int {
		r := NewAtBatResolver(rand.New(rand.NewSource(11)))
		batter := testBatter(models.Ratings{Trajectory: trajectory})
		out := make(map[Trajectory]int)
		for i := 0; i < n; i++ {
			out[r.sampleTrajectory(batter)]++
		}
		return out
	}

	ground := sample(5)
	air := sample(95)
	assert.Greater(t, ground[TrajGrounder], air[TrajGrounder], "low trajectory rating should hit more grounders")
	assert.Greater(t, air[TrajFly], ground[TrajFly], "high trajectory rating should lift the ball")
}

// TestBattedBallRanges tests generated parameter bounds.
func TestBattedBallRanges(t *testing.T) {
	r := NewAtBatResolver(rand.New(rand.NewSource(3)))
	batter := testBatter(models.Ratings{Contact: 70, Power: 85, Trajectory: 60})
	sit := neutralSituation()

	for i := 0; i < 2000; i++ {
		ball := r.generateBattedBall(batter, sit)
		assert.GreaterOrEqual(t, ball.Direction, -45.0)
		assert.LessOrEqual(t, ball.Direction, 45.0)
		assert.GreaterOrEqual(t, ball.Speed, 20.0)
		assert.LessOrEqual(t, ball.Speed, 118.0)
		assert.Greater(t, ball.Distance, 0.0)
	}
}

// TestCarryConditionsAffectFlyDistance tests that wind out adds carry.
func TestCarryConditionsAffectFlyDistance(t *testing.T) {
	r := NewAtBatResolver(rand.New(rand.NewSource(5)))
	batter := testBatter(models.Ratings{Power: 80})

	ball := &BattedBall{Traj: TrajFly, Speed: 100}
	out := Situation{Park: models.DefaultParkFactors(), Conditions: models.GameConditions{Temperature: 70, WindSpeed: 15, WindDir: "out"}}
	in := Situation{Park: models.DefaultParkFactors(), Conditions: models.GameConditions{Temperature: 70, WindSpeed: 15, WindDir: "in"}}

	assert.Greater(t, r.projectDistance(ball, batter, out), r.projectDistance(ball, batter, in))
}

// TestResolveBunt tests the bunt special case.
func TestResolveBunt(t *testing.T) {
	r := NewAtBatResolver(rand.New(rand.NewSource(2)))
	batter := testBatter(models.Ratings{Contact: 60})
	pitcher := testArm(models.Ratings{Control: 60, Stamina: 70})

	for i := 0; i < 200; i++ {
		res := r.ResolveBunt(batter, pitcher)
		assert.Equal(t, PitchInPlay, res.Type)
		assert.NotNil(t, res.Ball)
		assert.True(t, res.Ball.Bunt)
		assert.Contains(t, []Trajectory{TrajGrounder, TrajPopup}, res.Ball.Traj)
	}
}
