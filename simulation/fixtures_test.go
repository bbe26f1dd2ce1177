package simulation

import (
	"fmt"
	"testing"

	"github.com/baseball-sim/franchise-engine/models"
)

// buildTeam assembles a game-ready franchise with a 9-man lineup and a
// 13-arm pitching staff covering every bullpen role. Deterministic apart
// from generated player ids.
func buildTeam(t *testing.T, name string) *models.Team {
	t.Helper()
	team := models.NewTeam(name, "Test League")

	lineupPositions := []models.Position{
		models.PositionCatcher, models.PositionFirstBase, models.PositionSecondBase,
		models.PositionThirdBase, models.PositionShortstop, models.PositionLeftField,
		models.PositionCenter, models.PositionRightField, models.PositionPitcher,
	}
	for i, pos := range lineupPositions {
		bats := models.RightHanded
		if i%3 == 0 {
			bats = models.LeftHanded
		}
		p := models.NewPlayer(fmt.Sprintf("%s Batter %d", name, i+1), pos, bats, models.RightHanded, models.Ratings{
			Contact: 55 + i, Power: 50 + i, Eye: 50, Trajectory: 45 + i,
			Speed: 55, Arm: 55, Fielding: 60, Clutch: 50, Stamina: 50,
		})
		if err := team.AddPlayer(p, models.TierActive); err != nil {
			t.Fatal(err)
		}
		team.Lineup = append(team.Lineup, p.ID)
	}

	addArm := func(label string, throws models.Hand, ratings models.Ratings) *models.Player {
		p := models.NewPlayer(fmt.Sprintf("%s %s", name, label), models.PositionPitcher, throws, throws, ratings)
		if err := team.AddPlayer(p, models.TierActive); err != nil {
			t.Fatal(err)
		}
		return p
	}

	for i := 0; i < 5; i++ {
		sp := addArm(fmt.Sprintf("Starter %d", i+1), models.RightHanded, models.Ratings{
			Control: 60, Stuff: 60, Movement: 55, Stamina: 80,
		})
		team.Rotation = append(team.Rotation, sp.ID)
	}

	closer := addArm("Closer", models.RightHanded, models.Ratings{Control: 65, Stuff: 85, Movement: 60, Stamina: 35})
	setupA := addArm("Setup A", models.RightHanded, models.Ratings{Control: 60, Stuff: 75, Movement: 55, Stamina: 35})
	setupB := addArm("Setup B", models.LeftHanded, models.Ratings{Control: 58, Stuff: 70, Movement: 55, Stamina: 35})
	team.Closer = closer.ID
	team.SetupA = setupA.ID
	team.SetupB = setupB.ID

	long := addArm("Long Man", models.RightHanded, models.Ratings{Control: 55, Stuff: 55, Movement: 50, Stamina: 75})
	team.LongRelief = append(team.LongRelief, long.ID)

	spec := addArm("Lefty Specialist", models.LeftHanded, models.Ratings{Control: 55, Stuff: 65, Movement: 60, Stamina: 25})
	team.Specialists = append(team.Specialists, spec.ID)

	addArm("Middle 1", models.RightHanded, models.Ratings{Control: 55, Stuff: 60, Movement: 50, Stamina: 45})
	addArm("Middle 2", models.RightHanded, models.Ratings{Control: 52, Stuff: 58, Movement: 50, Stamina: 45})
	addArm("Middle 3", models.LeftHanded, models.Ratings{Control: 50, Stuff: 55, Movement: 50, Stamina: 45})

	return team
}

// buildFarmTeam assembles a franchise whose playable depth is entirely on
// the farm list: nine position players (one doubled-up spot) and four
// arms, no active squad at all.
func buildFarmTeam(t *testing.T, name string) *models.Team {
	t.Helper()
	team := models.NewTeam(name, "Test League")

	positions := []models.Position{
		models.PositionCatcher, models.PositionFirstBase, models.PositionSecondBase,
		models.PositionThirdBase, models.PositionShortstop, models.PositionLeftField,
		models.PositionCenter, models.PositionRightField, models.PositionCenter,
	}
	for i, pos := range positions {
		p := models.NewPlayer(fmt.Sprintf("%s Prospect %d", name, i+1), pos, models.RightHanded, models.RightHanded, models.Ratings{
			Contact: 48 + i, Power: 45 + i, Eye: 45, Trajectory: 45,
			Speed: 50, Arm: 50, Fielding: 52, Clutch: 45, Stamina: 50,
		})
		if err := team.AddPlayer(p, models.TierFarm); err != nil {
			t.Fatal(err)
		}
	}

	for i, stamina := range []int{75, 70, 60, 55} {
		p := models.NewPlayer(fmt.Sprintf("%s Farm Arm %d", name, i+1), models.PositionPitcher, models.RightHanded, models.RightHanded, models.Ratings{
			Control: 55, Stuff: 55, Movement: 50, Stamina: stamina,
		})
		if err := team.AddPlayer(p, models.TierFarm); err != nil {
			t.Fatal(err)
		}
	}
	return team
}

// restedLine returns a fresh empty game line for removal checks.
func restedLine() *models.StatLine {
	return &models.StatLine{}
}

// armByName finds a roster player by display name.
func armByName(t *testing.T, team *models.Team, name string) *models.Player {
	t.Helper()
	for _, p := range team.Players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no player named %q on %s", name, team.Name)
	return nil
}
