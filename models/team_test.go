package models

import (
	"fmt"
	"testing"
)

func testPitcher(name string, ratings Ratings) *Player {
	return NewPlayer(name, PositionPitcher, RightHanded, RightHanded, ratings)
}

// TestAddPlayerRosterCap tests active roster cap enforcement
func TestAddPlayerRosterCap(t *testing.T) {
	team := NewTeam("Capped", "East")
	for i := 0; i < ActiveRosterCap; i++ {
		p := testPitcher(fmt.Sprintf("Player %d", i), Ratings{Stamina: 50})
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatalf("AddPlayer %d failed: %v", i, err)
		}
	}

	extra := testPitcher("One Too Many", Ratings{Stamina: 50})
	if err := team.AddPlayer(extra, TierActive); err == nil {
		t.Error("expected error adding past the active roster cap")
	}
	if err := team.AddPlayer(extra, TierFarm); err != nil {
		t.Errorf("farm tier should accept the player: %v", err)
	}
}

// TestMoveToTier tests that tier membership stays a partition
func TestMoveToTier(t *testing.T) {
	team := NewTeam("Movers", "West")
	p := testPitcher("Prospect", Ratings{Stamina: 60})
	if err := team.AddPlayer(p, TierFarm); err != nil {
		t.Fatal(err)
	}

	if err := team.MoveToTier(p.ID, TierActive); err != nil {
		t.Fatalf("MoveToTier failed: %v", err)
	}
	if len(team.Farm) != 0 {
		t.Errorf("Farm still holds %d ids after promotion", len(team.Farm))
	}
	if len(team.Active) != 1 || team.Active[0] != p.ID {
		t.Error("Active tier does not hold the promoted player")
	}
	if team.Player(p.ID) == nil {
		t.Error("player lost from franchise map during move")
	}
}

// TestNextStarterRotation tests cursor advance and wraparound
func TestNextStarterRotation(t *testing.T) {
	team := NewTeam("Rotators", "East")
	var ids []PlayerID
	for i := 0; i < 3; i++ {
		p := testPitcher(fmt.Sprintf("Starter %d", i), Ratings{Stamina: 80})
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}
	team.Rotation = ids

	for round := 0; round < 2; round++ {
		for i := 0; i < 3; i++ {
			got := team.NextStarter()
			if got == nil || got.ID != ids[i] {
				t.Fatalf("round %d slot %d: wrong starter", round, i)
			}
		}
	}
}

// TestNextStarterSkipsStaleIDs tests that dangling rotation ids are
// skipped, not fatal
func TestNextStarterSkipsStaleIDs(t *testing.T) {
	team := NewTeam("Stale", "West")
	p := testPitcher("Real Arm", Ratings{Stamina: 70})
	if err := team.AddPlayer(p, TierActive); err != nil {
		t.Fatal(err)
	}
	team.Rotation = []PlayerID{PlayerID("missing-id"), p.ID}

	got := team.NextStarter()
	if got == nil || got.ID != p.ID {
		t.Error("expected the resolvable rotation entry")
	}
}

// TestRoleOf tests explicit assignment precedence and the fallback
// heuristic
func TestRoleOf(t *testing.T) {
	team := NewTeam("Roles", "East")

	starter := testPitcher("Ace", Ratings{Stamina: 90})
	closer := testPitcher("Ninth Inning", Ratings{Stuff: 90, Stamina: 30})
	lefty := NewPlayer("Matchup Lefty", PositionPitcher, LeftHanded, LeftHanded, Ratings{Stuff: 70, Stamina: 30})
	horse := testPitcher("Innings Eater", Ratings{Stamina: 80})
	generic := testPitcher("Generic Arm", Ratings{Stuff: 50, Stamina: 50})

	for _, p := range []*Player{starter, closer, lefty, horse, generic} {
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatal(err)
		}
	}
	team.Rotation = []PlayerID{starter.ID}
	team.Closer = closer.ID

	tests := []struct {
		name   string
		player *Player
		want   PitcherRole
	}{
		{"explicit rotation wins", starter, RoleStarter},
		{"explicit closer wins", closer, RoleCloser},
		{"lefty heuristic", lefty, RoleSpecialist},
		{"high stamina heuristic", horse, RoleLong},
		{"default middle", generic, RoleMiddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := team.RoleOf(tt.player); got != tt.want {
				t.Errorf("RoleOf(%s) = %s, want %s", tt.player.Name, got, tt.want)
			}
		})
	}
}

// TestRelieversExcludesRotation tests bullpen listing
func TestRelieversExcludesRotation(t *testing.T) {
	team := NewTeam("Bullpen", "West")
	starter := testPitcher("Starter", Ratings{Stamina: 85})
	relief := testPitcher("Reliever", Ratings{Stamina: 40})
	batter := NewPlayer("Position Guy", PositionFirstBase, RightHanded, RightHanded, Ratings{Contact: 70})
	for _, p := range []*Player{starter, relief, batter} {
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatal(err)
		}
	}
	team.Rotation = []PlayerID{starter.ID}

	pen := team.Relievers()
	if len(pen) != 1 || pen[0].ID != relief.ID {
		t.Errorf("Relievers() returned %d arms, want only the non-rotation pitcher", len(pen))
	}
}

// TestTierSquads tests per-tier bullpens and the generated farm lineup
func TestTierSquads(t *testing.T) {
	team := NewTeam("Tiered", "East")

	starter := testPitcher("Ace", Ratings{Stamina: 85})
	relief := testPitcher("Active Arm", Ratings{Stamina: 40})
	for _, p := range []*Player{starter, relief} {
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatal(err)
		}
	}
	team.Rotation = []PlayerID{starter.ID}

	farmB := testPitcher("Farm Arm B", Ratings{Stamina: 60})
	farmA := testPitcher("Farm Arm A", Ratings{Stamina: 55})
	for _, p := range []*Player{farmB, farmA} {
		if err := team.AddPlayer(p, TierFarm); err != nil {
			t.Fatal(err)
		}
	}

	pen := team.RelieversIn(TierFarm)
	if len(pen) != 2 || pen[0].ID != farmA.ID || pen[1].ID != farmB.ID {
		t.Error("farm bullpen should hold both farm arms, name-ordered")
	}
	if active := team.Relievers(); len(active) != 1 || active[0].ID != relief.ID {
		t.Error("active bullpen should not see farm arms")
	}

	positions := []Position{PositionCatcher, PositionFirstBase, PositionSecondBase,
		PositionThirdBase, PositionShortstop, PositionLeftField, PositionCenter,
		PositionRightField}
	for i, pos := range positions {
		p := NewPlayer(fmt.Sprintf("Farm Fielder %d", i), pos, RightHanded, RightHanded, Ratings{Contact: 50, Fielding: 50})
		if err := team.AddPlayer(p, TierFarm); err != nil {
			t.Fatal(err)
		}
	}
	star := NewPlayer("Farm Star", PositionCenter, RightHanded, RightHanded,
		Ratings{Contact: 90, Power: 80, Eye: 70, Speed: 70, Fielding: 70})
	if err := team.AddPlayer(star, TierFarm); err != nil {
		t.Fatal(err)
	}

	nine := team.LineupFor(TierFarm)
	if len(nine) != 9 {
		t.Fatalf("farm lineup has %d slots, want 9", len(nine))
	}
	if nine[0].ID != star.ID {
		t.Error("best overall bat should take the first slot")
	}
	covered := make(map[Position]bool)
	for _, p := range nine {
		if p.IsPitcher() {
			t.Errorf("%s is a pitcher batting in a generated lineup", p.Name)
		}
		covered[p.Position] = true
	}
	for _, pos := range positions {
		if !covered[pos] {
			t.Errorf("farm lineup leaves %s uncovered", pos)
		}
	}
}

// TestValidateGameReady tests configuration gap detection
func TestValidateGameReady(t *testing.T) {
	team := NewTeam("Incomplete", "East")
	if err := team.ValidateGameReady(); err == nil {
		t.Error("empty team should not be game-ready")
	}

	positions := []Position{PositionCatcher, PositionFirstBase, PositionSecondBase,
		PositionThirdBase, PositionShortstop, PositionLeftField, PositionCenter,
		PositionRightField, PositionPitcher}
	for i, pos := range positions {
		p := NewPlayer(fmt.Sprintf("Fielder %d", i), pos, RightHanded, RightHanded, Ratings{Contact: 50, Fielding: 50})
		if err := team.AddPlayer(p, TierActive); err != nil {
			t.Fatal(err)
		}
		team.Lineup = append(team.Lineup, p.ID)
	}
	if err := team.ValidateGameReady(); err == nil {
		t.Error("team without a rotation should not be game-ready")
	}

	ace := testPitcher("Ace", Ratings{Stamina: 80})
	if err := team.AddPlayer(ace, TierActive); err != nil {
		t.Fatal(err)
	}
	team.Rotation = []PlayerID{ace.ID}
	if err := team.ValidateGameReady(); err != nil {
		t.Errorf("complete team reported not ready: %v", err)
	}
}
