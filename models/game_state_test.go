package models

import (
	"testing"
)

// TestNewGameState tests the initial state
func TestNewGameState(t *testing.T) {
	gs := NewGameState(9, 12)
	if gs.Inning != 1 || gs.Half != TopHalf || gs.Outs != 0 {
		t.Errorf("initial state = inning %d %s, %d outs; want top 1st, 0 outs", gs.Inning, gs.Half, gs.Outs)
	}
	if gs.HomeScore != 0 || gs.AwayScore != 0 {
		t.Error("game should start scoreless")
	}
	if gs.Bases.Occupied() != 0 {
		t.Error("bases should start empty")
	}
}

// TestAddRunsLogsEveryScore tests that score changes always produce a
// scoring event and hit the correct line-score slot
func TestAddRunsLogsEveryScore(t *testing.T) {
	gs := NewGameState(9, 12)
	scorer := NewPlayerID()

	gs.AddRuns(2, scorer)
	if gs.AwayScore != 2 {
		t.Errorf("AwayScore = %d, want 2 (top half batting)", gs.AwayScore)
	}
	if gs.AwayLine[0] != 2 {
		t.Errorf("AwayLine[0] = %d, want 2", gs.AwayLine[0])
	}
	if len(gs.ScoringLog) != 1 || gs.ScoringLog[0].Runs != 2 || gs.ScoringLog[0].Scorer != scorer {
		t.Error("scoring event missing or wrong")
	}

	// Non-positive amounts are ignored, never logged.
	gs.AddRuns(0, scorer)
	if len(gs.ScoringLog) != 1 {
		t.Error("zero-run event should not be logged")
	}
}

// TestHalfInningFlow tests three-out half transitions and out accounting
func TestHalfInningFlow(t *testing.T) {
	gs := NewGameState(9, 12)
	gs.RecordOuts(3)
	if !gs.IsInningOver() {
		t.Fatal("three outs should end the half")
	}
	if over := gs.CloseHalfInning(false); over {
		t.Fatal("game should not be over in the 1st")
	}
	if gs.Half != BottomHalf || gs.Inning != 1 {
		t.Errorf("state = %s %d, want bottom 1st", gs.Half, gs.Inning)
	}
	if gs.Outs != 0 {
		t.Errorf("outs = %d, want reset to 0", gs.Outs)
	}

	gs.RecordOuts(3)
	gs.CloseHalfInning(false)
	if gs.Half != TopHalf || gs.Inning != 2 {
		t.Errorf("state = %s %d, want top 2nd", gs.Half, gs.Inning)
	}

	for _, h := range gs.HalfLog {
		if h.Outs != 3 {
			t.Errorf("completed half %d %s logged %d outs, want 3", h.Inning, h.Half, h.Outs)
		}
	}
}

// TestWalkOff tests immediate termination when the home team takes the
// lead in the bottom of the final inning
func TestWalkOff(t *testing.T) {
	gs := NewGameState(9, 12)
	gs.Inning = 9
	gs.Half = BottomHalf
	gs.AwayScore = 3
	gs.HomeScore = 3

	if gs.IsWalkOff() {
		t.Fatal("tie is not a walk-off")
	}
	gs.AddRuns(1, NewPlayerID())
	if !gs.IsWalkOff() {
		t.Fatal("go-ahead run in the bottom 9th should walk it off")
	}

	if over := gs.CloseHalfInning(true); !over {
		t.Fatal("walk-off close should end the game")
	}
	if !gs.Complete || !gs.WalkOff {
		t.Error("terminal flags not set")
	}
	last := gs.HalfLog[len(gs.HalfLog)-1]
	if !last.WalkOff {
		t.Error("walk-off half not marked in the log")
	}
	if last.Outs >= 3 {
		t.Errorf("walk-off half logged %d outs, expected fewer than 3", last.Outs)
	}
}

// TestUnneededBottomHalf tests that a decided game skips the bottom of
// the final inning
func TestUnneededBottomHalf(t *testing.T) {
	gs := NewGameState(9, 12)
	gs.Inning = 9
	gs.Half = TopHalf
	gs.HomeScore = 5
	gs.AwayScore = 2

	gs.RecordOuts(3)
	if over := gs.CloseHalfInning(false); !over {
		t.Error("home lead after the top of the 9th should end the game")
	}
	if len(gs.HomeLine) != 9 {
		t.Errorf("HomeLine has %d entries, want 9 covering the unplayed bottom half", len(gs.HomeLine))
	}
}

// TestExtraInningsDraw tests the draw declared at the inning cap
func TestExtraInningsDraw(t *testing.T) {
	gs := NewGameState(9, 12)
	gs.Inning = 12
	gs.Half = BottomHalf
	gs.HomeScore = 4
	gs.AwayScore = 4

	gs.RecordOuts(3)
	if over := gs.CloseHalfInning(false); !over {
		t.Fatal("tied past the cap should be declared over")
	}
	if gs.HomeScore != gs.AwayScore {
		t.Error("draw should leave the score tied")
	}
}

// TestExtraInningsContinue tests that a tie short of the cap plays on
func TestExtraInningsContinue(t *testing.T) {
	gs := NewGameState(9, 12)
	gs.Inning = 9
	gs.Half = BottomHalf
	gs.HomeScore = 2
	gs.AwayScore = 2

	gs.RecordOuts(3)
	if over := gs.CloseHalfInning(false); over {
		t.Fatal("tied after 9 with cap 12 should continue")
	}
	if gs.Inning != 10 || gs.Half != TopHalf {
		t.Errorf("state = %s %d, want top 10th", gs.Half, gs.Inning)
	}
}

// TestLeverage tests that late, close, loaded situations rate higher
func TestLeverage(t *testing.T) {
	calm := NewGameState(9, 12)
	calm.Inning = 2
	calm.HomeScore = 8

	tense := NewGameState(9, 12)
	tense.Inning = 9
	tense.Outs = 2
	tense.HomeScore = 3
	tense.AwayScore = 3
	tense.Bases.First = NewPlayerID()
	tense.Bases.Second = NewPlayerID()

	if tense.Leverage() <= calm.Leverage() {
		t.Errorf("leverage ordering wrong: tense %f <= calm %f", tense.Leverage(), calm.Leverage())
	}
}

// TestBasesHelpers tests occupancy helpers
func TestBasesHelpers(t *testing.T) {
	b := Bases{}
	if b.Occupied() != 0 || b.RunnersInScoring() || b.Loaded() {
		t.Error("empty bases misreported")
	}
	b.First = NewPlayerID()
	b.Second = NewPlayerID()
	b.Third = NewPlayerID()
	if b.Occupied() != 3 || !b.RunnersInScoring() || !b.Loaded() {
		t.Error("loaded bases misreported")
	}
	b.Clear()
	if b.Occupied() != 0 {
		t.Error("Clear left runners on")
	}
}
