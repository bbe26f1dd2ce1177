package models

// Half identifies which side of the inning is batting.
type Half string

const (
	TopHalf    Half = "top"
	BottomHalf Half = "bottom"
)

// Bases tracks occupancy by PlayerID; empty string means the base is open.
type Bases struct {
	First  PlayerID `json:"first,omitempty"`
	Second PlayerID `json:"second,omitempty"`
	Third  PlayerID `json:"third,omitempty"`
}

// Occupied counts runners on base.
func (b *Bases) Occupied() int {
	n := 0
	if b.First != "" {
		n++
	}
	if b.Second != "" {
		n++
	}
	if b.Third != "" {
		n++
	}
	return n
}

// RunnersInScoring reports a runner on second or third.
func (b *Bases) RunnersInScoring() bool {
	return b.Second != "" || b.Third != ""
}

// Loaded reports bases loaded.
func (b *Bases) Loaded() bool {
	return b.First != "" && b.Second != "" && b.Third != ""
}

// Clear empties all bases.
func (b *Bases) Clear() {
	b.First = ""
	b.Second = ""
	b.Third = ""
}

// ScoringEvent is one run-scoring play in the game log. Tests and the
// score-monotonicity property rely on every score change having an entry.
type ScoringEvent struct {
	Inning int      `json:"inning"`
	Half   Half     `json:"half"`
	Runs   int      `json:"runs"`
	Scorer PlayerID `json:"scorer"`
}

// HalfInningLog records the out and run totals of a completed half-inning.
// Every completed half holds exactly three outs; a walk-off half may hold
// fewer.
type HalfInningLog struct {
	Inning  int  `json:"inning"`
	Half    Half `json:"half"`
	Outs    int  `json:"outs"`
	Runs    int  `json:"runs"`
	WalkOff bool `json:"walk_off"`
}

// GameState is the ephemeral state of one live game. Created at first
// pitch, mutated every pitch and play, finalized into stat deltas at game
// over.
type GameState struct {
	Inning int  `json:"inning"`
	Half   Half `json:"half"`
	Outs   int  `json:"outs"`

	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`

	Bases Bases `json:"bases"`

	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`

	HomeLine []int `json:"home_line"` // per-inning runs
	AwayLine []int `json:"away_line"`

	HomeHits   int `json:"home_hits"`
	AwayHits   int `json:"away_hits"`
	HomeErrors int `json:"home_errors"`
	AwayErrors int `json:"away_errors"`

	// Per-player game stat accumulators keyed by stable PlayerID.
	Stats map[PlayerID]*StatLine `json:"stats"`

	HomePitchersUsed []PlayerID `json:"home_pitchers_used"`
	AwayPitchersUsed []PlayerID `json:"away_pitchers_used"`

	ScoringLog []ScoringEvent  `json:"scoring_log"`
	HalfLog    []HalfInningLog `json:"half_log"`

	Regulation int `json:"regulation"`  // scheduled innings, normally 9
	MaxInnings int `json:"max_innings"` // draw declared past this

	Complete bool `json:"complete"`
	WalkOff  bool `json:"walk_off"`

	halfRuns int // runs scored so far in the current half
	halfOuts int // outs recorded so far in the current half
}

// NewGameState starts a game in the top of the 1st, no outs, scoreless,
// bases empty.
func NewGameState(regulation, maxInnings int) *GameState {
	if regulation <= 0 {
		regulation = 9
	}
	if maxInnings < regulation {
		maxInnings = regulation + 3
	}
	return &GameState{
		Inning:     1,
		Half:       TopHalf,
		Regulation: regulation,
		MaxInnings: maxInnings,
		HomeLine:   []int{0},
		AwayLine:   []int{0},
		Stats:      make(map[PlayerID]*StatLine),
	}
}

// StatsFor returns the game stat line for a player, creating it on first
// touch. Callers mutate the returned line directly.
func (gs *GameState) StatsFor(id PlayerID) *StatLine {
	if line, ok := gs.Stats[id]; ok {
		return line
	}
	line := &StatLine{}
	gs.Stats[id] = line
	return line
}

// AddRuns credits runs to the batting side and the current line-score slot,
// and logs the scoring event.
func (gs *GameState) AddRuns(runs int, scorer PlayerID) {
	if runs <= 0 {
		return
	}
	if gs.Half == TopHalf {
		gs.AwayScore += runs
		gs.AwayLine[len(gs.AwayLine)-1] += runs
	} else {
		gs.HomeScore += runs
		gs.HomeLine[len(gs.HomeLine)-1] += runs
	}
	gs.halfRuns += runs
	gs.ScoringLog = append(gs.ScoringLog, ScoringEvent{
		Inning: gs.Inning,
		Half:   gs.Half,
		Runs:   runs,
		Scorer: scorer,
	})
}

// RecordOuts adds outs from any play type. All outs flow through here so
// the half-inning accounting invariant holds.
func (gs *GameState) RecordOuts(n int) {
	gs.Outs += n
	gs.halfOuts += n
}

// IsInningOver reports three outs in the current half.
func (gs *GameState) IsInningOver() bool {
	return gs.Outs >= 3
}

// BattingDiff is the score differential from the batting side's
// perspective.
func (gs *GameState) BattingDiff() int {
	if gs.Half == TopHalf {
		return gs.AwayScore - gs.HomeScore
	}
	return gs.HomeScore - gs.AwayScore
}

// IsWalkOff reports the home team leading during the bottom of the final
// (or an extra) inning; the game ends immediately without finishing the
// half.
func (gs *GameState) IsWalkOff() bool {
	return gs.Half == BottomHalf &&
		gs.Inning >= gs.Regulation &&
		gs.HomeScore > gs.AwayScore
}

// IsGameOver applies the terminal checks: decided after regulation, decided
// in extras, walk-off, or the extra-inning cap exhausted (draw).
func (gs *GameState) IsGameOver() bool {
	if gs.Complete {
		return true
	}
	if gs.IsWalkOff() {
		return true
	}
	// Home team leading going into the bottom of the final inning: the
	// bottom half is not needed.
	if gs.Half == BottomHalf && gs.Inning >= gs.Regulation &&
		gs.Outs == 0 && gs.halfOuts == 0 && gs.Bases.Occupied() == 0 &&
		gs.HomeScore > gs.AwayScore {
		return true
	}
	return false
}

// CloseHalfInning logs the completed (or walked-off) half, resets the
// count and bases, and either flips to the bottom or advances the inning.
// Returns true when the game is over.
func (gs *GameState) CloseHalfInning(walkOff bool) bool {
	gs.HalfLog = append(gs.HalfLog, HalfInningLog{
		Inning:  gs.Inning,
		Half:    gs.Half,
		Outs:    gs.halfOuts,
		Runs:    gs.halfRuns,
		WalkOff: walkOff,
	})
	gs.Outs = 0
	gs.halfOuts = 0
	gs.halfRuns = 0
	gs.Balls = 0
	gs.Strikes = 0
	gs.Bases.Clear()

	if walkOff {
		gs.Complete = true
		gs.WalkOff = true
		return true
	}

	if gs.Half == TopHalf {
		// Decided game where the bottom half is unnecessary. The home line
		// still gets a slot for the unplayed half so both line scores cover
		// every scheduled inning.
		if gs.Inning >= gs.Regulation && gs.HomeScore > gs.AwayScore {
			gs.HomeLine = padLine(gs.HomeLine, gs.Inning)
			gs.Complete = true
			return true
		}
		gs.Half = BottomHalf
		gs.HomeLine = padLine(gs.HomeLine, gs.Inning)
		return false
	}

	// Bottom half just ended.
	if gs.Inning >= gs.Regulation && gs.HomeScore != gs.AwayScore {
		gs.Complete = true
		return true
	}
	if gs.Inning >= gs.MaxInnings {
		// Extra innings exhausted: draw.
		gs.Complete = true
		return true
	}
	gs.Half = TopHalf
	gs.Inning++
	gs.AwayLine = padLine(gs.AwayLine, gs.Inning)
	return false
}

func padLine(line []int, inning int) []int {
	for len(line) < inning {
		line = append(line, 0)
	}
	return line
}

// Leverage is a simplified leverage index: late innings, tight scores,
// runners, and two-out situations all raise it.
func (gs *GameState) Leverage() float64 {
	lev := 1.0
	if gs.Inning >= 7 {
		lev += float64(gs.Inning-6) * 0.3
	}
	diff := gs.HomeScore - gs.AwayScore
	if diff < 0 {
		diff = -diff
	}
	if diff <= 3 {
		lev += (4 - float64(diff)) * 0.2
	}
	lev += float64(gs.Bases.Occupied()) * 0.1
	if gs.Outs == 2 {
		lev += 0.3
	}
	if gs.Inning >= 9 {
		lev += 0.5
	}
	return lev
}
