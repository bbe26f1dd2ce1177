package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/baseball-sim/franchise-engine/models"
)

// Decision is the pitching decision for a completed game. Any reference
// may be nil (a drawn game has no winner or loser; most games have no
// save).
type Decision struct {
	Win  *models.Player `json:"win,omitempty"`
	Loss *models.Player `json:"loss,omitempty"`
	Save *models.Player `json:"save,omitempty"`
}

// HomeRunEvent is one home run with the hitter's running season total.
type HomeRunEvent struct {
	Player      *models.Player `json:"player"`
	SeasonTotal int            `json:"season_total"`
	Team        string         `json:"team"`
}

// GameResult is the finalized outcome handed to external consumers.
type GameResult struct {
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`

	HomeScore int   `json:"home_score"`
	AwayScore int   `json:"away_score"`
	HomeLine  []int `json:"home_line"`
	AwayLine  []int `json:"away_line"`

	HomeHits   int `json:"home_hits"`
	AwayHits   int `json:"away_hits"`
	HomeErrors int `json:"home_errors"`
	AwayErrors int `json:"away_errors"`

	Winner  string `json:"winner"` // empty on a draw
	Draw    bool   `json:"draw"`
	WalkOff bool   `json:"walk_off"`

	Decision Decision       `json:"decision"`
	HomeRuns []HomeRunEvent `json:"home_runs"`

	// Per-player game lines keyed by stable PlayerID.
	GameStats map[models.PlayerID]*models.StatLine `json:"game_stats"`
}

// EngineOption configures a LiveGameEngine at construction.
type EngineOption func(*LiveGameEngine)

// WithSeed fixes the random source; the same seed and rosters reproduce
// the game bit for bit.
func WithSeed(seed int64) EngineOption {
	return func(e *LiveGameEngine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithPolicy overrides the default pitching policy table.
func WithPolicy(p PitchingPolicy) EngineOption {
	return func(e *LiveGameEngine) { e.policy = p }
}

// WithGameType selects regular or exhibition substitution doctrine.
func WithGameType(gt GameType) EngineOption {
	return func(e *LiveGameEngine) { e.gameType = gt }
}

// WithPark sets the home park's factors.
func WithPark(pf models.ParkFactors) EngineOption {
	return func(e *LiveGameEngine) { e.park = pf }
}

// WithInnings overrides regulation length and the extra-inning cap.
func WithInnings(regulation, max int) EngineOption {
	return func(e *LiveGameEngine) {
		e.regulation = regulation
		e.maxInnings = max
	}
}

// WithTier selects which roster tier takes the field, so farm and
// developmental squads play their own games.
func WithTier(tier models.RosterTier) EngineOption {
	return func(e *LiveGameEngine) { e.tier = tier }
}

// LiveGameEngine drives one game pitch-by-pitch to completion. It owns its
// two Team references and a private GameState; callers must not share a
// Team between concurrently running engines.
type LiveGameEngine struct {
	home *models.Team
	away *models.Team

	state      *models.GameState
	rng        *rand.Rand
	policy     PitchingPolicy
	gameType   GameType
	park       models.ParkFactors
	conditions models.GameConditions
	regulation int
	maxInnings int
	tier       models.RosterTier

	homeLineup []*models.Player
	awayLineup []*models.Player

	atbat    *AtBatResolver
	fielding *FieldingResolver
	running  *BaserunningResolver
	director *PitchingDirector

	homePitcher *models.Player
	awayPitcher *models.Player

	homeBatterIdx int
	awayBatterIdx int

	// runnerCharge maps each baserunner to the pitcher responsible for him;
	// runnerUnearned marks runners who reached on an error.
	runnerCharge   map[models.PlayerID]*models.Player
	runnerUnearned map[models.PlayerID]bool

	// Lead tracking for win/loss attribution.
	leadSign  int // +1 home leads, -1 away leads, 0 tied
	trackHome int // engine-side score mirror, advanced run by run
	trackAway int
	winCand   *models.Player
	lossCand  *models.Player

	// Save qualification context for the most recent pitcher per side.
	homeEntryLead    int
	awayEntryLead    int
	homeEntryRunners int
	awayEntryRunners int

	homeRuns []HomeRunEvent

	simulated bool
	finalized bool
}

// NewLiveGameEngine validates both rosters and prepares a game. Options
// default to a seeded-by-clock RNG, the built-in policy, a neutral park,
// and a 9-inning regulation with a 12-inning draw cap.
func NewLiveGameEngine(home, away *models.Team, opts ...EngineOption) (*LiveGameEngine, error) {
	e := &LiveGameEngine{
		home:       home,
		away:       away,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		policy:     DefaultPitchingPolicy(),
		gameType:   GameRegular,
		park:       models.DefaultParkFactors(),
		regulation: 9,
		maxInnings: 12,
		tier:       models.TierActive,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.tier == models.TierActive {
		if err := home.ValidateGameReady(); err != nil {
			return nil, fmt.Errorf("home team not game-ready: %w", err)
		}
		if err := away.ValidateGameReady(); err != nil {
			return nil, fmt.Errorf("away team not game-ready: %w", err)
		}
	} else {
		if len(home.RelieversIn(e.tier)) == 0 || len(away.RelieversIn(e.tier)) == 0 {
			return nil, fmt.Errorf("tier %s has no pitchers on both rosters", e.tier)
		}
	}
	e.homeLineup = home.LineupFor(e.tier)
	e.awayLineup = away.LineupFor(e.tier)
	if len(e.homeLineup) < 9 || len(e.awayLineup) < 9 {
		return nil, fmt.Errorf("tier %s cannot field nine position players", e.tier)
	}

	e.state = models.NewGameState(e.regulation, e.maxInnings)
	e.conditions = models.GenerateConditions(e.rng)
	e.atbat = NewAtBatResolver(e.rng)
	e.fielding = NewFieldingResolver(e.rng)
	e.running = NewBaserunningResolver(e.rng, e.lookupPlayer)
	e.director = NewPitchingDirector(e.policy)
	e.runnerCharge = make(map[models.PlayerID]*models.Player)
	e.runnerUnearned = make(map[models.PlayerID]bool)
	return e, nil
}

// State exposes the live game state, mainly for tests and watchers.
func (e *LiveGameEngine) State() *models.GameState { return e.state }

func (e *LiveGameEngine) lookupPlayer(id models.PlayerID) *models.Player {
	if p := e.home.Player(id); p != nil {
		return p
	}
	return e.away.Player(id)
}

func (e *LiveGameEngine) battingTeam() *models.Team {
	if e.state.Half == models.TopHalf {
		return e.away
	}
	return e.home
}

func (e *LiveGameEngine) fieldingTeam() *models.Team {
	if e.state.Half == models.TopHalf {
		return e.home
	}
	return e.away
}

func (e *LiveGameEngine) fieldingPitcher() *models.Player {
	if e.state.Half == models.TopHalf {
		return e.homePitcher
	}
	return e.awayPitcher
}

func (e *LiveGameEngine) pitchersUsed(team *models.Team) []models.PlayerID {
	if team == e.home {
		return e.state.HomePitchersUsed
	}
	return e.state.AwayPitchersUsed
}

// fieldLead is the score differential from the fielding team's point of
// view.
func (e *LiveGameEngine) fieldLead() int {
	if e.state.Half == models.TopHalf {
		return e.state.HomeScore - e.state.AwayScore
	}
	return e.state.AwayScore - e.state.HomeScore
}

// setPitcher brings a new arm into the game for a side, closing out the
// previous appearance.
func (e *LiveGameEngine) setPitcher(team *models.Team, p *models.Player) {
	entryRunners := e.state.Bases.Occupied()
	if team == e.home {
		if e.homePitcher != nil {
			e.homePitcher.FinishAppearance()
		}
		e.homePitcher = p
		e.homeEntryLead = e.state.HomeScore - e.state.AwayScore
		e.homeEntryRunners = entryRunners
		e.state.HomePitchersUsed = append(e.state.HomePitchersUsed, p.ID)
	} else {
		if e.awayPitcher != nil {
			e.awayPitcher.FinishAppearance()
		}
		e.awayPitcher = p
		e.awayEntryLead = e.state.AwayScore - e.state.HomeScore
		e.awayEntryRunners = entryRunners
		e.state.AwayPitchersUsed = append(e.state.AwayPitchersUsed, p.ID)
	}
	p.StartAppearance()
	line := e.state.StatsFor(p.ID)
	line.GamesPitched++
	if len(e.pitchersUsed(team)) == 1 {
		line.GamesStarted++
	}
}

// pitchingContext builds the director's decision input for the fielding
// side.
func (e *LiveGameEngine) pitchingContext(newInning bool) PitchingContext {
	lead := e.fieldLead()
	abs := lead
	if abs < 0 {
		abs = -abs
	}
	return PitchingContext{
		Inning:       e.state.Inning,
		Outs:         e.state.Outs,
		ScoreDiff:    lead,
		IsClose:      abs <= 2,
		IsBlowout:    abs >= 6,
		RunnersOn:    e.state.Bases.Occupied() > 0,
		NewInning:    newInning,
		GameType:     e.gameType,
		Tier:         e.tier,
		PitchersUsed: len(e.pitchersUsed(e.fieldingTeam())),
	}
}

// consultDirector asks the director for a change and applies it. No change
// happens after the third out; the next half opens with its own consult.
func (e *LiveGameEngine) consultDirector(newInning bool, nextBatter *models.Player) {
	if e.state.Outs >= 3 {
		return
	}
	team := e.fieldingTeam()
	current := e.fieldingPitcher()
	if current == nil {
		return
	}
	line := e.state.StatsFor(current.ID)
	ctx := e.pitchingContext(newInning)
	if repl := e.director.CheckPitcherChange(ctx, team, current, line, e.pitchersUsed(team), nextBatter); repl != nil {
		e.setPitcher(team, repl)
	}
}

// prePitchCheck enforces the hard stamina floor between pitches: an arm
// already through the floor never throws again if anyone can take over.
func (e *LiveGameEngine) prePitchCheck(nextBatter *models.Player) {
	team := e.fieldingTeam()
	current := e.fieldingPitcher()
	if current == nil || !e.director.NeedsImmediateChange(team, current) {
		return
	}
	ctx := e.pitchingContext(false)
	if repl := e.director.SelectReplacement(ctx, team, current, e.pitchersUsed(team), nextBatter); repl != nil {
		e.setPitcher(team, repl)
	}
}

// Simulate runs the game to completion. It is synchronous and requires no
// external interaction.
func (e *LiveGameEngine) Simulate() error {
	if e.simulated {
		return fmt.Errorf("game already simulated")
	}
	e.simulated = true

	e.setPitcher(e.home, e.startingPitcher(e.home))
	e.setPitcher(e.away, e.startingPitcher(e.away))

	for !e.state.IsGameOver() {
		walkOff := e.playHalfInning()
		e.runnerCharge = make(map[models.PlayerID]*models.Player)
		e.runnerUnearned = make(map[models.PlayerID]bool)
		if e.state.CloseHalfInning(walkOff) {
			break
		}
	}
	return nil
}

func (e *LiveGameEngine) startingPitcher(team *models.Team) *models.Player {
	if e.tier != models.TierActive {
		// Tier squads carry no set rotation; the freshest available arm opens.
		arms := team.RelieversIn(e.tier)
		var best *models.Player
		for _, p := range arms {
			if p.Injured || p.UsedToday {
				continue
			}
			if best == nil || p.AvailableStamina() > best.AvailableStamina() {
				best = p
			}
		}
		if best == nil && len(arms) > 0 {
			best = arms[0]
		}
		return best
	}
	if p := team.NextStarter(); p != nil {
		return p
	}
	// Unreachable after ValidateGameReady; fall back to the bullpen anyway.
	for _, p := range team.Relievers() {
		return p
	}
	return nil
}

// playHalfInning runs at-bats until three outs or a walk-off. Returns true
// on a walk-off.
func (e *LiveGameEngine) playHalfInning() bool {
	e.consultDirector(true, e.peekBatter())

	for e.state.Outs < 3 {
		batter := e.nextBatter()
		walkOff := e.runAtBat(batter)
		if walkOff {
			return true
		}
		e.consultDirector(false, e.peekBatter())
	}
	return false
}

func (e *LiveGameEngine) battingLineup() []*models.Player {
	if e.state.Half == models.TopHalf {
		return e.awayLineup
	}
	return e.homeLineup
}

func (e *LiveGameEngine) fieldingLineup() []*models.Player {
	if e.state.Half == models.TopHalf {
		return e.homeLineup
	}
	return e.awayLineup
}

func (e *LiveGameEngine) peekBatter() *models.Player {
	lineup := e.battingLineup()
	if len(lineup) == 0 {
		return nil
	}
	idx := e.homeBatterIdx
	if e.state.Half == models.TopHalf {
		idx = e.awayBatterIdx
	}
	return lineup[idx%len(lineup)]
}

func (e *LiveGameEngine) nextBatter() *models.Player {
	lineup := e.battingLineup()
	if e.state.Half == models.TopHalf {
		b := lineup[e.awayBatterIdx%len(lineup)]
		e.awayBatterIdx++
		return b
	}
	b := lineup[e.homeBatterIdx%len(lineup)]
	e.homeBatterIdx++
	return b
}

func (e *LiveGameEngine) fielderMap() map[models.Position]*models.Player {
	m := make(map[models.Position]*models.Player, 9)
	for _, p := range e.fieldingLineup() {
		if p.Position != models.PositionPitcher {
			m[p.Position] = p
		}
	}
	m[models.PositionPitcher] = e.fieldingPitcher()
	return m
}

// shouldIntentionalWalk puts a dangerous bat on with first base open, two
// outs, runners in scoring position, and the game tight and late. Never
// with the bases loaded.
func (e *LiveGameEngine) shouldIntentionalWalk(batter *models.Player) bool {
	gs := e.state
	if e.gameType != GameRegular || gs.Outs != 2 || gs.Inning < 8 {
		return false
	}
	if gs.Bases.First != "" || !gs.Bases.RunnersInScoring() {
		return false
	}
	lead := e.fieldLead()
	return lead >= -2 && lead <= 0 && batter.Ratings.Power >= 80
}

// shouldBunt squares a weak bat around to move a runner up: nobody out, a
// runner to advance, no squeeze with third occupied.
func (e *LiveGameEngine) shouldBunt(batter *models.Player) bool {
	gs := e.state
	if e.gameType != GameRegular || gs.Outs != 0 || gs.Bases.Third != "" {
		return false
	}
	if gs.Bases.First == "" && gs.Bases.Second == "" {
		return false
	}
	return batter.Position == models.PositionPitcher || batter.Ratings.Contact < 35
}

// chooseShift picks the defensive alignment for the situation.
func (e *LiveGameEngine) chooseShift(batter *models.Player) Shift {
	gs := e.state
	if gs.Bases.Third != "" && gs.Outs < 2 && gs.Inning >= 7 && e.fieldLead() <= 1 && e.fieldLead() >= -1 {
		return ShiftInfieldIn
	}
	if gs.Bases.First != "" && gs.Outs < 2 {
		return ShiftDoublePlay
	}
	if batter.Ratings.Power >= 75 {
		if batter.Bats == models.LeftHanded {
			return ShiftPullRight
		}
		return ShiftPullLeft
	}
	return ShiftNone
}

func (e *LiveGameEngine) resolveSteal() {
	catcher := e.fielderMap()[models.PositionCatcher]
	res := e.running.AttemptSteal(e.state, catcher)
	line := e.state.StatsFor(res.Runner)
	if res.Success {
		line.StolenBases++
		return
	}
	line.CaughtStealing++
	e.state.RecordOuts(1)
	if p := e.fieldingPitcher(); p != nil {
		e.state.StatsFor(p.ID).OutsPitched++
	}
	delete(e.runnerCharge, res.Runner)
	delete(e.runnerUnearned, res.Runner)
	if catcher != nil {
		e.state.StatsFor(catcher.ID).Assists++
	}
}

// runAtBat plays one plate appearance pitch by pitch. Returns true when a
// walk-off ends the game mid-half.
func (e *LiveGameEngine) runAtBat(batter *models.Player) bool {
	gs := e.state
	gs.Balls, gs.Strikes = 0, 0

	batLine := gs.StatsFor(batter.ID)
	batLine.PlateAppearances++

	if e.shouldIntentionalWalk(batter) {
		pitcher := e.fieldingPitcher()
		pitLine := gs.StatsFor(pitcher.ID)
		pitLine.BattersFaced++
		pitLine.WalksAllowed++
		batLine.Walks++
		scored := e.running.AdvanceOnWalk(gs, batter)
		e.runnerCharge[batter.ID] = pitcher
		e.creditRuns(batter, scored, true)
		return e.afterPlay()
	}

	if e.shouldBunt(batter) {
		e.prePitchCheck(batter)
		pitcher := e.fieldingPitcher()
		pitLine := gs.StatsFor(pitcher.ID)
		res := e.atbat.ResolveBunt(batter, pitcher)
		pitcher.ThrowPitch()
		pitLine.Pitches++
		pitLine.BattersFaced++
		e.resolveInPlay(batter, pitcher, res.Ball)
		return e.afterPlay()
	}

	for {
		// Runners pick their spots between pitches.
		if e.running.ShouldAttemptSteal(gs) {
			e.resolveSteal()
			if gs.Outs >= 3 {
				// Caught stealing for the third out; the batter leads off the
				// next half with a fresh count.
				batLine.PlateAppearances--
				if gs.Half == models.TopHalf {
					e.awayBatterIdx--
				} else {
					e.homeBatterIdx--
				}
				return false
			}
		}

		e.prePitchCheck(batter)
		pitcher := e.fieldingPitcher()
		pitLine := gs.StatsFor(pitcher.ID)

		sit := Situation{
			Balls:      gs.Balls,
			Strikes:    gs.Strikes,
			Leverage:   gs.Leverage(),
			RunnersOn:  gs.Bases.Occupied() > 0,
			Park:       e.park,
			Conditions: e.conditions,
		}
		res := e.atbat.ResolvePitch(batter, pitcher, sit)
		pitcher.ThrowPitch()
		pitLine.Pitches++

		switch res.Type {
		case PitchBall:
			gs.Balls++
			if gs.Balls >= 4 {
				pitLine.BattersFaced++
				pitLine.WalksAllowed++
				batLine.Walks++
				scored := e.running.AdvanceOnWalk(gs, batter)
				e.runnerCharge[batter.ID] = pitcher
				e.creditRuns(batter, scored, true)
				return e.afterPlay()
			}
		case PitchStrikeCalled, PitchStrikeSwinging:
			gs.Strikes++
			if gs.Strikes >= 3 {
				pitLine.BattersFaced++
				pitLine.StrikeoutsPitched++
				pitLine.OutsPitched++
				batLine.AtBats++
				batLine.Strikeouts++
				gs.RecordOuts(1)
				catcher := e.fielderMap()[models.PositionCatcher]
				if catcher != nil {
					gs.StatsFor(catcher.ID).Putouts++
				}
				return e.afterPlay()
			}
		case PitchFoul:
			if gs.Strikes < 2 {
				gs.Strikes++
			}
		case PitchHitByPitch:
			pitLine.BattersFaced++
			batLine.HitByPitch++
			scored := e.running.AdvanceOnWalk(gs, batter)
			e.runnerCharge[batter.ID] = pitcher
			e.creditRuns(batter, scored, true)
			return e.afterPlay()
		case PitchInPlay:
			pitLine.BattersFaced++
			e.resolveInPlay(batter, pitcher, res.Ball)
			return e.afterPlay()
		}
	}
}

// afterPlay settles decision tracking and reports a walk-off.
func (e *LiveGameEngine) afterPlay() bool {
	return e.state.IsWalkOff()
}

// creditRuns charges scored runs to the responsible pitchers, credits the
// scorers, and keeps win/loss candidates current as the lead moves.
func (e *LiveGameEngine) creditRuns(batter *models.Player, scored []models.PlayerID, rbi bool) {
	if len(scored) == 0 {
		return
	}
	batLine := e.state.StatsFor(batter.ID)
	fieldPitcher := e.fieldingPitcher()
	homeBatting := e.state.Half == models.BottomHalf

	for _, id := range scored {
		e.state.StatsFor(id).Runs++
		if rbi {
			batLine.RBI++
		}

		charged := e.runnerCharge[id]
		if charged == nil {
			charged = fieldPitcher
		}
		chargedLine := e.state.StatsFor(charged.ID)
		chargedLine.RunsAllowed++
		if !e.runnerUnearned[id] {
			chargedLine.EarnedRuns++
		}
		delete(e.runnerCharge, id)
		delete(e.runnerUnearned, id)

		// Advance the mirror one run at a time so the go-ahead run is the
		// one that flips the sign.
		if homeBatting {
			e.trackHome++
		} else {
			e.trackAway++
		}
		sign := signOf(e.trackHome - e.trackAway)
		if sign != e.leadSign {
			e.leadSign = sign
			switch sign {
			case 0:
				e.winCand, e.lossCand = nil, nil
			default:
				e.winCand = e.battingSidePitcher()
				e.lossCand = charged
			}
		}
	}
}

func signOf(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// battingSidePitcher is the batting team's pitcher of record right now.
func (e *LiveGameEngine) battingSidePitcher() *models.Player {
	if e.state.Half == models.TopHalf {
		return e.awayPitcher
	}
	return e.homePitcher
}

func (e *LiveGameEngine) addTeamHit() {
	if e.state.Half == models.TopHalf {
		e.state.AwayHits++
	} else {
		e.state.HomeHits++
	}
}

func (e *LiveGameEngine) addTeamError() {
	if e.state.Half == models.TopHalf {
		e.state.HomeErrors++
	} else {
		e.state.AwayErrors++
	}
}

// resolveInPlay hands a batted ball through the fielding and baserunning
// resolvers and books every stat the play produces.
func (e *LiveGameEngine) resolveInPlay(batter, pitcher *models.Player, ball *BattedBall) {
	gs := e.state
	batLine := gs.StatsFor(batter.ID)
	pitLine := gs.StatsFor(pitcher.ID)

	shift := e.chooseShift(batter)
	fr := e.fielding.Resolve(ball, e.fielderMap(), shift, batter)
	outsBefore := gs.Outs

	switch fr.Type {
	case PlayHomeRun:
		batLine.AtBats++
		batLine.Hits++
		batLine.HomeRuns++
		e.addTeamHit()
		pitLine.HitsAllowed++
		pitLine.HomeRunsAllowed++
		scored := e.running.AdvanceOnHit(gs, batter, 4, ball)
		e.runnerCharge[batter.ID] = pitcher // scored immediately, charged below
		e.creditRuns(batter, scored, true)
		e.homeRuns = append(e.homeRuns, HomeRunEvent{
			Player:      batter,
			SeasonTotal: batter.Season.HomeRuns + batLine.HomeRuns,
			Team:        e.battingTeam().Name,
		})

	case PlaySingle, PlayDouble, PlayTriple:
		bases := 1
		switch fr.Type {
		case PlayDouble:
			bases = 2
			batLine.Doubles++
		case PlayTriple:
			bases = 3
			batLine.Triples++
		}
		batLine.AtBats++
		batLine.Hits++
		e.addTeamHit()
		pitLine.HitsAllowed++
		scored := e.running.AdvanceOnHit(gs, batter, bases, ball)
		e.runnerCharge[batter.ID] = pitcher
		e.creditRuns(batter, scored, true)

	case PlayError:
		batLine.AtBats++
		e.addTeamError()
		if fr.Fielder != nil {
			gs.StatsFor(fr.Fielder.ID).Errors++
		}
		scored := e.running.AdvanceOnHit(gs, batter, 1, ball)
		e.runnerCharge[batter.ID] = pitcher
		e.runnerUnearned[batter.ID] = true
		// Runs that cross on the misplay are unearned.
		e.creditRuns(batter, scored, false)

	case PlayOut:
		if fr.AirBall {
			gs.RecordOuts(1)
			batLine.AtBats++
			if fr.Fielder != nil {
				gs.StatsFor(fr.Fielder.ID).Putouts++
			}
			scored := e.running.ResolveSacFly(gs, ball, gs.Outs)
			if len(scored) > 0 {
				batLine.AtBats-- // sacrifice fly is not an at-bat
				batLine.SacFlies++
				e.creditRuns(batter, scored, true)
			}
			break
		}

		if ball.Bunt {
			// Sacrifice: the batter is retired at first and the runners move
			// up a station.
			gs.RecordOuts(1)
			if gs.Bases.Second != "" && gs.Bases.Third == "" {
				gs.Bases.Third = gs.Bases.Second
				gs.Bases.Second = ""
			}
			if gs.Bases.First != "" && gs.Bases.Second == "" {
				gs.Bases.Second = gs.Bases.First
				gs.Bases.First = ""
			}
			if fr.Fielder != nil {
				gs.StatsFor(fr.Fielder.ID).Assists++
			}
			batLine.SacBunts++ // no at-bat charged
			break
		}

		infieldIn := shift == ShiftInfieldIn
		res := e.running.ResolveGroundOut(gs, batter, fr.Fielder, outsBefore, infieldIn)
		gs.RecordOuts(res.Outs)
		if fr.Fielder != nil {
			fldLine := gs.StatsFor(fr.Fielder.ID)
			fldLine.Assists++
			if res.DoublePlay {
				fldLine.Assists++
			}
		}
		if res.FieldersChoice {
			e.runnerCharge[batter.ID] = pitcher
		}
		batLine.AtBats++
		// Runs on a ground ball carry no RBI through a double play.
		e.creditRuns(batter, res.Scored, !res.DoublePlay)
	}

	// Outs end appearances cleanly; pitcher outs accrue here.
	pitLine.OutsPitched += gs.Outs - outsBefore
}

// FinalizeGameStats commits per-player game lines into season records,
// attributes the decision, updates team standings, and returns the
// structured result. Must be called exactly once, after Simulate.
func (e *LiveGameEngine) FinalizeGameStats(date time.Time) (*GameResult, error) {
	if !e.simulated {
		return nil, fmt.Errorf("game has not been simulated")
	}
	if e.finalized {
		return nil, fmt.Errorf("game already finalized")
	}
	e.finalized = true

	if e.homePitcher != nil {
		e.homePitcher.FinishAppearance()
	}
	if e.awayPitcher != nil {
		e.awayPitcher.FinishAppearance()
	}

	gs := e.state
	result := &GameResult{
		Date:       date,
		HomeTeam:   e.home.Name,
		AwayTeam:   e.away.Name,
		HomeScore:  gs.HomeScore,
		AwayScore:  gs.AwayScore,
		HomeLine:   gs.HomeLine,
		AwayLine:   gs.AwayLine,
		HomeHits:   gs.HomeHits,
		AwayHits:   gs.AwayHits,
		HomeErrors: gs.HomeErrors,
		AwayErrors: gs.AwayErrors,
		WalkOff:    gs.WalkOff,
		HomeRuns:   e.homeRuns,
		GameStats:  gs.Stats,
	}

	switch {
	case gs.HomeScore > gs.AwayScore:
		result.Winner = e.home.Name
		e.home.Wins++
		e.away.Losses++
	case gs.AwayScore > gs.HomeScore:
		result.Winner = e.away.Name
		e.away.Wins++
		e.home.Losses++
	default:
		result.Draw = true
		e.home.Draws++
		e.away.Draws++
	}

	if !result.Draw {
		result.Decision = e.attributeDecision(result.Winner)
	}

	// Commit game lines into season records and mark pitcher usage.
	usedPitchers := make(map[models.PlayerID]bool)
	for _, id := range gs.HomePitchersUsed {
		usedPitchers[id] = true
	}
	for _, id := range gs.AwayPitchersUsed {
		usedPitchers[id] = true
	}
	for id, line := range gs.Stats {
		p := e.lookupPlayer(id)
		if p == nil {
			continue
		}
		p.Season.Add(line)
		if usedPitchers[id] {
			p.UsedToday = true
		}
	}
	return result, nil
}

// attributeDecision applies standard win/loss/save rules against the
// tracked lead changes.
func (e *LiveGameEngine) attributeDecision(winner string) Decision {
	d := Decision{Win: e.winCand, Loss: e.lossCand}

	winTeam := e.home
	finalPitcher := e.homePitcher
	entryLead := e.homeEntryLead
	entryRunners := e.homeEntryRunners
	usedIDs := e.state.HomePitchersUsed
	if winner == e.away.Name {
		winTeam = e.away
		finalPitcher = e.awayPitcher
		entryLead = e.awayEntryLead
		entryRunners = e.awayEntryRunners
		usedIDs = e.state.AwayPitchersUsed
	}

	// Starter minimum: a starter pulled before five innings cannot take the
	// win; it passes to the winning team's most effective reliever.
	if d.Win != nil && len(usedIDs) > 0 && d.Win.ID == usedIDs[0] {
		if e.state.StatsFor(d.Win.ID).OutsPitched < 15 {
			var best *models.Player
			bestOuts := -1
			for _, id := range usedIDs[1:] {
				p := winTeam.Player(id)
				if p == nil {
					continue
				}
				if outs := e.state.StatsFor(id).OutsPitched; outs > bestOuts {
					best = p
					bestOuts = outs
				}
			}
			if best != nil {
				d.Win = best
			}
		}
	}

	// Save: the winning team's final pitcher, entering in a save situation,
	// holding the lead and finishing, when he is not also the winner.
	if finalPitcher != nil && d.Win != nil && finalPitcher.ID != d.Win.ID &&
		saveQualified(entryLead, entryRunners) {
		d.Save = finalPitcher
	}

	if d.Win != nil {
		e.state.StatsFor(d.Win.ID).Wins++
	}
	if d.Loss != nil {
		e.state.StatsFor(d.Loss.ID).Losses++
	}
	if d.Save != nil {
		e.state.StatsFor(d.Save.ID).Saves++
	}
	return d
}

// saveQualified is the leverage bar for a save: a narrow lead, or a wider
// one where the inherited runners put the tying run close enough behind.
func saveQualified(entryLead, entryRunners int) bool {
	if entryLead < 1 {
		return false
	}
	if entryLead <= 3 {
		return true
	}
	return entryRunners > 0 && entryLead <= entryRunners+2
}
