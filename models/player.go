package models

import (
	"github.com/google/uuid"
)

// PlayerID is a stable opaque identifier. All lineup, rotation, and bullpen
// structures hold PlayerIDs resolved through Team.Players at use time, so
// roster reordering never invalidates a reference.
type PlayerID string

// NewPlayerID generates a fresh player identifier.
func NewPlayerID() PlayerID {
	return PlayerID(uuid.New().String())
}

// Position is one of the eight fielding roles plus pitcher.
type Position string

const (
	PositionPitcher    Position = "P"
	PositionCatcher    Position = "C"
	PositionFirstBase  Position = "1B"
	PositionSecondBase Position = "2B"
	PositionThirdBase  Position = "3B"
	PositionShortstop  Position = "SS"
	PositionLeftField  Position = "LF"
	PositionCenter     Position = "CF"
	PositionRightField Position = "RF"
)

// Hand is batting or throwing handedness.
type Hand string

const (
	LeftHanded  Hand = "L"
	RightHanded Hand = "R"
)

const (
	RatingMin = 1
	RatingMax = 99
)

// ClampRating forces a rating into the [1,99] scale. Out-of-range input
// is never fatal.
func ClampRating(v int) int {
	if v < RatingMin {
		return RatingMin
	}
	if v > RatingMax {
		return RatingMax
	}
	return v
}

// Ratings is the ability bundle driving every probabilistic resolver.
// All values are on a 1-99 scale.
type Ratings struct {
	Contact    int `json:"contact"`
	Power      int `json:"power"`
	Eye        int `json:"eye"`        // plate discipline
	Trajectory int `json:"trajectory"` // low = ground balls, high = fly balls
	Speed      int `json:"speed"`
	Arm        int `json:"arm"`
	Fielding   int `json:"fielding"`
	Control    int `json:"control"`
	Stuff      int `json:"stuff"` // velocity / swing-and-miss
	Movement   int `json:"movement"`
	Stamina    int `json:"stamina"` // ability rating, not per-game capacity
	Clutch     int `json:"clutch"`
}

// Clamp normalizes every rating into the legal range.
func (r *Ratings) Clamp() {
	r.Contact = ClampRating(r.Contact)
	r.Power = ClampRating(r.Power)
	r.Eye = ClampRating(r.Eye)
	r.Trajectory = ClampRating(r.Trajectory)
	r.Speed = ClampRating(r.Speed)
	r.Arm = ClampRating(r.Arm)
	r.Fielding = ClampRating(r.Fielding)
	r.Control = ClampRating(r.Control)
	r.Stuff = ClampRating(r.Stuff)
	r.Movement = ClampRating(r.Movement)
	r.Stamina = ClampRating(r.Stamina)
	r.Clutch = ClampRating(r.Clutch)
}

// Overall is a rough composite used when the director has to rank arms or
// bats without a role-specific signal.
func (r *Ratings) Overall(pos Position) int {
	if pos == PositionPitcher {
		return (r.Stuff*3 + r.Control*3 + r.Movement*2 + r.Stamina*2) / 10
	}
	return (r.Contact*3 + r.Power*2 + r.Eye*2 + r.Speed + r.Fielding*2) / 10
}

// StatLine holds counting stats. The same shape serves per-game lines and
// the accumulated season record: game lines are added into the season line
// at finalization.
type StatLine struct {
	// Batting
	PlateAppearances int `json:"pa"`
	AtBats           int `json:"ab"`
	Hits             int `json:"h"`
	Doubles          int `json:"2b"`
	Triples          int `json:"3b"`
	HomeRuns         int `json:"hr"`
	RBI              int `json:"rbi"`
	Runs             int `json:"r"`
	Walks            int `json:"bb"`
	HitByPitch       int `json:"hbp"`
	Strikeouts       int `json:"so"`
	StolenBases      int `json:"sb"`
	CaughtStealing   int `json:"cs"`
	SacBunts         int `json:"sac"`
	SacFlies         int `json:"sf"`

	// Pitching
	OutsPitched       int `json:"outs_pitched"`
	BattersFaced      int `json:"bf"`
	HitsAllowed       int `json:"ha"`
	RunsAllowed       int `json:"ra"`
	EarnedRuns        int `json:"er"`
	WalksAllowed      int `json:"bba"`
	StrikeoutsPitched int `json:"k"`
	HomeRunsAllowed   int `json:"hra"`
	Pitches           int `json:"pitches"`
	Wins              int `json:"w"`
	Losses            int `json:"l"`
	Saves             int `json:"sv"`
	Holds             int `json:"hld"`
	GamesPitched      int `json:"g"`
	GamesStarted      int `json:"gs"`

	// Fielding
	Errors  int `json:"e"`
	Putouts int `json:"po"`
	Assists int `json:"a"`
}

// Add accumulates another line into this one.
func (s *StatLine) Add(o *StatLine) {
	s.PlateAppearances += o.PlateAppearances
	s.AtBats += o.AtBats
	s.Hits += o.Hits
	s.Doubles += o.Doubles
	s.Triples += o.Triples
	s.HomeRuns += o.HomeRuns
	s.RBI += o.RBI
	s.Runs += o.Runs
	s.Walks += o.Walks
	s.HitByPitch += o.HitByPitch
	s.Strikeouts += o.Strikeouts
	s.StolenBases += o.StolenBases
	s.CaughtStealing += o.CaughtStealing
	s.SacBunts += o.SacBunts
	s.SacFlies += o.SacFlies
	s.OutsPitched += o.OutsPitched
	s.BattersFaced += o.BattersFaced
	s.HitsAllowed += o.HitsAllowed
	s.RunsAllowed += o.RunsAllowed
	s.EarnedRuns += o.EarnedRuns
	s.WalksAllowed += o.WalksAllowed
	s.StrikeoutsPitched += o.StrikeoutsPitched
	s.HomeRunsAllowed += o.HomeRunsAllowed
	s.Pitches += o.Pitches
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Saves += o.Saves
	s.Holds += o.Holds
	s.GamesPitched += o.GamesPitched
	s.GamesStarted += o.GamesStarted
	s.Errors += o.Errors
	s.Putouts += o.Putouts
	s.Assists += o.Assists
}

// InningsPitched converts recorded outs to innings.
func (s *StatLine) InningsPitched() float64 {
	return float64(s.OutsPitched) / 3.0
}

// AVG returns batting average, 0 with no at-bats.
func (s *StatLine) AVG() float64 {
	if s.AtBats == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.AtBats)
}

// ERA returns earned run average, 0 with no outs recorded.
func (s *StatLine) ERA() float64 {
	if s.OutsPitched == 0 {
		return 0
	}
	return float64(s.EarnedRuns) * 27.0 / float64(s.OutsPitched)
}

// Player is a roster member. Ephemeral per-game fields (stamina, pitch
// count, usage flags) are mutated by the live game engine and reset by the
// daily recovery pass; the Season line only grows.
type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Number   int      `json:"number"`
	Position Position `json:"position"`
	Bats     Hand     `json:"bats"`
	Throws   Hand     `json:"throws"`
	Age      int      `json:"age"`
	Salary   int      `json:"salary"`
	Ratings  Ratings  `json:"ratings"`

	Season StatLine `json:"season"`

	// Ephemeral per-game / per-day state.
	CurrentStamina  float64 `json:"current_stamina"`
	PitchCount      int     `json:"pitch_count"`
	Fatigue         float64 `json:"fatigue"` // 0-100 workload carryover
	Injured         bool    `json:"injured"`
	UsedToday       bool    `json:"used_today"`
	ConsecutiveDays int     `json:"consecutive_days"` // prior days in a row with an appearance
}

// NewPlayer creates a player with a fresh id and clamped ratings.
func NewPlayer(name string, pos Position, bats, throws Hand, ratings Ratings) *Player {
	ratings.Clamp()
	return &Player{
		ID:       NewPlayerID(),
		Name:     name,
		Position: pos,
		Bats:     bats,
		Throws:   throws,
		Age:      27,
		Ratings:  ratings,
	}
}

// IsPitcher reports whether the player occupies the pitching role.
func (p *Player) IsPitcher() bool {
	return p.Position == PositionPitcher
}

// staminaCeiling is the full per-game pitching capacity implied by the
// stamina ability rating.
func (p *Player) staminaCeiling() float64 {
	return 60.0 + float64(ClampRating(p.Ratings.Stamina))*0.6
}

// AvailableStamina is the capacity a pitcher would enter the game with
// right now, after fatigue carryover. Substitution policy uses it to judge
// bench arms that have not appeared yet.
func (p *Player) AvailableStamina() float64 {
	s := p.staminaCeiling() - p.Fatigue
	if s < 0 {
		return 0
	}
	return s
}

// StartAppearance resets the per-game pitching state at entry. Stamina
// starts at the fatigue-adjusted ceiling and only decreases until the
// appearance ends.
func (p *Player) StartAppearance() {
	p.CurrentStamina = p.AvailableStamina()
	p.PitchCount = 0
}

// ThrowPitch records one pitch: the pitch count rises and stamina drains at
// a rate set by the stamina rating. Never goes below zero.
func (p *Player) ThrowPitch() {
	p.PitchCount++
	drain := 100.0 / (40.0 + float64(ClampRating(p.Ratings.Stamina)))
	p.CurrentStamina -= drain
	if p.CurrentStamina < 0 {
		p.CurrentStamina = 0
	}
}

// FinishAppearance accrues fatigue from the workload just completed.
func (p *Player) FinishAppearance() {
	p.Fatigue += float64(p.PitchCount) * 0.5
	if p.Fatigue > 100 {
		p.Fatigue = 100
	}
}

// RecoverDaily advances the player one calendar day: consecutive-day usage
// tracking updates, fatigue decays at a rate scaled by the stamina rating,
// and the used-today flag clears.
func (p *Player) RecoverDaily() {
	if p.UsedToday {
		p.ConsecutiveDays++
	} else {
		p.ConsecutiveDays = 0
	}
	p.UsedToday = false

	recovery := 20.0 + float64(ClampRating(p.Ratings.Stamina))*0.4
	p.Fatigue -= recovery
	if p.Fatigue < 0 {
		p.Fatigue = 0
	}
}
