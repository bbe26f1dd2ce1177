package simulation

import (
	"sort"

	"github.com/baseball-sim/franchise-engine/models"
)

// GameType selects the substitution doctrine. Exhibition games override the
// role ladder with strict innings caps.
type GameType string

const (
	GameRegular GameType = "regular"
	GameAllStar GameType = "all_star"
)

// PitchingContext is the transient decision input computed before each
// substitution check. Pure value object, never persisted.
type PitchingContext struct {
	Inning    int
	Outs      int
	ScoreDiff int // fielding team's perspective: positive means leading
	IsClose   bool
	IsBlowout bool
	RunnersOn bool
	NewInning bool // the pitcher is about to start a fresh inning
	GameType  GameType
	Tier      models.RosterTier // which squad's bullpen the change draws from

	PitchersUsed int // arms the fielding team has already used this game
}

// removalRule is one named guard in a removal ladder. Rules are evaluated
// in priority order; the first match wins, and the name is surfaced for
// auditing.
type removalRule struct {
	name    string
	matches func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, role models.PitcherRole) bool
}

// PitchingDirector encodes bullpen-management doctrine: when the current
// pitcher must go and who takes the ball next.
type PitchingDirector struct {
	policy PitchingPolicy

	starterRules  []removalRule
	relieverRules []removalRule
}

// NewPitchingDirector builds a director around a threshold table.
func NewPitchingDirector(policy PitchingPolicy) *PitchingDirector {
	d := &PitchingDirector{policy: policy}
	d.starterRules = []removalRule{
		{"hard_limits", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			return p.PitchCount >= d.policy.Starter.MaxPitches || p.CurrentStamina <= d.policy.Starter.MinStamina
		}},
		{"innings_cap", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			return line.OutsPitched >= d.policy.Starter.MaxInnings*3
		}},
		{"blow_up", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			if ctx.Inning <= 3 && line.RunsAllowed >= d.policy.Starter.EarlyRunLimit {
				return true
			}
			return line.RunsAllowed >= d.policy.Starter.AbsoluteRunLimit
		}},
		{"new_inning_stamina", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			if !ctx.NewInning {
				return false
			}
			bar := d.policy.Starter.NewInningStamina
			if onQualityStartPace(line) {
				bar = d.policy.Starter.QualityStartStamina
			}
			return p.CurrentStamina < bar
		}},
		{"late_close", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			if ctx.Inning < 7 || !ctx.IsClose {
				return false
			}
			return p.PitchCount >= d.policy.Starter.LateCloseMaxPitches ||
				p.CurrentStamina <= d.policy.Starter.LateCloseStamina
		}},
		{"ninth_narrow_lead", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			if ctx.Inning < 9 || ctx.ScoreDiff < 1 || ctx.ScoreDiff > 3 {
				return false
			}
			return p.PitchCount >= d.policy.Starter.NinthLeadMaxPitches ||
				p.CurrentStamina <= d.policy.Starter.NinthLeadStamina
		}},
	}
	d.relieverRules = []removalRule{
		{"outs_cap", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, role models.PitcherRole) bool {
			cap := d.policy.Reliever.MaxOuts
			if role == models.RoleLong {
				cap = d.policy.Reliever.LongMaxOuts
			}
			return line.OutsPitched >= cap
		}},
		{"straddle", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, role models.PitcherRole) bool {
			if !ctx.NewInning || line.OutsPitched == 0 {
				return false
			}
			if role == models.RoleLong {
				return false
			}
			if role == models.RoleCloser && d.isSaveSituation(ctx) {
				return false
			}
			return true
		}},
		{"run_limit", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			return line.RunsAllowed >= d.policy.Reliever.RunLimit
		}},
		{"pitch_limit", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, _ models.PitcherRole) bool {
			return p.PitchCount >= d.policy.Reliever.PitchLimit
		}},
		{"stamina_floor", func(d *PitchingDirector, ctx PitchingContext, p *models.Player, line *models.StatLine, role models.PitcherRole) bool {
			floor := d.policy.Reliever.StaminaFloor
			// Closers finish their own saves on fumes.
			if role == models.RoleCloser && d.isSaveSituation(ctx) {
				floor = d.policy.Reliever.CloserSaveStamina
			}
			return p.CurrentStamina <= floor
		}},
	}
	return d
}

// onQualityStartPace relaxes the new-inning stamina bar for a starter
// cruising toward a quality start (6+ innings, 3 or fewer earned runs).
func onQualityStartPace(line *models.StatLine) bool {
	return line.OutsPitched >= 15 && line.EarnedRuns <= 3
}

func (d *PitchingDirector) isSaveSituation(ctx PitchingContext) bool {
	return ctx.Inning >= 9 && ctx.ScoreDiff >= 1 && ctx.ScoreDiff <= 3
}

// ShouldRemove runs the removal ladder for the current pitcher and reports
// the first matching rule's name, empty when the pitcher stays.
func (d *PitchingDirector) ShouldRemove(ctx PitchingContext, team *models.Team, current *models.Player, line *models.StatLine) (bool, string) {
	role := team.RoleOf(current)

	if ctx.GameType == GameAllStar {
		cap := d.policy.AllStar.OtherPitcherOuts
		if ctx.PitchersUsed <= 1 {
			cap = d.policy.AllStar.FirstPitcherOuts
		}
		if line.OutsPitched >= cap {
			return true, "all_star_cap"
		}
		return false, ""
	}

	rules := d.relieverRules
	if role == models.RoleStarter {
		rules = d.starterRules
	}
	for _, rule := range rules {
		if rule.matches(d, ctx, current, line, role) {
			return true, rule.name
		}
	}
	return false, ""
}

// NeedsImmediateChange is the pre-pitch hard-floor check: a pitcher whose
// stamina has already fallen through the floor must not throw another
// pitch.
func (d *PitchingDirector) NeedsImmediateChange(team *models.Team, current *models.Player) bool {
	if team.RoleOf(current) == models.RoleStarter {
		return current.CurrentStamina <= d.policy.Starter.MinStamina
	}
	return current.CurrentStamina <= d.policy.Reliever.StaminaFloor
}

// Available applies every selectability constraint to a candidate arm.
// All must hold: healthy, unused in this game and today, entry stamina,
// and the consecutive-day anti-overuse rule for non-starter types.
func (d *PitchingDirector) Available(team *models.Team, p *models.Player, used []models.PlayerID) bool {
	if p == nil || p.Injured || p.UsedToday {
		return false
	}
	for _, id := range used {
		if id == p.ID {
			return false
		}
	}
	if p.AvailableStamina() < d.policy.Reliever.MinEntryStamina {
		return false
	}
	if team.RoleOf(p) != models.RoleStarter {
		if p.ConsecutiveDays >= 2 {
			return false
		}
		if p.ConsecutiveDays == 1 {
			if p.AvailableStamina() < d.policy.Reliever.SecondDayStamina ||
				p.Fatigue > d.policy.Reliever.SecondDayFatigueMax {
				return false
			}
		}
	}
	return true
}

// targetRoles is the role ladder keyed by score state and inning. Holding
// a narrow lead climbs toward the closer; a comfortable lead or a deficit
// deliberately conserves the high-leverage arms.
func (d *PitchingDirector) targetRoles(ctx PitchingContext) []models.PitcherRole {
	lead := ctx.ScoreDiff
	switch {
	case lead >= 1 && lead <= 3:
		switch {
		case ctx.Inning >= 9:
			return []models.PitcherRole{models.RoleCloser, models.RoleSetupA, models.RoleSetupB, models.RoleMiddle}
		case ctx.Inning == 8:
			return []models.PitcherRole{models.RoleSetupA, models.RoleSetupB, models.RoleCloser, models.RoleMiddle}
		case ctx.Inning == 7:
			return []models.PitcherRole{models.RoleSetupB, models.RoleSetupA, models.RoleMiddle}
		default:
			return []models.PitcherRole{models.RoleMiddle, models.RoleSetupB, models.RoleLong}
		}
	case lead >= 4:
		return []models.PitcherRole{models.RoleLong, models.RoleMiddle, models.RoleSetupB}
	case lead == 0:
		if ctx.Inning >= 8 {
			return []models.PitcherRole{models.RoleSetupA, models.RoleCloser, models.RoleSetupB, models.RoleMiddle}
		}
		return []models.PitcherRole{models.RoleMiddle, models.RoleLong, models.RoleSetupB}
	default:
		return []models.PitcherRole{models.RoleLong, models.RoleMiddle}
	}
}

// SelectReplacement picks the next arm for the given context, nil when the
// bullpen is exhausted (the caller keeps the tired pitcher in).
func (d *PitchingDirector) SelectReplacement(ctx PitchingContext, team *models.Team, current *models.Player, used []models.PlayerID, nextBatter *models.Player) *models.Player {
	pool := make([]*models.Player, 0, 8)
	for _, p := range team.RelieversIn(ctx.Tier) {
		if d.Available(team, p, used) {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	if ctx.GameType == GameAllStar {
		// Exhibition: best available arm, role ladder ignored.
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].Ratings.Overall(models.PositionPitcher) > pool[j].Ratings.Overall(models.PositionPitcher)
		})
		return pool[0]
	}

	// Late-inning platoon override: a specialist against an upcoming lefty,
	// unless a closer or primary setup arm is already on the mound.
	currentRole := team.RoleOf(current)
	if ctx.Inning >= 7 && nextBatter != nil && nextBatter.Bats == models.LeftHanded &&
		currentRole != models.RoleCloser && currentRole != models.RoleSetupA {
		for _, p := range pool {
			if team.RoleOf(p) == models.RoleSpecialist && p.Throws == models.LeftHanded {
				return p
			}
		}
	}

	for _, role := range d.targetRoles(ctx) {
		for _, p := range pool {
			if team.RoleOf(p) == role {
				return p
			}
		}
	}

	// No role-appropriate candidate: any eligible arm, best first when
	// protecting a lead, worst first when the game is out of reach.
	outOfReach := ctx.ScoreDiff <= -4 || ctx.ScoreDiff >= 7
	sort.SliceStable(pool, func(i, j int) bool {
		oi := pool[i].Ratings.Overall(models.PositionPitcher)
		oj := pool[j].Ratings.Overall(models.PositionPitcher)
		if outOfReach {
			return oi < oj
		}
		return oi > oj
	})
	return pool[0]
}

// CheckPitcherChange is the director's public decision point, consulted
// after every play. Nil means either no change is warranted or nobody
// eligible remains; the caller keeps the current pitcher in either way.
func (d *PitchingDirector) CheckPitcherChange(ctx PitchingContext, team *models.Team, current *models.Player, line *models.StatLine, used []models.PlayerID, nextBatter *models.Player) *models.Player {
	remove, _ := d.ShouldRemove(ctx, team, current, line)
	if !remove {
		return nil
	}
	return d.SelectReplacement(ctx, team, current, used, nextBatter)
}
