package models

import (
	"fmt"
	"sort"
)

// RosterTier is the squad a player is assigned to. Tier membership
// partitions the roster: a player belongs to exactly one tier.
type RosterTier string

const (
	TierActive        RosterTier = "active"
	TierFarm          RosterTier = "farm"
	TierDevelopmental RosterTier = "developmental"
)

// ActiveRosterCap is the NPB-style active roster limit.
const ActiveRosterCap = 31

// PitcherRole classifies a pitcher's bullpen assignment. Explicit team
// assignments take precedence; Team.RoleOf falls back to a heuristic when a
// pitcher has no explicit slot.
type PitcherRole string

const (
	RoleStarter    PitcherRole = "starter"
	RoleCloser     PitcherRole = "closer"
	RoleSetupA     PitcherRole = "setup_a"
	RoleSetupB     PitcherRole = "setup_b"
	RoleMiddle     PitcherRole = "middle"
	RoleLong       PitcherRole = "long"
	RoleSpecialist PitcherRole = "specialist"
)

// Team is a franchise roster. Every ordered structure (lineup, rotation,
// bullpen slots, tiers) is a sequence of PlayerIDs resolved through Players
// at use time; no positional index is ever stored.
type Team struct {
	Name   string `json:"name"`
	League string `json:"league"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`

	Players map[PlayerID]*Player `json:"players"`

	Active        []PlayerID `json:"active"`
	Farm          []PlayerID `json:"farm"`
	Developmental []PlayerID `json:"developmental"`

	Lineup      []PlayerID `json:"lineup"`   // batting order, 9 ids
	Rotation    []PlayerID `json:"rotation"` // up to 6 ids
	RotationIdx int        `json:"rotation_idx"`

	Closer      PlayerID   `json:"closer"`
	SetupA      PlayerID   `json:"setup_a"`
	SetupB      PlayerID   `json:"setup_b"`
	LongRelief  []PlayerID `json:"long_relief"`
	Specialists []PlayerID `json:"specialists"`
	Bench       []PlayerID `json:"bench"`
}

// NewTeam creates an empty franchise.
func NewTeam(name, league string) *Team {
	return &Team{
		Name:    name,
		League:  league,
		Players: make(map[PlayerID]*Player),
	}
}

// AddPlayer registers a player on the given tier. The active roster cap is
// enforced here; promotion past the cap is a roster-management error.
func (t *Team) AddPlayer(p *Player, tier RosterTier) error {
	if p == nil {
		return fmt.Errorf("nil player")
	}
	if _, exists := t.Players[p.ID]; exists {
		return fmt.Errorf("player %s already on roster", p.Name)
	}
	if tier == TierActive && len(t.Active) >= ActiveRosterCap {
		return fmt.Errorf("active roster full (%d)", ActiveRosterCap)
	}
	t.Players[p.ID] = p
	switch tier {
	case TierActive:
		t.Active = append(t.Active, p.ID)
	case TierFarm:
		t.Farm = append(t.Farm, p.ID)
	case TierDevelopmental:
		t.Developmental = append(t.Developmental, p.ID)
	default:
		delete(t.Players, p.ID)
		return fmt.Errorf("unknown roster tier %q", tier)
	}
	return nil
}

// MoveToTier reassigns a player between tiers. Players are never removed
// from the franchise, only reassigned.
func (t *Team) MoveToTier(id PlayerID, tier RosterTier) error {
	if _, ok := t.Players[id]; !ok {
		return fmt.Errorf("player %s not on roster", id)
	}
	if tier == TierActive && len(t.Active) >= ActiveRosterCap {
		return fmt.Errorf("active roster full (%d)", ActiveRosterCap)
	}
	t.Active = removeID(t.Active, id)
	t.Farm = removeID(t.Farm, id)
	t.Developmental = removeID(t.Developmental, id)
	switch tier {
	case TierActive:
		t.Active = append(t.Active, id)
	case TierFarm:
		t.Farm = append(t.Farm, id)
	case TierDevelopmental:
		t.Developmental = append(t.Developmental, id)
	default:
		return fmt.Errorf("unknown roster tier %q", tier)
	}
	return nil
}

func removeID(ids []PlayerID, id PlayerID) []PlayerID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Player resolves an id, nil when absent or empty. Callers skip nil slots
// rather than failing (invalid references are a configuration gap the
// roster layer should have fixed).
func (t *Team) Player(id PlayerID) *Player {
	if id == "" {
		return nil
	}
	return t.Players[id]
}

// LineupPlayers resolves the batting order, silently skipping ids that no
// longer resolve.
func (t *Team) LineupPlayers() []*Player {
	out := make([]*Player, 0, len(t.Lineup))
	for _, id := range t.Lineup {
		if p := t.Player(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// NextStarter returns the rotation pitcher at the cursor and advances the
// cursor, wrapping around. Nil when the rotation is empty or all its ids
// are stale.
func (t *Team) NextStarter() *Player {
	if len(t.Rotation) == 0 {
		return nil
	}
	for i := 0; i < len(t.Rotation); i++ {
		idx := (t.RotationIdx + i) % len(t.Rotation)
		if p := t.Player(t.Rotation[idx]); p != nil {
			t.RotationIdx = (idx + 1) % len(t.Rotation)
			return p
		}
	}
	return nil
}

// TierIDs returns the roster list for a tier. An empty tier means the
// active squad.
func (t *Team) TierIDs(tier RosterTier) []PlayerID {
	switch tier {
	case TierFarm:
		return t.Farm
	case TierDevelopmental:
		return t.Developmental
	default:
		return t.Active
	}
}

// RelieversIn returns the tier's bullpen, ordered by name so selection is
// stable across runs. The active squad excludes rotation arms; farm and
// developmental squads carry no set rotation, so every pitcher on the
// list is eligible.
func (t *Team) RelieversIn(tier RosterTier) []*Player {
	inRotation := make(map[PlayerID]bool, len(t.Rotation))
	if tier == "" || tier == TierActive {
		for _, id := range t.Rotation {
			inRotation[id] = true
		}
	}
	var out []*Player
	for _, id := range t.TierIDs(tier) {
		p := t.Player(id)
		if p == nil || !p.IsPitcher() || inRotation[p.ID] {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Relievers returns the active-roster bullpen.
func (t *Team) Relievers() []*Player {
	return t.RelieversIn(TierActive)
}

// LineupFor resolves the batting order a game at the given tier fields.
// The active squad bats its set order; farm and developmental squads
// build a nine from the tier's position players, covering each position
// with its best bat and ordering the rest behind them.
func (t *Team) LineupFor(tier RosterTier) []*Player {
	if tier == "" || tier == TierActive {
		return t.LineupPlayers()
	}
	var pool []*Player
	for _, id := range t.TierIDs(tier) {
		p := t.Player(id)
		if p != nil && !p.IsPitcher() {
			pool = append(pool, p)
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		oi := pool[i].Ratings.Overall(pool[i].Position)
		oj := pool[j].Ratings.Overall(pool[j].Position)
		if oi != oj {
			return oi > oj
		}
		return pool[i].Name < pool[j].Name
	})
	taken := make(map[Position]bool)
	out := make([]*Player, 0, 9)
	var bench []*Player
	for _, p := range pool {
		if taken[p.Position] {
			bench = append(bench, p)
			continue
		}
		taken[p.Position] = true
		out = append(out, p)
	}
	for _, p := range bench {
		if len(out) >= 9 {
			break
		}
		out = append(out, p)
	}
	if len(out) > 9 {
		out = out[:9]
	}
	return out
}

// RoleOf classifies a pitcher. Explicit assignments (rotation, closer,
// setup, long, specialist slots) win; otherwise the role is inferred from
// handedness, stamina, and stuff.
func (t *Team) RoleOf(p *Player) PitcherRole {
	if p == nil {
		return RoleMiddle
	}
	for _, id := range t.Rotation {
		if id == p.ID {
			return RoleStarter
		}
	}
	if p.ID == t.Closer {
		return RoleCloser
	}
	if p.ID == t.SetupA {
		return RoleSetupA
	}
	if p.ID == t.SetupB {
		return RoleSetupB
	}
	for _, id := range t.LongRelief {
		if id == p.ID {
			return RoleLong
		}
	}
	for _, id := range t.Specialists {
		if id == p.ID {
			return RoleSpecialist
		}
	}
	// Fallback heuristic for unassigned arms.
	if p.Throws == LeftHanded && p.Ratings.Stuff >= 60 && p.Ratings.Stamina < 40 {
		return RoleSpecialist
	}
	if p.Ratings.Stamina >= 70 {
		return RoleLong
	}
	return RoleMiddle
}

// ValidateGameReady reports configuration gaps that the roster-management
// layer must fix before a game can start.
func (t *Team) ValidateGameReady() error {
	if len(t.LineupPlayers()) < 9 {
		return fmt.Errorf("team %s: lineup has %d valid slots, need 9", t.Name, len(t.LineupPlayers()))
	}
	hasStarter := false
	for _, id := range t.Rotation {
		if p := t.Player(id); p != nil && p.IsPitcher() {
			hasStarter = true
			break
		}
	}
	if !hasStarter {
		return fmt.Errorf("team %s: no eligible rotation starter", t.Name)
	}
	return nil
}

// RecoverDaily runs the daily recovery pass over every player on the
// franchise, all tiers.
func (t *Team) RecoverDaily() {
	for _, p := range t.Players {
		p.RecoverDaily()
	}
}
