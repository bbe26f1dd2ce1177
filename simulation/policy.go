package simulation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StarterPolicy holds the removal thresholds for rotation starters. The
// numbers are tuned behavior, not derived constants, so they live in
// configuration rather than code.
type StarterPolicy struct {
	MaxPitches          int     `yaml:"max_pitches"`           // hard pitch-count ceiling
	MinStamina          float64 `yaml:"min_stamina"`           // hard stamina floor
	MaxInnings          int     `yaml:"max_innings"`           // innings-pitched cap
	EarlyRunLimit       int     `yaml:"early_run_limit"`       // blow-up, through the 3rd
	AbsoluteRunLimit    int     `yaml:"absolute_run_limit"`    // blow-up, any inning
	NewInningStamina    float64 `yaml:"new_inning_stamina"`    // needed to start a fresh inning
	QualityStartStamina float64 `yaml:"quality_start_stamina"` // relaxed bar on QS pace
	LateCloseMaxPitches int     `yaml:"late_close_max_pitches"`
	LateCloseStamina    float64 `yaml:"late_close_stamina"`
	NinthLeadMaxPitches int     `yaml:"ninth_lead_max_pitches"` // narrow 9th-inning lead handoff
	NinthLeadStamina    float64 `yaml:"ninth_lead_stamina"`
}

// RelieverPolicy holds the removal and availability thresholds for bullpen
// arms.
type RelieverPolicy struct {
	MaxOuts             int     `yaml:"max_outs"`      // normal relief appearance cap
	LongMaxOuts         int     `yaml:"long_max_outs"` // designated long relievers
	StaminaFloor        float64 `yaml:"stamina_floor"` // hard in-game floor
	PitchLimit          int     `yaml:"pitch_limit"`
	RunLimit            int     `yaml:"run_limit"`
	CloserSaveStamina   float64 `yaml:"closer_save_stamina"`   // closers finish saves down to this
	MinEntryStamina     float64 `yaml:"min_entry_stamina"`     // bench availability floor
	SecondDayStamina    float64 `yaml:"second_day_stamina"`    // required when pitching a 2nd straight day
	SecondDayFatigueMax float64 `yaml:"second_day_fatigue_max"`
}

// AllStarPolicy overrides the role ladder in exhibition games with strict
// innings caps.
type AllStarPolicy struct {
	FirstPitcherOuts int `yaml:"first_pitcher_outs"`
	OtherPitcherOuts int `yaml:"other_pitcher_outs"`
}

// PitchingPolicy is the full tunable table consumed by the pitching
// director.
type PitchingPolicy struct {
	Starter  StarterPolicy  `yaml:"starter"`
	Reliever RelieverPolicy `yaml:"reliever"`
	AllStar  AllStarPolicy  `yaml:"all_star"`
}

// DefaultPitchingPolicy returns the built-in threshold table.
func DefaultPitchingPolicy() PitchingPolicy {
	return PitchingPolicy{
		Starter: StarterPolicy{
			MaxPitches:          130,
			MinStamina:          5,
			MaxInnings:          9,
			EarlyRunLimit:       6,
			AbsoluteRunLimit:    8,
			NewInningStamina:    30,
			QualityStartStamina: 15,
			LateCloseMaxPitches: 110,
			LateCloseStamina:    25,
			NinthLeadMaxPitches: 100,
			NinthLeadStamina:    40,
		},
		Reliever: RelieverPolicy{
			MaxOuts:             6,
			LongMaxOuts:         9,
			StaminaFloor:        10,
			PitchLimit:          35,
			RunLimit:            3,
			CloserSaveStamina:   3,
			MinEntryStamina:     20,
			SecondDayStamina:    50,
			SecondDayFatigueMax: 50,
		},
		AllStar: AllStarPolicy{
			FirstPitcherOuts: 6,
			OtherPitcherOuts: 3,
		},
	}
}

// LoadPitchingPolicy overlays a YAML file on the defaults, so a config file
// only needs the thresholds it wants to change.
func LoadPitchingPolicy(path string) (PitchingPolicy, error) {
	policy := DefaultPitchingPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("failed to read pitching policy: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse pitching policy: %w", err)
	}
	return policy, nil
}
