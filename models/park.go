package models

import "math/rand"

// ParkFactors represents how a ballpark shifts outcome rates.
// 100 is neutral; >100 favors offense for that outcome.
type ParkFactors struct {
	RunsFactor    float64 `json:"runs_factor"`
	HRFactor      float64 `json:"hr_factor"`
	HitsFactor    float64 `json:"hits_factor"`
	DoublesFactor float64 `json:"doubles_factor"`
	TriplesFactor float64 `json:"triples_factor"`

	// Handedness splits
	LHBHRFactor float64 `json:"lhb_hr_factor"`
	RHBHRFactor float64 `json:"rhb_hr_factor"`
}

// HRMultiplier returns the home-run factor for a batter's handedness,
// falling back to the overall HR factor when no split is set.
func (pf *ParkFactors) HRMultiplier(batterHand Hand) float64 {
	if batterHand == LeftHanded && pf.LHBHRFactor > 0 {
		return pf.LHBHRFactor / 100.0
	}
	if batterHand == RightHanded && pf.RHBHRFactor > 0 {
		return pf.RHBHRFactor / 100.0
	}
	if pf.HRFactor > 0 {
		return pf.HRFactor / 100.0
	}
	return 1.0
}

// HitsMultiplier returns the park factor for balls in play.
func (pf *ParkFactors) HitsMultiplier() float64 {
	if pf.HitsFactor > 0 {
		return pf.HitsFactor / 100.0
	}
	return 1.0
}

// DefaultParkFactors returns a neutral park.
func DefaultParkFactors() ParkFactors {
	return ParkFactors{
		RunsFactor:    100.0,
		HRFactor:      100.0,
		HitsFactor:    100.0,
		DoublesFactor: 100.0,
		TriplesFactor: 100.0,
		LHBHRFactor:   100.0,
		RHBHRFactor:   100.0,
	}
}

// GameConditions are the day's playing conditions. They are generated from
// the game's seeded RNG so a replayed seed reproduces them exactly.
type GameConditions struct {
	Temperature int    `json:"temperature"` // Fahrenheit
	WindSpeed   int    `json:"wind_speed"`  // MPH
	WindDir     string `json:"wind_dir"`    // "in", "out", "left", "right", "calm"
}

// GenerateConditions samples plausible conditions from the provided RNG.
func GenerateConditions(rng *rand.Rand) GameConditions {
	dirs := []string{"calm", "in", "out", "left", "right"}
	return GameConditions{
		Temperature: 55 + rng.Intn(40),
		WindSpeed:   rng.Intn(18),
		WindDir:     dirs[rng.Intn(len(dirs))],
	}
}

// CarryFactor returns a multiplier on fly-ball distance. Wind blowing out
// and hot air help carry; wind blowing in and cold hurt it.
func (gc *GameConditions) CarryFactor() float64 {
	carry := 1.0
	switch gc.WindDir {
	case "out":
		carry += float64(gc.WindSpeed) * 0.004
	case "in":
		carry -= float64(gc.WindSpeed) * 0.004
	}
	if gc.Temperature >= 85 {
		carry += 0.02
	} else if gc.Temperature <= 50 {
		carry -= 0.02
	}
	return carry
}
