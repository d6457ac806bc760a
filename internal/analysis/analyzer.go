// Package analysis computes the deterministic part of an assessment: weight
// category, calorie estimate, and exercise target. Everything here is a pure
// function of its inputs — no I/O, no failure path. Malformed input degrades
// to the unknown category and absent numeric outputs, never an error.
package analysis

import (
	"fmt"
	"math"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Weight-for-height ratio thresholds for the fallback heuristic used when the
// breed is not in the reference table. Fixed policy constants, not derived
// from data.
const (
	ratioUnderweight = 5
	ratioOverweight  = 12
)

// Resting-energy constants: kcal/day = restingKcalBase * weight^restingKcalExp,
// then scaled by the activity multiplier.
const (
	restingKcalBase = 70
	restingKcalExp  = 0.75
)

// Activity multipliers and exercise targets. Any activity level outside
// low/moderate — including "high" and empty — takes the last row.
const (
	multiplierLow      = 1.2
	multiplierModerate = 1.0
	multiplierOther    = 1.4

	exerciseMinutesLow      = 30
	exerciseMinutesModerate = 60
	exerciseMinutesOther    = 90
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Category is the weight classification for a profile.
type Category string

const (
	CategoryUnderweight Category = "underweight"
	CategoryIdeal       Category = "ideal"
	CategoryOverweight  Category = "overweight"
	CategoryUnknown     Category = "unknown"
)

// Block is the deterministic portion of an assessment. CalorieEstimate is nil
// — not zero — when the profile has no usable weight.
type Block struct {
	Category        Category `json:"category"`
	Details         []string `json:"details"`
	CalorieEstimate *int     `json:"calorie_estimate_kcal_per_day"`
	ExerciseMinutes int      `json:"exercise_minutes_per_day"`
}

// Subject is the slice of a profile the analyzer reads. Defined locally so
// analysis/ stays import-free from the profile package and trivially
// constructable in tests.
type Subject struct {
	Breed         string
	WeightKg      float64
	HeightCm      float64
	ActivityLevel string
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// Analyze classifies the subject's weight and derives calorie and exercise
// recommendations.
//
// Classification order:
//  1. breed found in ref       → compare weight against the breed band
//  2. height known             → weight-for-height ratio heuristic
//  3. otherwise                → unknown, "insufficient data"
//
// Weights on a band boundary count as inside the band.
func Analyze(s Subject, ref BreedReference) Block {
	category := CategoryUnknown
	var details []string

	if band, ok := ref[s.Breed]; s.Breed != "" && ok {
		switch {
		case s.WeightKg < band.MinKg:
			category = CategoryUnderweight
		case s.WeightKg > band.MaxKg:
			category = CategoryOverweight
		default:
			category = CategoryIdeal
		}
		details = append(details, fmt.Sprintf("Breed ideal range: %g–%g kg", band.MinKg, band.MaxKg))
	} else if s.HeightCm > 0 {
		ratio := s.WeightKg / (s.HeightCm / 100)
		switch {
		case ratio < ratioUnderweight:
			category = CategoryUnderweight
		case ratio > ratioOverweight:
			category = CategoryOverweight
		default:
			category = CategoryIdeal
		}
		details = append(details, fmt.Sprintf("Fallback weight-height ratio: %.2f", ratio))
	} else {
		details = append(details, "insufficient data")
	}

	return Block{
		Category:        category,
		Details:         details,
		CalorieEstimate: calorieEstimate(s.WeightKg, s.ActivityLevel),
		ExerciseMinutes: exerciseMinutes(s.ActivityLevel),
	}
}

// calorieEstimate returns the daily kcal recommendation, or nil when the
// weight is unknown (zero). The scaled value is truncated, not rounded.
func calorieEstimate(weightKg float64, activity string) *int {
	if weightKg <= 0 {
		return nil
	}
	resting := restingKcalBase * math.Pow(weightKg, restingKcalExp)
	kcal := int(resting * activityMultiplier(activity))
	return &kcal
}

func activityMultiplier(activity string) float64 {
	switch activity {
	case "low":
		return multiplierLow
	case "moderate":
		return multiplierModerate
	default:
		return multiplierOther
	}
}

// exerciseMinutes is a fixed lookup, independent of the calorie estimate.
func exerciseMinutes(activity string) int {
	switch activity {
	case "low":
		return exerciseMinutesLow
	case "moderate":
		return exerciseMinutesModerate
	default:
		return exerciseMinutesOther
	}
}
