// Package profile defines the dog profile record and the factory that builds
// one from loosely-typed client input. It is deliberately dependency-free of
// the store and API packages so it can be used from tests without any wiring.
package profile

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// Record is a single dog's biometric and lifestyle profile.
// DogID and Owner are assigned once at creation and never change.
type Record struct {
	DogID string `json:"dog_id"`
	Owner string `json:"owner"`

	Name  string `json:"name"`
	Breed string `json:"breed"`

	AgeYears float64 `json:"age_years"`
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`

	Gender        string `json:"gender"`
	ActivityLevel string `json:"activity_level"` // low | moderate | high (free-form tolerated)

	CurrentDiet     string `json:"current_diet"`
	ExerciseRoutine string `json:"exercise_routine"`
	HealthHistory   string `json:"health_history"`
}

// Collection maps dog_id → Record. It is the unit of persistence: the store
// always encrypts and replaces the whole collection, never individual records.
type Collection map[string]Record

// Payload is the raw, untyped client input for a profile. Numeric fields may
// arrive as JSON numbers or strings; anything unparseable coerces to zero.
type Payload map[string]any

// New builds a canonical Record from raw input. It always succeeds: garbage
// input yields a record with zero-valued fields rather than an error. The
// dog_id is a fresh random UUID, so collisions are not a practical concern.
func New(raw Payload, owner string) Record {
	return Record{
		DogID:           uuid.NewString(),
		Owner:           owner,
		Name:            raw.Text("name"),
		Breed:           raw.Text("breed"),
		AgeYears:        raw.Float("age_years"),
		WeightKg:        raw.Float("weight_kg"),
		HeightCm:        raw.Float("height_cm"),
		Gender:          raw.Text("gender"),
		ActivityLevel:   raw.Text("activity_level"),
		CurrentDiet:     raw.Text("current_diet"),
		ExerciseRoutine: raw.Text("exercise_routine"),
		HealthHistory:   raw.Text("health_history"),
	}
}

// Text returns the named field as a string, or "" when absent or not
// string-valued.
func (p Payload) Text(key string) string {
	s, _ := p[key].(string)
	return s
}

// Float returns the named field as a float64. Accepted forms: JSON numbers,
// json.Number, and numeric strings. Missing, null, and unparseable values all
// coerce to 0 — callers rely on zero meaning "unknown", e.g. weight 0 means
// no calorie estimate.
func (p Payload) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
