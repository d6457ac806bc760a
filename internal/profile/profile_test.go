package profile_test

import (
	"encoding/json"
	"testing"

	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

func TestNew_FullPayload(t *testing.T) {
	raw := profile.Payload{
		"name":             "Rex",
		"breed":            "labrador",
		"age_years":        3.5,
		"weight_kg":        28.0,
		"height_cm":        56.0,
		"gender":           "male",
		"activity_level":   "moderate",
		"current_diet":     "dry kibble",
		"exercise_routine": "two walks a day",
		"health_history":   "none",
	}

	rec := profile.New(raw, "alice")

	if rec.DogID == "" {
		t.Error("expected a generated dog_id")
	}
	if rec.Owner != "alice" {
		t.Errorf("owner: got %q, want alice", rec.Owner)
	}
	if rec.Name != "Rex" || rec.Breed != "labrador" {
		t.Errorf("name/breed: got %q/%q", rec.Name, rec.Breed)
	}
	if rec.AgeYears != 3.5 || rec.WeightKg != 28 || rec.HeightCm != 56 {
		t.Errorf("numeric fields: got age=%v weight=%v height=%v", rec.AgeYears, rec.WeightKg, rec.HeightCm)
	}
	if rec.ActivityLevel != "moderate" {
		t.Errorf("activity: got %q", rec.ActivityLevel)
	}
}

func TestNew_GarbageInputDefaultsToZero(t *testing.T) {
	raw := profile.Payload{
		"name":      12345, // wrong type
		"weight_kg": "not a number",
		"height_cm": nil,
		"age_years": []string{"3"},
	}

	rec := profile.New(raw, "bob")

	if rec.Name != "" {
		t.Errorf("non-string name should coerce to empty, got %q", rec.Name)
	}
	if rec.WeightKg != 0 || rec.HeightCm != 0 || rec.AgeYears != 0 {
		t.Errorf("unparseable numbers should coerce to 0, got weight=%v height=%v age=%v",
			rec.WeightKg, rec.HeightCm, rec.AgeYears)
	}
}

func TestNew_EmptyPayload(t *testing.T) {
	rec := profile.New(profile.Payload{}, "carol")
	if rec.Owner != "carol" {
		t.Errorf("owner: got %q", rec.Owner)
	}
	if rec.WeightKg != 0 {
		t.Errorf("missing weight should default to 0, got %v", rec.WeightKg)
	}
	if rec.DogID == "" {
		t.Error("dog_id must be assigned even for empty input")
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	a := profile.New(profile.Payload{}, "o")
	b := profile.New(profile.Payload{}, "o")
	if a.DogID == b.DogID {
		t.Errorf("two records share dog_id %q", a.DogID)
	}
}

func TestPayload_FloatForms(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want float64
	}{
		{"float64", 12.5, 12.5},
		{"int", 7, 7},
		{"json.Number", json.Number("9.25"), 9.25},
		{"bad json.Number", json.Number("abc"), 0},
		{"numeric string", "4.5", 4.5},
		{"garbage string", "heavy", 0},
		{"nil", nil, 0},
		{"missing key", struct{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := profile.Payload{"w": tt.val}
			if got := p.Float("w"); got != tt.want {
				t.Errorf("Float(%v) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}

func TestRecord_JSONFieldNames(t *testing.T) {
	rec := profile.Record{DogID: "d1", Owner: "alice", WeightKg: 10}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"dog_id", "owner", "weight_kg", "height_cm", "activity_level", "health_history"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing JSON key %q", key)
		}
	}
}
