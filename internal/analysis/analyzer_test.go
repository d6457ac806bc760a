package analysis_test

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailwag/dog-nutrition-backend/internal/analysis"
)

var labradorRef = analysis.BreedReference{
	"labrador": {MinKg: 25, MaxKg: 36},
}

// ─── Analyze — breed band ─────────────────────────────────────────────────────

func TestAnalyze_BreedBand(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   analysis.Category
	}{
		{"strictly inside band", 30, analysis.CategoryIdeal},
		{"just above min", 25.1, analysis.CategoryIdeal},
		{"just below max", 35.9, analysis.CategoryIdeal},
		{"on min boundary", 25, analysis.CategoryIdeal},
		{"on max boundary", 36, analysis.CategoryIdeal},
		{"below min", 24.9, analysis.CategoryUnderweight},
		{"above max", 36.1, analysis.CategoryOverweight},
		{"far below", 10, analysis.CategoryUnderweight},
		{"far above", 50, analysis.CategoryOverweight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := analysis.Analyze(analysis.Subject{
				Breed:    "labrador",
				WeightKg: tt.weight,
			}, labradorRef)
			if block.Category != tt.want {
				t.Errorf("weight %v: got %q, want %q", tt.weight, block.Category, tt.want)
			}
		})
	}
}

func TestAnalyze_BreedBandDetailLine(t *testing.T) {
	block := analysis.Analyze(analysis.Subject{Breed: "labrador", WeightKg: 30}, labradorRef)
	if len(block.Details) != 1 {
		t.Fatalf("expected 1 detail line, got %d: %v", len(block.Details), block.Details)
	}
	if block.Details[0] != "Breed ideal range: 25–36 kg" {
		t.Errorf("detail line: got %q", block.Details[0])
	}
}

// ─── Analyze — ratio fallback ─────────────────────────────────────────────────

func TestAnalyze_RatioFallback(t *testing.T) {
	tests := []struct {
		name       string
		weight     float64
		height     float64
		want       analysis.Category
		wantDetail string
	}{
		{"ratio 6 ideal", 9, 150, analysis.CategoryIdeal, "Fallback weight-height ratio: 6.00"},
		{"ratio 4 underweight", 6, 150, analysis.CategoryUnderweight, "Fallback weight-height ratio: 4.00"},
		{"ratio 13.33 overweight", 20, 150, analysis.CategoryOverweight, "Fallback weight-height ratio: 13.33"},
		{"ratio 5 exactly ideal", 7.5, 150, analysis.CategoryIdeal, "Fallback weight-height ratio: 5.00"},
		{"ratio 12 exactly ideal", 18, 150, analysis.CategoryIdeal, "Fallback weight-height ratio: 12.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := analysis.Analyze(analysis.Subject{
				Breed:    "unknown-breed",
				WeightKg: tt.weight,
				HeightCm: tt.height,
			}, labradorRef)
			if block.Category != tt.want {
				t.Errorf("got %q, want %q", block.Category, tt.want)
			}
			if len(block.Details) != 1 || block.Details[0] != tt.wantDetail {
				t.Errorf("details: got %v, want [%q]", block.Details, tt.wantDetail)
			}
		})
	}
}

func TestAnalyze_EmptyBreedUsesRatio(t *testing.T) {
	block := analysis.Analyze(analysis.Subject{WeightKg: 9, HeightCm: 150}, labradorRef)
	if block.Category != analysis.CategoryIdeal {
		t.Errorf("got %q, want ideal", block.Category)
	}
}

// ─── Analyze — insufficient data ──────────────────────────────────────────────

func TestAnalyze_InsufficientData(t *testing.T) {
	block := analysis.Analyze(analysis.Subject{Breed: "mystery", WeightKg: 12}, labradorRef)
	if block.Category != analysis.CategoryUnknown {
		t.Errorf("category: got %q, want unknown", block.Category)
	}
	if len(block.Details) != 1 || block.Details[0] != "insufficient data" {
		t.Errorf("details: got %v", block.Details)
	}
}

func TestAnalyze_NilReference(t *testing.T) {
	// A missing reference table must degrade to the ratio branch, not panic.
	block := analysis.Analyze(analysis.Subject{Breed: "labrador", WeightKg: 9, HeightCm: 150}, nil)
	if block.Category != analysis.CategoryIdeal {
		t.Errorf("got %q, want ideal via ratio fallback", block.Category)
	}
}

// ─── Calorie estimate ─────────────────────────────────────────────────────────

func TestAnalyze_CalorieEstimate(t *testing.T) {
	// 70 * 10^0.75 = 393.6389…
	resting := 70 * math.Pow(10, 0.75)
	tests := []struct {
		activity string
		want     int
	}{
		{"low", int(resting * 1.2)},      // 472
		{"moderate", int(resting * 1.0)}, // 393
		{"high", int(resting * 1.4)},     // 551
		{"", int(resting * 1.4)},
		{"sedentary", int(resting * 1.4)},
	}
	for _, tt := range tests {
		t.Run("activity="+tt.activity, func(t *testing.T) {
			block := analysis.Analyze(analysis.Subject{
				WeightKg: 10, HeightCm: 100, ActivityLevel: tt.activity,
			}, nil)
			if block.CalorieEstimate == nil {
				t.Fatal("expected calorie estimate, got nil")
			}
			if *block.CalorieEstimate != tt.want {
				t.Errorf("got %d kcal, want %d", *block.CalorieEstimate, tt.want)
			}
		})
	}
}

func TestAnalyze_ZeroWeightNoCalorieEstimate(t *testing.T) {
	for _, activity := range []string{"low", "moderate", "high", ""} {
		block := analysis.Analyze(analysis.Subject{WeightKg: 0, ActivityLevel: activity}, nil)
		if block.CalorieEstimate != nil {
			t.Errorf("activity=%q: expected nil calorie estimate, got %d", activity, *block.CalorieEstimate)
		}
	}
}

func TestBlock_NilCalorieMarshalsAsNull(t *testing.T) {
	block := analysis.Analyze(analysis.Subject{}, nil)
	b, err := json.Marshal(block)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := m["calorie_estimate_kcal_per_day"]; !ok || v != nil {
		t.Errorf("calorie_estimate_kcal_per_day should be an explicit null, got %v", v)
	}
}

// ─── Exercise minutes ─────────────────────────────────────────────────────────

func TestAnalyze_ExerciseMinutes(t *testing.T) {
	tests := []struct {
		activity string
		want     int
	}{
		{"low", 30},
		{"moderate", 60},
		{"high", 90},
		{"", 90},
		{"couch potato", 90},
	}
	for _, tt := range tests {
		block := analysis.Analyze(analysis.Subject{WeightKg: 10, ActivityLevel: tt.activity}, nil)
		if block.ExerciseMinutes != tt.want {
			t.Errorf("activity=%q: got %d minutes, want %d", tt.activity, block.ExerciseMinutes, tt.want)
		}
	}
}

// ─── LoadBreedReference ───────────────────────────────────────────────────────

func TestLoadBreedReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breed_db.json")
	content := `{"labrador":{"min_kg":25,"max_kg":36},"chihuahua":{"min_kg":1.5,"max_kg":3}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	ref, err := analysis.LoadBreedReference(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ref) != 2 {
		t.Fatalf("expected 2 breeds, got %d", len(ref))
	}
	if band := ref["chihuahua"]; band.MinKg != 1.5 || band.MaxKg != 3 {
		t.Errorf("chihuahua band: got %+v", band)
	}
}

func TestLoadBreedReference_MissingFile(t *testing.T) {
	if _, err := analysis.LoadBreedReference(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBreedReference_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breed_db.json")
	if err := os.WriteFile(path, []byte(`{broken`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := analysis.LoadBreedReference(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
