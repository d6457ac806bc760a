package analysis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Band is the ideal weight range for a breed.
type Band struct {
	MinKg float64 `json:"min_kg"`
	MaxKg float64 `json:"max_kg"`
}

// BreedReference maps breed name → ideal weight band. Read-only reference
// data; the orchestrator loads it fresh for every assessment so edits to the
// file take effect without a restart.
type BreedReference map[string]Band

// LoadBreedReference reads the breed reference JSON from path.
func LoadBreedReference(path string) (BreedReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analysis: read breed reference: %w", err)
	}
	var ref BreedReference
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("analysis: parse breed reference: %w", err)
	}
	return ref, nil
}
