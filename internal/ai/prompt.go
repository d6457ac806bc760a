package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailwag/dog-nutrition-backend/internal/analysis"
	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

// sectionKeys are the four top-level keys the model is instructed to return,
// in the order sections are rendered.
var sectionKeys = []string{"nutrition", "exercise", "risks", "vet_recommendations"}

// buildPrompt serialises the profile's key fields and the deterministic
// summary into the prompt sent to the model.
func buildPrompt(rec profile.Record, block analysis.Block) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Dog profile: name=%s, breed=%s, age=%g yrs, weight=%g kg, height=%g cm, activity=%s.\n",
		rec.Name, rec.Breed, rec.AgeYears, rec.WeightKg, rec.HeightCm, rec.ActivityLevel)

	// The deterministic block is embedded as JSON so the model sees the exact
	// category, detail lines, and numeric recommendations.
	summary, err := json.Marshal(block)
	if err != nil {
		summary = []byte(fmt.Sprintf("%+v", block))
	}
	fmt.Fprintf(&sb, "Deterministic analysis: %s.\n", summary)

	sb.WriteString("Provide precise, breed-specific nutrition, portion sizes, exercise plan, supplements if any, ")
	sb.WriteString("and risk evaluation. Be conservative and include references to vet care when needed. ")
	fmt.Fprintf(&sb, "Output as JSON with keys: %s.", strings.Join(sectionKeys, ", "))

	return sb.String()
}
