package ai

import (
	"context"
	"fmt"

	"github.com/tailwag/dog-nutrition-backend/internal/analysis"
	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

// notConfiguredText is returned when no Gemini key is set. It is a normal
// (OK) result: an unconfigured service is an expected deployment state, not a
// failure worth a diagnostic.
const notConfiguredText = "Gemini API key not configured."

// Refiner turns a profile plus its deterministic block into normalized advice
// text via one best-effort call to the Generator.
type Refiner struct {
	gen Generator // nil when no API key is configured
}

// NewRefiner builds a Refiner. gen may be nil, in which case Refine returns
// the fixed not-configured notice without making any outbound call.
func NewRefiner(gen Generator) *Refiner {
	return &Refiner{gen: gen}
}

// Refine performs the single external call and normalizes the reply. It never
// returns an error: call and parse failures come back as a failure-tagged
// Result whose Render output embeds the reason and the raw reply.
func (r *Refiner) Refine(ctx context.Context, rec profile.Record, block analysis.Block) Result {
	if r.gen == nil {
		return Result{Text: notConfiguredText}
	}

	raw, err := r.gen.Generate(ctx, buildPrompt(rec, block))
	if err != nil {
		return Result{Reason: fmt.Sprintf("Gemini call failed: %v", err)}
	}

	text, err := normalize(raw)
	if err != nil {
		return Result{Reason: err.Error(), Raw: raw}
	}
	return Result{Text: text}
}
