// Package assessment composes the profile store, deterministic analyzer, and
// refinement adapter into the one operation the API exposes: assess a dog's
// weight and nutrition for its owner.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tailwag/dog-nutrition-backend/internal/ai"
	"github.com/tailwag/dog-nutrition-backend/internal/analysis"
	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

var (
	// ErrNotFound means the requested dog_id has no stored profile.
	ErrNotFound = errors.New("assessment: profile not found")

	// ErrForbidden means the stored profile belongs to a different owner.
	// Callers must never see another owner's data, not even its existence
	// beyond this error.
	ErrForbidden = errors.New("assessment: profile owned by another user")

	// ErrProfileRequired means the request carried neither a dog_id nor an
	// inline profile payload.
	ErrProfileRequired = errors.New("assessment: profile required")
)

// ProfileSource loads the stored profile collection.
type ProfileSource interface {
	Load() (profile.Collection, error)
}

// BreedSource loads the breed reference table. Called fresh on every
// assessment so reference edits take effect without restart.
type BreedSource interface {
	Breeds() (analysis.BreedReference, error)
}

// Refiner produces the optional externally-generated elaboration. It reports
// failure inside its Result rather than through an error — refinement never
// blocks an assessment.
type Refiner interface {
	Refine(ctx context.Context, rec profile.Record, block analysis.Block) ai.Result
}

// Request is the assessment request body. Exactly one of DogID or Profile is
// expected; DogID wins when both are set. RefineWithGemini defaults to true
// when absent.
type Request struct {
	DogID            string          `json:"dog_id"`
	Profile          profile.Payload `json:"profile"`
	RefineWithGemini *bool           `json:"refine_with_gemini"`
}

// Result is the assessment response. GeminiRefinement is nil when refinement
// was not requested; when refinement ran but failed, it carries the rendered
// diagnostic instead of advice.
type Result struct {
	Deterministic    analysis.Block `json:"deterministic"`
	GeminiRefinement *string        `json:"gemini_refinement"`
}

// Orchestrator wires the three collaborators together.
type Orchestrator struct {
	profiles ProfileSource
	breeds   BreedSource
	refiner  Refiner
	logger   *slog.Logger
}

// New constructs an Orchestrator.
func New(profiles ProfileSource, breeds BreedSource, refiner Refiner, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		profiles: profiles,
		breeds:   breeds,
		refiner:  refiner,
		logger:   logger,
	}
}

// Assess resolves the target profile, runs the deterministic analyzer, and —
// unless the request opted out — the refinement pass. Store and reference
// errors abort the assessment; refinement failure is reported inline in the
// result instead.
func (o *Orchestrator) Assess(ctx context.Context, req Request, currentUser string) (Result, error) {
	rec, err := o.resolveProfile(req, currentUser)
	if err != nil {
		return Result{}, err
	}

	ref, err := o.breeds.Breeds()
	if err != nil {
		return Result{}, fmt.Errorf("load breed reference: %w", err)
	}

	block := analysis.Analyze(analysis.Subject{
		Breed:         rec.Breed,
		WeightKg:      rec.WeightKg,
		HeightCm:      rec.HeightCm,
		ActivityLevel: rec.ActivityLevel,
	}, ref)

	result := Result{Deterministic: block}

	if req.RefineWithGemini == nil || *req.RefineWithGemini {
		refinement := o.refiner.Refine(ctx, rec, block)
		if !refinement.OK() {
			o.logger.Warn("refinement failed",
				"dog_id", rec.DogID,
				"reason", refinement.Reason,
			)
		}
		text := refinement.Render()
		result.GeminiRefinement = &text
	}

	return result, nil
}

// resolveProfile picks the stored profile named by dog_id (with ownership
// check) or builds an ephemeral record from the inline payload.
func (o *Orchestrator) resolveProfile(req Request, currentUser string) (profile.Record, error) {
	if req.DogID != "" {
		c, err := o.profiles.Load()
		if err != nil {
			return profile.Record{}, fmt.Errorf("load profiles: %w", err)
		}
		rec, ok := c[req.DogID]
		if !ok {
			return profile.Record{}, ErrNotFound
		}
		if rec.Owner != currentUser {
			return profile.Record{}, ErrForbidden
		}
		return rec, nil
	}

	if len(req.Profile) > 0 {
		// Inline profiles are analyzed, never persisted.
		return profile.New(req.Profile, currentUser), nil
	}

	return profile.Record{}, ErrProfileRequired
}
