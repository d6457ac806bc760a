// Package ai sends a dog's profile and deterministic analysis to Gemini and
// normalizes the loosely-structured reply into readable advice sections.
// Failures here are reported, never fatal: the assessment keeps its
// deterministic block regardless of what the model returns.
package ai

import (
	"context"
	"fmt"
)

// Generator is the single-call text-generation seam. The concrete
// implementation lives in gemini.go; tests inject a stub that returns canned
// replies.
type Generator interface {
	// Generate sends one prompt and returns the model's text reply.
	// Implementations must be safe to call concurrently. No retry is
	// performed at any layer — one request, one best-effort reply.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the tagged outcome of a refinement. Exactly one of the two states
// holds: Text set (success) or Reason set (failure, with Raw preserving the
// reply that could not be used).
type Result struct {
	// Text is the normalized multi-line advice when the reply parsed cleanly,
	// or a fixed notice when the service is not configured.
	Text string

	// Reason describes why the reply could not be used.
	Reason string

	// Raw is the unmodified model reply, kept so a failed parse is diagnosable
	// rather than silently discarded. Empty when the call itself failed.
	Raw string
}

// OK reports whether the refinement produced usable text.
func (r Result) OK() bool {
	return r.Reason == ""
}

// Render returns the string placed in the assessment response: the normalized
// text on success, or a diagnostic embedding the failure reason and the raw
// reply.
func (r Result) Render() string {
	if r.OK() {
		return r.Text
	}
	if r.Raw == "" {
		return r.Reason
	}
	return fmt.Sprintf("Failed to parse Gemini output: %s\nRaw output:\n%s", r.Reason, r.Raw)
}
