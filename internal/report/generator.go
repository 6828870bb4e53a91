// Package report turns a finished assessment into a personalized report:
// prompt templating, the remote generation client, defensive parsing of its
// output, and the deterministic local fallback.
package report

import (
	"context"
	"errors"
)

// ErrUnavailable signals that no generation backend is reachable; callers
// fall back to the deterministic report.
var ErrUnavailable = errors.New("report generator unavailable")

// Kind selects which half of the report a generation call produces.
type Kind string

const (
	// KindDashboard requests the structured score object.
	KindDashboard Kind = "dashboard"
	// KindFeedback requests the written narrative.
	KindFeedback Kind = "feedback"
)

// Generator abstracts the remote text-generation collaborator. The returned
// string is untrusted: dashboard output must pass ParseDashboard before use.
type Generator interface {
	Generate(ctx context.Context, kind Kind, prompt string) (string, error)
}

// Disabled is a Generator that always fails, forcing the deterministic
// fallback path. Used when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, Kind, string) (string, error) {
	return "", ErrUnavailable
}
