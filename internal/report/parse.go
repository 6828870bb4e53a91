package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"assessment-service/internal/domain"
)

// dashboardPayload mirrors the JSON shape requested from the generator.
type dashboardPayload struct {
	OverallScore    *int   `json:"overallScore"`
	IndustryAverage *int   `json:"industryAverage"`
	Summary         string `json:"summary"`
	Dimensions      []struct {
		Name        string `json:"name"`
		Score       *int   `json:"score"`
		Explanation string `json:"explanation"`
	} `json:"dimensions"`
}

// ParseDashboard validates untrusted generator output against the wizard's
// dimension schema. Malformed JSON, missing dimensions, or out-of-range
// scores are errors; callers fall back rather than render a partial object.
func ParseDashboard(raw string, dimensions []string) (domain.Dashboard, error) {
	raw = stripFences(raw)

	var payload dashboardPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.Dashboard{}, fmt.Errorf("parse dashboard: %w", err)
	}
	if payload.OverallScore == nil {
		return domain.Dashboard{}, fmt.Errorf("parse dashboard: missing overallScore")
	}

	byName := make(map[string]domain.DimensionScore, len(payload.Dimensions))
	for _, d := range payload.Dimensions {
		if d.Score == nil {
			return domain.Dashboard{}, fmt.Errorf("parse dashboard: dimension %q missing score", d.Name)
		}
		if *d.Score < 0 || *d.Score > 100 {
			return domain.Dashboard{}, fmt.Errorf("parse dashboard: dimension %q score %d out of range", d.Name, *d.Score)
		}
		byName[d.Name] = domain.DimensionScore{Name: d.Name, Score: *d.Score, Explanation: d.Explanation}
	}

	out := domain.Dashboard{
		OverallScore: clampScore(*payload.OverallScore),
		Summary:      payload.Summary,
	}
	if payload.IndustryAverage != nil {
		out.IndustryAverage = clampScore(*payload.IndustryAverage)
	}
	for _, name := range dimensions {
		score, ok := byName[name]
		if !ok {
			return domain.Dashboard{}, fmt.Errorf("parse dashboard: missing dimension %q", name)
		}
		out.Dimensions = append(out.Dimensions, score)
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, which chat models
// add even when asked for bare JSON.
func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
