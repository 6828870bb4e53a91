package domain

import (
	"regexp"
	"strings"
	"time"
)

// Session represents one attempt at an assessment. It is created before the
// first section is shown and completed once the final section is accepted.
type Session struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Attribution map[string]string `json:"attribution,omitempty"`
}

// Contact holds the identity fields collected by the wizard. They are
// persisted as first-class columns rather than inside the answer mapping.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Phone     string `json:"phone,omitempty"`
	Consent   bool   `json:"consent,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s matches the basic address pattern used for
// contact fields.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Validate checks the required contact fields and the email format.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" ||
		strings.TrimSpace(c.LastName) == "" ||
		strings.TrimSpace(c.Company) == "" {
		return ErrContactIncomplete
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return ErrInvalidEmail
	}
	return nil
}

// AnswerKind discriminates the shapes an answer value can take.
type AnswerKind string

const (
	AnswerSingle AnswerKind = "single"
	AnswerMulti  AnswerKind = "multi"
	AnswerText   AnswerKind = "text"
)

// AnswerValue is one user response: a selected option, a set of selected
// options, or free text, depending on Kind.
type AnswerValue struct {
	Kind    AnswerKind `json:"kind"`
	Option  string     `json:"option,omitempty"`
	Options []string   `json:"options,omitempty"`
	Text    string     `json:"text,omitempty"`
}

// Single builds a single-choice answer.
func Single(option string) AnswerValue {
	return AnswerValue{Kind: AnswerSingle, Option: option}
}

// Multi builds a multi-choice answer.
func Multi(options ...string) AnswerValue {
	return AnswerValue{Kind: AnswerMulti, Options: options}
}

// Text builds a free-text answer.
func Text(text string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: text}
}

// Display renders the answer for prompt substitution. Multi-select values
// are joined with ", ".
func (v AnswerValue) Display() string {
	switch v.Kind {
	case AnswerMulti:
		return strings.Join(v.Options, ", ")
	case AnswerText:
		return v.Text
	default:
		return v.Option
	}
}

// AnswerSet maps question keys to answer values.
type AnswerSet map[string]AnswerValue

// Clone returns a shallow copy so callers can snapshot the draft.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// QuestionType describes the input shape of a question.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionMultiChoice  QuestionType = "multi_choice"
	QuestionFreeText     QuestionType = "free_text"
)

// TextFormat constrains free-text answers beyond non-emptiness.
type TextFormat string

const (
	FormatNone  TextFormat = ""
	FormatEmail TextFormat = "email"
)

// Question is one input within a section together with its validation rule.
type Question struct {
	Key           string       `json:"key"`
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	MaxSelections int          `json:"maxSelections,omitempty"` // multi-choice bound; 0 means unbounded
	Format        TextFormat   `json:"format,omitempty"`
	Optional      bool         `json:"optional,omitempty"`
}

// Section is one step of the wizard. RoleVariants optionally swaps the
// question set based on a previously chosen role answer; the section order
// itself stays strictly linear.
type Section struct {
	Key          string                `json:"key"`
	Ordinal      int                   `json:"ordinal"`
	Title        string                `json:"title"`
	Questions    []Question            `json:"questions"`
	RoleQuestion string                `json:"roleQuestion,omitempty"`
	RoleVariants map[string][]Question `json:"roleVariants,omitempty"`
}

// QuestionsForRole resolves the role-conditional question set. Unknown or
// empty roles fall back to the section's default questions.
func (s Section) QuestionsForRole(role string) []Question {
	if len(s.RoleVariants) == 0 {
		return s.Questions
	}
	if qs, ok := s.RoleVariants[role]; ok {
		return qs
	}
	return s.Questions
}

// Wizard is the static configuration for one assessment: its ordered
// sections, the scoring dimensions of its dashboard, and the prompt
// templates used for report generation.
type Wizard struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Sections        []Section `json:"sections"`
	Dimensions      []string  `json:"dimensions"`
	DashboardPrompt string    `json:"dashboardPrompt"`
	FeedbackPrompt  string    `json:"feedbackPrompt"`
}

// DimensionScore is one named axis of the generated dashboard.
type DimensionScore struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// Dashboard is the structured half of a generated report.
type Dashboard struct {
	OverallScore    int              `json:"overallScore"`
	Dimensions      []DimensionScore `json:"dimensions"`
	IndustryAverage int              `json:"industryAverage"`
	Summary         string           `json:"summary"`
}

// Report is the output of report generation: a written narrative plus a
// structured dashboard. Immutable once set.
type Report struct {
	Narrative string     `json:"narrative"`
	Dashboard *Dashboard `json:"dashboard,omitempty"`
}

// ResponseStatus tracks report generation on a persisted response.
type ResponseStatus string

const (
	StatusGenerating ResponseStatus = "generating"
	StatusCompleted  ResponseStatus = "completed"
)

// Response is the persisted record of a completed assessment.
type Response struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	WizardID  string         `json:"wizardId"`
	Contact   Contact        `json:"contact"`
	Answers   AnswerSet      `json:"answers"`
	Status    ResponseStatus `json:"status"`
	Report    Report         `json:"report"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Lead is the best-effort sales follow-up record derived from a response.
type Lead struct {
	ResponseID string    `json:"responseId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Company    string    `json:"company"`
	WizardID   string    `json:"wizardId"`
	CreatedAt  time.Time `json:"createdAt"`
}
