package wizard

import (
	"strings"

	"assessment-service/internal/domain"
)

// sectionComplete is the conjunction predicate gating forward navigation:
// every non-optional question in the section must have a complete answer.
func sectionComplete(questions []domain.Question, answers domain.AnswerSet) error {
	for _, q := range questions {
		if q.Optional {
			continue
		}
		v, ok := answers[q.Key]
		if !ok || !answerComplete(q, v) {
			return domain.ErrSectionIncomplete
		}
	}
	return nil
}

// SectionComplete reports whether the candidate answers satisfy the section,
// for clients that want to disable the continue control preemptively.
func SectionComplete(questions []domain.Question, answers domain.AnswerSet) bool {
	return sectionComplete(questions, answers) == nil
}

func answerComplete(q domain.Question, v domain.AnswerValue) bool {
	switch q.Type {
	case domain.QuestionSingleChoice:
		return v.Option != "" && hasOption(q.Options, v.Option)
	case domain.QuestionMultiChoice:
		if len(v.Options) == 0 {
			return false
		}
		if q.MaxSelections > 0 && len(v.Options) > q.MaxSelections {
			return false
		}
		for _, opt := range v.Options {
			if !hasOption(q.Options, opt) {
				return false
			}
		}
		return true
	case domain.QuestionFreeText:
		text := strings.TrimSpace(v.Text)
		if text == "" {
			return false
		}
		if q.Format == domain.FormatEmail {
			return domain.ValidEmail(text)
		}
		return true
	default:
		return false
	}
}

// ValidateAnswer checks a single candidate answer against its question
// before it enters the draft.
func ValidateAnswer(q domain.Question, v domain.AnswerValue) error {
	switch q.Type {
	case domain.QuestionSingleChoice:
		if v.Option != "" && !hasOption(q.Options, v.Option) {
			return domain.ErrUnknownOption
		}
	case domain.QuestionMultiChoice:
		for _, opt := range v.Options {
			if !hasOption(q.Options, opt) {
				return domain.ErrUnknownOption
			}
		}
	}
	return nil
}

// ToggleOption flips one option of a multi-choice answer. Selecting beyond
// the question's bound is rejected at the input layer: the value is returned
// unchanged and the second result is false. Deselecting is always allowed.
func ToggleOption(q domain.Question, current domain.AnswerValue, option string) (domain.AnswerValue, bool) {
	if !hasOption(q.Options, option) {
		return current, false
	}
	selected := append([]string(nil), current.Options...)
	for i, opt := range selected {
		if opt == option {
			selected = append(selected[:i], selected[i+1:]...)
			return domain.Multi(selected...), true
		}
	}
	if q.MaxSelections > 0 && len(selected) >= q.MaxSelections {
		return current, false
	}
	selected = append(selected, option)
	return domain.Multi(selected...), true
}

func hasOption(options []string, option string) bool {
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}
