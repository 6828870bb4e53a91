package wizard

import (
	"testing"

	"assessment-service/internal/domain"
)

func TestSectionCompleteRequiresEveryRule(t *testing.T) {
	questions := []domain.Question{
		{Key: "size", Type: domain.QuestionSingleChoice, Options: []string{"small", "large"}},
		{Key: "goals", Type: domain.QuestionMultiChoice, Options: []string{"a", "b", "c"}, MaxSelections: 2},
		{Key: "email", Type: domain.QuestionFreeText, Format: domain.FormatEmail},
		{Key: "notes", Type: domain.QuestionFreeText, Optional: true},
	}

	answers := domain.AnswerSet{
		"size":  domain.Single("small"),
		"goals": domain.Multi("a", "b"),
		"email": domain.Text("jo@x.com"),
	}
	if !SectionComplete(questions, answers) {
		t.Fatalf("expected section complete, optional notes missing should not matter")
	}

	delete(answers, "goals")
	if SectionComplete(questions, answers) {
		t.Fatalf("expected incomplete without required multi-choice answer")
	}
}

func TestSingleChoiceRejectsUnknownOption(t *testing.T) {
	q := domain.Question{Key: "size", Type: domain.QuestionSingleChoice, Options: []string{"small", "large"}}
	if answerComplete(q, domain.Single("medium")) {
		t.Fatalf("expected unknown option to be incomplete")
	}
	if answerComplete(q, domain.Single("")) {
		t.Fatalf("expected empty selection to be incomplete")
	}
	if !answerComplete(q, domain.Single("large")) {
		t.Fatalf("expected valid selection to be complete")
	}
}

func TestMultiChoiceBound(t *testing.T) {
	q := domain.Question{Key: "goals", Type: domain.QuestionMultiChoice, Options: []string{"a", "b", "c", "d"}, MaxSelections: 3}
	if answerComplete(q, domain.Multi()) {
		t.Fatalf("expected zero selections to be incomplete")
	}
	if answerComplete(q, domain.Multi("a", "b", "c", "d")) {
		t.Fatalf("expected selections above the bound to be incomplete")
	}
	if !answerComplete(q, domain.Multi("a", "b", "c")) {
		t.Fatalf("expected selections at the bound to be complete")
	}
}

func TestFreeTextTrimsAndChecksEmail(t *testing.T) {
	plain := domain.Question{Key: "notes", Type: domain.QuestionFreeText}
	if answerComplete(plain, domain.Text("   ")) {
		t.Fatalf("expected whitespace-only text to be incomplete")
	}
	if !answerComplete(plain, domain.Text("  something  ")) {
		t.Fatalf("expected trimmed non-empty text to be complete")
	}

	email := domain.Question{Key: "email", Type: domain.QuestionFreeText, Format: domain.FormatEmail}
	for _, bad := range []string{"", "jo", "jo@x", "jo @x.com", "@x.com", "jo@.com "} {
		if answerComplete(email, domain.Text(bad)) {
			t.Fatalf("expected %q to fail the email format", bad)
		}
	}
	if !answerComplete(email, domain.Text("jo@x.com")) {
		t.Fatalf("expected valid email to be complete")
	}
}

// The multi-select bound is enforced at the input layer: the fourth
// selection is rejected, not turned into an error state.
func TestToggleOptionRejectsBeyondBound(t *testing.T) {
	q := domain.Question{Key: "goals", Type: domain.QuestionMultiChoice, Options: []string{"a", "b", "c", "d", "e"}, MaxSelections: 3}

	v := domain.Multi()
	for _, opt := range []string{"a", "b", "c"} {
		var ok bool
		v, ok = ToggleOption(q, v, opt)
		if !ok {
			t.Fatalf("selecting %q within the bound should succeed", opt)
		}
	}

	after, ok := ToggleOption(q, v, "d")
	if ok {
		t.Fatalf("expected fourth selection to be rejected")
	}
	if len(after.Options) != 3 {
		t.Fatalf("draft answer must never exceed the bound, got %d selections", len(after.Options))
	}

	// Deselecting is always allowed, and frees up a slot.
	after, ok = ToggleOption(q, after, "b")
	if !ok || len(after.Options) != 2 {
		t.Fatalf("expected deselection to succeed, got ok=%v options=%v", ok, after.Options)
	}
	after, ok = ToggleOption(q, after, "d")
	if !ok || len(after.Options) != 3 {
		t.Fatalf("expected selection after freeing a slot, got ok=%v options=%v", ok, after.Options)
	}
}

func TestToggleOptionUnknownOption(t *testing.T) {
	q := domain.Question{Key: "goals", Type: domain.QuestionMultiChoice, Options: []string{"a", "b"}}
	if _, ok := ToggleOption(q, domain.Multi(), "z"); ok {
		t.Fatalf("expected unknown option to be rejected")
	}
}

func TestValidateAnswer(t *testing.T) {
	single := domain.Question{Key: "size", Type: domain.QuestionSingleChoice, Options: []string{"small"}}
	if err := ValidateAnswer(single, domain.Single("huge")); err != domain.ErrUnknownOption {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	multi := domain.Question{Key: "goals", Type: domain.QuestionMultiChoice, Options: []string{"a"}}
	if err := ValidateAnswer(multi, domain.Multi("a", "z")); err != domain.ErrUnknownOption {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if err := ValidateAnswer(multi, domain.Multi("a")); err != nil {
		t.Fatalf("expected valid answer, got %v", err)
	}
}
