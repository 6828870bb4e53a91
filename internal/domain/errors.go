package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a wizard session has not been initialized.
	ErrSessionNotFound = errors.New("wizard session not found")
	// ErrWizardNotFound indicates the wizard definition could not be loaded.
	ErrWizardNotFound = errors.New("wizard not found")
	// ErrNotStarted is returned when a navigation action arrives before the wizard was started.
	ErrNotStarted = errors.New("wizard not started")
	// ErrAlreadyCompleted rejects actions on a session that already reached the done state.
	ErrAlreadyCompleted = errors.New("assessment already completed")
	// ErrSectionIncomplete gates forward navigation while required answers are missing.
	ErrSectionIncomplete = errors.New("section answers incomplete")
	// ErrAtFirstSection rejects backward navigation from the first section.
	ErrAtFirstSection = errors.New("already at first section")
	// ErrUnknownQuestion indicates an answer for a question the wizard does not define.
	ErrUnknownQuestion = errors.New("question not in wizard")
	// ErrUnknownOption indicates a selected option outside the question's option list.
	ErrUnknownOption = errors.New("option not in question")
	// ErrContactIncomplete indicates a required contact field is empty.
	ErrContactIncomplete = errors.New("contact record incomplete")
	// ErrInvalidEmail indicates the contact email does not match the address pattern.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNoPersistedSession blocks submission when the backing session record was never created.
	ErrNoPersistedSession = errors.New("no persisted session, retry session creation")
)
