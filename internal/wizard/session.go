package wizard

import (
	"sync"
	"time"

	"assessment-service/internal/domain"
)

// Session is the in-memory runtime state of one wizard attempt: the current
// section ordinal, the accumulated draft answers, and the handle to the
// persisted session record. It is only ever mutated through the Service.
type Session struct {
	key    string
	wizard domain.Wizard
	now    func() time.Time

	mu        sync.RWMutex
	createdAt time.Time
	current   int // -1 before the first section is shown
	done      bool
	draft     domain.AnswerSet
	contact   domain.Contact
	recordID  string // persisted session identifier, empty if creation failed
}

func newSession(key string, wizard domain.Wizard) *Session {
	return newSessionWithClock(key, wizard, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(key string, wizard domain.Wizard, now func() time.Time) *Session {
	return &Session{
		key:       key,
		wizard:    wizard,
		now:       now,
		createdAt: now(),
		current:   -1,
		draft:     make(domain.AnswerSet),
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(key string, wizard domain.Wizard) *Session {
	return newSession(key, wizard)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(key string, wizard domain.Wizard, now func() time.Time) *Session {
	return newSessionWithClock(key, wizard, now)
}

// Wizard returns the definition this session runs against.
func (s *Session) Wizard() domain.Wizard {
	return s.wizard
}

func (s *Session) start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return domain.ErrAlreadyCompleted
	}
	if s.current < 0 {
		s.current = 0
	}
	return nil
}

// advance validates the candidate answers against the current section and,
// when complete, merges them into the draft and moves one section forward.
// The merge happens only on a successful transition.
func (s *Session) advance(candidate domain.AnswerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return domain.ErrAlreadyCompleted
	}
	if s.current < 0 {
		return domain.ErrNotStarted
	}
	if err := s.validateCandidateLocked(candidate); err != nil {
		return err
	}
	section := s.wizard.Sections[s.current]
	questions := section.QuestionsForRole(s.roleLocked(section))
	if err := sectionComplete(questions, s.mergedLocked(candidate)); err != nil {
		return err
	}
	s.mergeLocked(candidate)
	if s.current < len(s.wizard.Sections)-1 {
		s.current++
	}
	return nil
}

// back moves one section backward without discarding or re-validating answers.
func (s *Session) back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return domain.ErrAlreadyCompleted
	}
	if s.current < 0 {
		return domain.ErrNotStarted
	}
	if s.current == 0 {
		return domain.ErrAtFirstSection
	}
	s.current--
	return nil
}

// finalize validates the last section with the candidate answers merged in,
// stores the contact record, and returns the frozen answer set. The done flag
// is only set later by complete, after the submission was accepted.
func (s *Session) finalize(contact domain.Contact, candidate domain.AnswerSet) (domain.AnswerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, domain.ErrAlreadyCompleted
	}
	if s.current < 0 {
		return nil, domain.ErrNotStarted
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateCandidateLocked(candidate); err != nil {
		return nil, err
	}
	last := len(s.wizard.Sections) - 1
	section := s.wizard.Sections[last]
	if s.current != last {
		return nil, domain.ErrSectionIncomplete
	}
	questions := section.QuestionsForRole(s.roleLocked(section))
	merged := s.mergedLocked(candidate)
	if err := sectionComplete(questions, merged); err != nil {
		return nil, err
	}
	s.mergeLocked(candidate)
	s.contact = contact
	return s.draft.Clone(), nil
}

func (s *Session) complete() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

func (s *Session) setRecordID(id string) {
	s.mu.Lock()
	s.recordID = id
	s.mu.Unlock()
}

// RecordID returns the persisted session identifier, empty when session
// creation failed and has not been retried yet.
func (s *Session) RecordID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recordID
}

// Done reports whether the session reached the final accepted state.
func (s *Session) Done() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Draft returns a snapshot of the accumulated answers.
func (s *Session) Draft() domain.AnswerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// View describes the active section for rendering.
type View struct {
	Wizard      string            `json:"wizard"`
	SectionKey  string            `json:"sectionKey"`
	Ordinal     int               `json:"ordinal"`
	Title       string            `json:"title"`
	Questions   []domain.Question `json:"questions"`
	Total       int               `json:"total"`
	Progress    float64           `json:"progress"`
	Done        bool              `json:"done"`
	CanGoBack   bool              `json:"canGoBack"`
	SectionSeen domain.AnswerSet  `json:"answers,omitempty"`
}

// view snapshots the current section. Progress is display-only and never
// feeds back into transitions.
func (s *Session) view() (View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current < 0 {
		return View{}, domain.ErrNotStarted
	}
	section := s.wizard.Sections[s.current]
	questions := section.QuestionsForRole(s.roleLocked(section))
	total := len(s.wizard.Sections)
	answers := make(domain.AnswerSet)
	for _, q := range questions {
		if v, ok := s.draft[q.Key]; ok {
			answers[q.Key] = v
		}
	}
	return View{
		Wizard:      s.wizard.ID,
		SectionKey:  section.Key,
		Ordinal:     s.current,
		Title:       section.Title,
		Questions:   questions,
		Total:       total,
		Progress:    float64(s.current+1) / float64(total),
		Done:        s.done,
		CanGoBack:   s.current > 0,
		SectionSeen: answers,
	}, nil
}

// roleLocked resolves the previously chosen role that drives role-conditional
// question sets. Callers must hold at least the read lock.
func (s *Session) roleLocked(section domain.Section) string {
	if section.RoleQuestion == "" {
		return ""
	}
	if v, ok := s.draft[section.RoleQuestion]; ok {
		return v.Option
	}
	return ""
}

// validateCandidateLocked checks every candidate answer against its question
// before anything merges. Candidates may span sections the visitor already
// passed, so questions are looked up across the whole wizard.
func (s *Session) validateCandidateLocked(candidate domain.AnswerSet) error {
	for key, v := range candidate {
		q, ok := s.questionLocked(key)
		if !ok {
			return domain.ErrUnknownQuestion
		}
		if err := ValidateAnswer(q, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) questionLocked(key string) (domain.Question, bool) {
	for _, section := range s.wizard.Sections {
		for _, q := range section.Questions {
			if q.Key == key {
				return q, true
			}
		}
		for _, qs := range section.RoleVariants {
			for _, q := range qs {
				if q.Key == key {
					return q, true
				}
			}
		}
	}
	return domain.Question{}, false
}

func (s *Session) mergeLocked(candidate domain.AnswerSet) {
	for k, v := range candidate {
		s.draft[k] = v
	}
}

// mergedLocked overlays the candidate on the draft without mutating either,
// so answers entered on an earlier visit still count toward completeness.
func (s *Session) mergedLocked(candidate domain.AnswerSet) domain.AnswerSet {
	merged := s.draft.Clone()
	for k, v := range candidate {
		merged[k] = v
	}
	return merged
}
