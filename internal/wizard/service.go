package wizard

import (
	"context"
	"log"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/report"
	"assessment-service/internal/telemetry"
)

// SessionStore abstracts how runtime wizard sessions are kept (in-memory, Redis, etc).
type SessionStore interface {
	GetOrCreate(key string, wizard domain.Wizard) *Session
	Get(key string) (*Session, bool)
	Delete(key string)
}

// DefinitionRepository loads wizard configuration (from cache/backing store).
type DefinitionRepository interface {
	GetWizard(ctx context.Context, wizardID string) (domain.Wizard, error)
}

// ResponseUpdate carries a partial update to a persisted response; nil
// fields are left untouched.
type ResponseUpdate struct {
	Status    *domain.ResponseStatus
	Narrative *string
	Dashboard *domain.Dashboard
}

// ResponseRepository is the persistence collaborator. CreateResponse must
// upsert on the session identifier so a retried submission never leaves two
// partial records behind.
type ResponseRepository interface {
	CreateSession(ctx context.Context, session domain.Session) (string, error)
	CreateResponse(ctx context.Context, response domain.Response) (string, error)
	UpdateResponse(ctx context.Context, responseID string, update ResponseUpdate) error
	CompleteSession(ctx context.Context, sessionID string, completedAt time.Time) error
	CreateLead(ctx context.Context, lead domain.Lead) error
}

// Notifier delivers the results email. Best-effort only.
type Notifier interface {
	SendResults(ctx context.Context, contact domain.Contact, rep domain.Report) error
}

// Service drives the assessment wizards: section navigation, validation
// gating, and the submission/report-generation orchestration.
type Service struct {
	sessions  SessionStore
	wizards   DefinitionRepository
	responses ResponseRepository
	generator report.Generator
	notifier  Notifier
	track     telemetry.Sink
	now       func() time.Time
}

// Option tweaks optional Service collaborators.
type Option func(*Service)

// WithNotifier wires the results-email sender.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithTelemetry wires the analytics sink.
func WithTelemetry(sink telemetry.Sink) Option {
	return func(s *Service) { s.track = sink }
}

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store SessionStore, wizards DefinitionRepository, responses ResponseRepository, generator report.Generator, opts ...Option) *Service {
	s := &Service{
		sessions:  store,
		wizards:   wizards,
		responses: responses,
		generator: generator,
		track:     telemetry.NopSink{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates (or resumes) the runtime session for key, transitions it to
// the first section, and registers the session record with the persistence
// collaborator. A failed record creation is logged and tolerated: the user
// still enters the wizard, but Submit will refuse until RetrySession
// succeeds.
func (s *Service) Start(ctx context.Context, key, wizardID string, attribution map[string]string) (View, error) {
	wizard, err := s.wizards.GetWizard(ctx, wizardID)
	if err != nil {
		return View{}, err
	}

	sess := s.sessions.GetOrCreate(key, wizard)
	if err := sess.start(); err != nil {
		return View{}, err
	}

	if sess.RecordID() == "" {
		record := domain.Session{CreatedAt: s.now(), Attribution: attribution}
		id, err := s.responses.CreateSession(ctx, record)
		if err != nil {
			log.Printf("create session for wizard %s failed: %v", wizardID, err)
		} else {
			sess.setRecordID(id)
		}
	}

	s.track.Track("assessment_started", map[string]string{"wizard": wizardID})
	return sess.view()
}

// RetrySession re-attempts creation of the persisted session record after a
// failed Start. No-op when the record already exists.
func (s *Service) RetrySession(ctx context.Context, key string) error {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return domain.ErrSessionNotFound
	}
	if sess.RecordID() != "" {
		return nil
	}
	id, err := s.responses.CreateSession(ctx, domain.Session{CreatedAt: s.now()})
	if err != nil {
		return err
	}
	sess.setRecordID(id)
	return nil
}

// Advance merges the candidate answers and moves to the next section when
// the current section's completeness predicate passes. On a validation
// failure the section does not change and nothing is merged.
func (s *Service) Advance(ctx context.Context, key string, candidate domain.AnswerSet) (View, error) {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	before, err := sess.view()
	if err != nil {
		return View{}, err
	}
	if err := sess.advance(candidate); err != nil {
		return View{}, err
	}
	s.track.Track("section_completed", map[string]string{
		"wizard":  sess.Wizard().ID,
		"section": before.SectionKey,
	})
	return sess.view()
}

// Back moves one section backward. Previously entered answers are kept and
// not re-validated.
func (s *Service) Back(ctx context.Context, key string) (View, error) {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	if err := sess.back(); err != nil {
		return View{}, err
	}
	return sess.view()
}

// CurrentSection returns the active section view without changing state.
func (s *Service) CurrentSection(_ context.Context, key string) (View, error) {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return sess.view()
}

// Abandon drops the runtime session; the draft is discarded, matching the
// no-autosave contract.
func (s *Service) Abandon(_ context.Context, key string) {
	s.sessions.Delete(key)
}

// Submit runs the final-section submission: persist the response record,
// generate both report halves concurrently (each independently falling back
// on failure), mark everything completed, and fire the best-effort side
// effects. The session reaches Done only when the primary persistence write
// was accepted; a failed attempt leaves the user on the final section and
// is safe to retry.
func (s *Service) Submit(ctx context.Context, key string, contact domain.Contact, candidate domain.AnswerSet) (domain.Report, error) {
	sess, ok := s.sessions.Get(key)
	if !ok {
		return domain.Report{}, domain.ErrSessionNotFound
	}

	sessionID := sess.RecordID()
	if sessionID == "" {
		return domain.Report{}, domain.ErrNoPersistedSession
	}

	answers, err := sess.finalize(contact, candidate)
	if err != nil {
		return domain.Report{}, err
	}
	wizard := sess.Wizard()

	// Step 1: the primary persistence write. Fatal on failure; the state
	// machine stays on the final section and the same call can be retried.
	responseID, err := s.responses.CreateResponse(ctx, domain.Response{
		SessionID: sessionID,
		WizardID:  wizard.ID,
		Contact:   contact,
		Answers:   answers,
		Status:    domain.StatusGenerating,
		CreatedAt: s.now(),
	})
	if err != nil {
		return domain.Report{}, err
	}

	// Step 2: both generations run concurrently; a slow dashboard call must
	// not delay the narrative or vice versa. Failures are isolated per call.
	values := report.PromptValues(contact, answers)
	var (
		wg        sync.WaitGroup
		dashboard domain.Dashboard
		narrative string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		dashboard = s.generateDashboard(ctx, responseID, wizard, contact, answers, values)
	}()
	go func() {
		defer wg.Done()
		narrative = s.generateNarrative(ctx, responseID, wizard, contact, answers, values)
	}()
	wg.Wait()

	// Step 3: both halves resolved (remote or fallback); close out the
	// records. These writes are logged on failure but no longer block the
	// user, who already has a complete report.
	completed := domain.StatusCompleted
	if err := s.responses.UpdateResponse(ctx, responseID, ResponseUpdate{Status: &completed}); err != nil {
		log.Printf("mark response %s completed failed: %v", responseID, err)
	}
	if err := s.responses.CompleteSession(ctx, sessionID, s.now()); err != nil {
		log.Printf("complete session %s failed: %v", sessionID, err)
	}
	sess.complete()

	rep := domain.Report{Narrative: narrative, Dashboard: &dashboard}

	// Step 4: best-effort side effects, never awaited by the completion path.
	go s.createLead(responseID, wizard.ID, contact)
	if s.notifier != nil {
		go s.sendResults(contact, rep)
	}

	s.track.Track("assessment_submitted", map[string]string{"wizard": wizard.ID})
	return rep, nil
}

func (s *Service) generateDashboard(ctx context.Context, responseID string, wizard domain.Wizard, contact domain.Contact, answers domain.AnswerSet, values map[string]string) domain.Dashboard {
	prompt := report.Fill(wizard.DashboardPrompt, values)
	raw, err := s.generator.Generate(ctx, report.KindDashboard, prompt)
	var dashboard domain.Dashboard
	if err == nil {
		dashboard, err = report.ParseDashboard(raw, wizard.Dimensions)
	}
	if err != nil {
		log.Printf("dashboard generation for response %s fell back: %v", responseID, err)
		dashboard = report.FallbackDashboard(wizard, contact, answers)
	}
	if err := s.responses.UpdateResponse(ctx, responseID, ResponseUpdate{Dashboard: &dashboard}); err != nil {
		log.Printf("persist dashboard for response %s failed: %v", responseID, err)
	}
	return dashboard
}

func (s *Service) generateNarrative(ctx context.Context, responseID string, wizard domain.Wizard, contact domain.Contact, answers domain.AnswerSet, values map[string]string) string {
	prompt := report.Fill(wizard.FeedbackPrompt, values)
	narrative, err := s.generator.Generate(ctx, report.KindFeedback, prompt)
	if err != nil || narrative == "" {
		log.Printf("narrative generation for response %s fell back: %v", responseID, err)
		narrative = report.FallbackNarrative(wizard, contact, answers)
	}
	if err := s.responses.UpdateResponse(ctx, responseID, ResponseUpdate{Narrative: &narrative}); err != nil {
		log.Printf("persist narrative for response %s failed: %v", responseID, err)
	}
	return narrative
}

func (s *Service) createLead(responseID, wizardID string, contact domain.Contact) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lead := domain.Lead{
		ResponseID: responseID,
		Email:      contact.Email,
		Name:       contact.FirstName + " " + contact.LastName,
		Company:    contact.Company,
		WizardID:   wizardID,
		CreatedAt:  s.now(),
	}
	if err := s.responses.CreateLead(ctx, lead); err != nil {
		log.Printf("create lead for response %s failed: %v", responseID, err)
	}
}

func (s *Service) sendResults(contact domain.Contact, rep domain.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.notifier.SendResults(ctx, contact, rep); err != nil {
		log.Printf("results email to %s failed: %v", contact.Email, err)
	}
}
