package memory

import (
	"context"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
	"github.com/google/uuid"
)

// ResponseRepository is an in-memory implementation of the persistence
// collaborator, used when Postgres is not configured and by tests. It keeps
// the same upsert-by-session semantics as the Postgres repository.
type ResponseRepository struct {
	mu          sync.RWMutex
	sessions    map[string]domain.Session
	responses   map[string]domain.Response // keyed by response ID
	bySessionID map[string]string          // session ID -> response ID
	leads       []domain.Lead
}

func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{
		sessions:    make(map[string]domain.Session),
		responses:   make(map[string]domain.Response),
		bySessionID: make(map[string]string),
	}
}

func (r *ResponseRepository) CreateSession(_ context.Context, session domain.Session) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	r.sessions[session.ID] = session
	return session.ID, nil
}

func (r *ResponseRepository) CreateResponse(_ context.Context, response domain.Response) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.bySessionID[response.SessionID]; ok {
		response.ID = id
	} else {
		response.ID = uuid.NewString()
		r.bySessionID[response.SessionID] = response.ID
	}
	response.Answers = response.Answers.Clone()
	r.responses[response.ID] = response
	return response.ID, nil
}

func (r *ResponseRepository) UpdateResponse(_ context.Context, responseID string, update wizard.ResponseUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	response, ok := r.responses[responseID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if update.Status != nil {
		response.Status = *update.Status
	}
	if update.Narrative != nil {
		response.Report.Narrative = *update.Narrative
	}
	if update.Dashboard != nil {
		dashboard := *update.Dashboard
		response.Report.Dashboard = &dashboard
	}
	r.responses[responseID] = response
	return nil
}

func (r *ResponseRepository) CompleteSession(_ context.Context, sessionID string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.CompletedAt = &completedAt
	r.sessions[sessionID] = session
	return nil
}

func (r *ResponseRepository) CreateLead(_ context.Context, lead domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, lead)
	return nil
}

// Response looks up the persisted response for a session, for tests and the
// demo transport.
func (r *ResponseRepository) Response(sessionID string) (domain.Response, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySessionID[sessionID]
	if !ok {
		return domain.Response{}, false
	}
	response, ok := r.responses[id]
	return response, ok
}

// Session looks up a session record by ID.
func (r *ResponseRepository) Session(sessionID string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	return session, ok
}

// Leads returns a snapshot of the recorded leads.
func (r *ResponseRepository) Leads() []domain.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Lead(nil), r.leads...)
}

// ResponseCount reports how many response records exist.
func (r *ResponseRepository) ResponseCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.responses)
}
