package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResponseRepository implements the persistence collaborator on Postgres.
// Responses upsert on session_id so a retried submission updates the
// existing record instead of inserting a second one.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

func (r *ResponseRepository) CreateSession(ctx context.Context, session domain.Session) (string, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	attribution, err := json.Marshal(session.Attribution)
	if err != nil {
		return "", fmt.Errorf("marshal attribution: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO wizard_sessions (id, attribution, created_at) VALUES ($1, $2, $3)`,
		session.ID, attribution, session.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.ID, nil
}

func (r *ResponseRepository) CreateResponse(ctx context.Context, response domain.Response) (string, error) {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}

	var id string
	err = r.pool.QueryRow(ctx, `
		INSERT INTO responses
			(id, session_id, wizard_id, first_name, last_name, email, company, phone, consent, answers, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO UPDATE SET
			wizard_id = EXCLUDED.wizard_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			company = EXCLUDED.company,
			phone = EXCLUDED.phone,
			consent = EXCLUDED.consent,
			answers = EXCLUDED.answers,
			status = EXCLUDED.status
		RETURNING id`,
		response.ID, response.SessionID, response.WizardID,
		response.Contact.FirstName, response.Contact.LastName, response.Contact.Email,
		response.Contact.Company, response.Contact.Phone, response.Contact.Consent,
		answers, string(response.Status), response.CreatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}
	return id, nil
}

func (r *ResponseRepository) UpdateResponse(ctx context.Context, responseID string, update wizard.ResponseUpdate) error {
	set := ""
	args := []interface{}{responseID}
	next := 2

	if update.Status != nil {
		set += fmt.Sprintf("status = $%d", next)
		args = append(args, string(*update.Status))
		next++
	}
	if update.Narrative != nil {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("narrative = $%d", next)
		args = append(args, *update.Narrative)
		next++
	}
	if update.Dashboard != nil {
		dashboard, err := json.Marshal(update.Dashboard)
		if err != nil {
			return fmt.Errorf("marshal dashboard: %w", err)
		}
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("dashboard = $%d", next)
		args = append(args, dashboard)
	}
	if set == "" {
		return nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE responses SET `+set+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *ResponseRepository) CompleteSession(ctx context.Context, sessionID string, completedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wizard_sessions SET completed_at = $2 WHERE id = $1`,
		sessionID, completedAt)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *ResponseRepository) CreateLead(ctx context.Context, lead domain.Lead) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leads (id, response_id, email, name, company, wizard_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), lead.ResponseID, lead.Email, lead.Name, lead.Company, lead.WizardID, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

// Response loads a persisted response by session, used by the integration tests.
func (r *ResponseRepository) Response(ctx context.Context, sessionID string) (domain.Response, error) {
	var (
		response  domain.Response
		answers   []byte
		dashboard []byte
		narrative *string
		status    string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, session_id, wizard_id, first_name, last_name, email, company, phone, consent,
		       answers, status, narrative, dashboard, created_at
		FROM responses WHERE session_id = $1`, sessionID).Scan(
		&response.ID, &response.SessionID, &response.WizardID,
		&response.Contact.FirstName, &response.Contact.LastName, &response.Contact.Email,
		&response.Contact.Company, &response.Contact.Phone, &response.Contact.Consent,
		&answers, &status, &narrative, &dashboard, &response.CreatedAt)
	if err != nil {
		return domain.Response{}, fmt.Errorf("load response: %w", err)
	}
	response.Status = domain.ResponseStatus(status)
	if err := json.Unmarshal(answers, &response.Answers); err != nil {
		return domain.Response{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	if narrative != nil {
		response.Report.Narrative = *narrative
	}
	if len(dashboard) > 0 {
		var d domain.Dashboard
		if err := json.Unmarshal(dashboard, &d); err != nil {
			return domain.Response{}, fmt.Errorf("unmarshal dashboard: %w", err)
		}
		response.Report.Dashboard = &d
	}
	return response, nil
}
