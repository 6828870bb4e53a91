package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"assessment-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefinitionLoader loads wizard JSONB from Postgres.
type DefinitionLoader struct {
	pool *pgxpool.Pool
}

func NewDefinitionLoader(pool *pgxpool.Pool) *DefinitionLoader {
	return &DefinitionLoader{pool: pool}
}

func (l *DefinitionLoader) LoadWizard(ctx context.Context, wizardID string) (domain.Wizard, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM wizards WHERE id=$1`, wizardID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Wizard{}, domain.ErrWizardNotFound
	}
	if err != nil {
		return domain.Wizard{}, fmt.Errorf("load wizard: %w", err)
	}
	var wz domain.Wizard
	if err := json.Unmarshal(raw, &wz); err != nil {
		return domain.Wizard{}, fmt.Errorf("unmarshal wizard: %w", err)
	}
	return wz, nil
}
