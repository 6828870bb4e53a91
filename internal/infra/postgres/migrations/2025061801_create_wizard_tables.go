package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createWizardTablesSQL = `
CREATE TABLE IF NOT EXISTS wizards (
	id TEXT PRIMARY KEY,
	data JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS wizard_sessions (
	id UUID PRIMARY KEY,
	attribution JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS responses (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL UNIQUE REFERENCES wizard_sessions (id),
	wizard_id TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	company TEXT NOT NULL,
	phone TEXT,
	consent BOOLEAN NOT NULL DEFAULT FALSE,
	answers JSONB NOT NULL,
	status TEXT NOT NULL,
	narrative TEXT,
	dashboard JSONB,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	id UUID PRIMARY KEY,
	response_id UUID NOT NULL REFERENCES responses (id),
	email TEXT NOT NULL,
	name TEXT NOT NULL,
	company TEXT NOT NULL,
	wizard_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createWizardTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS leads; DROP TABLE IF EXISTS responses; DROP TABLE IF EXISTS wizard_sessions; DROP TABLE IF EXISTS wizards`)
			return err
		},
	)
}
