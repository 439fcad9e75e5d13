package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'change_status') THEN
			CREATE TYPE change_status AS ENUM ('PENDING', 'APPROVED', 'REJECTED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'log_entry_type') THEN
			CREATE TYPE log_entry_type AS ENUM ('EXPENSE', 'INCIDENT', 'LESSON', 'PROGRESS', 'RISK');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'deliverable_status') THEN
			CREATE TYPE deliverable_status AS ENUM ('PENDING', 'IN_PROGRESS', 'COMPLETE');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(32) NOT NULL,
		name VARCHAR(150) NOT NULL,
		client VARCHAR(100),
		lead VARCHAR(100),
		phase VARCHAR(50),
		health VARCHAR(20),
		start_at DATE NOT NULL,
		end_at DATE NOT NULL,
		budget NUMERIC(15,2) NOT NULL DEFAULT 0,
		business_value NUMERIC(15,2) NOT NULL DEFAULT 0,
		progress_pct INT NOT NULL DEFAULT 0,
		manual_cost NUMERIC(15,2) NOT NULL DEFAULT 0,
		spi NUMERIC(6,2) NOT NULL DEFAULT 1.00,
		cpi NUMERIC(6,2) NOT NULL DEFAULT 1.00,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_projects_code ON projects (code);`,
	`CREATE TABLE IF NOT EXISTS change_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title VARCHAR(150) NOT NULL,
		description TEXT,
		cost_impact NUMERIC(15,2) NOT NULL DEFAULT 0,
		schedule_impact_days INT NOT NULL DEFAULT 0,
		status change_status NOT NULL DEFAULT 'PENDING',
		logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_change_requests_project ON change_requests (project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_change_requests_status ON change_requests (status);`,
	`CREATE TABLE IF NOT EXISTS project_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title VARCHAR(150) NOT NULL,
		description TEXT,
		entry_type log_entry_type NOT NULL,
		amount NUMERIC(15,2) NOT NULL DEFAULT 0,
		author VARCHAR(100),
		logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_project_log_project ON project_log (project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_project_log_type ON project_log (entry_type);`,
	`CREATE TABLE IF NOT EXISTS deliverables (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name VARCHAR(150) NOT NULL,
		owner VARCHAR(100),
		due_at DATE,
		progress_pct INT NOT NULL DEFAULT 0,
		status deliverable_status NOT NULL DEFAULT 'PENDING'
	);`,
	`CREATE INDEX IF NOT EXISTS idx_deliverables_project ON deliverables (project_id);`,
	`CREATE TABLE IF NOT EXISTS performance_snapshots (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		cut_date DATE NOT NULL,
		pv NUMERIC(15,2) NOT NULL DEFAULT 0,
		ev NUMERIC(15,2) NOT NULL DEFAULT 0,
		ac NUMERIC(15,2) NOT NULL DEFAULT 0,
		spi NUMERIC(6,2) NOT NULL DEFAULT 1.00,
		cpi NUMERIC(6,2) NOT NULL DEFAULT 1.00
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_snapshots_project_cut ON performance_snapshots (project_id, cut_date);`,
	`CREATE TABLE IF NOT EXISTS staff_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(150) NOT NULL,
		role VARCHAR(100),
		hourly_cost NUMERIC(15,2) NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_staff_members_name ON staff_members (full_name);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
