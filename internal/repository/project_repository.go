package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var row struct {
		ID            uuid.UUID
		Code          string
		Name          string
		Client        string
		Lead          string
		Phase         string
		Health        string
		StartAt       time.Time
		EndAt         time.Time
		Budget        float64
		BusinessValue float64
		ProgressPct   int
		ManualCost    float64
		SPI           float64
		CPI           float64
		CreatedAt     time.Time
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			COALESCE(name, '') AS name,
			COALESCE(client, '') AS client,
			COALESCE(lead, '') AS lead,
			COALESCE(phase, '') AS phase,
			COALESCE(health, '') AS health,
			start_at,
			end_at,
			budget,
			business_value,
			progress_pct,
			manual_cost,
			spi,
			cpi,
			created_at
		FROM projects
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	return &model.Project{
		ID:            row.ID,
		Code:          row.Code,
		Name:          row.Name,
		Client:        row.Client,
		Lead:          row.Lead,
		Phase:         row.Phase,
		Health:        row.Health,
		StartAt:       row.StartAt,
		EndAt:         row.EndAt,
		Budget:        row.Budget,
		BusinessValue: row.BusinessValue,
		ProgressPct:   row.ProgressPct,
		ManualCost:    row.ManualCost,
		SPI:           row.SPI,
		CPI:           row.CPI,
		CreatedAt:     row.CreatedAt,
	}, nil
}

// UpdateIndicators persists the derived fields of one recompute cycle as a
// single statement: either everything lands or the previous cache survives.
func (r *ProjectRepository) UpdateIndicators(
	ctx context.Context,
	id uuid.UUID,
	spi, cpi float64,
	progressPct int,
) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET spi = ?, cpi = ?, progress_pct = ?
		WHERE id = ?
	`, spi, cpi, progressPct, id).Error
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, id uuid.UUID, edit model.ProjectEdit) error {
	if edit.ProgressPct != nil {
		return r.db.WithContext(ctx).Exec(`
			UPDATE projects
			SET name = ?, client = ?, lead = ?, phase = ?, health = ?,
				start_at = ?, end_at = ?, budget = ?, business_value = ?, progress_pct = ?
			WHERE id = ?
		`, edit.Name, edit.Client, edit.Lead, edit.Phase, edit.Health,
			edit.StartAt, edit.EndAt, edit.Budget, edit.BusinessValue, *edit.ProgressPct, id).Error
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET name = ?, client = ?, lead = ?, phase = ?, health = ?,
			start_at = ?, end_at = ?, budget = ?, business_value = ?
		WHERE id = ?
	`, edit.Name, edit.Client, edit.Lead, edit.Phase, edit.Health,
		edit.StartAt, edit.EndAt, edit.Budget, edit.BusinessValue, id).Error
}

// AccrueManualCost adds an amount to the manually accumulated cost field.
func (r *ProjectRepository) AccrueManualCost(ctx context.Context, id uuid.UUID, amount float64) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET manual_cost = COALESCE(manual_cost, 0) + ?
		WHERE id = ?
	`, amount, id).Error
}

func (r *ProjectRepository) Archive(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects SET health = 'Archived' WHERE id = ?
	`, id).Error
}
