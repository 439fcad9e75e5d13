package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
)

// LedgerView is the consistent read set of one recompute: the project row,
// the approved change totals, the expense sum and the deliverable list, all
// fetched inside one transaction.
type LedgerView struct {
	Project      model.Project
	Changes      model.ChangeTotals
	ExpenseTotal float64
	Deliverables []model.Deliverable
}

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ReadLedger fetches everything the calculator needs in one transaction. A
// missing project maps to gorm.ErrRecordNotFound; any query failure aborts
// the whole read so the caller never computes from partial data.
func (r *LedgerRepository) ReadLedger(ctx context.Context, projectID uuid.UUID) (*LedgerView, error) {
	var view LedgerView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := NewProjectRepository(tx)
		project, err := projects.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		view.Project = *project

		if err := tx.Raw(`
			SELECT
				COALESCE(SUM(cost_impact), 0) AS cost_additions,
				COALESCE(SUM(schedule_impact_days), 0) AS schedule_additions
			FROM change_requests
			WHERE project_id = ? AND status = 'APPROVED'
		`, projectID).Scan(&view.Changes).Error; err != nil {
			return err
		}

		if err := tx.Raw(`
			SELECT COALESCE(SUM(amount), 0)
			FROM project_log
			WHERE project_id = ? AND entry_type = 'EXPENSE'
		`, projectID).Scan(&view.ExpenseTotal).Error; err != nil {
			return err
		}

		if err := tx.Raw(`
			SELECT id, project_id, name, COALESCE(owner, '') AS owner, due_at, progress_pct, status
			FROM deliverables
			WHERE project_id = ?
			ORDER BY name ASC
		`, projectID).Scan(&view.Deliverables).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *LedgerRepository) ListChangeRequests(ctx context.Context, projectID uuid.UUID) ([]model.ChangeRequest, error) {
	var rows []model.ChangeRequest
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_id, title, COALESCE(description, '') AS description,
			cost_impact, schedule_impact_days, status, logged_at
		FROM change_requests
		WHERE project_id = ?
		ORDER BY logged_at DESC
	`, projectID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LedgerRepository) CreateChangeRequest(ctx context.Context, cr model.ChangeRequest) (*model.ChangeRequest, error) {
	var saved model.ChangeRequest
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO change_requests (project_id, title, description, cost_impact, schedule_impact_days, status)
		VALUES (?, ?, ?, ?, ?, 'PENDING')
		RETURNING id, project_id, title, description, cost_impact, schedule_impact_days, status, logged_at
	`, cr.ProjectID, cr.Title, cr.Description, cr.CostImpact, cr.ScheduleImpactDays).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetChangeStatus performs the approve/reject transition. The row is scoped
// to its project so a change request can never be flipped through a foreign
// project's URL.
func (r *LedgerRepository) SetChangeStatus(
	ctx context.Context,
	projectID, changeID uuid.UUID,
	status model.ChangeStatus,
) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE change_requests SET status = ? WHERE id = ? AND project_id = ?
	`, status, changeID, projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LedgerRepository) DeleteChangeRequest(ctx context.Context, projectID, changeID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM change_requests WHERE id = ? AND project_id = ?
	`, changeID, projectID).Error
}

func (r *LedgerRepository) CreateLogEntry(ctx context.Context, entry model.LogEntry) (*model.LogEntry, error) {
	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}

	var saved model.LogEntry
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO project_log (project_id, title, description, entry_type, amount, author, logged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, project_id, title, description, entry_type, amount, author, logged_at
	`, entry.ProjectID, entry.Title, entry.Description, entry.EntryType, entry.Amount, entry.Author, loggedAt).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) DeleteLogEntry(ctx context.Context, projectID, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM project_log WHERE id = ? AND project_id = ?
	`, entryID, projectID).Error
}

// ListExpenses returns the expense-tagged entries, oldest first, optionally
// restricted to a date range.
func (r *LedgerRepository) ListExpenses(
	ctx context.Context,
	projectID uuid.UUID,
	from, to *time.Time,
) ([]model.LogEntry, error) {
	baseQuery := `
		SELECT id, project_id, title, COALESCE(description, '') AS description,
			entry_type, amount, COALESCE(author, '') AS author, logged_at
		FROM project_log
		WHERE project_id = ? AND entry_type = 'EXPENSE'
	`
	args := []interface{}{projectID}
	if from != nil {
		baseQuery += " AND logged_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		baseQuery += " AND logged_at < ?"
		args = append(args, *to)
	}
	baseQuery += " ORDER BY logged_at ASC"

	var rows []model.LogEntry
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LedgerRepository) CreateDeliverable(ctx context.Context, d model.Deliverable) (*model.Deliverable, error) {
	var saved model.Deliverable
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO deliverables (project_id, name, owner, due_at, progress_pct, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, project_id, name, owner, due_at, progress_pct, status
	`, d.ProjectID, d.Name, d.Owner, d.DueAt, d.ProgressPct, d.Status).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateDeliverableProgress(
	ctx context.Context,
	projectID, deliverableID uuid.UUID,
	progressPct int,
	status model.DeliverableStatus,
) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE deliverables SET progress_pct = ?, status = ? WHERE id = ? AND project_id = ?
	`, progressPct, status, deliverableID, projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LedgerRepository) DeleteDeliverable(ctx context.Context, projectID, deliverableID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM deliverables WHERE id = ? AND project_id = ?
	`, deliverableID, projectID).Error
}

// LeadHourlyCost looks up the project lead on the HR roster. No roster row
// is a legitimate empty result and maps to zero, not an error.
func (r *LedgerRepository) LeadHourlyCost(ctx context.Context, fullName string) (float64, error) {
	if fullName == "" {
		return 0, nil
	}
	var cost float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(hourly_cost, 0)
		FROM staff_members
		WHERE full_name = ?
		LIMIT 1
	`, fullName).Scan(&cost).Error
	if err != nil {
		return 0, err
	}
	return cost, nil
}

// UpsertSnapshot records today's derived indicators, replacing an earlier
// snapshot for the same cut date so repeated recomputes stay idempotent.
func (r *LedgerRepository) UpsertSnapshot(ctx context.Context, snap model.PerformanceSnapshot) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO performance_snapshots (project_id, cut_date, pv, ev, ac, spi, cpi)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, cut_date)
		DO UPDATE SET pv = EXCLUDED.pv, ev = EXCLUDED.ev, ac = EXCLUDED.ac,
			spi = EXCLUDED.spi, cpi = EXCLUDED.cpi
	`, snap.ProjectID, snap.CutDate, snap.PV, snap.EV, snap.AC, snap.SPI, snap.CPI).Error
}

func (r *LedgerRepository) ListSnapshots(
	ctx context.Context,
	projectID uuid.UUID,
	from, to *time.Time,
) ([]model.PerformanceSnapshot, error) {
	baseQuery := `
		SELECT id, project_id, cut_date, pv, ev, ac, spi, cpi
		FROM performance_snapshots
		WHERE project_id = ?
	`
	args := []interface{}{projectID}
	if from != nil {
		baseQuery += " AND cut_date >= ?"
		args = append(args, *from)
	}
	if to != nil {
		baseQuery += " AND cut_date <= ?"
		args = append(args, *to)
	}
	baseQuery += " ORDER BY cut_date ASC"

	var rows []model.PerformanceSnapshot
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
