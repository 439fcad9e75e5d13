package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inymo/project-performance/internal/model"
	"github.com/inymo/project-performance/internal/repository"
)

// ProjectStore is the project record accessor: the engine reads the baseline
// fields and is the exclusive writer of the derived SPI/CPI cache.
type ProjectStore interface {
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	UpdateIndicators(ctx context.Context, id uuid.UUID, spi, cpi float64, progressPct int) error
	UpdateProject(ctx context.Context, id uuid.UUID, edit model.ProjectEdit) error
	AccrueManualCost(ctx context.Context, id uuid.UUID, amount float64) error
	Archive(ctx context.Context, id uuid.UUID) error
}

// LedgerStore covers the four raw engine inputs plus the snapshot history
// and the HR rate lookup.
type LedgerStore interface {
	ReadLedger(ctx context.Context, projectID uuid.UUID) (*repository.LedgerView, error)

	ListChangeRequests(ctx context.Context, projectID uuid.UUID) ([]model.ChangeRequest, error)
	CreateChangeRequest(ctx context.Context, cr model.ChangeRequest) (*model.ChangeRequest, error)
	SetChangeStatus(ctx context.Context, projectID, changeID uuid.UUID, status model.ChangeStatus) error
	DeleteChangeRequest(ctx context.Context, projectID, changeID uuid.UUID) error

	CreateLogEntry(ctx context.Context, entry model.LogEntry) (*model.LogEntry, error)
	DeleteLogEntry(ctx context.Context, projectID, entryID uuid.UUID) error
	ListExpenses(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]model.LogEntry, error)

	CreateDeliverable(ctx context.Context, d model.Deliverable) (*model.Deliverable, error)
	UpdateDeliverableProgress(ctx context.Context, projectID, deliverableID uuid.UUID, progressPct int, status model.DeliverableStatus) error
	DeleteDeliverable(ctx context.Context, projectID, deliverableID uuid.UUID) error

	LeadHourlyCost(ctx context.Context, fullName string) (float64, error)
	UpsertSnapshot(ctx context.Context, snap model.PerformanceSnapshot) error
	ListSnapshots(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]model.PerformanceSnapshot, error)
}

// Recalculator is the single hook every ledger-mutating operation calls
// through. Having one interface instead of ad-hoc synchronizer calls at each
// site guarantees no mutation path is ever missed.
type Recalculator interface {
	Recalculate(ctx context.Context, projectID uuid.UUID) error
}
