package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
	"github.com/inymo/project-performance/internal/repository"
)

type indicatorUpdate struct {
	SPI         float64
	CPI         float64
	ProgressPct int
}

type fakeProjectStore struct {
	project *model.Project

	indicatorUpdates []indicatorUpdate
	edits            []model.ProjectEdit
	manualAccruals   []float64
	archived         []uuid.UUID
}

func (f *fakeProjectStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.project
	return &copied, nil
}

func (f *fakeProjectStore) UpdateIndicators(ctx context.Context, id uuid.UUID, spi, cpi float64, progressPct int) error {
	f.indicatorUpdates = append(f.indicatorUpdates, indicatorUpdate{SPI: spi, CPI: cpi, ProgressPct: progressPct})
	return nil
}

func (f *fakeProjectStore) UpdateProject(ctx context.Context, id uuid.UUID, edit model.ProjectEdit) error {
	f.edits = append(f.edits, edit)
	return nil
}

func (f *fakeProjectStore) AccrueManualCost(ctx context.Context, id uuid.UUID, amount float64) error {
	f.manualAccruals = append(f.manualAccruals, amount)
	return nil
}

func (f *fakeProjectStore) Archive(ctx context.Context, id uuid.UUID) error {
	f.archived = append(f.archived, id)
	return nil
}

type fakeLedgerStore struct {
	view       *repository.LedgerView
	expenses   []model.LogEntry
	snapshots  []model.PerformanceSnapshot
	hourlyCost float64

	changeStatusErr  error
	deliverableErr   error
	createdEntries   []model.LogEntry
	deletedEntries   []uuid.UUID
	changeStatuses   []model.ChangeStatus
	deliverableMoves []model.DeliverableStatus
}

func (f *fakeLedgerStore) ReadLedger(ctx context.Context, projectID uuid.UUID) (*repository.LedgerView, error) {
	if f.view == nil || f.view.Project.ID != projectID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.view
	return &copied, nil
}

func (f *fakeLedgerStore) ListChangeRequests(ctx context.Context, projectID uuid.UUID) ([]model.ChangeRequest, error) {
	return nil, nil
}

func (f *fakeLedgerStore) CreateChangeRequest(ctx context.Context, cr model.ChangeRequest) (*model.ChangeRequest, error) {
	cr.ID = uuid.New()
	cr.Status = model.ChangeStatusPending
	return &cr, nil
}

func (f *fakeLedgerStore) SetChangeStatus(ctx context.Context, projectID, changeID uuid.UUID, status model.ChangeStatus) error {
	if f.changeStatusErr != nil {
		return f.changeStatusErr
	}
	f.changeStatuses = append(f.changeStatuses, status)
	return nil
}

func (f *fakeLedgerStore) DeleteChangeRequest(ctx context.Context, projectID, changeID uuid.UUID) error {
	return nil
}

func (f *fakeLedgerStore) CreateLogEntry(ctx context.Context, entry model.LogEntry) (*model.LogEntry, error) {
	entry.ID = uuid.New()
	f.createdEntries = append(f.createdEntries, entry)
	return &entry, nil
}

func (f *fakeLedgerStore) DeleteLogEntry(ctx context.Context, projectID, entryID uuid.UUID) error {
	f.deletedEntries = append(f.deletedEntries, entryID)
	return nil
}

func (f *fakeLedgerStore) ListExpenses(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]model.LogEntry, error) {
	return f.expenses, nil
}

func (f *fakeLedgerStore) CreateDeliverable(ctx context.Context, d model.Deliverable) (*model.Deliverable, error) {
	d.ID = uuid.New()
	return &d, nil
}

func (f *fakeLedgerStore) UpdateDeliverableProgress(ctx context.Context, projectID, deliverableID uuid.UUID, progressPct int, status model.DeliverableStatus) error {
	if f.deliverableErr != nil {
		return f.deliverableErr
	}
	f.deliverableMoves = append(f.deliverableMoves, status)
	return nil
}

func (f *fakeLedgerStore) DeleteDeliverable(ctx context.Context, projectID, deliverableID uuid.UUID) error {
	return nil
}

func (f *fakeLedgerStore) LeadHourlyCost(ctx context.Context, fullName string) (float64, error) {
	return f.hourlyCost, nil
}

func (f *fakeLedgerStore) UpsertSnapshot(ctx context.Context, snap model.PerformanceSnapshot) error {
	for i, existing := range f.snapshots {
		if existing.ProjectID == snap.ProjectID && existing.CutDate.Equal(snap.CutDate) {
			f.snapshots[i] = snap
			return nil
		}
	}
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeLedgerStore) ListSnapshots(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]model.PerformanceSnapshot, error) {
	return f.snapshots, nil
}

type fakeRecalculator struct {
	calls []uuid.UUID
}

func (f *fakeRecalculator) Recalculate(ctx context.Context, projectID uuid.UUID) error {
	f.calls = append(f.calls, projectID)
	return nil
}
