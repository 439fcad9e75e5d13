package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
)

var (
	director = model.Principal{UserID: uuid.New(), Name: "Ana Torres", Role: model.RoleDirector}
	manager  = model.Principal{UserID: uuid.New(), Name: "Luis Vega", Role: model.RoleManager}
	staff    = model.Principal{UserID: uuid.New(), Name: "Rosa Mena", Role: model.RoleStaff}
	viewer   = model.Principal{UserID: uuid.New(), Name: "Guest", Role: model.RoleViewer}
)

func newTestLedgerService() (*LedgerService, *fakeProjectStore, *fakeLedgerStore, *fakeRecalculator) {
	projects := &fakeProjectStore{}
	ledger := &fakeLedgerStore{}
	recalc := &fakeRecalculator{}
	svc := NewLedgerService(projects, ledger, recalc, zerolog.Nop())
	return svc, projects, ledger, recalc
}

func TestLogExpense(t *testing.T) {
	svc, _, ledger, recalc := newTestLedgerService()
	projectID := uuid.New()
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	entry, err := svc.LogExpense(context.Background(), LogExpenseInput{
		ProjectID: projectID,
		Concept:   "Steel delivery",
		Amount:    12500,
		At:        at,
		Principal: staff,
	})
	require.NoError(t, err)

	assert.Equal(t, "Expense: Steel delivery", entry.Title)
	assert.Equal(t, model.LogEntryExpense, entry.EntryType)
	assert.Equal(t, 12500.0, entry.Amount)
	assert.Equal(t, "Rosa Mena", entry.Author)
	assert.Equal(t, at, entry.LoggedAt)

	require.Len(t, ledger.createdEntries, 1)
	assert.Equal(t, []uuid.UUID{projectID}, recalc.calls)
}

func TestLogExpense_Validation(t *testing.T) {
	svc, _, _, recalc := newTestLedgerService()
	projectID := uuid.New()

	_, err := svc.LogExpense(context.Background(), LogExpenseInput{
		ProjectID: projectID, Concept: "x", Amount: 100, Principal: viewer,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.LogExpense(context.Background(), LogExpenseInput{
		ProjectID: projectID, Concept: "   ", Amount: 100, Principal: staff,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.LogExpense(context.Background(), LogExpenseInput{
		ProjectID: projectID, Concept: "x", Amount: -5, Principal: staff,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, recalc.calls)
}

func TestAddLogEntry(t *testing.T) {
	svc, _, ledger, recalc := newTestLedgerService()
	projectID := uuid.New()

	entry, err := svc.AddLogEntry(context.Background(), AddLogEntryInput{
		ProjectID: projectID,
		Title:     "Crane outage",
		EntryType: model.LogEntryIncident,
		Principal: manager,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LogEntryIncident, entry.EntryType)
	require.Len(t, ledger.createdEntries, 1)
	assert.Len(t, recalc.calls, 1)
}

func TestAddLogEntry_RejectsExpenseType(t *testing.T) {
	svc, _, _, _ := newTestLedgerService()

	_, err := svc.AddLogEntry(context.Background(), AddLogEntryInput{
		ProjectID: uuid.New(),
		Title:     "sneaky",
		EntryType: model.LogEntryExpense,
		Principal: staff,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddLogEntry(context.Background(), AddLogEntryInput{
		ProjectID: uuid.New(),
		Title:     "bad type",
		EntryType: model.LogEntryType("GOSSIP"),
		Principal: staff,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangeTransitions(t *testing.T) {
	svc, _, ledger, recalc := newTestLedgerService()
	projectID := uuid.New()

	require.NoError(t, svc.ApproveChange(context.Background(), manager, projectID, uuid.New()))
	require.NoError(t, svc.RejectChange(context.Background(), director, projectID, uuid.New()))

	assert.Equal(t, []model.ChangeStatus{model.ChangeStatusApproved, model.ChangeStatusRejected}, ledger.changeStatuses)
	assert.Len(t, recalc.calls, 2)
}

func TestChangeTransitions_StaffDenied(t *testing.T) {
	svc, _, _, recalc := newTestLedgerService()

	err := svc.ApproveChange(context.Background(), staff, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Empty(t, recalc.calls)
}

func TestChangeTransitions_NotFound(t *testing.T) {
	svc, _, ledger, _ := newTestLedgerService()
	ledger.changeStatusErr = gorm.ErrRecordNotFound

	err := svc.ApproveChange(context.Background(), director, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateChangeRequest(t *testing.T) {
	svc, _, _, recalc := newTestLedgerService()
	projectID := uuid.New()

	cr, err := svc.CreateChangeRequest(context.Background(), CreateChangeInput{
		ProjectID:          projectID,
		Title:              "Extra excavation",
		CostImpact:         15000,
		ScheduleImpactDays: 7,
		Principal:          staff,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChangeStatusPending, cr.Status)
	assert.Len(t, recalc.calls, 1)
}

func TestSetDeliverableProgress(t *testing.T) {
	svc, _, ledger, recalc := newTestLedgerService()
	projectID := uuid.New()

	require.NoError(t, svc.SetDeliverableProgress(context.Background(), staff, projectID, uuid.New(), 100))
	require.NoError(t, svc.SetDeliverableProgress(context.Background(), staff, projectID, uuid.New(), 40))

	assert.Equal(t, []model.DeliverableStatus{
		model.DeliverableStatusComplete,
		model.DeliverableStatusInProgress,
	}, ledger.deliverableMoves)
	assert.Len(t, recalc.calls, 2)
}

func TestSetDeliverableProgress_OutOfRange(t *testing.T) {
	svc, _, _, recalc := newTestLedgerService()

	err := svc.SetDeliverableProgress(context.Background(), staff, uuid.New(), uuid.New(), 101)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.SetDeliverableProgress(context.Background(), staff, uuid.New(), uuid.New(), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, recalc.calls)
}

func TestUpdateProject(t *testing.T) {
	svc, projects, _, recalc := newTestLedgerService()
	projectID := uuid.New()
	projects.project = &model.Project{ID: projectID}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	err := svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: projectID,
		Edit: model.ProjectEdit{
			Name:    "Plant Expansion II",
			StartAt: start,
			EndAt:   start.AddDate(0, 6, 0),
			Budget:  250000,
		},
		Principal: director,
	})
	require.NoError(t, err)
	require.Len(t, projects.edits, 1)
	assert.Equal(t, "Plant Expansion II", projects.edits[0].Name)
	assert.Len(t, recalc.calls, 1)
}

func TestUpdateProject_Validation(t *testing.T) {
	svc, projects, _, recalc := newTestLedgerService()
	projectID := uuid.New()
	projects.project = &model.Project{ID: projectID}
	badPct := 150

	err := svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: projectID,
		Edit:      model.ProjectEdit{Name: "ok"},
		Principal: staff,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: projectID,
		Edit:      model.ProjectEdit{Name: ""},
		Principal: director,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: projectID,
		Edit:      model.ProjectEdit{Name: "ok", Budget: -1},
		Principal: director,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: projectID,
		Edit:      model.ProjectEdit{Name: "ok", ProgressPct: &badPct},
		Principal: director,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.UpdateProject(context.Background(), UpdateProjectInput{
		ProjectID: uuid.New(),
		Edit:      model.ProjectEdit{Name: "ok"},
		Principal: director,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, recalc.calls)
}

func TestAccrueManualCost(t *testing.T) {
	svc, projects, _, recalc := newTestLedgerService()
	projectID := uuid.New()

	require.NoError(t, svc.AccrueManualCost(context.Background(), staff, projectID, 5000))
	assert.Equal(t, []float64{5000}, projects.manualAccruals)
	assert.Equal(t, []uuid.UUID{projectID}, recalc.calls)

	err := svc.AccrueManualCost(context.Background(), staff, projectID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.AccrueManualCost(context.Background(), viewer, projectID, 100)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestArchiveProject(t *testing.T) {
	svc, projects, _, recalc := newTestLedgerService()
	projectID := uuid.New()
	projects.project = &model.Project{ID: projectID}

	require.NoError(t, svc.ArchiveProject(context.Background(), director, projectID))
	assert.Equal(t, []uuid.UUID{projectID}, projects.archived)
	assert.Empty(t, recalc.calls)

	err := svc.ArchiveProject(context.Background(), manager, projectID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.ArchiveProject(context.Background(), director, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveLogEntry(t *testing.T) {
	svc, _, ledger, recalc := newTestLedgerService()
	projectID := uuid.New()
	entryID := uuid.New()

	require.NoError(t, svc.RemoveLogEntry(context.Background(), manager, projectID, entryID))
	assert.Equal(t, []uuid.UUID{entryID}, ledger.deletedEntries)
	assert.Len(t, recalc.calls, 1)

	err := svc.RemoveLogEntry(context.Background(), viewer, projectID, entryID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
