package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inymo/project-performance/internal/model"
)

// LedgerService carries the thin mutating operations that feed the engine.
// Every mutation funnels through the Recalculator hook so the cached SPI/CPI
// never drifts from what a fresh computation would produce.
type LedgerService struct {
	projects ProjectStore
	ledger   LedgerStore
	recalc   Recalculator
	log      zerolog.Logger
}

func NewLedgerService(
	projects ProjectStore,
	ledger LedgerStore,
	recalc Recalculator,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		projects: projects,
		ledger:   ledger,
		recalc:   recalc,
		log:      log,
	}
}

type LogExpenseInput struct {
	ProjectID uuid.UUID
	Concept   string
	Amount    float64
	At        time.Time
	Principal model.Principal
}

// LogExpense appends an expense-tagged entry to the project log. The entry
// itself is the source of actual cost; it does not touch the manual
// accumulator, which covers costs that never pass through the log.
func (s *LedgerService) LogExpense(ctx context.Context, in LogExpenseInput) (*model.LogEntry, error) {
	if !in.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Concept) == "" {
		return nil, fmt.Errorf("%w: concept is required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	entry, err := s.ledger.CreateLogEntry(ctx, model.LogEntry{
		ProjectID:   in.ProjectID,
		Title:       "Expense: " + strings.TrimSpace(in.Concept),
		Description: "Manual actual-cost imputation.",
		EntryType:   model.LogEntryExpense,
		Amount:      in.Amount,
		Author:      in.Principal.Name,
		LoggedAt:    in.At,
	})
	if err != nil {
		return nil, err
	}
	return entry, s.recalc.Recalculate(ctx, in.ProjectID)
}

type AddLogEntryInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	EntryType   model.LogEntryType
	Principal   model.Principal
}

// AddLogEntry records a non-expense journal entry. It still runs through the
// hook: inert inputs recompute to identical stored values, and one uniform
// path is cheaper than proving per call site that a mutation cannot matter.
func (s *LedgerService) AddLogEntry(ctx context.Context, in AddLogEntryInput) (*model.LogEntry, error) {
	if !in.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.EntryType == model.LogEntryExpense {
		return nil, fmt.Errorf("%w: expenses go through the expense operation", ErrInvalidInput)
	}
	switch in.EntryType {
	case model.LogEntryIncident, model.LogEntryLesson, model.LogEntryProgress, model.LogEntryRisk:
	default:
		return nil, fmt.Errorf("%w: unknown entry type", ErrInvalidInput)
	}

	entry, err := s.ledger.CreateLogEntry(ctx, model.LogEntry{
		ProjectID:   in.ProjectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		EntryType:   in.EntryType,
		Author:      in.Principal.Name,
	})
	if err != nil {
		return nil, err
	}
	return entry, s.recalc.Recalculate(ctx, in.ProjectID)
}

// RemoveLogEntry is the explicit corrective deletion of a ledger entry.
func (s *LedgerService) RemoveLogEntry(ctx context.Context, principal model.Principal, projectID, entryID uuid.UUID) error {
	if !principal.CanMutate() {
		return ErrPermissionDenied
	}
	if err := s.ledger.DeleteLogEntry(ctx, projectID, entryID); err != nil {
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}

type CreateChangeInput struct {
	ProjectID          uuid.UUID
	Title              string
	Description        string
	CostImpact         float64
	ScheduleImpactDays int
	Principal          model.Principal
}

func (s *LedgerService) CreateChangeRequest(ctx context.Context, in CreateChangeInput) (*model.ChangeRequest, error) {
	if !in.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	cr, err := s.ledger.CreateChangeRequest(ctx, model.ChangeRequest{
		ProjectID:          in.ProjectID,
		Title:              strings.TrimSpace(in.Title),
		Description:        in.Description,
		CostImpact:         in.CostImpact,
		ScheduleImpactDays: in.ScheduleImpactDays,
	})
	if err != nil {
		return nil, err
	}
	return cr, s.recalc.Recalculate(ctx, in.ProjectID)
}

// ApproveChange makes the request's cost and schedule deltas part of the
// baseline from the next recompute on.
func (s *LedgerService) ApproveChange(ctx context.Context, principal model.Principal, projectID, changeID uuid.UUID) error {
	return s.transitionChange(ctx, principal, projectID, changeID, model.ChangeStatusApproved)
}

// RejectChange also recomputes: an approved request being rejected removes
// its deltas from the totals.
func (s *LedgerService) RejectChange(ctx context.Context, principal model.Principal, projectID, changeID uuid.UUID) error {
	return s.transitionChange(ctx, principal, projectID, changeID, model.ChangeStatusRejected)
}

func (s *LedgerService) transitionChange(
	ctx context.Context,
	principal model.Principal,
	projectID, changeID uuid.UUID,
	status model.ChangeStatus,
) error {
	if !(principal.IsDirector() || principal.IsManager()) {
		return ErrPermissionDenied
	}
	if err := s.ledger.SetChangeStatus(ctx, projectID, changeID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}

func (s *LedgerService) RemoveChange(ctx context.Context, principal model.Principal, projectID, changeID uuid.UUID) error {
	if !(principal.IsDirector() || principal.IsManager()) {
		return ErrPermissionDenied
	}
	if err := s.ledger.DeleteChangeRequest(ctx, projectID, changeID); err != nil {
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}

func (s *LedgerService) ListChanges(ctx context.Context, projectID uuid.UUID) ([]model.ChangeRequest, error) {
	return s.ledger.ListChangeRequests(ctx, projectID)
}

type AddDeliverableInput struct {
	ProjectID uuid.UUID
	Name      string
	Owner     string
	DueAt     *time.Time
	Principal model.Principal
}

func (s *LedgerService) AddDeliverable(ctx context.Context, in AddDeliverableInput) (*model.Deliverable, error) {
	if !in.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	d, err := s.ledger.CreateDeliverable(ctx, model.Deliverable{
		ProjectID:   in.ProjectID,
		Name:        strings.TrimSpace(in.Name),
		Owner:       in.Owner,
		DueAt:       in.DueAt,
		ProgressPct: 0,
		Status:      model.DeliverableStatusPending,
	})
	if err != nil {
		return nil, err
	}
	return d, s.recalc.Recalculate(ctx, in.ProjectID)
}

// SetDeliverableProgress moves a work package and re-derives its status; the
// project-level percentage follows on the next recompute.
func (s *LedgerService) SetDeliverableProgress(
	ctx context.Context,
	principal model.Principal,
	projectID, deliverableID uuid.UUID,
	progressPct int,
) error {
	if !principal.CanMutate() {
		return ErrPermissionDenied
	}
	if progressPct < 0 || progressPct > 100 {
		return fmt.Errorf("%w: progress must be within [0,100]", ErrInvalidInput)
	}

	status := model.DeliverableStatusFor(progressPct)
	if err := s.ledger.UpdateDeliverableProgress(ctx, projectID, deliverableID, progressPct, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}

func (s *LedgerService) RemoveDeliverable(ctx context.Context, principal model.Principal, projectID, deliverableID uuid.UUID) error {
	if !principal.CanMutate() {
		return ErrPermissionDenied
	}
	if err := s.ledger.DeleteDeliverable(ctx, projectID, deliverableID); err != nil {
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}

type UpdateProjectInput struct {
	ProjectID uuid.UUID
	Edit      model.ProjectEdit
	Principal model.Principal
}

func (s *LedgerService) UpdateProject(ctx context.Context, in UpdateProjectInput) error {
	if !(in.Principal.IsDirector() || in.Principal.IsManager()) {
		return ErrPermissionDenied
	}
	if strings.TrimSpace(in.Edit.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Edit.Budget < 0 {
		return fmt.Errorf("%w: budget cannot be negative", ErrInvalidInput)
	}
	if in.Edit.ProgressPct != nil && (*in.Edit.ProgressPct < 0 || *in.Edit.ProgressPct > 100) {
		return fmt.Errorf("%w: progress must be within [0,100]", ErrInvalidInput)
	}

	if _, err := s.projects.GetProject(ctx, in.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.projects.UpdateProject(ctx, in.ProjectID, in.Edit); err != nil {
		return err
	}
	return s.recalc.Recalculate(ctx, in.ProjectID)
}

// ArchiveProject retires a project from active reporting. The row and its
// ledger stay queryable; nothing recomputes because nothing changed.
func (s *LedgerService) ArchiveProject(ctx context.Context, principal model.Principal, projectID uuid.UUID) error {
	if !principal.IsDirector() {
		return ErrPermissionDenied
	}
	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.projects.Archive(ctx, projectID)
}

// AccrueManualCost adds directly to the project's manually accumulated cost,
// for spend that never passes through the log.
func (s *LedgerService) AccrueManualCost(ctx context.Context, principal model.Principal, projectID uuid.UUID, amount float64) error {
	if !principal.CanMutate() {
		return ErrPermissionDenied
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if err := s.projects.AccrueManualCost(ctx, projectID, amount); err != nil {
		return err
	}
	return s.recalc.Recalculate(ctx, projectID)
}
