package model

import (
	"time"

	"github.com/google/uuid"
)

type ChangeStatus string

const (
	ChangeStatusPending  ChangeStatus = "PENDING"
	ChangeStatusApproved ChangeStatus = "APPROVED"
	ChangeStatusRejected ChangeStatus = "REJECTED"
)

// ChangeRequest is an approved or pending modification to a project's cost
// or schedule baseline. Only APPROVED requests feed the engine.
type ChangeRequest struct {
	ID                 uuid.UUID
	ProjectID          uuid.UUID
	Title              string
	Description        string
	CostImpact         float64
	ScheduleImpactDays int
	Status             ChangeStatus
	LoggedAt           time.Time
}

// ChangeTotals is the approved-only aggregate the calculator consumes.
type ChangeTotals struct {
	CostAdditions     float64
	ScheduleAdditions int
}
