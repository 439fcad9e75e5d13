package model

import (
	"time"

	"github.com/google/uuid"
)

type DeliverableStatus string

const (
	DeliverableStatusPending    DeliverableStatus = "PENDING"
	DeliverableStatusInProgress DeliverableStatus = "IN_PROGRESS"
	DeliverableStatusComplete   DeliverableStatus = "COMPLETE"
)

// Deliverable is a WBS work package. Its status is derived from progress.
type Deliverable struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Owner       string
	DueAt       *time.Time
	ProgressPct int
	Status      DeliverableStatus
}

// DeliverableStatusFor maps a completion percentage onto the status enum.
func DeliverableStatusFor(progressPct int) DeliverableStatus {
	switch {
	case progressPct >= 100:
		return DeliverableStatusComplete
	case progressPct > 0:
		return DeliverableStatusInProgress
	default:
		return DeliverableStatusPending
	}
}
