package model

import (
	"time"

	"github.com/google/uuid"
)

type LogEntryType string

const (
	LogEntryExpense  LogEntryType = "EXPENSE"
	LogEntryIncident LogEntryType = "INCIDENT"
	LogEntryLesson   LogEntryType = "LESSON"
	LogEntryProgress LogEntryType = "PROGRESS"
	LogEntryRisk     LogEntryType = "RISK"
)

// LogEntry is a dated project journal record. Only EXPENSE entries carry a
// meaningful amount and participate in actual-cost aggregation.
type LogEntry struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	EntryType   LogEntryType
	Amount      float64
	Author      string
	LoggedAt    time.Time
}
