package model

import (
	"time"

	"github.com/google/uuid"
)

// Project is the aggregate root of the performance engine. SPI and CPI are a
// cache of the last synchronization and are recomputable from the ledger at
// any time; the engine is their only writer.
type Project struct {
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

// ProjectEdit carries the mutable baseline fields of a project. Progress is
// optional: when deliverables exist the stored percentage is derived, not
// edited directly.
type ProjectEdit struct {
	Name          string
	Client        string
	Lead          string
	Phase         string
	Health        string
	StartAt       time.Time
	EndAt         time.Time
	Budget        float64
	BusinessValue float64
	ProgressPct   *int
}
