package model

import (
	"time"

	"github.com/google/uuid"
)

// PerformanceSnapshot is a dated record of the derived indicators, one per
// project per cut date. The synchronizer upserts today's row on every
// recompute; the trend endpoint serves the accumulated series.
type PerformanceSnapshot struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	CutDate   time.Time
	PV        float64
	EV        float64
	AC        float64
	SPI       float64
	CPI       float64
}
