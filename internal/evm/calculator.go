// Package evm holds the pure computation core of the performance engine:
// point-in-time earned-value indicators, progress aggregation, the health
// diagnosis table and the time-phased S-curve generator. Nothing in here
// touches the database or the clock; callers inject every input.
package evm

import (
	"math"
	"time"
)

// Inputs is the full read set of one recompute, already aggregated by the
// ledger readers.
type Inputs struct {
	Budget            float64
	CostAdditions     float64 // sum of approved change-request cost impacts
	LoggedExpense     float64 // sum of expense-tagged log entries
	ManualCost        float64 // manually accumulated cost on the project row
	Progress          float64 // completion fraction in [0,1]
	StartAt           time.Time
	EndAt             time.Time // committed end, before approved schedule changes
	ScheduleAdditions int       // sum of approved schedule impacts, days
	Now               time.Time
}

// Metrics is the derived indicator set. SPI and CPI are always finite and
// non-negative; no arithmetic edge case escapes this struct.
type Metrics struct {
	BAC              float64
	PV               float64
	EV               float64
	AC               float64
	SPI              float64
	CPI              float64
	CostVariance     float64
	ScheduleVariance float64
	EAC              float64
	AdjustedEnd      time.Time
	ElapsedFraction  float64
	TotalDays        int
	SlipDays         int
}

// Compute derives the indicator set from one consistent ledger read.
func Compute(in Inputs) Metrics {
	bac := in.Budget + in.CostAdditions
	ac := in.LoggedExpense + in.ManualCost

	adjustedEnd := in.EndAt.AddDate(0, 0, in.ScheduleAdditions)

	duration := adjustedEnd.Sub(in.StartAt)
	elapsed := 0.0
	if duration > 0 {
		elapsed = clamp(float64(in.Now.Sub(in.StartAt))/float64(duration), 0, 1)
	}

	pv := bac * elapsed
	ev := bac * in.Progress

	spi := 1.00
	if pv > 0 {
		spi = sanitizeIndex(ev / pv)
	}
	cpi := 1.00
	if ac > 0 {
		cpi = sanitizeIndex(ev / ac)
	}

	// A project that has not started is neither behind nor over budget, and
	// work with no recorded cost yet must not read as infinite efficiency.
	if in.Progress == 0 {
		spi = 1.00
		cpi = 1.00
	} else if ac == 0 {
		cpi = 1.00
	}

	eac := bac
	if cpi > 0 {
		eac = bac / cpi
	}

	totalDays := int(math.Ceil(duration.Hours() / 24))
	if totalDays < 0 {
		totalDays = 0
	}

	sv := ev - pv
	slipDays := 0
	if sv != 0 && bac != 0 {
		slipDays = int(math.Round(sv / bac * float64(totalDays)))
	}

	return Metrics{
		BAC:              bac,
		PV:               pv,
		EV:               ev,
		AC:               ac,
		SPI:              spi,
		CPI:              cpi,
		CostVariance:     ev - ac,
		ScheduleVariance: sv,
		EAC:              eac,
		AdjustedEnd:      adjustedEnd,
		ElapsedFraction:  elapsed,
		TotalDays:        totalDays,
		SlipDays:         slipDays,
	}
}

func sanitizeIndex(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1.00
	}
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
