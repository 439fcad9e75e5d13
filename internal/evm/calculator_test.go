package evm

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInputs() Inputs {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return Inputs{
		Budget:  100000,
		StartAt: start,
		EndAt:   start.AddDate(0, 0, 100),
		Now:     start.AddDate(0, 0, 50),
	}
}

func TestCompute_OnTrackMidpoint(t *testing.T) {
	in := baseInputs()
	in.Progress = 0.5
	in.LoggedExpense = 40000
	in.ManualCost = 10000

	m := Compute(in)

	assert.InDelta(t, 100000, m.BAC, 1e-9)
	assert.InDelta(t, 50000, m.PV, 1e-9)
	assert.InDelta(t, 50000, m.EV, 1e-9)
	assert.InDelta(t, 50000, m.AC, 1e-9)
	assert.InDelta(t, 1.0, m.SPI, 1e-9)
	assert.InDelta(t, 1.0, m.CPI, 1e-9)
	assert.InDelta(t, 0, m.CostVariance, 1e-9)
	assert.InDelta(t, 0, m.ScheduleVariance, 1e-9)
	assert.InDelta(t, 100000, m.EAC, 1e-9)
	assert.Equal(t, 100, m.TotalDays)
	assert.Equal(t, 0, m.SlipDays)
}

func TestCompute_BehindScheduleUnderBudget(t *testing.T) {
	in := baseInputs()
	in.Progress = 0.25
	in.LoggedExpense = 20000

	m := Compute(in)

	assert.InDelta(t, 25000, m.EV, 1e-9)
	assert.InDelta(t, 50000, m.PV, 1e-9)
	assert.InDelta(t, 0.5, m.SPI, 1e-9)
	assert.InDelta(t, 1.25, m.CPI, 1e-9)
	assert.InDelta(t, -25000, m.ScheduleVariance, 1e-9)
	assert.InDelta(t, 5000, m.CostVariance, 1e-9)
	assert.InDelta(t, 80000, m.EAC, 1e-9)
	assert.Equal(t, -25, m.SlipDays)
}

func TestCompute_CostOverrun(t *testing.T) {
	in := baseInputs()
	in.Budget = 1000000
	in.Progress = 0.5
	in.LoggedExpense = 650000

	m := Compute(in)

	assert.InDelta(t, 500000, m.EV, 1e-6)
	assert.InDelta(t, 500000.0/650000.0, m.CPI, 1e-9)
	assert.InDelta(t, -150000, m.CostVariance, 1e-6)
	assert.InDelta(t, 1000000/(500000.0/650000.0), m.EAC, 1e-6)
}

func TestCompute_FreshProjectDefaultsIndices(t *testing.T) {
	in := baseInputs()
	in.Now = in.StartAt
	in.Progress = 0

	m := Compute(in)

	assert.InDelta(t, 0, m.PV, 1e-9)
	assert.InDelta(t, 0, m.EV, 1e-9)
	assert.InDelta(t, 1.0, m.SPI, 1e-9)
	assert.InDelta(t, 1.0, m.CPI, 1e-9)
	assert.InDelta(t, 100000, m.EAC, 1e-9)
}

func TestCompute_ProgressWithoutCostKeepsCPINeutral(t *testing.T) {
	in := baseInputs()
	in.Progress = 0.3

	m := Compute(in)

	assert.InDelta(t, 0, m.AC, 1e-9)
	assert.InDelta(t, 1.0, m.CPI, 1e-9)
	assert.InDelta(t, 0.6, m.SPI, 1e-9)
}

func TestCompute_ApprovedChangesExtendBaseline(t *testing.T) {
	in := baseInputs()
	in.Budget = 80000
	in.CostAdditions = 20000
	in.ScheduleAdditions = 10
	in.Progress = 0.5

	m := Compute(in)

	assert.InDelta(t, 100000, m.BAC, 1e-9)
	assert.Equal(t, in.EndAt.AddDate(0, 0, 10), m.AdjustedEnd)
	assert.Equal(t, 110, m.TotalDays)
	// 50 of 110 days elapsed.
	assert.InDelta(t, 100000*(50.0/110.0), m.PV, 1e-6)
}

func TestCompute_ZeroDuration(t *testing.T) {
	in := baseInputs()
	in.EndAt = in.StartAt
	in.Progress = 0.4
	in.LoggedExpense = 10000

	m := Compute(in)

	assert.InDelta(t, 0, m.PV, 1e-9)
	assert.InDelta(t, 0, m.ElapsedFraction, 1e-9)
	assert.Equal(t, 0, m.TotalDays)
	assert.InDelta(t, 1.0, m.SPI, 1e-9)
}

func TestCompute_ElapsedClampsPastEnd(t *testing.T) {
	in := baseInputs()
	in.Now = in.EndAt.AddDate(0, 0, 30)
	in.Progress = 1

	m := Compute(in)

	assert.InDelta(t, 1.0, m.ElapsedFraction, 1e-9)
	assert.InDelta(t, m.BAC, m.PV, 1e-9)
	assert.InDelta(t, 1.0, m.SPI, 1e-9)
}

func TestCompute_IndicesAlwaysFinite(t *testing.T) {
	hostile := []Inputs{
		{},
		{Budget: 0, Progress: 0.5, Now: time.Now()},
		{Budget: -500, Progress: 1, LoggedExpense: 100},
		baseInputs(),
	}
	for _, in := range hostile {
		m := Compute(in)
		require.False(t, math.IsNaN(m.SPI) || math.IsInf(m.SPI, 0), "SPI must be finite")
		require.False(t, math.IsNaN(m.CPI) || math.IsInf(m.CPI, 0), "CPI must be finite")
		assert.GreaterOrEqual(t, m.SPI, 0.0)
		assert.GreaterOrEqual(t, m.CPI, 0.0)
	}
}

func TestSanitizeIndex(t *testing.T) {
	assert.Equal(t, 1.00, sanitizeIndex(math.NaN()))
	assert.Equal(t, 1.00, sanitizeIndex(math.Inf(1)))
	assert.Equal(t, 1.00, sanitizeIndex(math.Inf(-1)))
	assert.Equal(t, 0.0, sanitizeIndex(-0.4))
	assert.Equal(t, 0.87, sanitizeIndex(0.87))
}
