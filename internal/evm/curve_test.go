package evm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curveInputs() CurveInputs {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return CurveInputs{
		StartAt:     start,
		AdjustedEnd: start.AddDate(0, 0, 100),
		BAC:         1200000,
		Progress:    0.5,
		Now:         start.AddDate(0, 0, 50),
		MaxSamples:  50,
	}
}

func TestGenerateCurve_CosineShape(t *testing.T) {
	c := GenerateCurve(curveInputs())

	// 100 days at step 2 yields 51 samples including both endpoints.
	require.Len(t, c.Labels, 51)
	require.Len(t, c.PV, 51)

	assert.InDelta(t, 0, c.PV[0], 1e-6)
	assert.InDelta(t, 600000, c.PV[25], 1e-6) // day 50, the midpoint
	assert.InDelta(t, 1200000, c.PV[50], 1e-6)

	// Planned value never decreases.
	for i := 1; i < len(c.PV); i++ {
		assert.GreaterOrEqual(t, c.PV[i], c.PV[i-1])
	}
}

func TestGenerateCurve_NilAfterToday(t *testing.T) {
	c := GenerateCurve(curveInputs())

	// Day 50 is the last sample with history; day 52 onward is the future.
	require.NotNil(t, c.EV[25])
	require.NotNil(t, c.AC[25])
	for i := 26; i < len(c.EV); i++ {
		assert.Nil(t, c.EV[i])
		assert.Nil(t, c.AC[i])
		assert.Nil(t, c.SPI[i])
		assert.Nil(t, c.CPI[i])
	}

	// Earned value at today equals BAC * progress.
	assert.InDelta(t, 600000, *c.EV[25], 1e-6)
}

func TestGenerateCurve_ActualCostAccumulatesExpenses(t *testing.T) {
	in := curveInputs()
	in.Expenses = []DatedAmount{
		{At: in.StartAt.AddDate(0, 0, 5), Amount: 1000},
		{At: in.StartAt.AddDate(0, 0, 30), Amount: 2500},
		{At: in.StartAt.AddDate(0, 0, 90), Amount: 9999}, // future, never sampled
	}
	in.RecurringCost = 10000

	c := GenerateCurve(in)

	// Day 10: first expense only, plus 10/50 of the recurring cost.
	require.NotNil(t, c.AC[5])
	assert.InDelta(t, 1000+10000*(10.0/50.0), *c.AC[5], 1e-6)

	// Day 40: both past expenses, plus 40/50 of the recurring cost.
	require.NotNil(t, c.AC[20])
	assert.InDelta(t, 3500+10000*(40.0/50.0), *c.AC[20], 1e-6)
}

func TestGenerateCurve_WindowRestrictsSamples(t *testing.T) {
	in := curveInputs()
	ws := in.StartAt.AddDate(0, 0, 20)
	we := in.StartAt.AddDate(0, 0, 60)
	in.WindowStart = &ws
	in.WindowEnd = &we

	c := GenerateCurve(in)

	require.NotEmpty(t, c.Labels)
	assert.Equal(t, ws.Format("2 Jan"), c.Labels[0])
	for _, label := range c.Labels {
		parsed, err := time.Parse("2 Jan", label)
		require.NoError(t, err)
		assert.LessOrEqual(t, parsed.Month(), we.Month())
	}
}

func TestGenerateCurve_EmptyWindow(t *testing.T) {
	in := curveInputs()
	ws := in.StartAt.AddDate(0, 0, 80)
	we := in.StartAt.AddDate(0, 0, 20)
	in.WindowStart = &ws
	in.WindowEnd = &we

	c := GenerateCurve(in)

	assert.Empty(t, c.Labels)
	assert.Empty(t, c.PV)
}

func TestGenerateCurve_DegenerateDuration(t *testing.T) {
	in := curveInputs()
	in.AdjustedEnd = in.StartAt

	c := GenerateCurve(in)

	// Collapses to a single-day span instead of dividing by zero.
	require.NotEmpty(t, c.PV)
	assert.Len(t, c.PV, 2)
}

func TestGenerateCurve_SampleCapRespected(t *testing.T) {
	in := curveInputs()
	in.AdjustedEnd = in.StartAt.AddDate(0, 0, 1000)

	c := GenerateCurve(in)

	assert.LessOrEqual(t, len(c.Labels), in.MaxSamples+1)
}
