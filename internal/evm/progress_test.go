package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateProgress_MeanOfDeliverables(t *testing.T) {
	pct, fraction := AggregateProgress([]int{33, 33, 34}, 99)
	assert.Equal(t, 33, pct)
	assert.InDelta(t, 0.33, fraction, 1e-9)

	pct, fraction = AggregateProgress([]int{50, 75}, 0)
	assert.Equal(t, 63, pct)
	assert.InDelta(t, 0.63, fraction, 1e-9)
}

func TestAggregateProgress_StoredFallback(t *testing.T) {
	pct, fraction := AggregateProgress(nil, 40)
	assert.Equal(t, 40, pct)
	assert.InDelta(t, 0.40, fraction, 1e-9)
}

func TestAggregateProgress_ClampsOutOfRange(t *testing.T) {
	pct, _ := AggregateProgress(nil, 150)
	assert.Equal(t, 100, pct)

	pct, _ = AggregateProgress(nil, -5)
	assert.Equal(t, 0, pct)

	pct, _ = AggregateProgress([]int{-20, 120}, 0)
	assert.Equal(t, 50, pct)
}

func TestAggregateProgress_CompleteProject(t *testing.T) {
	pct, fraction := AggregateProgress([]int{100, 100, 100}, 0)
	assert.Equal(t, 100, pct)
	assert.InDelta(t, 1.0, fraction, 1e-9)
}
