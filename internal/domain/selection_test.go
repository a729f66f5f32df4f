package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectionOptions(t *testing.T) {
	opts := NewSelectionOptions(Aggregate(testRecords(), NewCountryCodes(testGeometry())))

	assert.Equal(t, []string{StatusAll, statusHistorical, statusHolocene}, opts.Statuses)
	assert.Equal(t, ThresholdMode, opts.ColorSchemes[0])
	assert.Len(t, opts.ColorSchemes, len(ContinuousColorScales)+1)
	assert.Equal(t, []Metric{MetricCount, MetricRate}, opts.Metrics)

	require.Len(t, opts.Thresholds, 1000)
	assert.Equal(t, 0.0, opts.Thresholds[0])
	assert.InDelta(t, 0.001, opts.Thresholds[1], 1e-12)
	assert.InDelta(t, 0.999, opts.Thresholds[999], 1e-12)
}

func TestSelectionOptions_Membership(t *testing.T) {
	opts := NewSelectionOptions(Aggregate(testRecords(), NewCountryCodes(testGeometry())))

	assert.True(t, opts.HasStatus(StatusAll))
	assert.True(t, opts.HasStatus(statusHolocene))
	assert.False(t, opts.HasStatus("Pleistocene"))

	assert.True(t, opts.HasColorScheme(ThresholdMode))
	assert.True(t, opts.HasColorScheme("viridis"))
	assert.False(t, opts.HasColorScheme("chartreuse"))
}
