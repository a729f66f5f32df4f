package domain

import "github.com/montanaflynn/stats"

// ThresholdLabel is the category a value falls into in threshold mode.
type ThresholdLabel string

const (
	AboveThreshold ThresholdLabel = "Above Threshold"
	BelowThreshold ThresholdLabel = "Below Threshold"
)

// ClassifyThreshold labels each value Above when value/max(values) exceeds
// threshold and Below otherwise. When the maximum is not positive every
// value is Below, since no value can exceed a share of nothing.
func ClassifyThreshold(values []float64, threshold float64) []ThresholdLabel {
	labels := make([]ThresholdLabel, len(values))
	maxValue, err := stats.Max(values)
	for i, v := range values {
		if err == nil && maxValue > 0 && v/maxValue > threshold {
			labels[i] = AboveThreshold
			continue
		}
		labels[i] = BelowThreshold
	}
	return labels
}
