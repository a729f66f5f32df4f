package render

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
	"github.com/couchcryptid/volcano-atlas/internal/validation"
)

// ErrInvalidSelection is returned for selections outside the offered options.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the state of the dashboard controls. Metric, ColorScheme and
// Threshold are ignored when Points is set.
type Selection struct {
	Status      string        `json:"status" validate:"required"`
	Metric      domain.Metric `json:"metric" validate:"omitempty,oneof=count rate"`
	ColorScheme string        `json:"scheme"`
	Threshold   float64       `json:"threshold" validate:"gte=0,lt=1"`
	Points      bool          `json:"points"`
}

// DefaultSelection is the initial state of the controls.
func DefaultSelection() Selection {
	return Selection{
		Status:      domain.StatusAll,
		Metric:      domain.MetricCount,
		ColorScheme: domain.ThresholdMode,
	}
}

// IsThreshold reports whether the selection asks for two-class coloring.
func (s Selection) IsThreshold() bool {
	return !s.Points && s.ColorScheme == domain.ThresholdMode
}

func checkSelection(sel Selection, opts domain.SelectionOptions) error {
	if err := validation.Struct(&sel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if !opts.HasStatus(sel.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSelection, sel.Status)
	}
	if sel.Points {
		return nil
	}
	if sel.Metric == "" {
		return fmt.Errorf("%w: metric is required", ErrInvalidSelection)
	}
	if !opts.HasColorScheme(sel.ColorScheme) {
		return fmt.Errorf("%w: unknown color scheme %q", ErrInvalidSelection, sel.ColorScheme)
	}
	return nil
}
