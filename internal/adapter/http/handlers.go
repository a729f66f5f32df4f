package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/couchcryptid/volcano-atlas/internal/domain"
	"github.com/couchcryptid/volcano-atlas/internal/pipeline"
	"github.com/couchcryptid/volcano-atlas/internal/render"
)

// tablesResponse holds both raw tables.
type tablesResponse struct {
	Volcanoes []domain.VolcanoRecord    `json:"volcanoes"`
	Countries []domain.CountryAggregate `json:"countries"`
	Statuses  []string                  `json:"statuses"`
	Matched   int                       `json:"matched"`
	Dropped   int                       `json:"dropped"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Options)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	sel, err := parseSelection(r)
	if err != nil {
		s.metrics.RenderErrors.Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fig, err := snap.Renderer.Render(sel)
	if err != nil {
		s.metrics.RenderErrors.Inc()
		if errors.Is(err, render.ErrInvalidSelection) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("render failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.metrics.RenderRequests.WithLabelValues(fig.Mode).Inc()
	writeJSON(w, http.StatusOK, fig)
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Geometry.Raw) //nolint:errcheck // client went away
}

// handleCountries lists every geometry feature with its bounding box so the
// client can fit the viewport to one country.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Geometry.Features)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{
		Volcanoes: snap.Records,
		Countries: snap.Aggregation.Rows,
		Statuses:  snap.Aggregation.Statuses,
		Matched:   snap.Aggregation.Matched,
		Dropped:   snap.Aggregation.Dropped,
	})
}

func (s *Server) handleTablesWorkbook(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="volcano-tables.xlsx"`)
	if err := writeWorkbook(w, snap); err != nil {
		s.logger.Error("write workbook failed", "error", err)
	}
}

// snapshot writes 503 and returns false until the dataset is loaded.
func (s *Server) snapshot(w http.ResponseWriter) (*pipeline.Snapshot, bool) {
	snap := s.data.Snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("dataset not loaded"))
		return nil, false
	}
	return snap, true
}

// parseSelection reads the map query. Missing parameters take the defaults
// of the dashboard controls.
func parseSelection(r *http.Request) (render.Selection, error) {
	sel := render.DefaultSelection()
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		sel.Status = v
	}
	if v := q.Get("metric"); v != "" {
		sel.Metric = domain.Metric(v)
	}
	if v := q.Get("scheme"); v != "" {
		sel.ColorScheme = v
	}
	if v := q.Get("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return sel, fmt.Errorf("%w: threshold %q is not a number", render.ErrInvalidSelection, v)
		}
		sel.Threshold = t
	}
	if v := q.Get("points"); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			return sel, fmt.Errorf("%w: points %q is not a boolean", render.ErrInvalidSelection, v)
		}
		sel.Points = p
	}
	return sel, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before writing the header so an encoding failure
// still produces a 500 with a body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(`{"error":"encode response"}`)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n')) //nolint:errcheck // best-effort response
}
