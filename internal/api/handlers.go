package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/persistence"
	"github.com/talgya/fi-verse/internal/slider"
)

// Snapshot request defaults and bounds.
const (
	defaultZMax      = 3.0
	defaultZStep     = 0.1
	defaultListLimit = 20
	maxListLimit     = 500
	maxLabelLen      = 200
)

// floatParam parses a query parameter. ok is false when it is absent.
func floatParam(r *http.Request, name string) (v float64, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %s is not a number: %q", fqcd.ErrInvalidArgument, name, raw)
	}
	return v, true, nil
}

func requiredFloat(r *http.Request, name string) (float64, error) {
	v, ok, err := floatParam(r, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", fqcd.ErrInvalidArgument, name)
	}
	return v, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, map[string]any{
		"name":      "Fİ-VERSE FQCD",
		"version":   s.Version,
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"omega_m":   s.Calc.OmegaMatter(),
		"snapshots": s.DB != nil,
	})
}

func (s *Server) handleConstants(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, s.Calc.Constants())
}

func (s *Server) handleOmega(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, s.Calc.CheckOmega())
}

// handlePhi accepts either ?scale=<meters> or ?slider=<log10 position>.
func (s *Server) handlePhi(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	scale, hasScale, err := floatParam(r, "scale")
	if err != nil {
		writeErr(w, err)
		return
	}
	pos, hasSlider, err := floatParam(r, "slider")
	if err != nil {
		writeErr(w, err)
		return
	}

	switch {
	case hasScale && hasSlider:
		writeErr(w, fmt.Errorf("%w: give scale or slider, not both", fqcd.ErrInvalidArgument))
		return
	case hasSlider:
		if pos < slider.Min || pos > slider.Max {
			writeErr(w, fmt.Errorf("%w: slider must be within [%v, %v], got %v",
				fqcd.ErrInvalidArgument, slider.Min, slider.Max, pos))
			return
		}
		scale = slider.ToScale(pos)
	case hasScale:
		if scale > 0 {
			pos = slider.FromScale(scale)
		}
	default:
		writeErr(w, fmt.Errorf("%w: missing scale or slider", fqcd.ErrInvalidArgument))
		return
	}

	p, err := s.Calc.ScaleDependentPhi(scale)
	if err != nil {
		writeErr(w, err)
		return
	}
	regime, err := fqcd.ClassifyScale(scale)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, map[string]any{
		"scale":  scale,
		"slider": pos,
		"phi":    p,
		"regime": regime,
	})
}

func (s *Server) handleRotation(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	radius, err := requiredFloat(r, "radius")
	if err != nil {
		writeErr(w, err)
		return
	}
	mass, err := requiredFloat(r, "mass")
	if err != nil {
		writeErr(w, err)
		return
	}

	rot, err := s.Calc.GalaxyRotation(radius, mass)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, rot)
}

func (s *Server) handleRotationCurve(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, s.Calc.GenerateRotationCurve())
}

func (s *Server) handleHubble(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	z, err := requiredFloat(r, "z")
	if err != nil {
		writeErr(w, err)
		return
	}

	h, err := s.Calc.HubbleEvolution(z)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, h)
}

func (s *Server) handleHubbleSeries(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	zMax, ok, err := floatParam(r, "zmax")
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		zMax = defaultZMax
	}
	step, ok, err := floatParam(r, "step")
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		step = defaultZStep
	}

	series, err := s.Calc.HubbleSeries(zMax, step)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, series)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, fqcd.ComparisonRows())
}

func (s *Server) handleTension(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, s.Calc.HubbleTension())
}

// handleSnapshots dispatches GET (list) and POST (capture and save).
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	if r.Method == http.MethodPost {
		s.adminOnly(RateLimitMiddleware(s.limiter, s.proxies, s.handleCreateSnapshot))(w, r)
		return
	}

	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxListLimit {
			limit = n
		}
	}

	list, err := s.DB.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if list == nil {
		list = []persistence.SnapshotSummary{}
	}
	writeJSON(w, list)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Label string   `json:"label"`
		ZMax  *float64 `json:"zmax"`
		Step  *float64 `json:"step"`
	}{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Label) > maxLabelLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("label longer than %d bytes", maxLabelLen))
		return
	}

	zMax, step := defaultZMax, defaultZStep
	if req.ZMax != nil {
		zMax = *req.ZMax
	}
	if req.Step != nil {
		step = *req.Step
	}

	snap, err := persistence.Capture(s.Calc, strings.TrimSpace(req.Label), zMax, step)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.DB.SaveSnapshot(r.Context(), snap); err != nil {
		writeErr(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, persistence.SnapshotSummary{
		ID:           snap.ID,
		Label:        snap.Label,
		CreatedAt:    snap.CreatedAt,
		OmegaM:       snap.OmegaM,
		CurvePoints:  len(snap.Curve),
		HubblePoints: len(snap.Hubble),
	})
}

// handleSnapshotDetail serves GET and DELETE /api/v1/snapshot/:id.
func (s *Server) handleSnapshotDetail(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/snapshot/")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing snapshot id")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot id")
		return
	}

	if r.Method == http.MethodDelete {
		s.adminOnly(func(w http.ResponseWriter, r *http.Request) {
			if err := s.DB.DeleteSnapshot(r.Context(), id); err != nil {
				writeErr(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})(w, r)
		return
	}

	snap, err := s.DB.LoadSnapshot(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, snap)
}
