package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pylon/pkg/buildinfo"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
	"github.com/matzehuels/pylon/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode options"))
		return
	}
	opts.Parallel = true

	res, runErr := s.runner.Execute(r.Context(), opts)
	if runErr != nil && (res == nil || !errors.Is(runErr, errors.ErrCodeSolverFailure)) {
		writeError(w, r, runErr)
		return
	}

	rec := store.NewRecord(opts, res)
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	if runErr != nil {
		writeErrorFor(w, r, runErr, rec.ID)
		return
	}

	w.Header().Set("Location", "/v1/analyses/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
