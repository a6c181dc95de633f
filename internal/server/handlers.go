package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/tagscout/pkg/buildinfo"
	"github.com/matzehuels/tagscout/pkg/config"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/pipeline"
	"github.com/matzehuels/tagscout/pkg/report"
	"github.com/matzehuels/tagscout/pkg/session"
)

// duration accepts "1.5s" style strings or integer milliseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = duration(v)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("duration must be a string or milliseconds")
	}
	*d = duration(time.Duration(ms) * time.Millisecond)
	return nil
}

type resolveOptions struct {
	Timeout     duration `json:"timeout"`
	RetryBudget int      `json:"retry_budget"`
	Delay       duration `json:"delay"`
	Window      int      `json:"window"`
	Refresh     bool     `json:"refresh"`
}

type resolveRequest struct {
	Packages []config.Package `json:"packages"`
	Options  resolveOptions   `json:"options"`
}

type resolveResponse struct {
	Outcomes    []session.Outcome `json:"outcomes"`
	Successful  int               `json:"successful"`
	Failed      int               `json:"failed"`
	Fingerprint string            `json:"fingerprint"`
}

type runSummary struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "tagscout",
		"version": buildinfo.Version,
	})
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Packages) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "packages must not be empty"))
		return
	}
	if len(req.Packages) > s.cfg.MaxPackages {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "too many packages (max %d)", s.cfg.MaxPackages))
		return
	}

	ds, err := (&config.File{Packages: req.Packages}).Descriptors()
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.cfg.Defaults
	applyRequest(&opts, req.Options)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	outcomes, err := s.cfg.Runner.Resolve(ctx, ds, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newResolveResponse(outcomes))
}

func applyRequest(o *pipeline.Options, req resolveOptions) {
	if req.Timeout > 0 {
		o.Timeout = time.Duration(req.Timeout)
	}
	if req.RetryBudget > 0 {
		o.RetryBudget = req.RetryBudget
	}
	if req.Delay != 0 {
		o.Delay = time.Duration(req.Delay)
	}
	if req.Window > 0 {
		o.Window = req.Window
	}
	o.Refresh = o.Refresh || req.Refresh
}

func newResolveResponse(outcomes []session.Outcome) resolveResponse {
	resp := resolveResponse{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.OK() {
			resp.Successful++
		} else {
			resp.Failed++
		}
	}
	resp.Fingerprint, _ = report.Fingerprint(outcomes)
	return resp
}

func (s *server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	runs, err := s.cfg.Runner.History(r.Context(), 2)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load runs"))
		return
	}
	if len(runs) == 0 {
		writeError(w, errors.New(errors.ErrCodeRunNotFound, "no crawl has been recorded"))
		return
	}
	var prev *session.Run
	if len(runs) > 1 {
		prev = runs[1]
	}
	doc, err := report.NewExport(runs[0], prev)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "build report"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}
	runs, err := s.cfg.Runner.History(r.Context(), limit)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load runs"))
		return
	}
	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		total, ok, failed := run.Counts()
		out = append(out, runSummary{
			ID:         run.ID,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Total:      total,
			Successful: ok,
			Failed:     failed,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = strings.TrimPrefix(err.Error(), string(code)+": ")
	writeJSON(w, errors.HTTPStatus(code), body)
}
