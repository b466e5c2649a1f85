package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/internal/metrics"
	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/aretw0/robofsm/internal/validator"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/aretw0/robofsm/pkg/instruction"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/go-chi/chi/v5"
	gvalidator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures the handler.
type Options struct {
	// Gatherer, when set, exposes /metrics.
	Gatherer prometheus.Gatherer
	// Hooks, when set, observes machines run by /simulate (e.g. metrics.Collector.Hooks).
	Hooks  func(play string) domain.LifecycleHooks
	Logger *slog.Logger
}

// Server serves the playbook over HTTP.
type Server struct {
	opts     Options
	logger   *slog.Logger
	validate *gvalidator.Validate
}

// NewHandler creates the HTTP handler:
//
//	GET  /healthz
//	GET  /metrics                 (when a Gatherer is configured)
//	GET  /plays
//	GET  /plays/{name}            JSON graph
//	GET  /plays/{name}/mermaid    Mermaid state diagram
//	GET  /plays/{name}/validate   integrity report
//	POST /plays/{name}/simulate   headless run
//	POST /plans                   instruction to play
func NewHandler(opts Options) http.Handler {
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		validate: gvalidator.New(),
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	if opts.Gatherer != nil {
		metrics.Register(r, opts.Gatherer)
	} else {
		r.Get("/healthz", s.GetHealth)
	}
	r.Get("/plays", s.ListPlays)
	r.Route("/plays/{name}", func(r chi.Router) {
		r.Get("/", s.GetPlay)
		r.Get("/mermaid", s.GetMermaid)
		r.Get("/validate", s.GetValidation)
		r.Post("/simulate", s.Simulate)
	})
	r.Post("/plans", s.Plan)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PlaySummary is one entry of GET /plays.
type PlaySummary struct {
	Name          string `json:"name"`
	Title         string `json:"title"`
	DefaultTarget string `json:"default_target,omitempty"`
}

// PlanRequest is the body of POST /plans.
type PlanRequest struct {
	Instruction string `json:"instruction" validate:"required,max=256"`
}

// PlanResponse describes the play chosen for an instruction.
type PlanResponse struct {
	Play        string         `json:"play"`
	Target      string         `json:"target,omitempty"`
	Description string         `json:"description"`
	Tasks       []string       `json:"tasks"`
	Steps       []robofsm.Step `json:"steps"`
	Explanation []string       `json:"explanation"`
}

// SimulateRequest is the optional body of POST /plays/{name}/simulate.
// Without events the scripted sequence runs (the failure one when Fail is set).
type SimulateRequest struct {
	Events []string `json:"events" validate:"max=64,dive,required"`
	Target string   `json:"target" validate:"omitempty,len=2,startswith=R"`
	Fail   bool     `json:"fail"`
}

// SimulateResponse reports the outcome of a headless run.
type SimulateResponse struct {
	Play    string   `json:"play"`
	Path    []string `json:"path"`
	Final   bool     `json:"final"`
	Success bool     `json:"success"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPlays handles the GET /plays request.
func (s *Server) ListPlays(w http.ResponseWriter, r *http.Request) {
	var out []PlaySummary
	for _, p := range playbook.All() {
		out = append(out, PlaySummary{Name: p.Name, Title: p.Title, DefaultTarget: p.DefaultTarget})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetPlay handles the GET /plays/{name} request.
func (s *Server) GetPlay(w http.ResponseWriter, r *http.Request) {
	p, m, ok := s.machine(w, r, "")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, graph.NewExport(p.Name, m))
}

// GetMermaid handles the GET /plays/{name}/mermaid request.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	_, m, ok := s.machine(w, r, "")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(m, nil)))
}

// GetValidation handles the GET /plays/{name}/validate request.
func (s *Server) GetValidation(w http.ResponseWriter, r *http.Request) {
	_, m, ok := s.machine(w, r, "")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, validator.Validate(m))
}

// Simulate handles the POST /plays/{name}/simulate request.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if r.ContentLength != 0 {
		if !s.decode(w, r, &req) {
			return
		}
	}

	p, m, ok := s.machine(w, r, req.Target)
	if !ok {
		return
	}

	events := req.Events
	if len(events) == 0 {
		steps := p.Steps
		if req.Fail {
			steps = p.FailSteps
		}
		for _, st := range steps {
			events = append(events, st.Event)
		}
	}

	for _, e := range events {
		if m.ProcessEvent(e) {
			break
		}
	}

	cur := m.Current()
	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Play:    p.Name,
		Path:    m.Path(),
		Final:   cur.Final,
		Success: cur.Final && cur.Success,
	})
}

// Plan handles the POST /plans request.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !s.decode(w, r, &req) {
		return
	}

	task, err := instruction.Parse(req.Instruction)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	plan, err := playbook.FromTask(task)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, http.StatusOK, PlanResponse{
		Play:        plan.Play.Name,
		Target:      plan.Target,
		Description: plan.Description,
		Tasks:       task.Tasks,
		Steps:       plan.Play.Steps,
		Explanation: plan.Play.Explanation,
	})
}

func (s *Server) machine(w http.ResponseWriter, r *http.Request, target string) (*playbook.Play, *robofsm.Machine, bool) {
	p, err := playbook.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return nil, nil, false
	}

	var opts []robofsm.Option
	if s.opts.Hooks != nil {
		opts = append(opts, robofsm.WithLifecycleHooks(s.opts.Hooks(p.Name)))
	}
	m, err := p.Build(playbook.Config{
		Actions: playbook.Actions{Logger: s.logger},
		Target:  target,
	}, append(opts, robofsm.WithLogger(s.logger))...)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return p, m, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs gvalidator.ValidationErrors
		if errors.As(err, &verrs) {
			s.writeError(w, http.StatusBadRequest, verrs)
			return false
		}
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
