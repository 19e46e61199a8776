// Package server exposes the quote pipeline over HTTP: one-shot analysis and
// quote endpoints, plus session-backed wizard endpoints for conversational
// clients.
package server

import (
	"encoding/json"
	"net/http"

	"laserquote/internal/common/logger"
	"laserquote/internal/notify"
	"laserquote/internal/quote/wizard"
	"laserquote/internal/quote/workflow"
	"laserquote/internal/store"
)

type Server struct {
	workflow *workflow.Workflow
	machine  *wizard.Machine
	sessions wizard.SessionStore
	store    *store.Store
	mailer   *notify.Mailer
	logger   logger.Logger
	schemas  *schemaSet

	maxUploadBytes int64
}

// Options carries the optional collaborators: persistence and notification
// may be absent in development.
type Options struct {
	Store          *store.Store
	Mailer         *notify.Mailer
	MaxUploadBytes int64
}

func New(wf *workflow.Workflow, machine *wizard.Machine, sessions wizard.SessionStore, log logger.Logger, opts Options) (*Server, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Server{
		workflow:       wf,
		machine:        machine,
		sessions:       sessions,
		store:          opts.Store,
		mailer:         opts.Mailer,
		logger:         log.With(map[string]interface{}{"component": "http"}),
		schemas:        schemas,
		maxUploadBytes: opts.MaxUploadBytes,
	}, nil
}

// Router wires the endpoint table. /metrics is mounted by main alongside
// this mux.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/quote/analyze", withMetrics("quote_analyze", requireUser(s.handleAnalyze)))
	mux.HandleFunc("POST /v1/quote/complete", withMetrics("quote_complete", requireUser(s.handleCompleteQuote)))
	mux.HandleFunc("GET /v1/delivery/cost", withMetrics("delivery_cost", s.handleDeliveryCost))
	mux.HandleFunc("GET /v1/delivery/workshops", withMetrics("delivery_workshops", s.handleWorkshops))

	mux.HandleFunc("POST /v1/wizard", withMetrics("wizard_create", requireUser(s.handleCreateSession)))
	mux.HandleFunc("GET /v1/wizard/{id}", withMetrics("wizard_get", requireUser(s.handleGetSession)))
	mux.HandleFunc("POST /v1/wizard/{id}/advance", withMetrics("wizard_advance", requireUser(s.handleAdvance)))

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
