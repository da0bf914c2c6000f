package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// Engine defines the resolver operations the API exposes.
type Engine interface {
	Plan(ctx context.Context, g *domain.Graph) *domain.Plan
	Translate(ctx context.Context, g *domain.Graph) *domain.Translation
	ListPortalNames(g *domain.Graph) []string
	UsedPortals(g *domain.Graph) []domain.UsedPortal
	Validate(g *domain.Graph) error
	Watch(ctx context.Context) (<-chan string, error)
}

// Server holds the handlers of the portals API.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	spec     *openapi3.T
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions enables the /graphs routes on top of a session manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithGatherer exposes the gatherer on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Spec loads and validates the embedded OpenAPI document.
func Spec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server, err := NewServer(engine, opts...)
	if err != nil {
		return nil, err
	}
	return server.Routes(), nil
}

// NewServer loads the API document and applies opts.
func NewServer(engine Engine, opts ...Option) (*Server, error) {
	spec, err := Spec()
	if err != nil {
		return nil, err
	}

	server := &Server{
		Engine: engine,
		spec:   spec,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)
	return server, nil
}

// Routes mounts the API on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/resolve", s.ResolveGraph)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.ListGraphs)
		r.Route("/{graphID}", func(r chi.Router) {
			r.Get("/", s.withGraphID(s.GetGraph))
			r.Put("/", s.withGraphID(s.PutGraph))
			r.Delete("/", s.withGraphID(s.DeleteGraph))
			r.Get("/plan", s.withGraphID(s.PlanGraph))
			r.Get("/portals", s.withGraphID(s.ListPortals))
			r.Patch("/nodes/{nodeID}", s.withGraphID(s.RenamePortal))
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Portals API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "portals-http",
		"version":     strings.TrimSpace(portals.Version),
		"api_version": apiVersion,
	})
}

// ResolveGraph handles the POST /resolve request.
func (s *Server) ResolveGraph(w http.ResponseWriter, r *http.Request) {
	var translate *bool
	if err := runtime.BindQueryParameter("form", true, false, "translate", r.URL.Query(), &translate); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter translate: %v", err), http.StatusBadRequest)
		return
	}

	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	// Resolver output sent back by a client is recomputed, not validated.
	g = g.Persistable()
	if err := s.Engine.Validate(g); err != nil {
		s.fail(w, "Resolve", err)
		return
	}

	if translate != nil && *translate {
		s.writeJSON(w, http.StatusOK, s.Engine.Translate(r.Context(), g))
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Plan(r.Context(), g))
}

// ListGraphs handles the GET /graphs request.
func (s *Server) ListGraphs(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListGraphs", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetGraph handles the GET /graphs/{graphID} request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	g, err := s.Sessions.Load(r.Context(), graphID)
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// PutGraph handles the PUT /graphs/{graphID} request.
// The saved layout keeps explicit edges only; the response carries the fresh plan.
func (s *Server) PutGraph(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	g, ok := s.decodeGraph(w, r)
	if !ok {
		return
	}
	if g.ID == "" {
		g.ID = graphID
	}
	if g.ID != graphID {
		http.Error(w, fmt.Sprintf("Graph id %q does not match path %q", g.ID, graphID), http.StatusBadRequest)
		return
	}

	plan, err := s.Sessions.Put(r.Context(), g)
	if err != nil {
		s.fail(w, "PutGraph", err)
		return
	}

	s.broadcastPlan(graphID, plan)
	s.writeJSON(w, http.StatusOK, plan)
}

// RenamePortalRequest is the body of PATCH /graphs/{graphID}/nodes/{nodeID}.
type RenamePortalRequest struct {
	Portal string `json:"portal"`
}

// RenamePortal handles the PATCH /graphs/{graphID}/nodes/{nodeID} request.
// It sets the portal name of a Sender or Receiver and answers with the fresh plan.
func (s *Server) RenamePortal(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")

	var req RenamePortalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return
	}

	plan, err := s.Sessions.Rename(r.Context(), graphID, nodeID, req.Portal)
	if err != nil {
		s.fail(w, "RenamePortal", err)
		return
	}

	s.broadcastPlan(graphID, plan)
	s.writeJSON(w, http.StatusOK, plan)
}

// DeleteGraph handles the DELETE /graphs/{graphID} request.
func (s *Server) DeleteGraph(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	if err := s.Sessions.Delete(r.Context(), graphID); err != nil {
		s.fail(w, "DeleteGraph", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlanGraph handles the GET /graphs/{graphID}/plan request.
func (s *Server) PlanGraph(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	plan, err := s.Sessions.Plan(r.Context(), graphID)
	if err != nil {
		s.fail(w, "PlanGraph", err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

// ListPortals handles the GET /graphs/{graphID}/portals request.
func (s *Server) ListPortals(w http.ResponseWriter, r *http.Request, graphID string) {
	if !s.requireSessions(w) {
		return
	}
	var used *bool
	if err := runtime.BindQueryParameter("form", true, false, "used", r.URL.Query(), &used); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter used: %v", err), http.StatusBadRequest)
		return
	}

	g, err := s.Sessions.Load(r.Context(), graphID)
	if err != nil {
		s.fail(w, "ListPortals", err)
		return
	}

	if used != nil && *used {
		list := s.Engine.UsedPortals(g)
		if list == nil {
			list = []domain.UsedPortal{}
		}
		s.writeJSON(w, http.StatusOK, list)
		return
	}
	names := s.Engine.ListPortalNames(g)
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var graphID *string
	if err := runtime.BindQueryParameter("form", true, false, "graph_id", r.URL.Query(), &graphID); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter graph_id: %v", err), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	// Hot reload of the graph directory.
	if graphID == nil {
		events, err := s.Engine.Watch(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			return
		}
		streamHeaders(w)
		fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "data: %s\n\n", event)
				flusher.Flush()
			}
		}
	}

	s.logger.Info("SSE: subscribing to plan updates", "graph_id", *graphID)
	ch, cancel := s.Streams.Subscribe(*graphID)
	defer cancel()

	streamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "graph_id", *graphID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: plan\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func streamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// withGraphID binds the graphID path parameter.
func (s *Server) withGraphID(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var graphID string
		err := runtime.BindStyledParameterWithOptions("simple", "graphID", chi.URLParam(r, "graphID"), &graphID,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter graphID: %v", err), http.StatusBadRequest)
			return
		}
		fn(w, r, graphID)
	}
}

func (s *Server) broadcastPlan(graphID string, plan *domain.Plan) {
	if bytes, err := json.Marshal(plan); err == nil {
		s.Streams.Broadcast(graphID, string(bytes))
	}
}

func (s *Server) requireSessions(w http.ResponseWriter) bool {
	if s.Sessions == nil {
		http.Error(w, "No graph store configured", http.StatusNotImplemented)
		return false
	}
	return true
}

func (s *Server) decodeGraph(w http.ResponseWriter, r *http.Request) (*domain.Graph, bool) {
	var g domain.Graph
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return nil, false
	}
	return &g, true
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrGraphNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidGraph):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
