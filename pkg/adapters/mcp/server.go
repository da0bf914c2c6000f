package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/logging"
	"github.com/aretw0/portals/internal/presentation/graph"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/aretw0/portals/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	graphsURI        = "portals://graphs"
	graphTemplateURI = "portals://graphs/{id}"
)

// Engine defines the resolver operations exposed as tools.
type Engine interface {
	Plan(ctx context.Context, g *domain.Graph) *domain.Plan
	Translate(ctx context.Context, g *domain.Graph) *domain.Translation
	ListPortalNames(g *domain.Graph) []string
	Choices(g *domain.Graph) []string
	UsedPortals(g *domain.Graph) []domain.UsedPortal
	Validate(g *domain.Graph) error
}

// GraphArgs selects the graph a tool works on: an inline JSON document or a stored ID.
type GraphArgs struct {
	Graph   string `json:"graph,omitempty"`
	GraphID string `json:"graph_id,omitempty"`
}

// ResolveArgs are the arguments of resolve_graph.
type ResolveArgs struct {
	GraphArgs
	Translate bool `json:"translate,omitempty"`
}

// ResolveResponse is the structured result of resolve_graph.
type ResolveResponse struct {
	Plan     *domain.Plan  `json:"plan" jsonschema_description:"Registry, resolutions, virtual edges and diagnostics of the pass"`
	Edges    []domain.Edge `json:"edges,omitempty" jsonschema_description:"Executable edge list, present when translate was requested"`
	Blocking int           `json:"blocking" jsonschema_description:"Number of warning level diagnostics"`
}

// PortalsArgs are the arguments of list_portals.
type PortalsArgs struct {
	GraphArgs
	Used bool `json:"used,omitempty"`
}

// PortalsResponse is the structured result of list_portals.
type PortalsResponse struct {
	Names   []string            `json:"names" jsonschema_description:"Portal names declared by active Senders"`
	Choices []string            `json:"choices" jsonschema_description:"Options a Receiver selector should offer"`
	Used    []domain.UsedPortal `json:"used,omitempty" jsonschema_description:"Portals both declared and requested, with their types"`
}

// Server wraps the portals Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	loader    ports.GraphLoader
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger. It must not write to stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance. loader may be nil, in which case
// tools only accept inline graphs.
func NewServer(engine Engine, loader ports.GraphLoader, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		loader: loader,
		mcpServer: server.NewMCPServer("portals-mcp", strings.TrimSpace(portals.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func graphParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("graph", mcp.Description("Graph JSON document (nodes and edges). Takes precedence over graph_id.")),
		mcp.WithString("graph_id", mcp.Description("ID of a graph in the configured repository")),
	}
}

func (s *Server) registerTools() {
	// TOOL: resolve_graph
	resolveOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Resolve portal wiring: virtual edges from Senders to Receivers plus diagnostics for unresolved Receivers."),
		mcp.WithBoolean("translate", mcp.Description("Also return the executable edge list with portal hops flattened")),
		mcp.WithOutputSchema[ResolveResponse](),
	}, graphParams()...)
	s.mcpServer.AddTool(mcp.NewTool("resolve_graph", resolveOpts...), mcp.NewStructuredToolHandler(s.handleResolve))

	// TOOL: list_portals
	portalsOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List the portal names declared in a graph and the choices a Receiver selector should offer."),
		mcp.WithBoolean("used", mcp.Description("Also list portals that are both declared and requested")),
		mcp.WithOutputSchema[PortalsResponse](),
	}, graphParams()...)
	s.mcpServer.AddTool(mcp.NewTool("list_portals", portalsOpts...), mcp.NewStructuredToolHandler(s.handleListPortals))

	// TOOL: render_graph
	renderOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Render a graph and its resolved portal edges as a Mermaid flowchart."),
	}, graphParams()...)
	s.mcpServer.AddTool(mcp.NewTool("render_graph", renderOpts...), s.handleRenderGraph)
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args ResolveArgs) (ResolveResponse, error) {
	g, err := s.graph(ctx, args.GraphArgs)
	if err != nil {
		return ResolveResponse{}, err
	}

	if args.Translate {
		tr := s.engine.Translate(ctx, g)
		return ResolveResponse{Plan: tr.Plan, Edges: tr.Edges, Blocking: len(tr.Plan.Blocking())}, nil
	}
	plan := s.engine.Plan(ctx, g)
	return ResolveResponse{Plan: plan, Blocking: len(plan.Blocking())}, nil
}

func (s *Server) handleListPortals(ctx context.Context, request mcp.CallToolRequest, args PortalsArgs) (PortalsResponse, error) {
	g, err := s.graph(ctx, args.GraphArgs)
	if err != nil {
		return PortalsResponse{}, err
	}

	resp := PortalsResponse{
		Names:   s.engine.ListPortalNames(g),
		Choices: s.engine.Choices(g),
	}
	if resp.Names == nil {
		resp.Names = []string{}
	}
	if args.Used {
		resp.Used = s.engine.UsedPortals(g)
	}
	return resp, nil
}

func (s *Server) handleRenderGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args GraphArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	g, err := s.graph(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g, s.engine.Plan(ctx, g))), nil
}

// graph decodes the inline document or loads it by ID, then validates it.
func (s *Server) graph(ctx context.Context, args GraphArgs) (*domain.Graph, error) {
	var g *domain.Graph
	switch {
	case args.Graph != "":
		g = &domain.Graph{}
		if err := json.Unmarshal([]byte(args.Graph), g); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGraph, err)
		}
		g = g.Persistable()
	case args.GraphID != "":
		if s.loader == nil {
			return nil, domain.ErrNoLoader
		}
		loaded, err := s.loader.Load(ctx, args.GraphID)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", args.GraphID, err)
		}
		g = loaded
	default:
		return nil, errors.New("one of graph or graph_id is required")
	}

	if err := s.engine.Validate(g); err != nil {
		s.logger.Warn("MCP: rejected graph", "graph_id", g.ID, "err", err)
		return nil, err
	}
	return g, nil
}

func (s *Server) registerResources() {
	// EXPOSE: portals://graphs
	s.mcpServer.AddResource(mcp.NewResource(graphsURI, "Graph IDs",
		mcp.WithResourceDescription("IDs of the graphs in the configured repository"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.listGraphs(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: portals://graphs/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(graphTemplateURI, "Graph",
		mcp.WithTemplateDescription("A graph with its resolution plan"),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, graphsURI+"/")
		doc, err := s.readGraph(ctx, id)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(doc),
			},
		}, nil
	})
}

func (s *Server) listGraphs(ctx context.Context) ([]string, error) {
	if s.loader == nil {
		return []string{}, nil
	}
	ids, err := s.loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Server) readGraph(ctx context.Context, id string) ([]byte, error) {
	g, err := s.graph(ctx, GraphArgs{GraphID: id})
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Graph *domain.Graph `json:"graph"`
		Plan  *domain.Plan  `json:"plan"`
	}{g, s.engine.Plan(ctx, g)})
}
