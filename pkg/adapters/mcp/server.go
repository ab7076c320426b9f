package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CampaignsURI is the resource listing every campaign.
const CampaignsURI = "canvass://campaigns"

// Engine is what the MCP server drives.
type Engine interface {
	ports.MessageProcessor
	InspectFlow(ctx context.Context, campaignID string) (*domain.Flow, error)
}

// ProcessArgs are the arguments of the process_message tool.
type ProcessArgs struct {
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
	Message    string `json:"message"`
}

// ProcessResponse is the structured result of process_message.
type ProcessResponse struct {
	Reply domain.Reply `json:"reply" jsonschema_description:"The reply to show the user"`
	// Error is the processing error for the host's logs, empty on success.
	Error string `json:"error,omitempty" jsonschema_description:"Why the message was not accepted, if it was not"`
}

// InspectArgs are the arguments of the inspect_flow tool.
type InspectArgs struct {
	CampaignID string `json:"campaign_id"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	campaigns ports.CampaignStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance. campaigns may be nil, in which
// case the campaigns resource is not registered.
func NewServer(engine Engine, campaigns ports.CampaignStore, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		campaigns: campaigns,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("canvass-mcp", strings.TrimSpace(canvass.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if campaigns != nil {
		s.registerResources()
	}
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	processTool := mcp.NewTool("process_message",
		mcp.WithDescription("Send one message from a participant to a campaign and return the reply."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Participant identifier, e.g. a phone number")),
		mcp.WithString("campaign_id", mcp.Description("Campaign the message is addressed to (optional when using 'start <code>')")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The participant's message")),
		mcp.WithOutputSchema[ProcessResponse](),
	)
	s.mcpServer.AddTool(processTool, mcp.NewStructuredToolHandler(s.handleProcess))

	inspectTool := mcp.NewTool("inspect_flow",
		mcp.WithDescription("Load and validate a campaign, returning its questions."),
		mcp.WithString("campaign_id", mcp.Required(), mcp.Description("Campaign identifier")),
		mcp.WithOutputSchema[domain.Flow](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspect))
}

func (s *Server) handleProcess(ctx context.Context, _ mcp.CallToolRequest, args ProcessArgs) (ProcessResponse, error) {
	if strings.TrimSpace(args.UserID) == "" {
		return ProcessResponse{}, errors.New("user_id is required")
	}
	clean, err := runner.SanitizeInput(args.Message)
	if err != nil {
		s.logger.Warn("MCP process_message: input rejected", "err", err, "size", len(args.Message))
		return ProcessResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	reply, err := s.engine.Process(ctx, args.UserID, args.CampaignID, clean)
	resp := ProcessResponse{Reply: reply}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

func (s *Server) handleInspect(ctx context.Context, _ mcp.CallToolRequest, args InspectArgs) (domain.Flow, error) {
	flow, err := s.engine.InspectFlow(ctx, args.CampaignID)
	if err != nil {
		return domain.Flow{}, fmt.Errorf("inspect failed: %w", err)
	}
	return *flow, nil
}

// campaignSummary is one entry of the campaigns resource.
type campaignSummary struct {
	ID      string          `json:"id"`
	Code    string          `json:"code,omitempty"`
	Title   string          `json:"title,omitempty"`
	Kind    domain.FlowKind `json:"kind,omitempty"`
	Channel string          `json:"channel,omitempty"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CampaignsURI, "Campaigns",
		mcp.WithResourceDescription("Every campaign the engine can serve"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.campaignsJSON(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CampaignsURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) campaignsJSON(ctx context.Context) (string, error) {
	records, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list campaigns: %w", err)
	}
	out := make([]campaignSummary, 0, len(records))
	for _, r := range records {
		out = append(out, campaignSummary{ID: r.ID, Code: r.Code, Title: r.Title, Kind: r.Kind, Channel: r.Channel})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
