package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/internal/logging"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds webhook and API request bodies.
const maxBodySize = 1 << 20

// Inspector exposes loaded flows for the campaign endpoint.
type Inspector interface {
	InspectFlow(ctx context.Context, campaignID string) (*domain.Flow, error)
}

// Server routes inbound HTTP traffic to a message processor.
type Server struct {
	Processor ports.MessageProcessor
	Inspector Inspector
	// Campaigns resolves the campaign bound to the receiving number of a webhook.
	Campaigns ports.CampaignStore
	// Sender delivers WhatsApp Cloud replies; without it replies are only logged.
	Sender ports.ReplySender
	// Counter serves completion totals on GET /v1/campaigns/{id}/stats.
	Counter ports.CompletionCounter

	DefaultCampaign string
	VerifyToken     string
	MaxInputSize    int
	Gatherer        prometheus.Gatherer
	Logger          *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithInspector enables GET /v1/campaigns/{id}.
func WithInspector(i Inspector) Option {
	return func(s *Server) { s.Inspector = i }
}

// WithCampaigns sets the store used for channel lookups.
func WithCampaigns(c ports.CampaignStore) Option {
	return func(s *Server) { s.Campaigns = c }
}

// WithSender sets the outbound channel for webhook replies.
func WithSender(sender ports.ReplySender) Option {
	return func(s *Server) { s.Sender = sender }
}

// WithCounter enables GET /v1/campaigns/{id}/stats.
func WithCounter(c ports.CompletionCounter) Option {
	return func(s *Server) { s.Counter = c }
}

// WithDefaultCampaign is used when a webhook's receiving number is bound to no campaign.
func WithDefaultCampaign(id string) Option {
	return func(s *Server) { s.DefaultCampaign = id }
}

// WithVerifyToken sets the WhatsApp Cloud webhook verification token.
func WithVerifyToken(token string) Option {
	return func(s *Server) { s.VerifyToken = token }
}

// WithMaxInputSize bounds message text in bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) { s.MaxInputSize = n }
}

// WithMetrics serves the gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// NewServer creates a Server around processor.
func NewServer(processor ports.MessageProcessor, opts ...Option) *Server {
	s := &Server{
		Processor: processor,
		Logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for processor.
func NewHandler(processor ports.MessageProcessor, opts ...Option) http.Handler {
	return NewServer(processor, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", s.PostMessage)
		if s.Inspector != nil {
			r.Get("/campaigns/{id}", s.GetCampaign)
		}
		if s.Counter != nil {
			r.Get("/campaigns/{id}/stats", s.GetCampaignStats)
		}
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Get("/whatsapp", s.VerifyWhatsApp)
		r.Post("/whatsapp", s.PostWhatsApp)
		r.Post("/twilio", s.PostTwilio)
	})
	return r
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

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "canvass-http",
		"version": strings.TrimSpace(canvass.Version),
	})
}

// sanitize applies the input policy shared by every transport.
func (s *Server) sanitize(text string) (string, error) {
	limit := s.MaxInputSize
	if limit <= 0 {
		limit = runner.MaxInputSize()
	}
	return runner.SanitizeInputLimit(text, limit)
}

// process runs one message and logs non-rejection failures.
func (s *Server) process(ctx context.Context, userID, campaignID, text string) domain.Reply {
	reply, err := s.Processor.Process(ctx, userID, campaignID, text)
	if err != nil {
		s.Logger.DebugContext(ctx, "message not accepted",
			"campaign", campaignID,
			"user", userID,
			"request_id", middleware.GetReqID(ctx),
			"err", err,
		)
	}
	return reply
}

// resolveCampaign maps a receiving number to its newest campaign, falling back
// to the default campaign.
func (s *Server) resolveCampaign(ctx context.Context, channel string) string {
	if s.Campaigns != nil && channel != "" {
		record, err := s.Campaigns.LoadCampaignByChannel(ctx, channel)
		if err == nil {
			return record.ID
		}
		s.Logger.DebugContext(ctx, "no campaign bound to channel", "channel", channel, "err", err)
	}
	return s.DefaultCampaign
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}
