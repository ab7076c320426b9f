// Package twilio delivers replies over WhatsApp through the Twilio REST API.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ChannelPrefix addresses WhatsApp numbers in the Twilio API.
const ChannelPrefix = "whatsapp:"

// MessageCreator is the part of the Twilio API the sender uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Sender implements ports.ReplySender.
type Sender struct {
	api    MessageCreator
	from   string
	logger *slog.Logger
}

// Option configures the Sender.
type Option func(*Sender)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sender) { s.logger = logger }
}

// WithAPI replaces the Twilio REST client, e.g. with a fake in tests.
func WithAPI(api MessageCreator) Option {
	return func(s *Sender) { s.api = api }
}

// New creates a sender for the given credentials. from is the sending number,
// with or without the whatsapp: prefix.
func New(accountSID, authToken, from string, opts ...Option) (*Sender, error) {
	s := &Sender{
		from:   withPrefix(from),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("twilio: sending number must be provided")
	}
	if s.api == nil {
		if accountSID == "" || authToken == "" {
			return nil, errors.New("twilio: account SID and auth token must be provided")
		}
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		s.api = client.Api
	}
	return s, nil
}

// Send delivers reply.Text to the WhatsApp number to. The REST client does not
// take a context, so cancellation is only checked before the call.
func (s *Sender) Send(ctx context.Context, to string, reply domain.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(reply.Text) == "" {
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(withPrefix(to))
	params.SetFrom(s.from)
	params.SetBody(reply.Text)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send message to %s: %w", to, err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.DebugContext(ctx, "twilio message sent", "to", to, "sid", sid, "question", reply.QuestionID)
	return nil
}

func withPrefix(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" || strings.HasPrefix(addr, ChannelPrefix) {
		return addr
	}
	return ChannelPrefix + addr
}
