package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WhatsAppPayload is the subset of a WhatsApp Cloud API webhook the server reads.
type WhatsAppPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string        `json:"field"`
			Value WhatsAppValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// WhatsAppValue carries the inbound messages of one change.
type WhatsAppValue struct {
	Metadata struct {
		PhoneNumberID      string `json:"phone_number_id"`
		DisplayPhoneNumber string `json:"display_phone_number"`
	} `json:"metadata"`
	Messages []WhatsAppMessage `json:"messages"`
}

// WhatsAppMessage is one inbound message.
type WhatsAppMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
	Button struct {
		Text    string `json:"text"`
		Payload string `json:"payload"`
	} `json:"button"`
}

// Answer extracts the text to process: an interactive reply id (the opt_<n>
// token) wins over its title, then a template button, then the text body.
func (m WhatsAppMessage) Answer() string {
	for _, candidate := range []string{
		m.Interactive.ButtonReply.ID,
		m.Interactive.ButtonReply.Title,
		m.Interactive.ListReply.ID,
		m.Interactive.ListReply.Title,
		m.Button.Text,
		m.Text.Body,
	} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// VerifyWhatsApp handles the GET /webhook/whatsapp subscription handshake.
func (s *Server) VerifyWhatsApp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if s.VerifyToken == "" || q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != s.VerifyToken {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(q.Get("hub.challenge")))
}

// PostWhatsApp handles inbound WhatsApp Cloud messages. Processing failures
// still answer 200 so the platform does not redeliver; status updates and
// other non-message changes are ignored.
func (s *Server) PostWhatsApp(w http.ResponseWriter, r *http.Request) {
	var payload WhatsAppPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		s.Logger.Warn("PostWhatsApp: invalid payload", "err", err)
		return
	}

	ctx := r.Context()
	processed := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			campaignID := s.resolveCampaign(ctx, change.Value.Metadata.PhoneNumberID)
			for _, msg := range change.Value.Messages {
				answer := msg.Answer()
				if msg.From == "" || answer == "" {
					continue
				}
				text, err := s.sanitize(answer)
				if err != nil {
					s.Logger.Warn("PostWhatsApp: input rejected", "user", msg.From, "err", err)
					continue
				}

				reply := s.process(ctx, msg.From, campaignID, text)
				processed++
				if s.Sender == nil {
					s.Logger.Debug("no sender configured, reply dropped", "user", msg.From)
					continue
				}
				if err := s.Sender.Send(ctx, msg.From, reply); err != nil {
					s.Logger.Error("reply delivery failed", "user", msg.From, "campaign", campaignID, "err", err)
				}
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
