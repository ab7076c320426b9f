package http

import (
	"encoding/xml"
	"net/http"
	"strings"
)

// twiml is the messaging response Twilio delivers back to the sender.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// PostTwilio handles the POST /webhook/twilio request. The reply is returned
// inline as TwiML; the receiving number ("To") selects the campaign.
func (s *Server) PostTwilio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	from := stripChannelPrefix(r.PostForm.Get("From"))
	if from == "" {
		http.Error(w, "missing From", http.StatusBadRequest)
		return
	}

	answer := r.PostForm.Get("ButtonPayload")
	if strings.TrimSpace(answer) == "" {
		answer = r.PostForm.Get("Body")
	}

	resp := twiml{}
	text, err := s.sanitize(answer)
	if err != nil {
		s.Logger.Warn("PostTwilio: input rejected", "user", from, "err", err)
	} else {
		campaignID := s.resolveCampaign(r.Context(), stripChannelPrefix(r.PostForm.Get("To")))
		resp.Message = s.process(r.Context(), from, campaignID, text).Text
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(resp)
}

// stripChannelPrefix turns "whatsapp:+5511..." into "+5511...".
func stripChannelPrefix(addr string) string {
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		return strings.TrimSpace(addr[i+1:])
	}
	return strings.TrimSpace(addr)
}
