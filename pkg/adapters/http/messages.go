package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// MessageRequest is the body of POST /v1/messages.
type MessageRequest struct {
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
	Message    string `json:"message"`
}

// MessageResponse wraps the reply so clients can extend it without breaking.
type MessageResponse struct {
	Reply domain.Reply `json:"reply"`
}

// PostMessage handles the POST /v1/messages request. Engine-level failures
// still answer 200: the reply carries the user-facing message.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var body MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		s.Logger.Warn("PostMessage: invalid request body", "err", err)
		return
	}
	if strings.TrimSpace(body.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	text, err := s.sanitize(body.Message)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input: " + err.Error()})
		s.Logger.Warn("PostMessage: input rejected", "err", err, "size", len(body.Message))
		return
	}

	reply := s.process(r.Context(), body.UserID, body.CampaignID, text)
	writeJSON(w, http.StatusOK, MessageResponse{Reply: reply})
}

// GetCampaign handles the GET /v1/campaigns/{id} request.
func (s *Server) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flow, err := s.Inspector.InspectFlow(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "campaign not found"})
		return
	case errors.Is(err, domain.ErrInvalidFlow):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "campaign store unavailable"})
		s.Logger.Error("GetCampaign failed", "campaign", id, "err", err)
		return
	}

	writeJSON(w, http.StatusOK, flow)
}

// CampaignStats is the body of GET /v1/campaigns/{id}/stats.
type CampaignStats struct {
	CampaignID  string `json:"campaign_id"`
	Completions int64  `json:"completions"`
}

// GetCampaignStats handles the GET /v1/campaigns/{id}/stats request.
func (s *Server) GetCampaignStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.Campaigns != nil {
		if _, err := s.Campaigns.LoadCampaign(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrCampaignNotFound) {
				writeJSON(w, http.StatusNotFound, errorResponse{Error: "campaign not found"})
				return
			}
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "campaign store unavailable"})
			s.Logger.Error("GetCampaignStats failed", "campaign", id, "err", err)
			return
		}
	}

	count, err := s.Counter.Count(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "counter unavailable"})
		s.Logger.Error("GetCampaignStats failed", "campaign", id, "err", err)
		return
	}
	writeJSON(w, http.StatusOK, CampaignStats{CampaignID: id, Completions: count})
}
