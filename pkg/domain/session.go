package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionKey identifies the progress of one user through one campaign.
type SessionKey struct {
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
}

// KeySeparator joins the campaign and user parts of a rendered SessionKey.
// Campaign ids never contain it (schema.Load rejects them); user ids may.
const KeySeparator = ":"

// String renders the key as "<campaign>:<user>", used for lock names and store keys.
func (k SessionKey) String() string {
	return k.CampaignID + KeySeparator + k.UserID
}

// ParseSessionKey is the inverse of SessionKey.String. The first separator
// ends the campaign id.
func ParseSessionKey(s string) (SessionKey, error) {
	campaign, user, ok := strings.Cut(s, KeySeparator)
	if !ok || campaign == "" || user == "" {
		return SessionKey{}, fmt.Errorf("malformed session key %q", s)
	}
	return SessionKey{UserID: user, CampaignID: campaign}, nil
}

// Session is the persisted progress of a user through a campaign flow.
type Session struct {
	// CurrentQuestionID is the question awaiting an answer. Nil means the flow
	// has not started or has completed.
	CurrentQuestionID *string `json:"current_question_id"`

	// Answers maps question ids to validated answers.
	Answers map[string]string `json:"answers"`

	// CompletedAt is set when the flow completes and cleared when it restarts.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSession returns the empty session {nil, {}}.
func NewSession() *Session {
	return &Session{Answers: make(map[string]string)}
}

// Current returns the current question id, or "" when there is none.
func (s *Session) Current() string {
	if s.CurrentQuestionID == nil {
		return ""
	}
	return *s.CurrentQuestionID
}

// SetCurrent points the session at a question; an empty id clears it.
func (s *Session) SetCurrent(id string) {
	if id == "" {
		s.CurrentQuestionID = nil
		return
	}
	s.CurrentQuestionID = &id
}

// Complete clears the current question and stamps the completion time.
// Answers are kept.
func (s *Session) Complete(at time.Time) {
	s.CurrentQuestionID = nil
	s.CompletedAt = &at
}

// Completed reports whether the session finished its flow.
func (s *Session) Completed() bool {
	return s.CurrentQuestionID == nil && s.CompletedAt != nil
}

// Reset clears progress back to {nil, {}}.
func (s *Session) Reset() {
	s.CurrentQuestionID = nil
	s.CompletedAt = nil
	s.Answers = make(map[string]string)
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	out := &Session{UpdatedAt: s.UpdatedAt}
	if s.CurrentQuestionID != nil {
		id := *s.CurrentQuestionID
		out.CurrentQuestionID = &id
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		out.CompletedAt = &at
	}
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return out
}
