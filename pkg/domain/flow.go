package domain

// FlowKind distinguishes plain surveys from petitions, which may carry per-question
// terminal messages.
type FlowKind string

const (
	FlowSurvey   FlowKind = "survey"
	FlowPetition FlowKind = "petition"
)

// Flow is the validated, immutable question list of a campaign.
// Build it through schema.Load; the zero value has no questions.
type Flow struct {
	CampaignID string     `json:"campaign_id"`
	Title      string     `json:"title,omitempty"`
	Kind       FlowKind   `json:"kind"`
	Questions  []Question `json:"questions"`
	Outro      string     `json:"outro,omitempty"`
	// BlockRepeat answers a user who already completed the flow with a fixed
	// reply; only a start keyword restarts it. Otherwise any message restarts.
	BlockRepeat bool `json:"block_repeat,omitempty"`
	// Source names the legacy representation the questions were read from.
	Source string `json:"source,omitempty"`

	index map[string]int
}

// NewFlow builds a flow and its id index. Callers are expected to have validated
// the questions; duplicate ids keep the first position.
func NewFlow(campaignID string, kind FlowKind, questions []Question, outro string) *Flow {
	f := &Flow{
		CampaignID: campaignID,
		Kind:       kind,
		Questions:  questions,
		Outro:      outro,
	}
	f.reindex()
	return f
}

func (f *Flow) reindex() {
	f.index = make(map[string]int, len(f.Questions))
	for i, q := range f.Questions {
		if _, dup := f.index[q.ID]; !dup {
			f.index[q.ID] = i
		}
	}
}

// First returns the entry question, or nil for an empty flow.
func (f *Flow) First() *Question {
	if len(f.Questions) == 0 {
		return nil
	}
	return &f.Questions[0]
}

// ByID returns the question with the given id.
func (f *Flow) ByID(id string) (*Question, bool) {
	i := f.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return &f.Questions[i], true
}

// IndexOf returns the position of the question with the given id, or -1.
func (f *Flow) IndexOf(id string) int {
	if f.index == nil {
		for i := range f.Questions {
			if f.Questions[i].ID == id {
				return i
			}
		}
		return -1
	}
	i, ok := f.index[id]
	if !ok {
		return -1
	}
	return i
}
