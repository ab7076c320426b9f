package domain

// Legacy question list sources a campaign record may carry.
const (
	SourceFlow      = "flow"
	SourceQuestions = "questions"
)

// CampaignRecord is a campaign as stored by the host, before its flow is loaded.
//
// Flow and Questions hold the two legacy representations verbatim (decoded JSON
// or YAML), either of which may be empty. Each is an object with a "questions"
// list, or the list itself.
type CampaignRecord struct {
	ID    string   `json:"id" yaml:"id"`
	Code  string   `json:"code,omitempty" yaml:"code,omitempty"`
	Title string   `json:"title,omitempty" yaml:"title,omitempty"`
	Kind  FlowKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Outro string   `json:"outro,omitempty" yaml:"outro,omitempty"`

	// Channel binds the campaign to an inbound number (e.g. a WhatsApp phone_number_id).
	Channel     string `json:"channel,omitempty" yaml:"channel,omitempty"`
	BlockRepeat bool   `json:"block_repeat,omitempty" yaml:"block_repeat,omitempty"`

	Flow      any `json:"flow_json,omitempty" yaml:"flow_json,omitempty"`
	Questions any `json:"questions_json,omitempty" yaml:"questions_json,omitempty"`

	// PreferredSource forces SourceFlow or SourceQuestions when both are present.
	PreferredSource string `json:"preferred_source,omitempty" yaml:"preferred_source,omitempty"`
}
