package domain

// RenderHint tells an external renderer how the reply text was laid out.
type RenderHint string

const (
	HintPlainText  RenderHint = "plain_text"
	HintChoiceList RenderHint = "choice_list"
)

// MaxButtons is the largest option count a renderer may present as quick-reply buttons.
const MaxButtons = 3

// Reply is the user-facing outcome of processing one inbound message.
type Reply struct {
	Text string     `json:"text"`
	Hint RenderHint `json:"hint"`
	// Options carries the option labels of the prompted choice question, if any.
	Options []string `json:"options,omitempty"`
	// Buttons is set when Options fit in quick-reply buttons.
	Buttons    bool   `json:"buttons,omitempty"`
	QuestionID string `json:"question_id,omitempty"`
	Completed  bool   `json:"completed,omitempty"`
}

// TextReply is a plain reply with no question attached.
func TextReply(text string) Reply {
	return Reply{Text: text, Hint: HintPlainText}
}
