package domain

import "strings"

// QuestionKind tags how an answer to a question is validated.
type QuestionKind string

const (
	KindChoice   QuestionKind = "choice"
	KindFreeText QuestionKind = "free_text"
)

// ActionEnd is the option action (and jump target) that completes the flow.
const ActionEnd = "end"

// ParseKind maps a kind name, including the legacy aliases, to a QuestionKind.
func ParseKind(s string) (QuestionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "choice", "quick_reply", "multiple_choice":
		return KindChoice, true
	case "free_text", "text", "open_text":
		return KindFreeText, true
	}
	return "", false
}

// Option is one selectable answer of a choice question.
type Option struct {
	Text       string `json:"text" yaml:"text"`
	JumpTarget string `json:"jump_target,omitempty" yaml:"jump_target,omitempty"`
	Action     string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Ends reports whether selecting the option completes the flow.
func (o Option) Ends() bool {
	return strings.EqualFold(o.JumpTarget, ActionEnd) || strings.EqualFold(o.Action, ActionEnd)
}

// Question is a single prompt of a campaign flow.
type Question struct {
	ID      string       `json:"id" yaml:"id"`
	Kind    QuestionKind `json:"kind" yaml:"kind"`
	Prompt  string       `json:"prompt" yaml:"prompt"`
	Options []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	// Condition, when set, makes the question reachable by the forward scan only
	// when the previous answer equals it (case-insensitive).
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	// Validator names a field validator capability applied to free-text answers.
	Validator       string `json:"validator,omitempty" yaml:"validator,omitempty"`
	TerminalMessage string `json:"terminal_message,omitempty" yaml:"terminal_message,omitempty"`
}

// OptionTexts returns the display labels of the question's options, in order.
func (q *Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, o := range q.Options {
		texts[i] = o.Text
	}
	return texts
}

// Conditional reports whether the question is gated by a condition.
func (q *Question) Conditional() bool {
	return strings.TrimSpace(q.Condition) != ""
}
