package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/registry"
)

// ValidationResult is the outcome of validating one answer against one question.
type ValidationResult struct {
	Accepted         bool
	NormalizedAnswer string
	ConfirmationText string
	RejectionMessage string
	// OptionIndex is the matched option of a choice question, or -1.
	OptionIndex int
}

// AnswerValidator checks raw replies against question kinds. It has no side effects.
type AnswerValidator struct {
	validators *registry.Registry
	messages   Messages
}

// NewAnswerValidator creates a validator resolving capability tags through validators.
func NewAnswerValidator(validators *registry.Registry, messages Messages) *AnswerValidator {
	if validators == nil {
		validators = registry.Default()
	}
	return &AnswerValidator{validators: validators, messages: messages}
}

// Validate checks raw against the question.
func (v *AnswerValidator) Validate(q *domain.Question, raw string) ValidationResult {
	input := strings.TrimSpace(raw)
	if input == "" {
		return v.reject(v.messages.EmptyAnswer)
	}

	switch q.Kind {
	case domain.KindChoice:
		idx := MatchOption(q, input)
		if idx < 0 {
			return v.reject(v.messages.InvalidChoicePrefix + "\n\n" + RenderQuestion(q).Text)
		}
		text := q.Options[idx].Text
		return ValidationResult{
			Accepted:         true,
			NormalizedAnswer: text,
			ConfirmationText: fmt.Sprintf(v.messages.Confirmation, text),
			OptionIndex:      idx,
		}

	default:
		if q.Validator == "" {
			return ValidationResult{Accepted: true, NormalizedAnswer: input, OptionIndex: -1}
		}
		normalized, err := v.validators.Validate(q.Validator, input)
		if err != nil {
			return v.reject(fmt.Sprintf(v.messages.InvalidFormat, v.expectedFormat(q.Validator)))
		}
		return ValidationResult{Accepted: true, NormalizedAnswer: normalized, OptionIndex: -1}
	}
}

// expectedFormat is the example shown on rejection; the tag itself when unregistered.
func (v *AnswerValidator) expectedFormat(tag string) string {
	if validator, ok := v.validators.Lookup(tag); ok && validator.Format != "" {
		return validator.Format
	}
	return tag
}

func (v *AnswerValidator) reject(msg string) ValidationResult {
	return ValidationResult{RejectionMessage: msg, OptionIndex: -1}
}

// MatchOption resolves a trimmed reply to an option index, or -1. Rules are tried
// in order and the first match wins:
//
//  1. "opt_<n>", 0-based (button payloads), prefix case-insensitive
//  2. a single letter, "a" is the first option
//  3. a 1-based numeral
//  4. the option text, case-insensitive
//
// A positional token outside the option range matches nothing at its rule.
func MatchOption(q *domain.Question, input string) int {
	n := len(q.Options)
	lower := strings.ToLower(input)

	if rest, ok := strings.CutPrefix(lower, "opt_"); ok && isDigits(rest) {
		if i, err := strconv.Atoi(rest); err == nil && i < n {
			return i
		}
	}

	if len(lower) == 1 && lower[0] >= 'a' && lower[0] <= 'z' {
		if i := int(lower[0] - 'a'); i < n {
			return i
		}
	}

	if isDigits(input) {
		if i, err := strconv.Atoi(input); err == nil && i >= 1 && i <= n {
			return i - 1
		}
	}

	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt.Text), input) {
			return i
		}
	}
	return -1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
