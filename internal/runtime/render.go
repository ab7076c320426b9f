package runtime

import (
	"strconv"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
)

// RenderQuestion builds the reply that prompts for q. Choice questions list their
// options under letter labels, which MatchOption accepts back.
func RenderQuestion(q *domain.Question) domain.Reply {
	if q.Kind != domain.KindChoice {
		return domain.Reply{
			Text:       q.Prompt,
			Hint:       domain.HintPlainText,
			QuestionID: q.ID,
		}
	}

	options := q.OptionTexts()
	return domain.Reply{
		Text:       q.Prompt + "\n\n" + OptionList(options),
		Hint:       domain.HintChoiceList,
		Options:    options,
		Buttons:    len(options) <= domain.MaxButtons,
		QuestionID: q.ID,
	}
}

// OptionList renders "a) First\nb) Second". Past the alphabet, labels fall back to numerals.
func OptionList(options []string) string {
	var b strings.Builder
	for i, text := range options {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(optionLabel(i))
		b.WriteString(") ")
		b.WriteString(text)
	}
	return b.String()
}

func optionLabel(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return strconv.Itoa(i + 1)
}

// joinParts composes confirmation and follow-up text, skipping empty parts.
func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
