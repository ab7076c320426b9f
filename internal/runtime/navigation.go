package runtime

import (
	"strconv"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/schema"
)

// CountPlaceholder in a completion message is replaced by the campaign's completion total.
const CountPlaceholder = "{count}"

// NextStep is the resolver's decision after an accepted answer.
type NextStep struct {
	// Question is the next question to ask; nil when the flow is complete.
	Question *domain.Question
	// Terminal is the question whose answer completed the flow.
	Terminal *domain.Question
}

// Complete reports whether the flow ends here.
func (n NextStep) Complete() bool {
	return n.Question == nil
}

// Resolve decides where the flow goes after current was answered with result.
// Precedence: the matched option's jump ("end" or a question id, backward jumps
// allowed), then the first later question whose condition equals the answer,
// then the first later unconditional question, otherwise completion.
func Resolve(flow *domain.Flow, current *domain.Question, result ValidationResult) NextStep {
	if idx := result.OptionIndex; idx >= 0 && idx < len(current.Options) {
		opt := current.Options[idx]
		if opt.Ends() {
			return NextStep{Terminal: current}
		}
		if opt.JumpTarget != "" {
			if q, ok := flow.ByID(opt.JumpTarget); ok {
				return NextStep{Question: q}
			}
		}
	}

	j := schema.ConditionalNext(flow, flow.IndexOf(current.ID), result.NormalizedAnswer)
	if j == schema.Complete {
		return NextStep{Terminal: current}
	}
	return NextStep{Question: &flow.Questions[j]}
}

// endsByOption reports whether the accepted answer picked an option that exits the flow.
func endsByOption(current *domain.Question, result ValidationResult) bool {
	idx := result.OptionIndex
	return idx >= 0 && idx < len(current.Options) && current.Options[idx].Ends()
}

// CompletionMessage picks the text sent when a flow completes: a petition's
// terminating question may carry its own message, otherwise the flow outro,
// otherwise fallback.
func CompletionMessage(flow *domain.Flow, step NextStep, fallback string) string {
	if flow.Kind == domain.FlowPetition && step.Terminal != nil && strings.TrimSpace(step.Terminal.TerminalMessage) != "" {
		return step.Terminal.TerminalMessage
	}
	if strings.TrimSpace(flow.Outro) != "" {
		return flow.Outro
	}
	return fallback
}

// fillCount substitutes the completion total; without one the placeholder is dropped.
func fillCount(msg string, count int64, ok bool) string {
	if !strings.Contains(msg, CountPlaceholder) {
		return msg
	}
	value := ""
	if ok {
		value = strconv.FormatInt(count, 10)
	}
	return strings.ReplaceAll(msg, CountPlaceholder, value)
}

// CurrentQuestion finds the question a session is waiting on. When the stored id is
// unknown to the flow (e.g. the campaign was edited), it falls back to the answered
// question with the highest numeric id that still exists; non-numeric ids are ignored.
func CurrentQuestion(flow *domain.Flow, session *domain.Session) (*domain.Question, bool) {
	if q, ok := flow.ByID(session.Current()); ok {
		return q, true
	}

	var (
		best  *domain.Question
		bestN = -1
	)
	for id := range session.Answers {
		n, err := strconv.Atoi(id)
		if err != nil || n <= bestN {
			continue
		}
		if q, ok := flow.ByID(id); ok {
			best, bestN = q, n
		}
	}
	return best, best != nil
}
