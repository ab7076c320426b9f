package runtime

import (
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func navFlow() *domain.Flow {
	return domain.NewFlow("c1", domain.FlowPetition, []domain.Question{
		{ID: "1", Kind: domain.KindChoice, Prompt: "Sign?", Options: []domain.Option{
			{Text: "Yes"},
			{Text: "No", Action: domain.ActionEnd},
			{Text: "Later", JumpTarget: "4"},
		}, TerminalMessage: "Maybe next time."},
		{ID: "2", Kind: domain.KindFreeText, Prompt: "Why yes?", Condition: "Yes"},
		{ID: "3", Kind: domain.KindFreeText, Prompt: "Name?"},
		{ID: "4", Kind: domain.KindFreeText, Prompt: "Email?", TerminalMessage: "{count} signatures so far!"},
	}, "Thanks!")
}

func TestResolve(t *testing.T) {
	flow := navFlow()
	q1 := &flow.Questions[0]

	next := Resolve(flow, q1, ValidationResult{Accepted: true, NormalizedAnswer: "Yes", OptionIndex: 0})
	require.False(t, next.Complete())
	assert.Equal(t, "2", next.Question.ID)

	next = Resolve(flow, q1, ValidationResult{Accepted: true, NormalizedAnswer: "No", OptionIndex: 1})
	assert.True(t, next.Complete())
	assert.Equal(t, "1", next.Terminal.ID)

	next = Resolve(flow, q1, ValidationResult{Accepted: true, NormalizedAnswer: "Later", OptionIndex: 2})
	require.False(t, next.Complete())
	assert.Equal(t, "4", next.Question.ID)

	// Conditional questions are skipped when their condition doesn't match.
	next = Resolve(flow, &flow.Questions[1], ValidationResult{Accepted: true, NormalizedAnswer: "because", OptionIndex: -1})
	assert.Equal(t, "3", next.Question.ID)

	next = Resolve(flow, &flow.Questions[3], ValidationResult{Accepted: true, NormalizedAnswer: "a@b.c", OptionIndex: -1})
	assert.True(t, next.Complete())
}

func TestResolve_BackwardJump(t *testing.T) {
	flow := domain.NewFlow("c1", domain.FlowSurvey, []domain.Question{
		{ID: "1", Kind: domain.KindFreeText, Prompt: "Name?"},
		{ID: "2", Kind: domain.KindChoice, Prompt: "Correct?", Options: []domain.Option{
			{Text: "Yes"},
			{Text: "No", JumpTarget: "1"},
		}},
	}, "")
	next := Resolve(flow, &flow.Questions[1], ValidationResult{Accepted: true, NormalizedAnswer: "No", OptionIndex: 1})
	require.False(t, next.Complete())
	assert.Equal(t, "1", next.Question.ID)
}

func TestCompletionMessage(t *testing.T) {
	flow := navFlow()

	msg := CompletionMessage(flow, NextStep{Terminal: &flow.Questions[3]}, "fallback")
	assert.Equal(t, "{count} signatures so far!", msg)
	assert.Equal(t, "12 signatures so far!", fillCount(msg, 12, true))
	assert.Equal(t, " signatures so far!", fillCount(msg, 0, false))

	msg = CompletionMessage(flow, NextStep{Terminal: &flow.Questions[2]}, "fallback")
	assert.Equal(t, "Thanks!", msg)

	survey := domain.NewFlow("c2", domain.FlowSurvey, flow.Questions, "")
	msg = CompletionMessage(survey, NextStep{Terminal: &flow.Questions[3]}, "fallback")
	assert.Equal(t, "fallback", msg)
}

func TestCurrentQuestion_Recovery(t *testing.T) {
	flow := navFlow()

	sess := domain.NewSession()
	sess.SetCurrent("3")
	q, ok := CurrentQuestion(flow, sess)
	require.True(t, ok)
	assert.Equal(t, "3", q.ID)

	sess.SetCurrent("99")
	sess.Answers = map[string]string{"1": "Yes", "2": "x", "9": "gone", "name": "ignored"}
	q, ok = CurrentQuestion(flow, sess)
	require.True(t, ok)
	assert.Equal(t, "2", q.ID)

	sess.Answers = map[string]string{"name": "ignored"}
	_, ok = CurrentQuestion(flow, sess)
	assert.False(t, ok)
}
