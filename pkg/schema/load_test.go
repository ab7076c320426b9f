package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyQuestions(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":   float64(i + 1),
			"type": "text",
			"text": "Question",
		}
	}
	return out
}

func TestLoad_LegacyQuestions(t *testing.T) {
	record := &domain.CampaignRecord{
		ID: "c1",
		Questions: []any{
			map[string]any{
				"id":      float64(1),
				"type":    "quick_reply",
				"text":    "Do you agree?",
				"options": []any{"Yes", "No"},
			},
			map[string]any{
				"id":        float64(2),
				"type":      "open_text",
				"text":      "Why?",
				"condition": "Yes",
			},
			map[string]any{
				"id":        "3",
				"type":      "text",
				"question":  "Your ID number",
				"validator": "checksum-id",
			},
		},
	}

	flow, err := schema.Load(record, schema.WithDefaultOutro("Thanks!"))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceQuestions, flow.Source)
	assert.Equal(t, domain.FlowSurvey, flow.Kind)
	assert.Equal(t, "Thanks!", flow.Outro)
	require.Len(t, flow.Questions, 3)

	q1 := flow.First()
	assert.Equal(t, "1", q1.ID)
	assert.Equal(t, domain.KindChoice, q1.Kind)
	assert.Equal(t, []string{"Yes", "No"}, q1.OptionTexts())

	q2, ok := flow.ByID("2")
	require.True(t, ok)
	assert.Equal(t, domain.KindFreeText, q2.Kind)
	assert.Equal(t, "Yes", q2.Condition)

	q3, ok := flow.ByID("3")
	require.True(t, ok)
	assert.Equal(t, "Your ID number", q3.Prompt)
	assert.Equal(t, "checksum-id", q3.Validator)
}

func TestLoad_FlowObjectWithJumps(t *testing.T) {
	record := &domain.CampaignRecord{
		ID:   "petition",
		Kind: domain.FlowPetition,
		Flow: `{
			"outro": "Signed!",
			"questions": [
				{"id": 1, "kind": "choice", "prompt": "Sign?", "options": [
					{"text": "Yes", "jump_to": 3},
					{"text": "No", "action": "end"}
				]},
				{"id": 2, "prompt": "Unused"},
				{"id": 3, "prompt": "Name?", "terminal_message": "Thanks, {count} signatures so far."}
			]
		}`,
	}

	flow, err := schema.Load(record)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFlow, flow.Source)
	assert.Equal(t, domain.FlowPetition, flow.Kind)
	assert.Equal(t, "Signed!", flow.Outro)

	q1 := flow.First()
	require.Len(t, q1.Options, 2)
	assert.Equal(t, "3", q1.Options[0].JumpTarget)
	assert.True(t, q1.Options[1].Ends())

	q2, _ := flow.ByID("2")
	assert.Equal(t, domain.KindFreeText, q2.Kind, "kind is inferred from the absence of options")
}

func TestLoad_SourceSelection(t *testing.T) {
	t.Run("Longer List Wins", func(t *testing.T) {
		flow, err := schema.Load(&domain.CampaignRecord{
			ID:        "c",
			Flow:      map[string]any{"questions": legacyQuestions(2)},
			Questions: legacyQuestions(3),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceQuestions, flow.Source)
		assert.Len(t, flow.Questions, 3)
	})

	t.Run("Tie Prefers Flow", func(t *testing.T) {
		flow, err := schema.Load(&domain.CampaignRecord{
			ID:        "c",
			Flow:      legacyQuestions(2),
			Questions: legacyQuestions(2),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceFlow, flow.Source)
	})

	t.Run("Explicit Preference", func(t *testing.T) {
		flow, err := schema.Load(&domain.CampaignRecord{
			ID:              "c",
			Flow:            legacyQuestions(2),
			Questions:       legacyQuestions(1),
			PreferredSource: "questions",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceQuestions, flow.Source)
		assert.Len(t, flow.Questions, 1)
	})

	t.Run("Preference Names Empty Source", func(t *testing.T) {
		_, err := schema.Load(&domain.CampaignRecord{
			ID:              "c",
			Flow:            legacyQuestions(2),
			PreferredSource: "questions",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidFlow)
	})

	t.Run("Unreadable Flow Falls Back", func(t *testing.T) {
		flow, err := schema.Load(&domain.CampaignRecord{
			ID:        "c",
			Flow:      "{not json",
			Questions: legacyQuestions(1),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SourceQuestions, flow.Source)
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		questions []any
		wantKey   string
	}{
		{
			name:      "Missing Id",
			questions: []any{map[string]any{"text": "Hi"}},
			wantKey:   "questions[0].id",
		},
		{
			name:      "Missing Prompt",
			questions: []any{map[string]any{"id": 1}},
			wantKey:   "questions[0].prompt",
		},
		{
			name: "Duplicate Id",
			questions: []any{
				map[string]any{"id": 1, "text": "A"},
				map[string]any{"id": "1", "text": "B"},
			},
			wantKey: "questions[1].id",
		},
		{
			name:      "Unknown Kind",
			questions: []any{map[string]any{"id": 1, "text": "A", "type": "rating"}},
			wantKey:   "questions[0].kind",
		},
		{
			name:      "Choice Without Options",
			questions: []any{map[string]any{"id": 1, "text": "A", "type": "multiple_choice"}},
			wantKey:   "questions[0].options",
		},
		{
			name: "Dangling Jump",
			questions: []any{map[string]any{"id": 1, "text": "A", "options": []any{
				map[string]any{"text": "Go", "jump_target": "9"},
			}}},
			wantKey: "questions[0].options[0].jump_target",
		},
		{
			name:      "Unknown Validator",
			questions: []any{map[string]any{"id": 1, "text": "A", "validator": "zip"}},
			wantKey:   "questions[0].validator",
		},
		{
			name: "Trap Cycle",
			questions: []any{
				map[string]any{"id": "a", "text": "A", "options": []any{map[string]any{"text": "x", "jump_target": "b"}}},
				map[string]any{"id": "b", "text": "B", "options": []any{map[string]any{"text": "y", "jump_target": "a"}}},
			},
			wantKey: "questions.a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Load(&domain.CampaignRecord{ID: "bad", Questions: tt.questions})
			require.ErrorIs(t, err, domain.ErrInvalidFlow)

			var keys []string
			for _, e := range schema.ValidationErrors(err) {
				if ve, ok := e.(*schema.ValidationError); ok {
					keys = append(keys, ve.Key)
				}
			}
			assert.Contains(t, keys, tt.wantKey)
		})
	}

	t.Run("No Questions", func(t *testing.T) {
		_, err := schema.Load(&domain.CampaignRecord{ID: "empty"})
		assert.ErrorIs(t, err, domain.ErrInvalidFlow)

		_, err = schema.Load(&domain.CampaignRecord{ID: "empty", Flow: map[string]any{"questions": []any{}}})
		assert.ErrorIs(t, err, domain.ErrInvalidFlow)
	})

	t.Run("Nil Record", func(t *testing.T) {
		_, err := schema.Load(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidFlow)
	})
}

func TestGraph_Unreachable(t *testing.T) {
	flow, err := schema.Load(&domain.CampaignRecord{
		ID: "c",
		Questions: []any{
			map[string]any{"id": 1, "text": "A", "options": []any{
				map[string]any{"text": "Yes", "jump_target": 3},
				map[string]any{"text": "No", "jump_target": 3},
			}},
			map[string]any{"id": 2, "text": "Skipped"},
			map[string]any{"id": 3, "text": "C"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, schema.Unreachable(flow))
	assert.Empty(t, schema.Traps(flow))
	assert.ElementsMatch(t, []int{2}, schema.Successors(flow, 0))
	assert.ElementsMatch(t, []int{schema.Complete}, schema.Successors(flow, 2))
}

func TestGraph_FreeTextSuccessors(t *testing.T) {
	flow := domain.NewFlow("c", domain.FlowSurvey, []domain.Question{
		{ID: "1", Kind: domain.KindFreeText, Prompt: "A"},
		{ID: "2", Kind: domain.KindFreeText, Prompt: "B", Condition: "yes"},
		{ID: "3", Kind: domain.KindFreeText, Prompt: "C", Condition: "YES"},
		{ID: "4", Kind: domain.KindFreeText, Prompt: "D"},
	}, "")

	// The second "yes" condition is shadowed by the first.
	assert.ElementsMatch(t, []int{1, 3}, schema.Successors(flow, 0))
	assert.Equal(t, 1, schema.ConditionalNext(flow, 0, " Yes "))
	assert.Equal(t, 3, schema.ConditionalNext(flow, 0, "no"))
	assert.Equal(t, schema.Complete, schema.SequentialNext(flow, 3))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "petition.yaml")
	content := `
code: SIGN2024
kind: petition
channel: "1234567890"
questions:
  - id: 1
    kind: choice
    prompt: Will you sign?
    options:
      - text: "Yes"
      - text: "No"
        action: end
  - id: 2
    prompt: Full name
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	record, err := schema.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "petition", record.ID)
	assert.Equal(t, "SIGN2024", record.Code)
	assert.Equal(t, "1234567890", record.Channel)

	flow, err := schema.Load(record)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowPetition, flow.Kind)
	assert.Len(t, flow.Questions, 2)
	assert.True(t, flow.First().Options[1].Ends())

	_, err = schema.ParseRecord([]byte("id: x"), ".toml")
	assert.Error(t, err)
}

func TestLoad_RejectsSeparatorInCampaignID(t *testing.T) {
	record := &domain.CampaignRecord{
		ID:        "a:b",
		Questions: []any{map[string]any{"id": 1, "prompt": "Name?"}},
	}

	_, err := schema.Load(record)
	require.ErrorIs(t, err, domain.ErrInvalidFlow)

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Key)
}

func TestLoad_CampaignKind(t *testing.T) {
	record := &domain.CampaignRecord{
		ID:        "c1",
		Kind:      domain.FlowPetition,
		Questions: []any{map[string]any{"id": 1, "prompt": "Sign?"}},
	}

	flow, err := schema.Load(record)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowPetition, flow.Kind)

	record.Kind = "referendum"
	_, err = schema.Load(record)
	assert.ErrorIs(t, err, domain.ErrInvalidFlow)
}

func TestLoad_UnknownValidatorListsAvailable(t *testing.T) {
	_, err := schema.Load(&domain.CampaignRecord{
		ID:        "c1",
		Questions: []any{map[string]any{"id": 1, "prompt": "ZIP?", "validator": "zip"}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidFlow)
	assert.ErrorContains(t, err, "available: checksum-id, cpf")
}
