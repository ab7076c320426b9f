package runtime

import (
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choice(id string, texts ...string) *domain.Question {
	q := &domain.Question{ID: id, Kind: domain.KindChoice, Prompt: "Pick one"}
	for _, t := range texts {
		q.Options = append(q.Options, domain.Option{Text: t})
	}
	return q
}

func englishValidator() *AnswerValidator {
	l, _ := LookupLocale("en")
	return NewAnswerValidator(registry.Default(), l.Messages)
}

func TestMatchOption(t *testing.T) {
	q := choice("1", "Yes", "No", "Maybe")

	tests := []struct {
		input string
		want  int
	}{
		{"opt_0", 0},
		{"OPT_2", 2},
		{"opt_3", -1},
		{"opt_x", -1},
		{"a", 0},
		{"C", 2},
		{"d", -1},
		{"1", 0},
		{"3", 2},
		{"0", -1},
		{"4", -1},
		{"no", 1},
		{"MAYBE", 2},
		{"yes please", -1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchOption(q, tt.input))
		})
	}
}

func TestMatchOption_LetterBeatsText(t *testing.T) {
	// "b" is the first option's text but also the letter of the second option.
	q := choice("1", "b", "a")
	assert.Equal(t, 1, MatchOption(q, "b"))
	assert.Equal(t, 0, MatchOption(q, "a"))
}

func TestMatchOption_NumeralBeatsText(t *testing.T) {
	q := choice("1", "2", "1")
	assert.Equal(t, 1, MatchOption(q, "2"))
}

func TestMatchOption_OutOfRangeFallsThroughToText(t *testing.T) {
	q := choice("1", "z", "y")
	assert.Equal(t, 0, MatchOption(q, "Z"))
}

func TestValidate_Choice(t *testing.T) {
	v := englishValidator()
	q := choice("1", "Yes", "No")

	res := v.Validate(q, "  b ")
	require.True(t, res.Accepted)
	assert.Equal(t, "No", res.NormalizedAnswer)
	assert.Equal(t, 1, res.OptionIndex)
	assert.Equal(t, "✔️ You chose: No", res.ConfirmationText)

	res = v.Validate(q, "perhaps")
	assert.False(t, res.Accepted)
	assert.Equal(t, -1, res.OptionIndex)
	assert.Contains(t, res.RejectionMessage, "❌ Invalid answer")
	assert.Contains(t, res.RejectionMessage, "Pick one\n\na) Yes\nb) No")
}

func TestValidate_Blank(t *testing.T) {
	v := englishValidator()

	for _, q := range []*domain.Question{
		choice("1", "Yes"),
		{ID: "2", Kind: domain.KindFreeText, Prompt: "Name?"},
	} {
		res := v.Validate(q, "   ")
		assert.False(t, res.Accepted)
		assert.Equal(t, "Please send an answer.", res.RejectionMessage)
	}
}

func TestValidate_FreeText(t *testing.T) {
	v := englishValidator()
	q := &domain.Question{ID: "city", Kind: domain.KindFreeText, Prompt: "City?"}

	res := v.Validate(q, "  São Paulo ")
	require.True(t, res.Accepted)
	assert.Equal(t, "São Paulo", res.NormalizedAnswer)
	assert.Empty(t, res.ConfirmationText)
}

func TestValidate_ChecksumID(t *testing.T) {
	v := englishValidator()
	q := &domain.Question{ID: "doc", Kind: domain.KindFreeText, Prompt: "ID?", Validator: registry.ChecksumIDTag}

	tests := []struct {
		input    string
		accepted bool
		want     string
	}{
		{"11144477735", true, "11144477735"},
		{"111.444.777-35", true, "11144477735"},
		{"11111111111", false, ""},
		{"1114447773", false, ""},
		{"11144477736", false, ""},
		{"111a4447773", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := v.Validate(q, tt.input)
			assert.Equal(t, tt.accepted, res.Accepted)
			if tt.accepted {
				assert.Equal(t, tt.want, res.NormalizedAnswer)
			} else {
				assert.Equal(t, "❌ Invalid format. Expected: "+registry.ChecksumIDFormat, res.RejectionMessage)
			}
		})
	}
}

func TestValidate_UnknownValidatorRejects(t *testing.T) {
	v := NewAnswerValidator(registry.NewRegistry(), Messages{InvalidFormat: "bad %s"})
	q := &domain.Question{ID: "x", Kind: domain.KindFreeText, Prompt: "?", Validator: "zip"}

	res := v.Validate(q, "12345")
	assert.False(t, res.Accepted)
	assert.Equal(t, "bad zip", res.RejectionMessage)
}

func TestRenderQuestion(t *testing.T) {
	r := RenderQuestion(choice("1", "Yes", "No"))
	assert.Equal(t, "Pick one\n\na) Yes\nb) No", r.Text)
	assert.Equal(t, domain.HintChoiceList, r.Hint)
	assert.Equal(t, []string{"Yes", "No"}, r.Options)
	assert.True(t, r.Buttons)
	assert.Equal(t, "1", r.QuestionID)

	r = RenderQuestion(choice("2", "a", "b", "c", "d"))
	assert.False(t, r.Buttons)

	r = RenderQuestion(&domain.Question{ID: "3", Kind: domain.KindFreeText, Prompt: "Name?"})
	assert.Equal(t, "Name?", r.Text)
	assert.Equal(t, domain.HintPlainText, r.Hint)
	assert.Empty(t, r.Options)
}

func TestOptionList_BeyondAlphabet(t *testing.T) {
	options := make([]string, 28)
	for i := range options {
		options[i] = "x"
	}
	list := OptionList(options)
	assert.Contains(t, list, "z) x\n27) x\n28) x")
}

func TestLocale_StartCommands(t *testing.T) {
	en, ok := LookupLocale("EN")
	require.True(t, ok)
	assert.True(t, en.IsStartKeyword(" Start "))
	assert.False(t, en.IsStartKeyword("stop"))

	code, ok := en.ParseStartCommand("start pesq01")
	require.True(t, ok)
	assert.Equal(t, "PESQ01", code)

	_, ok = en.ParseStartCommand("start")
	assert.False(t, ok)
	_, ok = en.ParseStartCommand("start a b")
	assert.False(t, ok)

	pt, ok := LookupLocale("pt-br")
	require.True(t, ok)
	code, ok = pt.ParseStartCommand("COMEÇAR abc")
	require.True(t, ok)
	assert.Equal(t, "ABC", code)

	assert.Equal(t, []string{"en", "pt-BR"}, LocaleNames())
}
