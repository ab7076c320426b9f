package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// rawQuestion accepts every key spelling found in stored campaign definitions.
type rawQuestion struct {
	ID              string `mapstructure:"id"`
	Kind            string `mapstructure:"kind"`
	Type            string `mapstructure:"type"`
	Prompt          string `mapstructure:"prompt"`
	Text            string `mapstructure:"text"`
	Question        string `mapstructure:"question"`
	Options         []any  `mapstructure:"options"`
	Condition       string `mapstructure:"condition"`
	Validator       string `mapstructure:"validator"`
	TerminalMessage string `mapstructure:"terminal_message"`
}

func (r rawQuestion) prompt() string {
	for _, s := range []string{r.Prompt, r.Text, r.Question} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func (r rawQuestion) kind() string {
	if r.Kind != "" {
		return r.Kind
	}
	return r.Type
}

type rawOption struct {
	Text       string `mapstructure:"text"`
	Label      string `mapstructure:"label"`
	JumpTarget string `mapstructure:"jump_target"`
	JumpTo     string `mapstructure:"jump_to"`
	Action     string `mapstructure:"action"`
}

// rawDocument is one legacy representation: the question list plus flow-level settings.
type rawDocument struct {
	Questions []rawQuestion
	Outro     string
	Kind      string
}

// decodeDocument reads a legacy representation. It accepts a JSON string, a bare
// question list, or an object holding "questions" (and optionally "outro", "kind").
// A nil or empty input yields an empty document.
func decodeDocument(raw any) (rawDocument, error) {
	var doc rawDocument

	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return doc, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return doc, fmt.Errorf("invalid JSON: %w", err)
		}
		raw = parsed
	}

	var list any
	switch v := raw.(type) {
	case nil:
		return doc, nil
	case []any:
		list = v
	case map[string]any:
		list = v["questions"]
		if err := weakDecode(v["outro"], &doc.Outro); err != nil {
			return doc, fmt.Errorf("outro: %w", err)
		}
		if err := weakDecode(v["kind"], &doc.Kind); err != nil {
			return doc, fmt.Errorf("kind: %w", err)
		}
	default:
		return doc, fmt.Errorf("unsupported representation %T", raw)
	}

	if list == nil {
		return doc, nil
	}
	if err := weakDecode(list, &doc.Questions); err != nil {
		return doc, fmt.Errorf("questions: %w", err)
	}
	return doc, nil
}

// decodeOption reads an option given either as its display text or as an object.
func decodeOption(raw any) (rawOption, error) {
	var opt rawOption
	if s, ok := raw.(string); ok {
		opt.Text = s
		return opt, nil
	}
	if err := weakDecode(raw, &opt); err != nil {
		return opt, err
	}
	if opt.Text == "" {
		opt.Text = opt.Label
	}
	if opt.JumpTarget == "" {
		opt.JumpTarget = opt.JumpTo
	}
	return opt, nil
}

// weakDecode converts loosely typed input, so numeric ids and jump targets become strings.
func weakDecode(input, output any) error {
	if input == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
