package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/registry"
)

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	validators *registry.Registry
	outro      string
}

// WithValidators sets the registry used to resolve question validator tags.
// Defaults to registry.Default().
func WithValidators(r *registry.Registry) LoadOption {
	return func(c *loadConfig) {
		c.validators = r
	}
}

// WithDefaultOutro sets the completion message used when the campaign has none.
func WithDefaultOutro(outro string) LoadOption {
	return func(c *loadConfig) {
		c.outro = outro
	}
}

type candidate struct {
	source string
	doc    rawDocument
}

// Load parses a campaign record into a validated, immutable flow.
//
// When both legacy representations are present the choice is deterministic:
// an explicit PreferredSource wins, otherwise the longer question list, and on a
// tie the flow representation. Every failure wraps domain.ErrInvalidFlow; field
// level details are available through ValidationErrors.
func Load(record *domain.CampaignRecord, opts ...LoadOption) (*domain.Flow, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil campaign record", domain.ErrInvalidFlow)
	}
	if strings.Contains(record.ID, domain.KeySeparator) {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFlow,
			&ValidationError{Key: "id", Reason: "campaign id must not contain " + strconv.Quote(domain.KeySeparator), Value: record.ID})
	}

	cfg := loadConfig{validators: registry.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	chosen, err := selectSource(record)
	if err != nil {
		return nil, fmt.Errorf("%w: campaign %s: %w", domain.ErrInvalidFlow, record.ID, err)
	}

	questions, errs := buildQuestions(chosen.doc.Questions, cfg.validators)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: campaign %s: %w", domain.ErrInvalidFlow, record.ID, &AggregateError{Errors: errs})
	}

	kind, err := flowKind(string(record.Kind), chosen.doc.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: campaign %s: %w", domain.ErrInvalidFlow, record.ID, err)
	}

	outro := firstNonBlank(record.Outro, chosen.doc.Outro, cfg.outro)
	flow := domain.NewFlow(record.ID, kind, questions, outro)
	flow.Title = record.Title
	flow.BlockRepeat = record.BlockRepeat
	flow.Source = chosen.source

	if traps := Traps(flow); len(traps) > 0 {
		errs := make([]error, 0, len(traps))
		for _, id := range traps {
			errs = append(errs, &ValidationError{
				Key:    "questions." + id,
				Reason: "every path from this question loops without reaching completion",
			})
		}
		return nil, fmt.Errorf("%w: campaign %s: %w", domain.ErrInvalidFlow, record.ID, &AggregateError{Errors: errs})
	}

	return flow, nil
}

func selectSource(record *domain.CampaignRecord) (candidate, error) {
	var (
		candidates []candidate
		decodeErrs []error
	)
	for _, src := range []struct {
		name string
		raw  any
	}{
		{domain.SourceFlow, record.Flow},
		{domain.SourceQuestions, record.Questions},
	} {
		doc, err := decodeDocument(src.raw)
		if err != nil {
			decodeErrs = append(decodeErrs, &ValidationError{Key: src.name, Reason: err.Error()})
			continue
		}
		if len(doc.Questions) == 0 {
			continue
		}
		candidates = append(candidates, candidate{source: src.name, doc: doc})
	}

	if pref := strings.ToLower(strings.TrimSpace(record.PreferredSource)); pref != "" {
		for _, c := range candidates {
			if c.source == pref {
				return c, nil
			}
		}
		return candidate{}, &ValidationError{
			Key:    "preferred_source",
			Reason: "preferred representation is missing, empty or unreadable",
			Value:  record.PreferredSource,
		}
	}

	switch len(candidates) {
	case 0:
		if len(decodeErrs) > 0 {
			return candidate{}, &AggregateError{Errors: decodeErrs}
		}
		return candidate{}, errors.New("campaign has no questions")
	case 1:
		return candidates[0], nil
	}

	// candidates[0] is always the flow representation here.
	if len(candidates[1].doc.Questions) > len(candidates[0].doc.Questions) {
		return candidates[1], nil
	}
	return candidates[0], nil
}

func buildQuestions(raws []rawQuestion, validators *registry.Registry) ([]domain.Question, []error) {
	var errs []error
	questions := make([]domain.Question, 0, len(raws))
	seen := make(map[string]int, len(raws))

	for i, raw := range raws {
		path := fmt.Sprintf("questions[%d]", i)
		q := domain.Question{
			ID:              strings.TrimSpace(raw.ID),
			Prompt:          raw.prompt(),
			Condition:       strings.TrimSpace(raw.Condition),
			Validator:       strings.TrimSpace(raw.Validator),
			TerminalMessage: raw.TerminalMessage,
		}

		if q.ID == "" {
			errs = append(errs, &ValidationError{Key: path + ".id", Reason: "required"})
		} else if first, dup := seen[q.ID]; dup {
			errs = append(errs, &ValidationError{
				Key:    path + ".id",
				Reason: fmt.Sprintf("duplicate of questions[%d]", first),
				Value:  q.ID,
			})
		} else {
			seen[q.ID] = i
		}
		if strings.EqualFold(q.ID, domain.ActionEnd) {
			errs = append(errs, &ValidationError{Key: path + ".id", Reason: "reserved", Value: q.ID})
		}

		if q.Prompt == "" {
			errs = append(errs, &ValidationError{Key: path + ".prompt", Reason: "required"})
		}

		for j, rawOpt := range raw.Options {
			opt, err := decodeOption(rawOpt)
			if err != nil {
				errs = append(errs, &ValidationError{Key: fmt.Sprintf("%s.options[%d]", path, j), Reason: err.Error()})
				continue
			}
			if strings.TrimSpace(opt.Text) == "" {
				errs = append(errs, &ValidationError{Key: fmt.Sprintf("%s.options[%d].text", path, j), Reason: "required"})
			}
			if opt.Action != "" && !strings.EqualFold(opt.Action, domain.ActionEnd) {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("%s.options[%d].action", path, j),
					Reason: "unsupported action",
					Value:  opt.Action,
				})
			}
			q.Options = append(q.Options, domain.Option{
				Text:       strings.TrimSpace(opt.Text),
				JumpTarget: strings.TrimSpace(opt.JumpTarget),
				Action:     strings.TrimSpace(opt.Action),
			})
		}

		switch name := raw.kind(); {
		case name == "" && len(q.Options) > 0:
			q.Kind = domain.KindChoice
		case name == "":
			q.Kind = domain.KindFreeText
		default:
			kind, ok := domain.ParseKind(name)
			if !ok {
				errs = append(errs, &ValidationError{Key: path + ".kind", Reason: "unknown question kind", Value: name})
			}
			q.Kind = kind
		}

		if q.Kind == domain.KindChoice && len(q.Options) == 0 {
			errs = append(errs, &ValidationError{Key: path + ".options", Reason: "choice question needs at least one option"})
		}
		if q.Validator != "" {
			if q.Kind != domain.KindFreeText {
				errs = append(errs, &ValidationError{Key: path + ".validator", Reason: "validators apply to free-text questions only", Value: q.Validator})
			} else if _, ok := validators.Lookup(q.Validator); !ok {
				errs = append(errs, &ValidationError{
					Key:    path + ".validator",
					Reason: fmt.Sprintf("%v (available: %s)", registry.ErrUnknownValidator, strings.Join(validators.Names(), ", ")),
					Value:  q.Validator,
				})
			}
		}

		questions = append(questions, q)
	}

	// Jump targets can only be checked once every id is known.
	for i, q := range questions {
		for j, opt := range q.Options {
			if opt.JumpTarget == "" || strings.EqualFold(opt.JumpTarget, domain.ActionEnd) {
				continue
			}
			if _, ok := seen[opt.JumpTarget]; !ok {
				errs = append(errs, &ValidationError{
					Key:    fmt.Sprintf("questions[%d].options[%d].jump_target", i, j),
					Reason: "unknown question",
					Value:  opt.JumpTarget,
				})
			}
		}
	}

	return questions, errs
}

func flowKind(values ...string) (domain.FlowKind, error) {
	for _, v := range values {
		switch domain.FlowKind(strings.ToLower(strings.TrimSpace(v))) {
		case "":
			continue
		case domain.FlowSurvey:
			return domain.FlowSurvey, nil
		case domain.FlowPetition:
			return domain.FlowPetition, nil
		default:
			return "", &ValidationError{Key: "kind", Reason: "unknown campaign kind", Value: v}
		}
	}
	return domain.FlowSurvey, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
