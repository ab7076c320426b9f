package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// Mask replaces redacted answers.
const Mask = "***"

// DefaultPIIPatterns match national-ID numbers (with or without separators)
// and e-mail addresses.
var DefaultPIIPatterns = []string{
	`^\d{3}\.?\d{3}\.?\d{3}[-/]?\d{2}$`,
	`^[^@\s]+@[^@\s]+\.[^@\s]+$`,
}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers before they are stored.
// An answer is masked when its question id or its value matches any pattern.
// The masked value is what later loads return.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error {
	// The engine keeps using its in-memory session; mask a copy.
	cloned := session.Clone()
	for id, answer := range cloned.Answers {
		if m.sensitive(id) || m.sensitive(answer) {
			cloned.Answers[id] = Mask
		}
	}
	return m.next.Save(ctx, key, cloned)
}

func (m *piiMiddleware) sensitive(s string) bool {
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	return m.next.Load(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key domain.SessionKey) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context) ([]domain.SessionKey, error) {
	return m.next.List(ctx)
}
