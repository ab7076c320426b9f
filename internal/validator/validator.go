// Package validator lints campaign definitions before they are served.
package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/registry"
	"github.com/aretw0/canvass/pkg/schema"
)

// Severity of a lint issue. Errors make a campaign unservable; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about one campaign.
type Issue struct {
	Campaign string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Campaign, i.Message)
}

// IssueList collects lint findings. It satisfies error so a failed lint can be
// returned directly.
type IssueList []Issue

// HasErrors reports whether any issue is an error.
func (l IssueList) HasErrors() bool {
	for _, i := range l {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues with the given severity.
func (l IssueList) Count(s Severity) int {
	n := 0
	for _, i := range l {
		if i.Severity == s {
			n++
		}
	}
	return n
}

func (l IssueList) Error() string {
	lines := make([]string, 0, len(l)+1)
	lines = append(lines, fmt.Sprintf("found %d errors, %d warnings:", l.Count(SeverityError), l.Count(SeverityWarning)))
	for _, i := range l {
		lines = append(lines, "- "+i.String())
	}
	return strings.Join(lines, "\n")
}

// ValidateRecord loads one campaign and reports why it cannot be served, plus
// questions no answer path can visit.
func ValidateRecord(record *domain.CampaignRecord, validators *registry.Registry) IssueList {
	var issues IssueList
	add := func(s Severity, format string, args ...any) {
		issues = append(issues, Issue{Campaign: record.ID, Severity: s, Message: fmt.Sprintf(format, args...)})
	}

	flow, err := schema.Load(record, schema.WithValidators(validators))
	if err != nil {
		if details := schema.ValidationErrors(err); len(details) > 0 {
			for _, d := range details {
				add(SeverityError, "%v", d)
			}
		} else {
			add(SeverityError, "%v", err)
		}
		return issues
	}

	for _, id := range schema.Unreachable(flow) {
		add(SeverityWarning, "question %s is never reached", id)
	}
	if strings.TrimSpace(record.Code) == "" {
		add(SeverityWarning, "no code; participants cannot use the start command")
	}
	return issues
}

// ValidateStore lints every campaign in the store and flags codes shared by
// more than one campaign. The error is only for listing failures.
func ValidateStore(ctx context.Context, campaigns ports.CampaignStore, validators *registry.Registry) (IssueList, error) {
	records, err := campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	var issues IssueList
	codes := make(map[string][]string)
	for _, record := range records {
		issues = append(issues, ValidateRecord(record, validators)...)
		if code := strings.ToUpper(strings.TrimSpace(record.Code)); code != "" {
			codes[code] = append(codes[code], record.ID)
		}
	}

	dup := make([]string, 0)
	for code, ids := range codes {
		if len(ids) > 1 {
			dup = append(dup, code)
		}
	}
	sort.Strings(dup)
	for _, code := range dup {
		for _, id := range codes[code] {
			issues = append(issues, Issue{
				Campaign: id,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("code %s is shared with %d other campaign(s)", code, len(codes[code])-1),
			})
		}
	}
	return issues, nil
}
