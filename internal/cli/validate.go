package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/canvass/internal/validator"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/aretw0/canvass/pkg/registry"
)

// Validate lints every campaign, prints the findings and returns the issue
// list as an error when any campaign cannot be served.
func Validate(ctx context.Context, campaigns ports.CampaignStore, w io.Writer) error {
	issues, err := validator.ValidateStore(ctx, campaigns, registry.Default())
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(w, issue.String())
	}
	if issues.HasErrors() {
		return issues
	}

	records, err := campaigns.ListCampaigns(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d campaign(s) valid ✅\n", len(records))
	return nil
}
