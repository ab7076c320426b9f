package ports

import (
	"context"

	"github.com/aretw0/canvass/pkg/domain"
)

// CampaignStore defines how the engine retrieves campaign definitions.
// All lookups return domain.ErrCampaignNotFound when nothing matches.
type CampaignStore interface {
	// LoadCampaign retrieves a campaign by id.
	LoadCampaign(ctx context.Context, id string) (*domain.CampaignRecord, error)

	// LoadCampaignByCode resolves a short join code. Codes compare case-insensitively.
	LoadCampaignByCode(ctx context.Context, code string) (*domain.CampaignRecord, error)

	// LoadCampaignByChannel resolves the campaign bound to an inbound channel
	// (such as a WhatsApp phone_number_id).
	LoadCampaignByChannel(ctx context.Context, channel string) (*domain.CampaignRecord, error)

	// ListCampaigns returns every campaign record, for introspection tools.
	ListCampaigns(ctx context.Context) ([]*domain.CampaignRecord, error)
}
