package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
)

// CampaignStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.CampaignStore.
// The store must already hold every record of setupData, keyed by id.
func CampaignStoreContractTest(t *testing.T, store ports.CampaignStore, setupData map[string]*domain.CampaignRecord) {
	t.Helper()
	ctx := context.Background()

	// 1. LoadCampaign (Success)
	t.Run("LoadCampaign_Success", func(t *testing.T) {
		for id, expected := range setupData {
			got, err := store.LoadCampaign(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading campaign %s: %v", id, err)
			}
			if got.ID != expected.ID || got.Code != expected.Code {
				t.Errorf("record mismatch for %s. got %+v, want %+v", id, got, expected)
			}
		}
	})

	// 2. LoadCampaign (NotFound)
	t.Run("LoadCampaign_NotFound", func(t *testing.T) {
		_, err := store.LoadCampaign(ctx, "non-existent-campaign")
		if !errors.Is(err, domain.ErrCampaignNotFound) {
			t.Errorf("expected ErrCampaignNotFound, got %v", err)
		}
	})

	// 3. LoadCampaignByCode is case-insensitive
	t.Run("LoadCampaignByCode", func(t *testing.T) {
		for id, expected := range setupData {
			if expected.Code == "" {
				continue
			}
			for _, code := range []string{expected.Code, toggleCase(expected.Code)} {
				got, err := store.LoadCampaignByCode(ctx, code)
				if err != nil {
					t.Fatalf("unexpected error resolving code %q: %v", code, err)
				}
				if got.ID != id {
					t.Errorf("code %q resolved to %s, want %s", code, got.ID, id)
				}
			}
		}
		if _, err := store.LoadCampaignByCode(ctx, "NO-SUCH-CODE"); !errors.Is(err, domain.ErrCampaignNotFound) {
			t.Errorf("expected ErrCampaignNotFound for unknown code, got %v", err)
		}
	})

	// 4. LoadCampaignByChannel
	t.Run("LoadCampaignByChannel", func(t *testing.T) {
		for id, expected := range setupData {
			if expected.Channel == "" {
				continue
			}
			got, err := store.LoadCampaignByChannel(ctx, expected.Channel)
			if err != nil {
				t.Fatalf("unexpected error resolving channel %q: %v", expected.Channel, err)
			}
			if got.ID != id {
				t.Errorf("channel %q resolved to %s, want %s", expected.Channel, got.ID, id)
			}
		}
		if _, err := store.LoadCampaignByChannel(ctx, "no-such-channel"); !errors.Is(err, domain.ErrCampaignNotFound) {
			t.Errorf("expected ErrCampaignNotFound for unknown channel, got %v", err)
		}
	})

	// 5. ListCampaigns
	t.Run("ListCampaigns", func(t *testing.T) {
		records, err := store.ListCampaigns(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing campaigns: %v", err)
		}

		if len(records) != len(setupData) {
			t.Errorf("expected %d campaigns, got %d", len(setupData), len(records))
		}

		lookup := make(map[string]bool)
		for _, r := range records {
			lookup[r.ID] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("campaign %s missing from list", id)
			}
		}
	})
}

func toggleCase(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
			out[i] = r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			out[i] = r - 'A' + 'a'
		}
	}
	return string(out)
}
