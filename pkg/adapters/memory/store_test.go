package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	contract "github.com/aretw0/canvass/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	key := domain.SessionKey{UserID: "u1", CampaignID: "c1"}

	sess := domain.NewSession()
	sess.Answers["1"] = "Yes"
	require.NoError(t, store.Save(ctx, key, sess))

	sess.Answers["1"] = "mutated"
	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Yes", loaded.Answers["1"])

	loaded.Answers["2"] = "leak"
	again, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.NotContains(t, again.Answers, "2")
}

func TestMemoryCampaigns_Contract(t *testing.T) {
	data := map[string]*domain.CampaignRecord{
		"c1": {ID: "c1", Code: "PESQ01", Channel: "5511999"},
		"c2": {ID: "c2", Code: "petition-x"},
		"c3": {ID: "c3"},
	}
	store := memory.NewCampaigns(data["c1"], data["c2"], data["c3"])
	contract.CampaignStoreContractTest(t, store, data)
}

func TestMemoryCampaigns_ChannelPrefersLatest(t *testing.T) {
	store := memory.NewCampaigns(
		&domain.CampaignRecord{ID: "old", Channel: "123"},
		&domain.CampaignRecord{ID: "new", Channel: "123"},
	)
	got, err := store.LoadCampaignByChannel(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestMemoryCampaigns_PutRequiresID(t *testing.T) {
	store := memory.NewCampaigns()
	assert.Error(t, store.Put(&domain.CampaignRecord{}))
	assert.Error(t, store.Put(nil))
}

func TestCounter_Concurrent(t *testing.T) {
	counter := memory.NewCounter()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = counter.Increment(ctx, "petition")
		}()
	}
	wg.Wait()

	n, err := counter.Count(ctx, "petition")
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)

	n, err = counter.Count(ctx, "other")
	require.NoError(t, err)
	assert.Zero(t, n)
}
