package sqlstore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/adapters/sqlstore"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	contract "github.com/aretw0/canvass/pkg/ports/tests"
	"github.com/aretw0/canvass/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.SessionStore      = (*sqlstore.Store)(nil)
	_ ports.CampaignStore     = (*sqlstore.Store)(nil)
	_ ports.CompletionCounter = (*sqlstore.Store)(nil)
)

func openSQLite(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "canvass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SessionContract(t *testing.T) {
	ports.RunSessionStoreContract(t, openSQLite(t))
}

func TestSQLiteStore_SessionTimestamps(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "u1", CampaignID: "c1"}

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	sess := domain.NewSession()
	sess.Answers["1"] = "Sim"
	sess.Complete(at)
	sess.UpdatedAt = at
	require.NoError(t, store.Save(ctx, key, sess))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded.CompletedAt)
	assert.True(t, at.Equal(*loaded.CompletedAt))
	assert.True(t, at.Equal(loaded.UpdatedAt))
}

func TestSQLiteStore_CampaignContract(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	data := map[string]*domain.CampaignRecord{
		"c1": {ID: "c1", Code: "PESQ01", Channel: "1234567890", Questions: []any{map[string]any{"id": 1, "prompt": "Name?"}}},
		"c2": {ID: "c2", Code: "sign"},
		"c3": {ID: "c3"},
	}
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, store.PutCampaign(ctx, data[id]))
	}

	contract.CampaignStoreContractTest(t, store, data)
}

func TestSQLiteStore_CampaignRoundTripLoads(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.PutCampaign(ctx, &domain.CampaignRecord{
		ID:   "c1",
		Kind: domain.FlowPetition,
		Flow: `{"questions": [{"id": 1, "prompt": "Sign?", "options": ["Yes", {"text": "No", "action": "end"}]}]}`,
	}))

	record, err := store.LoadCampaign(ctx, "c1")
	require.NoError(t, err)
	flow, err := schema.Load(record)
	require.NoError(t, err)
	assert.Equal(t, domain.FlowPetition, flow.Kind)
	assert.True(t, flow.Questions[0].Options[1].Ends())

	require.NoError(t, store.DeleteCampaign(ctx, "c1"))
	_, err = store.LoadCampaign(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestSQLiteStore_ChannelPrefersNewest(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.PutCampaign(ctx, &domain.CampaignRecord{ID: "old", Channel: "99"}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.PutCampaign(ctx, &domain.CampaignRecord{ID: "new", Channel: "99"}))

	got, err := store.LoadCampaignByChannel(ctx, "99")
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestSQLiteStore_Counter(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	n, err := store.Count(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, n)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx, "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err = store.Count(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), n)
}

func TestOpen_Validation(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, "")
	assert.Error(t, err)

	_, err = sqlstore.Open(context.Background(), "mysql", "x")
	assert.Error(t, err)
}
