package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	campaign := "contract-" + time.Now().Format("20060102150405")
	key := domain.SessionKey{UserID: "+5511999990000", CampaignID: campaign}

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession()
		session.SetCurrent("2")
		session.Answers["1"] = "Yes"
		session.Answers["cpf"] = "11144477735"

		err := store.Save(ctx, key, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, loaded.CurrentQuestionID)
		assert.Equal(t, "2", *loaded.CurrentQuestionID)
		assert.Equal(t, "Yes", loaded.Answers["1"])
		assert.Equal(t, "11144477735", loaded.Answers["cpf"])
	})

	t.Run("Upsert Overwrites", func(t *testing.T) {
		session := domain.NewSession()
		session.Answers["1"] = "No"
		session.Complete(time.Now())
		require.NoError(t, store.Save(ctx, key, session))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, loaded.CurrentQuestionID, "a nil current question must survive persistence")
		assert.True(t, loaded.Completed())
		assert.Equal(t, map[string]string{"1": "No"}, loaded.Answers)
	})

	t.Run("Keys Are Scoped By Campaign", func(t *testing.T) {
		other := domain.SessionKey{UserID: key.UserID, CampaignID: campaign + "-other"}
		_, err := store.Load(ctx, other)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, domain.SessionKey{UserID: "nobody", CampaignID: campaign})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, domain.NewSession()))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		k1 := domain.SessionKey{UserID: "user-1", CampaignID: campaign}
		k2 := domain.SessionKey{UserID: "user-2", CampaignID: campaign}
		require.NoError(t, store.Save(ctx, k1, domain.NewSession()))
		require.NoError(t, store.Save(ctx, k2, domain.NewSession()))

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
