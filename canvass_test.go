package canvass_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/canvass"
	"github.com/aretw0/canvass/pkg/adapters/memory"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_CampaignDirectory(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
code: SIGN
kind: petition
questions:
  - id: 1
    prompt: Sign the petition?
    options: [Yes, {text: No, action: end}]
  - id: 2
    prompt: Your name?
    terminal_message: "Signature #{count} recorded."
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water.yaml"), content, 0644))

	counter := memory.NewCounter()
	engine, err := canvass.New(dir, canvass.WithCounter(counter))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), engine.Name)

	ctx := context.Background()
	reply, err := engine.Process(ctx, "u1", "", "start sign")
	require.NoError(t, err)
	assert.Equal(t, "1", reply.QuestionID)

	_, err = engine.Process(ctx, "u1", "water", "yes")
	require.NoError(t, err)

	reply, err = engine.Process(ctx, "u1", "water", "Maria")
	require.NoError(t, err)
	assert.True(t, reply.Completed)
	assert.Equal(t, "Signature #1 recorded.", reply.Text)

	sess, err := engine.Sessions().Load(ctx, domain.SessionKey{UserID: "u1", CampaignID: "water"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", sess.Answers["2"])
}

func TestFacade_Locale(t *testing.T) {
	campaigns := memory.NewCampaigns(&domain.CampaignRecord{
		ID:        "c1",
		Questions: []any{map[string]any{"id": 1, "prompt": "Cidade?"}},
	})

	engine, err := canvass.New("", canvass.WithCampaignStore(campaigns), canvass.WithLocale("pt-BR"))
	require.NoError(t, err)
	assert.Contains(t, engine.StartKeywords(), "participar")

	ctx := context.Background()
	_, err = engine.Process(ctx, "u1", "c1", "participar")
	require.NoError(t, err)
	reply, err := engine.Process(ctx, "u1", "c1", "Recife")
	require.NoError(t, err)
	assert.Equal(t, "Obrigado por participar da pesquisa!", reply.Text)

	_, err = canvass.New("", canvass.WithCampaignStore(campaigns), canvass.WithLocale("klingon"))
	assert.Error(t, err)
}

func TestFacade_RequiresCampaigns(t *testing.T) {
	_, err := canvass.New("")
	assert.Error(t, err)

	_, err = canvass.New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

type stuckLocker struct{}

func (stuckLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFacade_LockWaitIsBounded(t *testing.T) {
	campaigns := memory.NewCampaigns(&domain.CampaignRecord{
		ID:        "c1",
		Questions: []any{map[string]any{"id": 1, "prompt": "City?"}},
	})
	engine, err := canvass.New("",
		canvass.WithCampaignStore(campaigns),
		canvass.WithLocker(stuckLocker{}),
		canvass.WithStoreTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)

	start := time.Now()
	reply, err := engine.Process(context.Background(), "u1", "c1", "start")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotEmpty(t, reply.Text)
	assert.Less(t, time.Since(start), time.Second)
}
