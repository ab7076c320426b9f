package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/canvass/pkg/adapters/file"
	"github.com/aretw0/canvass/pkg/domain"
	"github.com/aretw0/canvass/pkg/ports"
	contract "github.com/aretw0/canvass/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements SessionStore
var _ ports.SessionStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "whatsapp:+55 11/999", CampaignID: "c:1"}

	sess := domain.NewSession()
	sess.Answers["1"] = "Yes"
	require.NoError(t, store.Save(ctx, key, sess))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Yes", loaded.Answers["1"])

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.SessionKey{key}, keys)

	// No stray temp files after a successful save.
	entries, err := os.ReadDir(filepath.Join(dir, "c:1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsIncompleteKey(t *testing.T) {
	store := file.New(t.TempDir())
	err := store.Save(context.Background(), domain.SessionKey{UserID: "u1"}, domain.NewSession())
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	keys, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCampaigns_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "survey.yaml", `
code: PESQ01
channel: "1234567890"
questions:
  - id: 1
    kind: choice
    prompt: Do you vote?
    options: [Yes, No]
`)
	writeFile(t, dir, "petition.json", `{"id": "p1", "code": "sign", "kind": "petition", "questions": [{"id": "1", "prompt": "Name?"}]}`)
	writeFile(t, dir, "README.md", "ignored")

	store, err := file.NewCampaigns(dir)
	require.NoError(t, err)

	contract.CampaignStoreContractTest(t, store, map[string]*domain.CampaignRecord{
		"survey": {ID: "survey", Code: "PESQ01", Channel: "1234567890"},
		"p1":     {ID: "p1", Code: "sign"},
	})
}

func TestCampaigns_ChannelPrefersNewestFile(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.yaml", "channel: \"99\"\nquestions: [{id: 1, prompt: \"Old?\"}]\n")
	writeFile(t, dir, "new.yaml", "channel: \"99\"\nquestions: [{id: 1, prompt: \"New?\"}]\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	store, err := file.NewCampaigns(dir)
	require.NoError(t, err)

	got, err := store.LoadCampaignByChannel(context.Background(), "99")
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)
}

func TestCampaigns_Reload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "questions: [{id: 1, prompt: \"A?\"}]\n")

	store, err := file.NewCampaigns(dir)
	require.NoError(t, err)

	writeFile(t, dir, "b.yaml", "questions: [{id: 1, prompt: \"B?\"}]\n")
	require.NoError(t, store.Reload())
	list, err := store.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// A broken file keeps the previous records.
	writeFile(t, dir, "c.yaml", "questions: [unclosed\n")
	assert.Error(t, store.Reload())
	list, err = store.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCampaigns_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "id: same\nquestions: [{id: 1, prompt: \"A?\"}]\n")
	writeFile(t, dir, "b.yaml", "id: same\nquestions: [{id: 1, prompt: \"B?\"}]\n")

	_, err := file.NewCampaigns(dir)
	assert.Error(t, err)
}
