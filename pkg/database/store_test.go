package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahkat/pkg/repo"
)

const base = "https://pahkat.example/main"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "packages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func descriptor(id, version string, tags ...string) repo.Descriptor {
	return repo.Descriptor{
		ID:          id,
		Name:        map[string]string{"en": id},
		Description: map[string]string{"en": "Package " + id},
		Tags:        tags,
		Release: []repo.Release{{
			Version: version,
			Target:  []repo.Target{{Platform: "macos"}},
		}},
	}
}

func TestSnapshotsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	main := repo.NewLoadedRepository(repo.Meta{Base: base, Name: map[string]string{"en": "Main"}}, "nightly", []repo.Descriptor{
		descriptor("speller-sme", "1.0", "cat:spellers"),
		descriptor("kbd-sme", "2.0", "cat:keyboards"),
	})
	tools := repo.NewLoadedRepository(repo.Meta{Base: "https://a.example/tools"}, "", []repo.Descriptor{
		descriptor("manager", "3.0"),
	})

	require.NoError(t, s.SaveSnapshots([]*repo.LoadedRepository{main, tools}))

	loaded, err := s.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// bbolt iterates keys in byte order
	assert.Equal(t, "https://a.example/tools", loaded[0].URL())
	assert.Equal(t, base, loaded[1].URL())
	assert.Equal(t, "nightly", loaded[1].Channel())
	assert.Equal(t, "Main", loaded[1].NativeName("en"))
	assert.True(t, repo.SameSnapshots([]*repo.LoadedRepository{tools, main}, loaded))

	updated, err := s.GetLastUpdate(base)
	require.NoError(t, err)
	assert.False(t, updated.IsZero())

	// saving replaces the previous catalog
	require.NoError(t, s.SaveSnapshots([]*repo.LoadedRepository{tools}))
	loaded, err = s.LoadSnapshots()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	require.NoError(t, s.Clear())
	snapshots, _, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, snapshots)
}

func TestReceiptStatus(t *testing.T) {
	s := openTestStore(t)

	d := descriptor("speller-sme", "1.1")
	key := repo.NewKey(base, d.ID, repo.Params{Channel: "nightly"})

	_, ok := s.Status(key, d)
	assert.False(t, ok)

	require.NoError(t, s.PutReceipts([]Receipt{{
		Key:     repo.NewKey(base, d.ID, repo.Params{}),
		Version: "1.0",
		Target:  repo.TargetSystem,
	}}))

	// channel does not matter for receipts
	st, ok := s.Status(key, d)
	require.True(t, ok)
	assert.Equal(t, repo.StatusRequiresUpdate, st.Status)
	assert.Equal(t, repo.TargetSystem, st.Target)

	require.NoError(t, s.PutReceipts([]Receipt{{Key: key, Version: "1.1"}}))
	st, ok = s.Status(key, d)
	require.True(t, ok)
	assert.Equal(t, repo.StatusUpToDate, st.Status)
	assert.Equal(t, repo.TargetUser, st.Target)

	receipts, err := s.Receipts()
	require.NoError(t, err)
	assert.Len(t, receipts, 1)

	require.NoError(t, s.DeleteReceipt(key))
	_, ok = s.Status(key, d)
	assert.False(t, ok)
}

func TestLoadSnapshotsResolvesReceipts(t *testing.T) {
	s := openTestStore(t)

	r := repo.NewLoadedRepository(repo.Meta{Base: base}, "", []repo.Descriptor{descriptor("speller-sme", "1.0")})
	require.NoError(t, s.SaveSnapshots([]*repo.LoadedRepository{r}))
	require.NoError(t, s.PutReceipts([]Receipt{{Key: repo.NewKey(base, "speller-sme", repo.Params{}), Version: "1.0"}}))

	loaded, err := s.LoadSnapshots()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	d, _ := loaded[0].Descriptor("speller-sme")
	assert.Equal(t, repo.StatusUpToDate, loaded[0].Status(loaded[0].PackageKey(d)).Status)
}

func TestStoreIsStatusProvider(t *testing.T) {
	var _ repo.StatusProvider = (*Store)(nil)
}
