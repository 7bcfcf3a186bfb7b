package cli

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahkat/internal/config"
	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

const (
	mainRepo    = "https://pahkat.example/main"
	nightlyRepo = "https://pahkat.example/nightly"
)

func descriptor(id string, tags ...string) repo.Descriptor {
	return repo.Descriptor{
		ID:   id,
		Name: map[string]string{"en": id},
		Tags: tags,
		Release: []repo.Release{{
			Version: "1.0",
			Target:  []repo.Target{{Platform: "macos", Payload: &repo.Payload{Kind: repo.PayloadMacOSPackage}}},
		}},
	}
}

func testCatalog() *outline.Catalog {
	repos := []*repo.LoadedRepository{
		repo.NewLoadedRepository(repo.Meta{Base: mainRepo}, "", []repo.Descriptor{
			descriptor("speller-sme", "cat:spellers", "lang:sme"),
			descriptor("kbd-sme", "cat:keyboards", "lang:sme"),
		}),
		repo.NewLoadedRepository(repo.Meta{Base: nightlyRepo}, "", []repo.Descriptor{
			descriptor("kbd-sme", "cat:keyboards", "lang:sme"),
		}),
	}
	return outline.BuildAll(repos, nil, outline.Options{Platform: "macos", Language: "en"})
}

func setupGlobals(t *testing.T) {
	t.Helper()

	prevCfg, prevYes, prevLogger := cfg, yes, logger
	t.Cleanup(func() { cfg, yes, logger = prevCfg, prevYes, prevLogger })

	cfg = config.Default()
	cfg.Aliases["sme"] = "speller-sme"
	cfg.Aliases["nightly-kbd"] = nightlyRepo + "/packages/kbd-sme"
	yes = true
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolvePackage(t *testing.T) {
	setupGlobals(t)
	c := testCatalog()

	tests := []struct {
		name string
		arg  string
		repo string
		id   string
	}{
		{"id", "speller-sme", mainRepo, "speller-sme"},
		{"alias", "sme", mainRepo, "speller-sme"},
		{"key", nightlyRepo + "/packages/kbd-sme", nightlyRepo, "kbd-sme"},
		{"key with params", mainRepo + "/packages/kbd-sme?platform=macos", mainRepo, "kbd-sme"},
		{"alias to key", "nightly-kbd", nightlyRepo, "kbd-sme"},
		{"ambiguous id takes first repository", "kbd-sme", mainRepo, "kbd-sme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolvePackage(c, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.repo, p.Key.RepositoryURL)
			assert.Equal(t, tt.id, p.Key.ID)
		})
	}
}

func TestResolvePackageNotFound(t *testing.T) {
	setupGlobals(t)
	c := testCatalog()

	_, err := resolvePackage(c, "speller-smj")
	assert.True(t, errors.Is(err, ErrPackageNotFound))

	_, err = resolvePackage(c, mainRepo+"/packages/speller-smj")
	assert.True(t, errors.Is(err, ErrPackageNotFound))

	_, err = resolvePackage(c, "https://pahkat.example/main")
	assert.True(t, errors.Is(err, repo.ErrInvalidKey))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Install 2 packages", capitalize("install 2 packages"))
}
