package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahkat/pkg/outline"
	"pahkat/pkg/repo"
)

func testCatalog() *outline.Catalog {
	r := repo.NewLoadedRepository(repo.Meta{Base: base}, "", []repo.Descriptor{
		descriptor("speller-sme", "1.0", "cat:spellers", "lang:sme"),
		descriptor("speller-smj", "1.0", "cat:spellers", "lang:smj"),
		descriptor("kbd-sme", "1.0", "cat:keyboards", "lang:sme"),
		descriptor("manager", "1.0"),
	})
	key := repo.NewKey(base, "speller-smj", repo.Params{})
	r = r.WithStatuses(map[repo.PackageKey]repo.PackageStatus{key: {Status: repo.StatusUpToDate}})

	return outline.BuildAll([]*repo.LoadedRepository{r}, nil, outline.Options{Platform: "macos"})
}

func ids(results []SearchResult) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.Descriptor.ID)
	}
	return out
}

func TestIndexCatalog(t *testing.T) {
	idx := IndexCatalog(testCatalog(), "en")
	assert.Equal(t, 4, idx.Size())
}

func TestSearchExactMatchFirst(t *testing.T) {
	idx := IndexCatalog(testCatalog(), "en")

	results := idx.Search("speller-sme", DefaultSearchOptions())
	require.NotEmpty(t, results)
	assert.Equal(t, "speller-sme", results[0].Descriptor.ID)
	assert.Equal(t, "Exact name match", results[0].MatchReason)
}

func TestSearchPrefixAndTags(t *testing.T) {
	idx := IndexCatalog(testCatalog(), "en")

	results := idx.Search("spell", DefaultSearchOptions())
	assert.ElementsMatch(t, []string{"speller-sme", "speller-smj"}, ids(results))

	// tag values are searchable
	results = idx.Search("keyboards", DefaultSearchOptions())
	assert.Equal(t, []string{"kbd-sme"}, ids(results))

	results = idx.Search("sme", DefaultSearchOptions())
	assert.ElementsMatch(t, []string{"speller-sme", "kbd-sme"}, ids(results))
}

func TestSearchOptions(t *testing.T) {
	idx := IndexCatalog(testCatalog(), "en")

	results := idx.Search("speller", SearchOptions{InstalledOnly: true})
	assert.Equal(t, []string{"speller-smj"}, ids(results))

	results = idx.Search("speller", SearchOptions{Limit: 1})
	assert.Len(t, results, 1)

	results = idx.Search("speller", SearchOptions{RepositoryURL: "https://other.example"})
	assert.Empty(t, results)

	assert.Empty(t, idx.Search("   ", DefaultSearchOptions()))
	assert.Empty(t, NewIndex("en").Search("speller", DefaultSearchOptions()))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"davvisámegiella", "speller", "v2"}, tokenize("Davvisámegiella speller-v2"))
}
