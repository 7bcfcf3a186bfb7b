package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahkat/pkg/repo"
)

const base = "https://pahkat.example/main"

func release(version string, platforms ...string) repo.Release {
	r := repo.Release{Version: version}
	for _, p := range platforms {
		r.Target = append(r.Target, repo.Target{Platform: p, Payload: &repo.Payload{Kind: repo.PayloadMacOSPackage}})
	}
	return r
}

func descriptor(id string, tags []string, releases ...repo.Release) repo.Descriptor {
	return repo.Descriptor{ID: id, Name: map[string]string{"en": id}, Tags: tags, Release: releases}
}

func testRepo() *repo.LoadedRepository {
	return repo.NewLoadedRepository(repo.Meta{Base: base}, "", []repo.Descriptor{
		descriptor("speller-sme", []string{"cat:spellers", "lang:sme"}, release("1.0", "macos")),
		descriptor("speller-smj", []string{"lang:smj", "cat:spellers", "cat:keyboards"}, release("1.0", "macos")),
		descriptor("kbd-sme", []string{"cat:keyboard-layouts", "lang:sme", "lang:sme"}, release("1.0", "macos")),
		descriptor("manager", nil, release("2.0", "macos")),
		// last release lacks a macOS target
		descriptor("windows-only", []string{"cat:spellers"}, release("1.0", "macos"), release("2.0", "windows")),
		descriptor("no-releases", []string{"cat:spellers"}),
	})
}

func groupIDs(o *Outline) []string {
	var ids []string
	for _, g := range o.Groups() {
		ids = append(ids, g.ID)
	}
	return ids
}

func packageIDs(pkgs []Package) []string {
	var ids []string
	for _, p := range pkgs {
		ids = append(ids, p.Descriptor.ID)
	}
	return ids
}

func TestBuildCategory(t *testing.T) {
	o := Build(Repository{Filter: FilterCategory, Repo: testRepo()}, Options{Platform: "macos"})

	assert.Equal(t, []string{"cat:keyboard-layouts", "cat:spellers", "cat:unknown"}, groupIDs(o))
	assert.Equal(t, 4, o.Len())

	groups := o.Groups()
	assert.Equal(t, "Keyboard Layouts", groups[0].Value)
	assert.Equal(t, "Spellers", groups[1].Value)
	assert.Equal(t, "Unknown", groups[2].Value)
	assert.Equal(t, RepositoryID{URL: base, Filter: FilterCategory}, groups[0].Repo)

	spellers := o.Packages(groups[1])
	assert.Equal(t, []string{"speller-sme", "speller-smj"}, packageIDs(spellers))
	assert.Equal(t, groups[1], spellers[0].Group)

	_, ok := o.Find("windows-only")
	assert.False(t, ok)
	_, ok = o.Find("no-releases")
	assert.False(t, ok)
}

func TestBuildUsesLastReleasePositionally(t *testing.T) {
	r := repo.NewLoadedRepository(repo.Meta{Base: base}, "", []repo.Descriptor{
		descriptor("tool", nil, release("9.0", "macos"), release("1.0", "macos")),
	})

	o := Build(Repository{Filter: FilterCategory, Repo: r}, Options{Platform: "macos"})
	p, ok := o.Find("tool")
	require.True(t, ok)
	assert.Equal(t, "1.0", p.Release.Version)
	assert.Equal(t, "macos", p.Target.Platform)
}

func TestBuildLanguage(t *testing.T) {
	o := Build(Repository{Filter: FilterLanguage, Repo: testRepo()}, Options{Platform: "macos"})

	assert.Equal(t, []string{"sme", "smj", "zxx"}, groupIDs(o))

	groups := o.Groups()
	assert.Equal(t, []string{"kbd-sme", "speller-sme"}, packageIDs(o.Packages(groups[0])))
	assert.Equal(t, []string{"speller-smj"}, packageIDs(o.Packages(groups[1])))
	assert.Equal(t, []string{"manager"}, packageIDs(o.Packages(groups[2])))
	assert.Equal(t, "—", groups[2].Value)
	assert.NotEmpty(t, groups[0].Value)
	assert.Equal(t, 4, o.Len())
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "—", languageName(NoLanguage))
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "suomi", languageName("fi"))
	assert.Equal(t, "not a tag!", languageName("not a tag!"))
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, filter := range Filters {
		r := testRepo()
		first := Build(Repository{Filter: filter, Repo: r}, Options{Platform: "macos"})
		for i := 0; i < 20; i++ {
			again := Build(Repository{Filter: filter, Repo: r}, Options{Platform: "macos"})
			require.Equal(t, first.Groups(), again.Groups())
			for _, g := range first.Groups() {
				require.Equal(t, packageIDs(first.Packages(g)), packageIDs(again.Packages(g)))
			}
			require.Equal(t, first.Keys(), again.Keys())
		}
	}
}

func TestBuildCarriesStatus(t *testing.T) {
	r := testRepo()
	d, _ := r.Descriptor("speller-sme")
	key := r.PackageKey(d)
	r = r.WithStatuses(map[repo.PackageKey]repo.PackageStatus{
		key: {Status: repo.StatusUpToDate, Target: repo.TargetSystem},
	})

	o := Build(Repository{Filter: FilterCategory, Repo: r}, Options{Platform: "macos"})
	p, ok := o.Find("speller-sme")
	require.True(t, ok)
	assert.Equal(t, key, p.Key)
	assert.Equal(t, repo.StatusUpToDate, p.Status.Status)
	assert.Equal(t, repo.TargetSystem, p.Status.Target)

	other, _ := o.Find("manager")
	assert.Equal(t, repo.DefaultStatus, other.Status)
}

func TestBuildEmpty(t *testing.T) {
	o := Build(Repository{Filter: FilterCategory}, Options{Platform: "macos"})
	assert.Empty(t, o.Groups())
	assert.Zero(t, o.Len())

	o = Build(Repository{Filter: FilterCategory, Repo: testRepo()}, Options{Platform: "linux"})
	assert.Empty(t, o.Groups())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterCategory, f)

	f, err = ParseFilter(" Language ")
	require.NoError(t, err)
	assert.Equal(t, FilterLanguage, f)

	_, err = ParseFilter("size")
	assert.ErrorIs(t, err, ErrUnknownFilter)

	assert.Equal(t, FilterLanguage, FilterCategory.Next())
	assert.Equal(t, FilterCategory, FilterLanguage.Next())
}
