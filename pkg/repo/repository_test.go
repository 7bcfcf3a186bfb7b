package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDescriptors() []Descriptor {
	return []Descriptor{
		{ID: "b", Name: map[string]string{"en": "B"}},
		{ID: "a", Name: map[string]string{"en": "A"}},
		{ID: ""},
		{ID: "b", Name: map[string]string{"en": "B2"}},
	}
}

func TestNewLoadedRepository(t *testing.T) {
	r := NewLoadedRepository(Meta{Base: "https://pahkat.example/main/"}, "", testDescriptors())

	assert.Equal(t, "https://pahkat.example/main", r.URL())
	assert.Equal(t, 2, r.Len())

	ds := r.Descriptors()
	assert.Equal(t, "a", ds[0].ID)
	assert.Equal(t, "b", ds[1].ID)
	assert.Equal(t, "B2", ds[1].NativeName("en"))
	assert.Equal(t, "https://pahkat.example/main", r.NativeName("en"))
}

func TestLoadedRepositoryStatus(t *testing.T) {
	r := NewLoadedRepository(Meta{Base: "https://pahkat.example/main"}, "", testDescriptors())
	a, _ := r.Descriptor("a")
	b, _ := r.Descriptor("b")
	keyA := r.PackageKey(a)
	keyB := r.PackageKey(b)

	assert.Equal(t, DefaultStatus, r.Status(keyA))

	withStatus := r.WithStatuses(map[PackageKey]PackageStatus{
		keyA: {Status: StatusUpToDate, Target: TargetSystem},
		keyB: {Status: StatusRequiresUpdate},
	})

	assert.Equal(t, PackageStatus{Status: StatusUpToDate, Target: TargetSystem}, withStatus.Status(keyA))
	assert.Equal(t, PackageStatus{Status: StatusRequiresUpdate, Target: TargetUser}, withStatus.Status(keyB))
	// original untouched
	assert.Equal(t, DefaultStatus, r.Status(keyA))
	assert.NotEqual(t, r.Fingerprint(), withStatus.Fingerprint())
}

func TestSameSnapshots(t *testing.T) {
	a := NewLoadedRepository(Meta{Base: "https://pahkat.example/main"}, "", testDescriptors())
	b := NewLoadedRepository(Meta{Base: "https://pahkat.example/main"}, "", testDescriptors())
	c := NewLoadedRepository(Meta{Base: "https://pahkat.example/main"}, "nightly", testDescriptors())

	assert.True(t, SameSnapshots(nil, nil))
	assert.True(t, SameSnapshots([]*LoadedRepository{a}, []*LoadedRepository{b}))
	assert.False(t, SameSnapshots([]*LoadedRepository{a}, []*LoadedRepository{c}))
	assert.False(t, SameSnapshots([]*LoadedRepository{a}, []*LoadedRepository{a, b}))

	key := a.PackageKey(Descriptor{ID: "a"})
	installed := b.WithStatuses(map[PackageKey]PackageStatus{key: {Status: StatusUpToDate}})
	assert.False(t, SameSnapshots([]*LoadedRepository{a}, []*LoadedRepository{installed}))
}
