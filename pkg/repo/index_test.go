package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonIndex = `{
  "repository": {"base": "https://pahkat.example/main/", "name": {"en": "Main"}},
  "packages": [
    {
      "id": "speller-sme",
      "name": {"en": "Northern Sami speller"},
      "tags": ["cat:spellers", "lang:sme"],
      "release": [
        {"version": "1.0.0", "target": [{"platform": "macos", "payload": {"type": "MacOSPackage", "url": "https://pahkat.example/sme.pkg", "size": 10}}]}
      ]
    }
  ]
}`

const tomlIndex = `
[repository]
base = "https://pahkat.example/main"

[[packages]]
id = "speller-sme"
tags = ["cat:spellers", "lang:sme"]

[packages.name]
en = "Northern Sami speller"

[[packages.release]]
version = "1.0.0"

[[packages.release.target]]
platform = "macos"
`

const yamlIndex = `
repository:
  base: https://pahkat.example/main
packages:
  - id: speller-sme
    name:
      en: Northern Sami speller
    tags: [cat:spellers, lang:sme]
    release:
      - version: 1.0.0
        target:
          - platform: macos
`

func TestDecodeIndex(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json", FormatJSON, jsonIndex},
		{"toml", FormatTOML, tomlIndex},
		{"yaml", FormatYAML, yamlIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := DecodeIndex([]byte(tt.data), tt.format)
			require.NoError(t, err)
			require.Len(t, idx.Packages, 1)

			d := idx.Packages[0]
			assert.Equal(t, "speller-sme", d.ID)
			assert.Equal(t, "Northern Sami speller", d.NativeName("en"))
			assert.Equal(t, []string{"cat:spellers", "lang:sme"}, d.Tags)
			require.NotNil(t, d.LastRelease())
			assert.NotNil(t, d.LastRelease().TargetFor("macos"))
		})
	}
}

func TestDecodeIndexErrors(t *testing.T) {
	_, err := DecodeIndex([]byte("{"), FormatJSON)
	assert.ErrorIs(t, err, ErrIndexDecode)

	_, err = DecodeIndex([]byte("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("/var/lib/pahkat/index.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatFor("index.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadIndexSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonIndex), 0o644))

	idx, err := ReadIndex(path)
	require.NoError(t, err)

	snap := idx.Snapshot(Record{URL: "https://mirror.example/main/", Channel: "nightly"})
	assert.Equal(t, "https://mirror.example/main", snap.URL())
	assert.Equal(t, "nightly", snap.Channel())
	assert.Equal(t, 1, snap.Len())

	d, ok := snap.Descriptor("speller-sme")
	require.True(t, ok)
	assert.Equal(t,
		"https://mirror.example/main/packages/speller-sme?channel=nightly",
		snap.PackageKey(d).String())

	_, err = ReadIndex(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrIndexRead)
}
