package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Index is the on-disk form of a repository index.
type Index struct {
	Repository Meta         `json:"repository" toml:"repository" yaml:"repository"`
	Packages   []Descriptor `json:"packages" toml:"packages" yaml:"packages"`
}

// Format is an index file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor returns the index format for a file name based on its extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnsupportedFormat, "cannot load index"), "path", path)
}

// DecodeIndex decodes an index in the given format.
func DecodeIndex(data []byte, format Format) (*Index, error) {
	var idx Index
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&idx)
	case FormatTOML:
		_, err = toml.Decode(string(data), &idx)
	case FormatYAML:
		err = yaml.Unmarshal(data, &idx)
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedFormat, "cannot decode index"), "format", string(format))
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexDecode, err)
	}
	return &idx, nil
}

// ReadIndex reads and decodes an index file.
func ReadIndex(path string) (*Index, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", ErrIndexRead, err), "path", path)
	}

	idx, err := DecodeIndex(data, format)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return idx, nil
}

// Snapshot builds a loaded repository from the index for the given record.
// The record URL wins over the base declared in the index.
func (idx *Index) Snapshot(rec Record) *LoadedRepository {
	meta := idx.Repository
	if rec.URL != "" {
		meta.Base = rec.URL
	}
	return NewLoadedRepository(meta, rec.Channel, idx.Packages)
}
