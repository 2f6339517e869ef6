package types

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Index format changes
const indexSchemaVersion uint16 = 1

// ErrIndexSchema is returned when an index was written by an incompatible version.
var ErrIndexSchema = errors.New("dependency index schema mismatch")

// Index is the serialized form of a set of dependency declarations.
// It stands in for compiled classpath entries: with StripNames set the
// parameter names are not written, as with classes compiled without
// parameter metadata, and readers see positional placeholders instead.
type Index struct {
	Schema     uint16       `msgpack:"schema"`
	StripNames bool         `msgpack:"stripped,omitempty"`
	Classes    []*ClassInfo `msgpack:"classes"`
}

// IndexOptions controls WriteIndex.
type IndexOptions struct {
	StripNames bool
}

// NewIndex snapshots classes into an Index, copying methods so the
// originals keep their names when StripNames is set.
func NewIndex(classes []*ClassInfo, opts IndexOptions) *Index {
	idx := &Index{Schema: indexSchemaVersion, StripNames: opts.StripNames}
	idx.Classes = make([]*ClassInfo, 0, len(classes))
	for _, c := range classes {
		cp := *c
		cp.Methods = make([]*Method, len(c.Methods))
		for i, m := range c.Methods {
			mc := *m
			mc.Params = append([]Param(nil), m.Params...)
			if opts.StripNames {
				for j := range mc.Params {
					mc.Params[j].Name = ""
				}
			}
			cp.Methods[i] = &mc
		}
		idx.Classes = append(idx.Classes, &cp)
	}
	return idx
}

// WriteIndex encodes classes as msgpack into w.
func WriteIndex(w io.Writer, classes []*ClassInfo, opts IndexOptions) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(NewIndex(classes, opts)); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// ReadIndex decodes an index written by WriteIndex. Returned classes are
// marked OriginIndex.
func ReadIndex(r io.Reader) ([]*ClassInfo, error) {
	var idx Index
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if idx.Schema != indexSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIndexSchema, idx.Schema, indexSchemaVersion)
	}
	for _, c := range idx.Classes {
		c.Origin = OriginIndex
		for _, m := range c.Methods {
			m.Owner = c.FQN
			m.fillPlaceholderNames()
		}
	}
	return idx.Classes, nil
}

// SaveIndex writes the index to path atomically.
func SaveIndex(path string, classes []*ClassInfo, opts IndexOptions) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err = WriteIndex(f, classes, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// LoadIndex reads an index file from disk.
func LoadIndex(path string) ([]*ClassInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	return ReadIndex(f)
}
