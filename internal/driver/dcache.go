package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"rewrite/internal/project"
	"rewrite/internal/source"
	"rewrite/internal/types"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит декларации зависимостей, разобранные из исходников,
// по хешу их содержимого. Повторный запуск с теми же зависимостями
// пропускает их разбор.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached set of dependency declarations.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Dependency files (paths and hashes) the entry was built from
	Paths  []string
	Hashes []project.Digest

	// Index is the msgpack dependency index (types.WriteIndex)
	Index []byte
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "deps", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Entries of
// another schema are reported as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// depsKey is the cache key of a set of dependency files: their sorted paths
// and content hashes.
func depsKey(files []*source.File) (project.Digest, []string, []project.Digest) {
	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b *source.File) int { return strings.Compare(a.Path, b.Path) })
	paths := make([]string, len(sorted))
	hashes := make([]project.Digest, len(sorted))
	for i, f := range sorted {
		paths[i] = f.Path
		hashes[i] = project.Digest(f.Hash)
	}
	key := project.Combine(project.Sum([]byte(strings.Join(paths, "\x00"))), hashes...)
	return key, paths, hashes
}

func encodeClasses(classes []*types.ClassInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := types.WriteIndex(&buf, classes, types.IndexOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeClasses(data []byte) ([]*types.ClassInfo, error) {
	return types.ReadIndex(bytes.NewReader(data))
}
