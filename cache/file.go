package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dataSuffix = ".json"
	metaSuffix = "_meta.json"
)

// fileTier persists one data file and one metadata sidecar per key inside a
// single directory. It carries no lock of its own; the owning Store serializes
// every call.
type fileTier struct {
	dir string
}

func newFileTier(dir string) (*fileTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir %s: %w", dir, err)
	}
	return &fileTier{dir: dir}, nil
}

func (f *fileTier) dataPath(key string) string {
	return filepath.Join(f.dir, safeKey(key)+dataSuffix)
}

func (f *fileTier) metaPath(key string) string {
	return filepath.Join(f.dir, safeKey(key)+metaSuffix)
}

// write mirrors an entry and its metadata to disk.
func (f *fileTier) write(key string, e entry, meta Metadata) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: marshal entry %q: %w", key, err)
	}
	if err := os.WriteFile(f.dataPath(key), data, 0o644); err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}

	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("cache: marshal metadata %q: %w", key, err)
	}
	if err := os.WriteFile(f.metaPath(key), metaBytes, 0o644); err != nil {
		return fmt.Errorf("cache: write metadata %q: %w", key, err)
	}
	return nil
}

// read loads the entry for a key. ok is false when the file is absent or
// unreadable; any parse error is a miss, not a failure.
func (f *fileTier) read(key string) (entry, bool) {
	data, err := os.ReadFile(f.dataPath(key))
	if err != nil {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return entry{}, false
	}
	return e, true
}

// remove deletes the data file and its metadata sidecar. Missing files are
// not an error.
func (f *fileTier) remove(key string) error {
	var firstErr error
	for _, path := range []string{f.dataPath(key), f.metaPath(key)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("cache: remove %q: %w", key, err)
			}
		}
	}
	return firstErr
}

// keys lists the encoded keys with a data file present.
func (f *fileTier) keys() []string {
	names, err := os.ReadDir(f.dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, d := range names {
		name := d.Name()
		if strings.HasSuffix(name, metaSuffix) || !strings.HasSuffix(name, dataSuffix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, dataSuffix))
	}
	return keys
}

// sizeBytes sums the sizes of all cache files, sidecars included.
func (f *fileTier) sizeBytes() int64 {
	names, err := os.ReadDir(f.dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, d := range names {
		if !strings.HasSuffix(d.Name(), dataSuffix) {
			continue
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}
