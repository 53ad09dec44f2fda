package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/epitrack/observe"
)

// DefaultMaxAge is the entry validity window used when none is configured.
const DefaultMaxAge = 24 * time.Hour

// Config configures a Store.
type Config struct {
	// Dir is the directory for the file tier. Required.
	Dir string

	// MaxAge is the validity window for every entry in this store.
	// Default: DefaultMaxAge.
	MaxAge time.Duration

	// Logger receives degradation reports. Default: discard.
	Logger observe.Logger
}

// Store is a dual-tier cache. The memory tier is authoritative; the file
// tier exists so fresh data survives a restart and is consulted on memory
// miss. All methods are safe for concurrent use; each serializes against the
// others on the same instance.
type Store struct {
	mu     sync.Mutex
	mem    map[string]entry
	meta   map[string]Metadata
	files  *fileTier
	maxAge time.Duration
	log    observe.Logger
}

// New creates a Store, creating the file-tier directory if needed.
func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("cache: dir is required")
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	files, err := newFileTier(cfg.Dir)
	if err != nil {
		return nil, err
	}

	return &Store{
		mem:    make(map[string]entry),
		meta:   make(map[string]Metadata),
		files:  files,
		maxAge: cfg.MaxAge,
		log:    cfg.Logger.WithComponent("cache"),
	}, nil
}

// MaxAge returns the configured validity window.
func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// Put stores a JSON-serializable payload under key in the memory tier and
// synchronously mirrors it to the file tier. A file-tier failure is logged
// and returned, but the memory write stands: for the rest of the process's
// life the entry is served from memory.
func (s *Store) Put(ctx context.Context, key string, payload any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cache: marshal payload for %q: %w", key, err)
	}

	e := entry{Payload: raw, StoredAt: time.Now()}
	meta := Metadata{
		StoredAt:        e.StoredAt,
		ApproxSizeBytes: len(raw),
		PayloadKind:     payloadKind(raw),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem[key] = e
	s.meta[key] = meta

	if err := s.files.write(key, e, meta); err != nil {
		s.log.Error(ctx, "file tier write failed, memory tier remains authoritative",
			observe.F("key", key), observe.F("error", err.Error()))
		return err
	}

	s.log.Debug(ctx, "cached payload", observe.F("key", key), observe.F("bytes", len(raw)))
	return nil
}

// Get returns the payload for key if a fresh entry exists in either tier.
// A stale memory entry is evicted; a fresh file entry repopulates memory; a
// stale file entry is deleted along with its sidecar. Read or parse errors
// on the file tier count as misses.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	return s.get(ctx, key, true)
}

// GetMemoryOnly is Get without the persisted-tier fallback.
func (s *Store) GetMemoryOnly(ctx context.Context, key string) (json.RawMessage, bool) {
	return s.get(ctx, key, false)
}

func (s *Store) get(ctx context.Context, key string, fileFallback bool) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if e, ok := s.mem[key]; ok {
		if e.fresh(now, s.maxAge) {
			s.log.Debug(ctx, "cache hit (memory)", observe.F("key", key))
			return e.Payload, true
		}
		delete(s.mem, key)
		delete(s.meta, key)
	}

	if !fileFallback {
		return nil, false
	}

	e, ok := s.files.read(key)
	if !ok {
		return nil, false
	}
	if !e.fresh(now, s.maxAge) {
		if err := s.files.remove(key); err != nil {
			s.log.Warn(ctx, "failed to remove expired cache files",
				observe.F("key", key), observe.F("error", err.Error()))
		}
		return nil, false
	}

	s.mem[key] = e
	s.meta[key] = Metadata{
		StoredAt:        e.StoredAt,
		ApproxSizeBytes: len(e.Payload),
		PayloadKind:     payloadKind(e.Payload),
	}
	s.log.Debug(ctx, "cache hit (file)", observe.F("key", key))
	return e.Payload, true
}

// Unmarshal retrieves the payload for key into out. It reports a miss the
// same way Get does; a payload that does not decode into out is an error.
func (s *Store) Unmarshal(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("cache: decode payload for %q: %w", key, err)
	}
	return true, nil
}

// Delete removes key from both tiers. The memory removal always succeeds;
// a file-tier failure is logged and returned without undoing it.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mem, key)
	delete(s.meta, key)

	if err := s.files.remove(key); err != nil {
		s.log.Error(ctx, "file tier delete failed", observe.F("key", key), observe.F("error", err.Error()))
		return err
	}
	return nil
}

// Clear removes every entry from both tiers.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem = make(map[string]entry)
	s.meta = make(map[string]Metadata)

	var firstErr error
	for _, key := range s.files.keys() {
		if err := s.files.remove(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		s.log.Error(ctx, "file tier clear incomplete", observe.F("error", firstErr.Error()))
	}
	return firstErr
}

// CleanupExpired scans both tiers and removes entries older than MaxAge,
// returning how many were removed. It is intended to run on its own
// schedule, independent of reads.
func (s *Store) CleanupExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0

	for key, e := range s.mem {
		if !e.fresh(now, s.maxAge) {
			delete(s.mem, key)
			delete(s.meta, key)
			removed++
		}
	}

	for _, key := range s.files.keys() {
		e, ok := s.files.read(key)
		if ok && e.fresh(now, s.maxAge) {
			continue
		}
		if err := s.files.remove(key); err != nil {
			s.log.Warn(ctx, "failed to remove expired cache files",
				observe.F("key", key), observe.F("error", err.Error()))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info(ctx, "removed expired cache entries", observe.F("count", removed))
	}
	return removed
}

// TierInfo lists the keys present in one tier.
type TierInfo struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// Info is an introspection snapshot of the store. Reading it never affects
// entry validity.
type Info struct {
	Memory   TierInfo            `json:"memory_cache"`
	File     TierInfo            `json:"file_cache"`
	Dir      string              `json:"cache_dir"`
	MaxAge   time.Duration       `json:"max_age"`
	Metadata map[string]Metadata `json:"metadata"`
}

// Info returns a snapshot of both tiers.
func (s *Store) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	memKeys := make([]string, 0, len(s.mem))
	for key := range s.mem {
		memKeys = append(memKeys, key)
	}

	fileKeys := s.files.keys()
	if fileKeys == nil {
		fileKeys = []string{}
	}

	meta := make(map[string]Metadata, len(s.meta))
	for key, m := range s.meta {
		meta[key] = m
	}

	return Info{
		Memory:   TierInfo{Keys: memKeys, Count: len(memKeys)},
		File:     TierInfo{Keys: fileKeys, Count: len(fileKeys)},
		Dir:      s.files.dir,
		MaxAge:   s.maxAge,
		Metadata: meta,
	}
}

// SizeReport holds approximate byte sizes per tier.
type SizeReport struct {
	MemoryBytes int64 `json:"memory_size_bytes"`
	FileBytes   int64 `json:"file_size_bytes"`
	TotalBytes  int64 `json:"total_size_bytes"`
}

// Size reports approximate storage usage per tier.
func (s *Store) Size() SizeReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var memBytes int64
	for _, e := range s.mem {
		memBytes += int64(len(e.Payload))
	}

	fileBytes := s.files.sizeBytes()
	return SizeReport{
		MemoryBytes: memBytes,
		FileBytes:   fileBytes,
		TotalBytes:  memBytes + fileBytes,
	}
}
