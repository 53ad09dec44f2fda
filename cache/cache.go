package cache

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// pathSeparators maps characters that would escape the cache directory.
var pathSeparators = strings.NewReplacer("/", "_", "\\", "_")

// safeKey encodes a key into a file-system-path-safe form.
func safeKey(key string) string {
	return pathSeparators.Replace(key)
}

// Metadata describes a cached entry. It is derived from the entry at write
// time and serves introspection only, never validity decisions.
type Metadata struct {
	StoredAt        time.Time `json:"storedAt"`
	ApproxSizeBytes int       `json:"approxSizeBytes"`
	PayloadKind     string    `json:"payloadKind"`
}

// entry is the wire format of a data file and the shape held in memory.
type entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"storedAt"`
}

// fresh reports whether the entry's age is under maxAge as of now. A zero
// StoredAt (missing or unparseable timestamp) is never fresh.
func (e entry) fresh(now time.Time, maxAge time.Duration) bool {
	if e.StoredAt.IsZero() {
		return false
	}
	return now.Sub(e.StoredAt) < maxAge
}

// payloadKind names the JSON kind of a serialized payload.
func payloadKind(payload json.RawMessage) string {
	trimmed := strings.TrimLeft(string(payload), " \t\n\r")
	if trimmed == "" {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
