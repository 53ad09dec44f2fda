// Package cache provides a dual-tier, TTL-based store for JSON-serializable
// payloads: a fast in-memory tier mirrored synchronously to one file per key
// on disk, so cached data survives process restarts.
//
// Every operation on a Store runs under a single exclusive lock for that
// instance, and the file tier is never touched without it. An entry is valid
// only while its age is below the store's MaxAge; an expired entry is
// indistinguishable from an absent one. File-tier failures degrade the
// operation but never invalidate the memory tier, which stays authoritative
// for the life of the process.
package cache
