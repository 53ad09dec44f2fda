// Package pipeline orchestrates the fetch, process, and cache stages into
// a single refresh flow. Concurrent refreshes are coalesced so upstream
// sources see one request no matter how many callers ask, and the last
// successfully produced dataset is kept in memory as a fallback for
// refresh passes that come up empty.
package pipeline
