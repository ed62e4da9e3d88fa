// Package cache holds the stores behind the positive and negative caches.
//
// MemoryStore keeps entries in a bounded in-process LRU
// (hashicorp/golang-lru expirable) and honours a TTL per entry. RedisStore
// shares entries between processes through go-redis, relying on SET with an
// expiry for atomic per-key writes. Both store the raw JSON document, so a
// value cached by one backend reads back identically from the other.
//
// Backend errors are logged and reported as cache misses.
package cache
