package session

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// registryShardCount must be a power of two so mask below works;
// 64 is plenty for the session counts this engine runs (tens to low
// hundreds of concurrent sessions, not the millions-of-keys scale
// lci's trigram storage shards for).
const registryShardCount = 64

// shard is one lock-guarded bucket of the session registry. Grounded on
// lci/internal/core/trigram_sharded_storage.go's TrigramBucket: a
// per-bucket mutex lets unrelated sessions be read or written without
// contending on a single global lock, the same reasoning that motivates
// sharding trigram buckets by hash there.
type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// registry is the sharded session table backing Manager. Grounded on
// the same file's ShardedTrigramStorage, narrowed from a trigram-hash
// keyspace to a UUID-string keyspace.
type registry struct {
	shards []*shard
	mask   uint64
}

func newRegistry() *registry {
	shards := make([]*shard, registryShardCount)
	for i := range shards {
		shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return &registry{shards: shards, mask: uint64(registryShardCount - 1)}
}

func (r *registry) shardFor(id string) *shard {
	h := xxhash.Sum64String(id)
	return r.shards[h&r.mask]
}

// insertIfAbsent adds s under s.ID only if no session with that ID
// already exists, reporting whether the insert succeeded. Used by
// StartSearch's up-to-10-attempt UUID collision retry (spec.md §4.7
// step 3).
func (r *registry) insertIfAbsent(s *Session) bool {
	sh := r.shardFor(s.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, exists := sh.sessions[s.ID]; exists {
		return false
	}
	sh.sessions[s.ID] = s
	return true
}

func (r *registry) get(id string) (*Session, bool) {
	sh := r.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sessions[id]
	return s, ok
}

func (r *registry) delete(id string) {
	sh := r.shardFor(id)
	sh.mu.Lock()
	delete(sh.sessions, id)
	sh.mu.Unlock()
}

// forEach visits a snapshot of every session currently registered, used
// by ListActiveSessions and the retention sweeper. fn must not mutate
// the registry itself.
func (r *registry) forEach(fn func(*Session)) {
	for _, sh := range r.shards {
		sh.mu.RLock()
		snapshot := make([]*Session, 0, len(sh.sessions))
		for _, s := range sh.sessions {
			snapshot = append(snapshot, s)
		}
		sh.mu.RUnlock()
		for _, s := range snapshot {
			fn(s)
		}
	}
}
