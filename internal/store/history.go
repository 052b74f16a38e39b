// Package store persists recent search queries. This is user input
// history, not a cache of catalog data.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	bolt "go.etcd.io/bbolt"
)

var bucketHistory = []byte("history")

// maxEntries bounds how many queries are kept; the least recently used
// entries are evicted past this.
const maxEntries = 50

// entry is the stored record for one query.
type entry struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"last_used"`
}

// HistoryStore keeps recent search queries in BoltDB. With an empty path
// it runs memory-only (nothing persists across sessions).
type HistoryStore struct {
	db *bolt.DB

	mu  sync.RWMutex
	mem map[string]entry // memory-only mode
}

// NewHistoryStore opens (or creates) the history database under dir.
func NewHistoryStore(dir string) (*HistoryStore, error) {
	if dir == "" {
		return &HistoryStore{mem: make(map[string]entry)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add records a query, bumping its use count and recency. Blank queries
// are ignored.
func (s *HistoryStore) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	key := strings.ToLower(query)

	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.mem[key]
		s.mem[key] = entry{Query: query, Count: e.Count + 1, LastUsed: time.Now()}
		s.evictLocked(s.mem)
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)

		var e entry
		if data := b.Get([]byte(key)); data != nil {
			_ = json.Unmarshal(data, &e) // A corrupt entry starts over at zero
		}
		e.Query = query
		e.Count++
		e.LastUsed = time.Now()

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(key), data); err != nil {
			return err
		}
		return evictBucket(b)
	})
}

// Recent returns up to limit queries, most recently used first.
func (s *HistoryStore) Recent(limit int) []string {
	entries := s.all()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastUsed.After(entries[j].LastUsed)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	queries := make([]string, len(entries))
	for i, e := range entries {
		queries[i] = e.Query
	}
	return queries
}

// Suggest returns up to limit past queries fuzzy-matching the typed input,
// best match first. Empty input falls back to Recent.
func (s *HistoryStore) Suggest(input string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.Recent(limit)
	}

	entries := s.all()
	targets := make([]string, len(entries))
	for i, e := range entries {
		targets[i] = e.Query
	}

	ranks := fuzzy.RankFindNormalizedFold(input, targets)
	sort.Sort(ranks)

	queries := make([]string, 0, limit)
	for _, r := range ranks {
		if len(queries) >= limit {
			break
		}
		queries = append(queries, r.Target)
	}
	return queries
}

func (s *HistoryStore) all() []entry {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		entries := make([]entry, 0, len(s.mem))
		for _, e := range s.mem {
			entries = append(entries, e)
		}
		return entries
	}

	var entries []entry
	_ = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHistory).ForEach(func(_, v []byte) error {
			var e entry
			if json.Unmarshal(v, &e) == nil {
				entries = append(entries, e)
			}
			return nil
		})
	})
	return entries
}

// evictLocked trims the memory map to maxEntries. Caller holds mu.
func (s *HistoryStore) evictLocked(mem map[string]entry) {
	for len(mem) > maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range mem {
			if oldestKey == "" || e.LastUsed.Before(oldest) {
				oldestKey = k
				oldest = e.LastUsed
			}
		}
		delete(mem, oldestKey)
	}
}

// evictBucket removes least recently used entries past maxEntries.
func evictBucket(b *bolt.Bucket) error {
	type keyed struct {
		key      []byte
		lastUsed time.Time
	}
	var all []keyed
	err := b.ForEach(func(k, v []byte) error {
		var e entry
		if json.Unmarshal(v, &e) == nil {
			all = append(all, keyed{key: append([]byte(nil), k...), lastUsed: e.LastUsed})
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(all) <= maxEntries {
		return nil
	}
	sort.Slice(all, func(i, j int) bool { return all[i].lastUsed.Before(all[j].lastUsed) })
	for _, k := range all[:len(all)-maxEntries] {
		if err := b.Delete(k.key); err != nil {
			return err
		}
	}
	return nil
}
