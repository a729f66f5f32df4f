package filestore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// fileMemo holds parsed files keyed by absolute path. Each path is parsed
// at most once while it stays resident; concurrent first loads of one path
// share a single parse. Entries are evicted least recently used once more
// than maxEntries distinct paths of one kind have been loaded.
type fileMemo[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group
}

func newFileMemo[V any](maxEntries int) *fileMemo[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	entries, err := lru.New[string, V](maxEntries)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &fileMemo[V]{entries: entries}
}

// load returns the value for key, calling parse on a miss. hit reports
// whether the value was already resident.
func (m *fileMemo[V]) load(key string, parse func() (V, error)) (value V, hit bool, err error) {
	if v, ok := m.entries.Get(key); ok {
		return v, true, nil
	}
	res, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.entries.Get(key); ok {
			return v, nil
		}
		v, err := parse()
		if err != nil {
			return nil, err
		}
		m.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

func (m *fileMemo[V]) size() int {
	return m.entries.Len()
}
