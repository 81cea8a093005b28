package kpi

import (
	"errors"
	"sync"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string]string
	sets   int
	getErr error
	setErr error
	panics bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("storage disabled")
	}
	if m.getErr != nil {
		return "", false, m.getErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("storage disabled")
	}
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memStore) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok
}

func (m *memStore) put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

var errQuota = errors.New("quota exceeded")

func testCatalog(ids ...string) Catalog {
	tiles := make([]Tile, 0, len(ids))
	for _, id := range ids {
		tiles = append(tiles, Tile{ID: id, Label: id})
	}
	return Catalog{ReportKey: "test.report", Name: "Test", Tiles: tiles}
}
