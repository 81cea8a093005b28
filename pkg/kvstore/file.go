package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File keeps every key in a single JSON object on disk. Writes go to a temp
// file that is renamed over the target.
type File struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// OpenFile loads path, or starts empty when the file does not exist.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: map[string]string{}}
	data, err := f.readDisk()
	if err != nil {
		return nil, err
	}
	f.data = data
	return f, nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.data[key]
	return value, ok, nil
}

// Set stores value and persists the whole document. The document is re-read
// first so keys written by other handles on the same path are kept. Those
// keys reach the cache on the next Refresh, which reports them as changed.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	disk, err := f.readDisk()
	if err != nil {
		return err
	}
	disk[key] = value
	if err := f.writeAtomic(disk); err != nil {
		return err
	}
	f.data[key] = value
	return nil
}

// Keys returns every stored key, sorted.
func (f *File) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Refresh re-reads the file and returns the keys whose values changed.
func (f *File) Refresh() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.readDisk()
	if err != nil {
		return nil, err
	}
	changed := diffKeys(f.data, data)
	f.data = data
	return changed, nil
}

func (f *File) readDisk() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("kvstore: read %s: %w", f.path, err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("kvstore: parse %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) writeAtomic(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("kvstore: mkdir %s: %w", filepath.Dir(f.path), err)
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", f.path, err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kvstore: rename %s: %w", tmp, err)
	}
	return nil
}

func diffKeys(before, after map[string]string) []string {
	var changed []string
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
