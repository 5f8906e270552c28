package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	DefaultFileName   = "trackflow.store.json"
	fileSchemaVersion = 1
)

type fileDocument struct {
	SchemaVersion int               `json:"schemaVersion"`
	Items         map[string]string `json:"items"`
}

// FileSubstrate persists every item in a single JSON document. Each write
// rewrites the document atomically, so readers never observe a torn file.
type FileSubstrate struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// OpenFile loads the document at path, creating its directory if needed.
// A missing file is an empty store.
func OpenFile(path string) (*FileSubstrate, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	items, err := readFileDocument(path)
	if err != nil {
		return nil, err
	}
	return &FileSubstrate{path: path, items: items}, nil
}

func readFileDocument(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read store file %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var doc fileDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("parse store file %s: trailing data", path)
	}
	if doc.SchemaVersion != fileSchemaVersion {
		return nil, fmt.Errorf("parse store file %s: unsupported schemaVersion %d (expected %d)", path, doc.SchemaVersion, fileSchemaVersion)
	}
	if doc.Items == nil {
		doc.Items = map[string]string{}
	}
	return doc.Items, nil
}

func (f *FileSubstrate) Path() string { return f.path }

func (f *FileSubstrate) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.items[key]
	return v, ok, nil
}

func (f *FileSubstrate) SetItem(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := copyItems(f.items)
	next[key] = value
	return f.commitLocked(next)
}

func (f *FileSubstrate) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[key]; !ok {
		return nil
	}
	next := copyItems(f.items)
	delete(next, key)
	return f.commitLocked(next)
}

// Keys are returned sorted; JSON objects carry no order.
func (f *FileSubstrate) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FileSubstrate) ReplaceAll(prefix string, items map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.items)+len(items))
	for k, v := range f.items {
		if !strings.HasPrefix(k, prefix) {
			next[k] = v
		}
	}
	for k, v := range items {
		next[k] = v
	}
	return f.commitLocked(next)
}

func (f *FileSubstrate) commitLocked(next map[string]string) error {
	b, err := json.MarshalIndent(fileDocument{SchemaVersion: fileSchemaVersion, Items: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	b = append(b, '\n')
	if err := WriteFileAtomic(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write store file %s: %w", f.path, err)
	}
	f.items = next
	return nil
}

func copyItems(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
