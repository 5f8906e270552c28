package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPrefix = "trackflow_"
	AppVersion    = "1.0.0"

	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// EntryValidator vets one unprefixed key/value pair of an inbound snapshot
// before anything is written.
type EntryValidator func(key string, value json.RawMessage) error

type Option func(*Adapter)

func WithPrefix(prefix string) Option {
	return func(a *Adapter) { a.prefix = prefix }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func WithAppVersion(v string) Option {
	return func(a *Adapter) { a.appVersion = v }
}

func WithEntryValidator(v EntryValidator) Option {
	return func(a *Adapter) { a.validate = v }
}

// Adapter stores JSON values in a Substrate under a fixed key prefix. None of
// its operations return errors: failures are logged and reported as false,
// nil or the caller's default.
type Adapter struct {
	sub        Substrate
	prefix     string
	appVersion string
	now        func() time.Time
	log        zerolog.Logger
	validate   EntryValidator
}

func NewAdapter(sub Substrate, opts ...Option) *Adapter {
	a := &Adapter{
		sub:        sub,
		prefix:     DefaultPrefix,
		appVersion: AppVersion,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Prefix() string { return a.prefix }

// Save serializes value to JSON and writes it under prefix+key.
func (a *Adapter) Save(key string, value any) bool {
	b, err := json.Marshal(value)
	if err != nil {
		a.log.Error().Err(err).Str("key", key).Msg("serialize value")
		return false
	}
	if err := a.sub.SetItem(a.prefix+key, string(b)); err != nil {
		a.log.Error().Err(err).Str("key", key).Msg("write value")
		return false
	}
	return true
}

// LoadRaw returns the stored JSON text for key. Absent keys and values that are
// not valid JSON both report false.
func (a *Adapter) LoadRaw(key string) (json.RawMessage, bool) {
	raw, ok, err := a.Lookup(key)
	if err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("load value")
		return nil, false
	}
	return raw, ok
}

// Lookup is LoadRaw for callers that must tell a missing key apart from an
// unreadable or corrupt one.
func (a *Adapter) Lookup(key string) (json.RawMessage, bool, error) {
	v, ok, err := a.sub.GetItem(a.prefix + key)
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	if !json.Valid([]byte(v)) {
		return nil, false, fmt.Errorf("stored value for %q is not valid JSON", key)
	}
	return json.RawMessage(v), true, nil
}

// Load decodes the value stored under key, or returns def when it is absent
// or does not decode into T.
func Load[T any](a *Adapter, key string, def T) T {
	raw, ok := a.LoadRaw(key)
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("decode value")
		return def
	}
	return out
}

func (a *Adapter) Remove(key string) bool {
	if err := a.sub.RemoveItem(a.prefix + key); err != nil {
		a.log.Error().Err(err).Str("key", key).Msg("remove value")
		return false
	}
	return true
}

// ListKeys returns every stored key with the prefix stripped, in substrate
// order. Enumeration failures yield an empty list.
func (a *Adapter) ListKeys() []string {
	keys, err := a.keys()
	if err != nil {
		a.log.Error().Err(err).Msg("enumerate keys")
		return []string{}
	}
	return keys
}

func (a *Adapter) keys() ([]string, error) {
	all, err := a.sub.Keys()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, a.prefix) {
			out = append(out, strings.TrimPrefix(k, a.prefix))
		}
	}
	return out, nil
}

// ExportAll snapshots the namespace. Values that cannot be read export as
// null. Returns nil if keys cannot be enumerated.
func (a *Adapter) ExportAll() *Snapshot {
	keys, err := a.keys()
	if err != nil {
		a.log.Error().Err(err).Msg("export: enumerate keys")
		return nil
	}

	data := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok := a.LoadRaw(k)
		if !ok {
			raw = json.RawMessage("null")
		}
		data[k] = raw
	}

	return &Snapshot{
		Data:       data,
		Timestamp:  a.now().UTC().Format(isoMillis),
		AppVersion: a.appVersion,
	}
}

// ImportAll replaces the namespace with snap.Data. The snapshot is staged
// and validated before anything is removed; a failed write restores the
// previous contents where the substrate cannot swap atomically.
func (a *Adapter) ImportAll(snap *Snapshot) bool {
	staged, err := a.stage(snap)
	if err != nil {
		a.log.Warn().Err(err).Msg("import rejected")
		return false
	}

	if r, ok := a.sub.(Replacer); ok {
		if err := r.ReplaceAll(a.prefix, staged); err != nil {
			a.log.Error().Err(err).Msg("import: replace namespace")
			return false
		}
		return true
	}

	if err := a.replaceStepwise(staged); err != nil {
		a.log.Error().Err(err).Msg("import: replace namespace")
		return false
	}
	return true
}

func (a *Adapter) stage(snap *Snapshot) (map[string]string, error) {
	if snap == nil || snap.Data == nil {
		return nil, fmt.Errorf("%w: data is required", ErrInvalidSnapshot)
	}

	staged := make(map[string]string, len(snap.Data))
	for k, v := range snap.Data {
		if k == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidSnapshot)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, fmt.Errorf("%w: value for %q: %v", ErrInvalidSnapshot, k, err)
		}
		if a.validate != nil {
			if err := a.validate(k, buf.Bytes()); err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSnapshot, k, err)
			}
		}
		staged[a.prefix+k] = buf.String()
	}
	return staged, nil
}

func (a *Adapter) replaceStepwise(staged map[string]string) error {
	existing, err := a.keys()
	if err != nil {
		return fmt.Errorf("enumerate keys: %w", err)
	}

	previous := make(map[string]string, len(existing))
	for _, k := range existing {
		full := a.prefix + k
		v, ok, err := a.sub.GetItem(full)
		if err != nil {
			return fmt.Errorf("read %q: %w", k, err)
		}
		if ok {
			previous[full] = v
		}
	}

	for full := range previous {
		if err := a.sub.RemoveItem(full); err != nil {
			a.rollback(staged, previous)
			return fmt.Errorf("clear %q: %w", full, err)
		}
	}

	keys := make([]string, 0, len(staged))
	for k := range staged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, full := range keys {
		if err := a.sub.SetItem(full, staged[full]); err != nil {
			a.rollback(staged, previous)
			return fmt.Errorf("write %q: %w", full, err)
		}
	}
	return nil
}

func (a *Adapter) rollback(staged, previous map[string]string) {
	for full := range staged {
		if _, keep := previous[full]; keep {
			continue
		}
		if err := a.sub.RemoveItem(full); err != nil {
			a.log.Error().Err(err).Str("key", full).Msg("rollback: remove staged value")
		}
	}
	for full, v := range previous {
		if err := a.sub.SetItem(full, v); err != nil {
			a.log.Error().Err(err).Str("key", full).Msg("rollback: restore value")
		}
	}
}

// ResetAll removes every key in the namespace.
func (a *Adapter) ResetAll() bool {
	keys, err := a.keys()
	if err != nil {
		a.log.Error().Err(err).Msg("reset: enumerate keys")
		return false
	}
	for _, k := range keys {
		if !a.Remove(k) {
			return false
		}
	}
	return true
}

// Close releases the substrate if it holds resources.
func (a *Adapter) Close() error {
	if c, ok := a.sub.(Closer); ok {
		return c.Close()
	}
	return nil
}
