package storage

import "errors"

// ErrQuotaExceeded is returned by substrates that enforce a size limit when a
// write would push the stored bytes past it.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Substrate is a synchronous string key/value store. Keys are full keys;
// namespacing is the Adapter's job.
type Substrate interface {
	GetItem(key string) (string, bool, error)
	SetItem(key string, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}

// Replacer is implemented by substrates that can swap every key under a prefix
// for a new set in one step. Either all of items become visible or none do.
type Replacer interface {
	ReplaceAll(prefix string, items map[string]string) error
}

// Closer is implemented by substrates holding OS resources.
type Closer interface {
	Close() error
}
