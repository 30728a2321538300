package store

import (
	"io"

	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/entry"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() (db.KVDB, error)

// IStore is the interface of a database: a storage backend plus persistence.
// All errors are *common.Error values; use errors.Is with the common.Err*
// sentinels to inspect them. After Close every method except Close and
// WriteMetrics fails with InvalidArgument.
type IStore interface {
	// Insert adds a prepared entry. The store owns e on success; on
	// DuplicateKey nothing changes and the caller keeps e.
	Insert(e *entry.Entry) (err error)
	// Put creates the key or updates its value and type in place.
	// A failed update leaves the previous value untouched.
	Put(key, value, typ string) (err error)
	// Get returns a copy of the entry for key, or NotFound.
	Get(key string) (e *entry.Entry, err error)
	// GetByIndex returns a copy of the idx-th entry in storage order.
	// Only backends with db.FeatureIndexAccess support it.
	GetByIndex(idx int) (e *entry.Entry, err error)
	// Delete removes the key, or returns NotFound.
	Delete(key string) (err error)
	// Len returns the number of entries.
	Len() (n int, err error)

	// Load reads a file and inserts every entry in it. The first failure
	// aborts the load; entries inserted before it stay in the store.
	Load(path string) (err error)
	// Save writes all entries to path + ".tmp" and renames it over path.
	// On failure path is untouched and the temp file is left behind.
	Save(path string) (err error)
	// Print writes one "type<TAB>key<TAB>value" line per entry in storage order.
	Print(w io.Writer) (err error)

	// GetDBInfo returns metadata about the database underlying the store.
	GetDBInfo() (info db.DatabaseInfo, err error)
	// WriteMetrics writes the operation counters of this store in the
	// Prometheus text format.
	WriteMetrics(w io.Writer)
	// Close releases the backend. Calling it again is a no-op.
	Close() (err error)
}
