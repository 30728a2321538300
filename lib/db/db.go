package db

import (
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/entry"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Implementation identifies a storage backend. The value doubles as the
// storage selector accepted by ParseImplementation.
type Implementation string

const (
	ImplList Implementation = "list"
	ImplHash Implementation = "hash"
)

// ParseImplementation maps a storage selector to an Implementation.
// Anything other than "list" or "hash" fails with InvalidStorageKind.
func ParseImplementation(kind string) (Implementation, error) {
	switch Implementation(kind) {
	case ImplList:
		return ImplList, nil
	case ImplHash:
		return ImplHash, nil
	default:
		return "", common.NewError(common.RetCInvalidStorageKind, "invalid storage kind %q (expected %q or %q)", kind, ImplList, ImplHash)
	}
}

// Feature represents database features as bit flags
type Feature uint64

const (
	FeatureInsert      Feature = 1 << iota // Support for Insert operations
	FeaturePut                             // Support for Put operations
	FeatureGet                             // Support for Get operations
	FeatureDelete                          // Support for Delete operations
	FeatureSave                            // Support for Save operations
	FeatureIndexAccess                     // Support for positional access (GetByIndex)
)

func (f Feature) String() string {
	switch f {
	case FeatureInsert:
		return "Insert"
	case FeaturePut:
		return "Put"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureSave:
		return "Save"
	case FeatureIndexAccess:
		return "IndexAccess"
	default:
		return "Unknown"
	}
}

type DatabaseInfo struct {
	Entries           int            `json:"entries"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// EntryWriter is the sink a backend serializes its entries into.
type EntryWriter interface {
	// WriteEntry writes a single entry
	WriteEntry(e *entry.Entry) error
}

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines the interface of a storage backend.
// Keys are unique within a backend; every entry is owned by exactly one
// backend slot. Backends are not safe for concurrent use.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Insert adds the entry and takes ownership of it.
	// It fails with DuplicateKey if an entry with the same key exists.
	Insert(e *entry.Entry) (err error)

	// Put updates the value of an existing key in place or creates and inserts a new entry.
	// The number of entries grows only if the key was absent.
	Put(key, value, typ string) (err error)

	// Delete removes the entry with the given key.
	// It fails with NotFound if the key does not exist.
	Delete(key string) (err error)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get returns the stored entry for an exact key or a NotFound error.
	// The returned entry is owned by the backend.
	Get(key string) (e *entry.Entry, err error)

	// Len returns the number of entries
	Len() int

	// Range calls fn for every entry in storage order until fn returns false.
	Range(fn func(e *entry.Entry) bool)

	// --------------------------------------------------------------------------
	// Persistence Operations
	// --------------------------------------------------------------------------

	// Save writes every entry to w in storage order and stops at the first error.
	Save(w EntryWriter) (err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the database implementation supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close releases all entries. Calling it again is a no-op.
	Close() (err error)
}
