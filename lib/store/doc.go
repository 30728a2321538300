// Package store provides the database level interface of fKV: a storage
// backend (db.KVDB) combined with file persistence, input validation and
// per-instance operation metrics.
//
// Key Components:
//
//   - IStore Interface: the operations an application uses (insert, put,
//     get, delete, load, save, print, close). Errors are *common.Error
//     values carrying a common.RetCode, so callers branch on
//     errors.Is(err, common.ErrNotFound) and friends.
//
//   - DBFactory: a function type that abstracts the creation of the
//     underlying db.KVDB, allowing tests and tools to inject a backend.
//
// Implementations:
//
//	- File Store (fstore): keeps every entry in memory and persists the
//	  whole database to a single file in a configurable format (see the
//	  serializer package). Saving goes through a temp file and a rename,
//	  so the target file is either the old or the new version.
//	  Available in the "github.com/ValentinKolb/fKV/lib/store/fstore" package.
//
// Thread Safety:
//
//	Stores are not safe for concurrent use. Callers must serialise access.
package store
