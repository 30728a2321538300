// Package testing provides standardised tests and benchmarks for
// storage backends that satisfy the db.KVDB interface.
//
// The package contains:
//   - testing: a conformance suite covering insert/put/get/delete semantics,
//     duplicate keys, failed updates, save order and Close
//   - benchmark: single-threaded throughput of the common operations
//
// RecordingWriter is exported so backend tests can inspect what Save emits
// or inject a write failure after a given number of entries.
//
// Example usage:
//
//	factory := func() db.KVDB {
//		return list.NewListDB()
//	}
//
//	dbtesting.RunKVDBTests(t, "List", factory)
//	dbtesting.RunKVDBBenchmarks(b, "List", factory)
package testing
