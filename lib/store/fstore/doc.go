// Package fstore implements store.IStore as an in-memory database persisted
// to a single file.
//
// The storage kind is fixed when the store is created:
//
//   - "list": entries in insertion order (lib/db/engines/list), every
//     operation is a linear scan. Supports positional access.
//   - "hash": a fixed number of list buckets (lib/db/engines/hash), keys are
//     routed by their byte sum.
//
// Persistence:
//
//	Load reads a file with the configured serializer and inserts every entry
//	in file order. Loading stops at the first malformed record or duplicate
//	key; entries inserted until then are kept (there is no rollback).
//
//	Save writes the whole database to "<path>.tmp", flushes and syncs it,
//	and renames it over <path>. If any step fails, <path> keeps its previous
//	content and the temp file is left behind.
//
// Metrics:
//
//	Every store owns a VictoriaMetrics set with the counters
//	fkv_ops_total{op,storage} and fkv_errors_total{op,storage}, the gauge
//	fkv_entries{storage} and the histogram fkv_file_duration_seconds{op}.
//	WriteMetrics renders them in the Prometheus text format.
//
// Usage Example:
//
//	s, err := fstore.NewFileStore("hash", fstore.DefaultOptions())
//	if err != nil { ... }
//	defer s.Close()
//
//	_ = s.Load("data.fkv")
//	_ = s.Put("answer", "42", "int32")
//	e, _ := s.Get("answer")
//	_ = s.Save("data.fkv")
//
// Thread Safety:
//
//	A store is not safe for concurrent use.
package fstore
