// Package db defines the contract between the fKV facade and its storage
// backends.
//
// Key Components:
//
//   - KVDB Interface: Insert, Put, Delete, Get, Len, Range and Save over
//     entry.Entry values. All implementations enforce unique keys and report
//     failures through common.Error codes (DuplicateKey, NotFound, ...).
//
//   - Implementation: the storage selector ("list" or "hash"). It is chosen
//     once when a database is created and never changes afterwards.
//
//   - Feature Flags: backends advertise optional capabilities such as
//     positional access through SupportsFeature.
//
//   - EntryWriter: the sink Save writes into. The serializer package provides
//     the file formats implementing it.
//
// Related Packages:
//
// The engines/list package provides a singly-linked list backend with O(n)
// operations that keeps insertion order. The engines/hash package provides a
// fixed-size bucket array whose buckets are list backends; a key always lives
// in bucket sum(bytes(key)) mod N.
//
// The testing package (github.com/ValentinKolb/fKV/lib/db/testing) provides
// a conformance suite and benchmarks for any KVDB implementation.
package db
