// Package hash implements the hash table storage backend of fKV.
//
// The table is a fixed array of N buckets, each a list.List. A key is
// routed to bucket sum(bytes(key)) mod N (util.SumHash); every operation is
// delegated to that bucket, so the unique-key invariant of the list holds
// for the whole table. Collisions are expected and resolved by chaining.
//
// Iteration and Save visit buckets in index order and each bucket in
// insertion order. There is no rehashing; the order is stable for the
// lifetime of a table but it is not the global insertion order.
//
// GetInfo reports bucket distribution statistics (see util.DistributionStats).
//
// Thread Safety:
//
//	A Hash is not safe for concurrent use.
package hash
