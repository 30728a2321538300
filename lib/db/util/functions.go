package util

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// SumHash returns the sum of the byte values of key modulo buckets.
// It is deterministic and deliberately simple: collisions are expected and
// resolved by chaining in the caller. buckets must be at least 1.
func SumHash(key string, buckets int) int {
	var sum uint64
	for i := 0; i < len(key); i++ {
		sum += uint64(key[i])
	}
	return int(sum % uint64(buckets))
}
