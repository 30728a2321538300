// Package util provides helpers shared by the fKV storage engines:
//   - functions: SumHash, the byte-sum bucket hash of the hash engine
//   - statistics: exact distribution statistics over bucket sizes, used to
//     report how evenly a hash backend spreads its keys
package util
