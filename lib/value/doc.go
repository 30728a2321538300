// Package value implements the typed value model of fKV: the closed Type
// enumeration with its canonical names and the conversion between raw
// strings and typed values.
//
// Canonical names:
//
//	int8  int16  int32  int64  float  double  bool  string
//
// Rendering rules (Format / Value.String):
//   - integers: decimal, no padding
//   - float: exactly 7 fractional digits
//   - double: exactly 15 fractional digits
//   - bool: "true" or "false"
//   - string: verbatim
//
// Parsing is strict: the whole input must be consumed, out-of-range numbers
// fail with RetCRangeError and bool accepts only the two literals. Narrow
// integers (int8/16/32) are parsed as int64 and then cast down, which
// silently discards the high bits. This mirrors the behaviour of existing
// database files and is covered by tests; it is not a range check.
package value
