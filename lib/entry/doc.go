// Package entry implements the typed key-value record stored by every fKV
// backend and its one-line text form:
//
//	<type_name>:<key>=<value>;
//
// Keys are at most MaxKeyLength bytes and never contain a separator or line
// break. Lines that are exactly "\n" or start with '#' are comments; they
// parse to a nil entry and are never written.
package entry
