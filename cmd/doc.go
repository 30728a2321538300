// Package cmd implements the command-line interface of fKV. Every command
// works on one database file: it loads the file (if present), applies the
// operation and writes the file back for mutating commands.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (put, get, del, print, info, perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set with FKV_* environment variables (dashes become
// underscores) or in a .env / .env.local file.
//
// See fkv -help for a list of all commands.
package cmd
