// Package common holds the ambient pieces shared by all fKV packages:
//
//   - Error, RetCode and the Err* sentinels: the error taxonomy every
//     operation reports through. Errors compare by code with errors.Is.
//   - The logger factory that plugs into dragonboat's logger package.
//     Library packages log through logger.GetLogger(name); InitLoggers
//     installs the formatting and the level for all of them.
//   - Config: the settings the CLI reads from flags and environment.
package common
