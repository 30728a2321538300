package common

import (
	"fmt"
	"strings"
)

// Defaults shared by the library and the CLI
const (
	DefaultFile           = "fkv.db"
	DefaultStorage        = "hash"
	DefaultFormat         = "text"
	DefaultBuckets        = 32
	DefaultLineBufferSize = 128
	DefaultLogLevel       = "info"
)

// Config holds all settings of a fKV instance as seen by the CLI.
type Config struct {
	// File is the path of the database file
	File string
	// Storage selects the backend (list or hash)
	Storage string
	// Format selects the serializer used for Load and Save (text, json, msgpack)
	Format string
	// Buckets is the number of hash buckets (hash storage only)
	Buckets int
	// LineBufferSize bounds a single line of the text format (including the newline)
	LineBufferSize int

	// Logging configuration
	LogLevel string
	// PrintMetrics dumps the operation counters after each command
	PrintMetrics bool
}

// DefaultConfig returns a config populated with the defaults
func DefaultConfig() Config {
	return Config{
		File:           DefaultFile,
		Storage:        DefaultStorage,
		Format:         DefaultFormat,
		Buckets:        DefaultBuckets,
		LineBufferSize: DefaultLineBufferSize,
		LogLevel:       DefaultLogLevel,
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Database")
	addField("File", c.File)
	addField("Storage", c.Storage)
	if c.Storage == "hash" {
		addField("Buckets", fmt.Sprintf("%d", c.Buckets))
	}

	addSection("Persistence")
	addField("Format", c.Format)
	addField("Line Buffer", fmt.Sprintf("%d bytes", c.LineBufferSize))

	addSection("Logging")
	addField("Log Level", c.LogLevel)
	addField("Print Metrics", fmt.Sprintf("%t", c.PrintMetrics))

	return sb.String()
}
