package util

import (
	"errors"
	"os"
	"strings"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/serializer"
	"github.com/ValentinKolb/fKV/lib/store"
	"github.com/ValentinKolb/fKV/lib/store/fstore"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var log = logger.GetLogger(common.LogCmd)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the database flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "file"
	cmd.PersistentFlags().String(key, common.DefaultFile, WrapString("Path of the database file"))

	key = "storage"
	cmd.PersistentFlags().String(key, common.DefaultStorage, WrapString("Storage backend to use (list, hash)"))

	key = "format"
	cmd.PersistentFlags().String(key, common.DefaultFormat, WrapString("Format of the database file (text, json, msgpack)"))

	key = "buckets"
	cmd.PersistentFlags().Int(key, common.DefaultBuckets, WrapString("Number of buckets of the hash storage (ignored for list)"))

	key = "line-buffer"
	cmd.PersistentFlags().Int(key, common.DefaultLineBufferSize, WrapString("Size of the line buffer used to read the text format (in bytes). Longer lines can not be loaded"))

	key = "log-level"
	cmd.PersistentFlags().String(key, common.DefaultLogLevel, WrapString("Log level (debug, info, warn, error)"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print the operation metrics in the Prometheus text format after the command"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("fkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the configuration from viper
func GetConfig() common.Config {
	return common.Config{
		File:           viper.GetString("file"),
		Storage:        viper.GetString("storage"),
		Format:         viper.GetString("format"),
		Buckets:        viper.GetInt("buckets"),
		LineBufferSize: viper.GetInt("line-buffer"),
		LogLevel:       viper.GetString("log-level"),
		PrintMetrics:   viper.GetBool("metrics"),
	}
}

// NewStore creates an empty store as configured
func NewStore(config common.Config) (store.IStore, error) {
	ser, err := serializer.ByName(config.Format, config.LineBufferSize)
	if err != nil {
		return nil, err
	}
	return fstore.NewFileStore(config.Storage, &fstore.Options{
		Buckets:        config.Buckets,
		LineBufferSize: config.LineBufferSize,
		Serializer:     ser,
	})
}

// OpenStore creates a store as configured and loads the database file.
// A missing file is not an error, the store then starts empty.
func OpenStore(config common.Config) (store.IStore, error) {
	s, err := NewStore(config)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(config.File); errors.Is(err, os.ErrNotExist) {
		log.Infof("database file %s does not exist, starting empty", config.File)
		return s, nil
	}

	if err := s.Load(config.File); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
