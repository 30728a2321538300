package kv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/fKV/cmd/util"
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for the configured storage",
		Long: util.WrapString("Runs a set of benchmarks against a fresh in-memory store with the " +
			"configured storage, format and bucket count. The database file is neither read nor " +
			"written, save and load use a temp directory."),
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix = "__test"
	perfKeySpread = 100
	perfSkip      = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfKeySpread = viper.GetInt("keys")
	if perfKeySpread < 1 {
		return common.NewError(common.RetCInvalidArgument, "keys must be at least 1, got %d", perfKeySpread)
	}
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// benchmark describes one perf test. prepare fills the store before the
// timer starts, op runs once per iteration.
type benchmark struct {
	name    string
	prepare func(s store.IStore, keys []string) error
	op      func(s store.IStore, keys []string, i int) error
}

func fill(s store.IStore, keys []string) error {
	for i, k := range keys {
		if err := s.Put(k, strconv.Itoa(i), "int64"); err != nil {
			return err
		}
	}
	return nil
}

func benchmarks(tmpDir string) []benchmark {
	savePath := filepath.Join(tmpDir, "perf-save.fkv")
	loadPath := filepath.Join(tmpDir, "perf-load.fkv")

	return []benchmark{
		{
			name: "put",
			op: func(s store.IStore, keys []string, i int) error {
				return s.Put(keys[i%len(keys)], strconv.Itoa(i), "int64")
			},
		},
		{
			name:    "put-existing",
			prepare: fill,
			op: func(s store.IStore, keys []string, i int) error {
				return s.Put(keys[i%len(keys)], strconv.Itoa(i), "int64")
			},
		},
		{
			name:    "get",
			prepare: fill,
			op: func(s store.IStore, keys []string, i int) error {
				_, err := s.Get(keys[i%len(keys)])
				return err
			},
		},
		{
			name:    "get-not",
			prepare: fill,
			op: func(s store.IStore, _ []string, _ int) error {
				if _, err := s.Get("__missing"); !errors.Is(err, common.ErrNotFound) {
					return err
				}
				return nil
			},
		},
		{
			name:    "delete",
			prepare: fill,
			op: func(s store.IStore, keys []string, i int) error {
				// delete and re-create so the store never runs empty
				k := keys[i%len(keys)]
				if err := s.Delete(k); err != nil {
					return err
				}
				return s.Put(k, "0", "int64")
			},
		},
		{
			name:    "save",
			prepare: fill,
			op: func(s store.IStore, _ []string, _ int) error {
				return s.Save(savePath)
			},
		},
		{
			name: "load",
			prepare: func(s store.IStore, keys []string) error {
				if err := fill(s, keys); err != nil {
					return err
				}
				return s.Save(loadPath)
			},
			op: func(_ store.IStore, _ []string, _ int) error {
				fresh, err := util.NewStore(config)
				if err != nil {
					return err
				}
				defer fresh.Close()
				return fresh.Load(loadPath)
			},
		},
		{
			name:    "mixed",
			prepare: fill,
			op: func(s store.IStore, keys []string, i int) error {
				k := keys[i%len(keys)]
				switch i % 4 {
				case 0, 1:
					if _, err := s.Get(k); !errors.Is(err, common.ErrNotFound) {
						return err
					}
					return nil
				case 2:
					return s.Put(k, strconv.Itoa(i), "int64")
				default:
					if err := s.Delete(k); !errors.Is(err, common.ErrNotFound) {
						return err
					}
					return nil
				}
			},
		},
	}
}

func run(_ *cobra.Command, _ []string) error {
	config = util.GetConfig()

	fmt.Println("Performance testing tool for fKV")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	tmpDir, err := os.MkdirTemp("", "fkv-perf-")
	if err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	fmt.Println("starting tests...")

	keys := getKeys()
	results := make(map[string]testing.BenchmarkResult)

	for _, bench := range benchmarks(tmpDir) {
		if shouldSkip(bench.name) {
			results[bench.name] = testing.BenchmarkResult{}
			printResult(bench.name, results[bench.name])
			continue
		}

		var benchErr error
		result := testing.Benchmark(func(b *testing.B) {
			s, err := util.NewStore(config)
			if err != nil {
				benchErr = err
				return
			}
			b.Cleanup(func() {
				_ = s.Close()
			})

			if bench.prepare != nil {
				if err := bench.prepare(s, keys); err != nil {
					benchErr = err
					return
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := bench.op(s, keys, i); err != nil {
					benchErr = err
					return
				}
			}
		})
		if benchErr != nil {
			return fmt.Errorf("benchmark %s failed: %w", bench.name, benchErr)
		}

		results[bench.name] = result
		printResult(bench.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates the test keys
func getKeys() []string {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%d", perfKeyPrefix, i)
	}
	return keys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.N == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config common.Config) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Storage", "Format", "Buckets", "LineBufferSize", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.N == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			config.Storage,
			config.Format,
			strconv.Itoa(config.Buckets),
			strconv.Itoa(config.LineBufferSize),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
