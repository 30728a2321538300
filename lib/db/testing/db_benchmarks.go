package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/fKV/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementations.
// Backends are not safe for concurrent use, so nothing here runs in parallel.
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Put", func(b *testing.B) {
			benchmarkPut(b, factory())
		})

		b.Run("PutExisting", func(b *testing.B) {
			benchmarkPutExisting(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Get(not)", func(b *testing.B) {
			benchmarkGetNot(b, factory())
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory())
		})

		b.Run("Save", func(b *testing.B) {
			benchmarkSave(b, factory())
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory())
		})
	})
}

// number of keys used to pre-populate a database
const benchKeys = 1000

func populate(b *testing.B, database db.KVDB, n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("bench-key-%d", i)
		if err := database.Put(keys[i], fmt.Sprintf("%d", i), "int64"); err != nil {
			b.Fatalf("Put failed: %v", err)
		}
	}
	return keys
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation creating new keys
func benchmarkPut(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// keep the structure bounded, linear backends degrade quadratically
		if i%benchKeys == 0 {
			b.StopTimer()
			database.Close()
			b.StartTimer()
		}
		database.Put(fmt.Sprintf("bench-key-%d", i%benchKeys), "42", "int32")
	}
}

// Benchmark for Put operation with existing keys
func benchmarkPutExisting(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	keys := populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Put(keys[i%benchKeys], fmt.Sprintf("%d", i), "int64")
	}
}

func benchmarkGet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureGet)

	keys := populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Get(keys[i%benchKeys])
	}
}

// Benchmark for Get operation with key miss (full scan of a chain)
func benchmarkGetNot(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureGet)

	populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Get("missing-key")
	}
}

func benchmarkDelete(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureDelete)

	keys := populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i % benchKeys
		if idx == 0 && i > 0 {
			b.StopTimer()
			populate(b, database, benchKeys)
			b.StartTimer()
		}
		database.Delete(keys[idx])
	}
}

func benchmarkSave(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureSave)

	populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := &RecordingWriter{Lines: make([]string, 0, benchKeys)}
		if err := database.Save(w); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
}

// Benchmark for mixed usage patterns
func benchmarkMixedUsage(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureGet|db.FeatureDelete)

	keys := populate(b, database, benchKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := keys[i%benchKeys]

		// Select operation (0-1: get, 2: put, 3: delete)
		switch i % 4 {
		case 0, 1:
			database.Get(key)
		case 2:
			database.Put(key, fmt.Sprintf("%d", i), "int64")
		case 3:
			database.Delete(key)
		}
	}
}
