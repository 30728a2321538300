package testing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/ValentinKolb/fKV/lib/value"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Insert&Get", func(t *testing.T) {
			testInsertGet(t, factory())
		})

		t.Run("InsertDuplicate", func(t *testing.T) {
			testInsertDuplicate(t, factory())
		})

		t.Run("PutUpdatesInPlace", func(t *testing.T) {
			testPutUpdatesInPlace(t, factory())
		})

		t.Run("PutFailureKeepsValue", func(t *testing.T) {
			testPutFailureKeepsValue(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("Save", func(t *testing.T) {
			testSave(t, factory())
		})

		t.Run("SaveFailsFast", func(t *testing.T) {
			testSaveFailsFast(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory())
		})

		t.Run("AllTypes", func(t *testing.T) {
			testAllTypes(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// requireCode fails the test if err does not carry the expected code
func requireCode(t testing.TB, err error, code common.RetCode, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error %s, got nil", context, code)
		return
	}
	if got := common.CodeOf(err); got != code {
		t.Errorf("%s: expected error %s, got %s (%v)", context, code, got, err)
	}
}

// mustEntry creates an entry or fails the test
func mustEntry(t testing.TB, key, val, typ string) *entry.Entry {
	t.Helper()
	e, err := entry.New(key, val, typ)
	if err != nil {
		t.Fatalf("failed to create entry %q: %v", key, err)
	}
	return e
}

// RecordingWriter is a db.EntryWriter that keeps the serialized lines and
// can be told to fail after a number of entries.
type RecordingWriter struct {
	Lines     []string
	FailAfter int // fail on the entry with this (1-based) position, 0 = never
}

var ErrRecordingWriter = errors.New("recording writer: injected failure")

func (w *RecordingWriter) WriteEntry(e *entry.Entry) error {
	if w.FailAfter > 0 && len(w.Lines)+1 >= w.FailAfter {
		return ErrRecordingWriter
	}
	line, err := e.MarshalLine()
	if err != nil {
		return err
	}
	w.Lines = append(w.Lines, line)
	return nil
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureInsert|db.FeatureGet)

	e := mustEntry(t, "test_key", "42", "int32")
	if err := database.Insert(e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := database.Get("test_key")
	if err != nil {
		t.Fatalf("Expected key to exist after Insert: %v", err)
	}
	if got != e {
		t.Errorf("Expected Get to return the inserted entry")
	}
	if got.Value() != value.Int32(42) {
		t.Errorf("Expected value 42, got %v", got.Value())
	}
	if database.Len() != 1 {
		t.Errorf("Expected Len 1, got %d", database.Len())
	}

	_, err = database.Get("nonexistent_key")
	requireCode(t, err, common.RetCNotFound, "Get(nonexistent)")
}

func testInsertDuplicate(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureInsert|db.FeatureGet)

	if err := database.Insert(mustEntry(t, "dup", "1", "int8")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err := database.Insert(mustEntry(t, "dup", "2", "int8"))
	requireCode(t, err, common.RetCDuplicateKey, "second Insert")

	if database.Len() != 1 {
		t.Errorf("Expected Len 1 after rejected insert, got %d", database.Len())
	}
	got, _ := database.Get("dup")
	if got == nil || got.Value() != value.Int8(1) {
		t.Errorf("Expected the first entry to survive, got %v", got)
	}
}

func testPutUpdatesInPlace(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeatureGet)

	if err := database.Put("k", "true", "bool"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := database.Get("k")
	if err != nil || got.Type() != value.TypeBool || got.Value() != value.Bool(true) {
		t.Fatalf("Expected bool true, got %v (%v)", got, err)
	}

	if err := database.Put("k", "false", "bool"); err != nil {
		t.Fatalf("Put (update) failed: %v", err)
	}
	got, err = database.Get("k")
	if err != nil || got.Value() != value.Bool(false) {
		t.Errorf("Expected bool false after update, got %v (%v)", got, err)
	}
	if got != nil && got.Key() != "k" {
		t.Errorf("Key changed on update: %q", got.Key())
	}
	if database.Len() != 1 {
		t.Errorf("Expected Len 1 after update, got %d", database.Len())
	}

	// type change via put
	if err := database.Put("k", "3.5", "double"); err != nil {
		t.Fatalf("Put (type change) failed: %v", err)
	}
	got, _ = database.Get("k")
	if got == nil || got.Type() != value.TypeFloat64 {
		t.Errorf("Expected double after type change, got %v", got)
	}
}

func testPutFailureKeepsValue(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeatureGet)

	if err := database.Put("n", "7", "int16"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	requireCode(t, database.Put("n", "seven", "int16"), common.RetCParseError, "Put(bad value)")
	requireCode(t, database.Put("n", "7", "int128"), common.RetCInvalidType, "Put(bad type)")
	requireCode(t, database.Put("n", "99999999999999999999", "int64"), common.RetCRangeError, "Put(overflow)")

	got, err := database.Get("n")
	if err != nil || got.Value() != value.Int16(7) {
		t.Errorf("Expected old value 7 to survive failed updates, got %v (%v)", got, err)
	}

	// failed create does not insert anything
	requireCode(t, database.Put("m", "x", "int8"), common.RetCParseError, "Put(new, bad value)")
	if _, err := database.Get("m"); common.CodeOf(err) != common.RetCNotFound {
		t.Errorf("Expected no entry after failed create, got %v", err)
	}
	if database.Len() != 1 {
		t.Errorf("Expected Len 1, got %d", database.Len())
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeatureGet|db.FeatureDelete)

	for i := 0; i < 10; i++ {
		if err := database.Put(fmt.Sprintf("key-%d", i), fmt.Sprintf("%d", i*100), "int32"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	for i := 0; i < 10; i += 2 {
		if err := database.Delete(fmt.Sprintf("key-%d", i)); err != nil {
			t.Errorf("Delete(key-%d) failed: %v", i, err)
		}
	}

	if database.Len() != 5 {
		t.Errorf("Expected Len 5 after deleting 5 of 10, got %d", database.Len())
	}

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key-%d", i)
		got, err := database.Get(key)
		if i%2 == 0 {
			requireCode(t, err, common.RetCNotFound, "Get(deleted "+key+")")
			continue
		}
		if err != nil {
			t.Errorf("Expected %s to exist: %v", key, err)
			continue
		}
		if got.Value() != value.Int32(int32(i*100)) {
			t.Errorf("Expected %s = %d, got %v", key, i*100, got.Value())
		}
	}

	requireCode(t, database.Delete("key-0"), common.RetCNotFound, "Delete(already deleted)")
	requireCode(t, database.Delete("nonexistent"), common.RetCNotFound, "Delete(nonexistent)")
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireCode(t, database.Insert(nil), common.RetCInvalidArgument, "Insert(nil)")
	requireCode(t, database.Put("", "1", "int8"), common.RetCInvalidArgument, "Put(empty key)")
	requireCode(t, database.Put("k", "", "int8"), common.RetCInvalidArgument, "Put(empty value)")
	requireCode(t, database.Put("k", "1", ""), common.RetCInvalidArgument, "Put(empty type)")
	requireCode(t, database.Delete(""), common.RetCInvalidArgument, "Delete(empty key)")
	_, err := database.Get("")
	requireCode(t, err, common.RetCInvalidArgument, "Get(empty key)")

	if database.Len() != 0 {
		t.Errorf("Expected empty database after rejected operations, got %d", database.Len())
	}

	// keys that only differ in byte order share a hash bucket
	for _, key := range []string{"ab", "ba"} {
		if err := database.Put(key, key, "string"); err != nil {
			t.Fatalf("Put(%s) failed: %v", key, err)
		}
	}
	for _, key := range []string{"ab", "ba"} {
		got, err := database.Get(key)
		if err != nil || got.Value() != value.String(key) {
			t.Errorf("Expected %s = %s, got %v (%v)", key, key, got, err)
		}
	}
}

func testSave(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeatureSave)

	w := &RecordingWriter{}
	if err := database.Save(w); err != nil {
		t.Fatalf("Save of empty database failed: %v", err)
	}
	if len(w.Lines) != 0 {
		t.Errorf("Expected no lines for empty database, got %d", len(w.Lines))
	}

	expected := map[string]bool{}
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("save-%d", i)
		if err := database.Put(key, fmt.Sprintf("%d", i), "int64"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		expected[fmt.Sprintf("int64:%s=%d;\n", key, i)] = true
	}

	w = &RecordingWriter{}
	if err := database.Save(w); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(w.Lines) != len(expected) {
		t.Errorf("Expected %d lines, got %d", len(expected), len(w.Lines))
	}
	for _, line := range w.Lines {
		if !expected[line] {
			t.Errorf("Unexpected line %q", line)
		}
		delete(expected, line)
	}

	// Save order equals Range order
	var rangeLines []string
	database.Range(func(e *entry.Entry) bool {
		line, _ := e.MarshalLine()
		rangeLines = append(rangeLines, line)
		return true
	})
	for i := range rangeLines {
		if i < len(w.Lines) && rangeLines[i] != w.Lines[i] {
			t.Errorf("Save order differs from Range order at %d: %q vs %q", i, w.Lines[i], rangeLines[i])
			break
		}
	}
}

func testSaveFailsFast(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut|db.FeatureSave)

	for i := 0; i < 10; i++ {
		if err := database.Put(fmt.Sprintf("k%d", i), "1", "int8"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	w := &RecordingWriter{FailAfter: 4}
	err := database.Save(w)
	if !errors.Is(err, ErrRecordingWriter) {
		t.Errorf("Expected injected error, got %v", err)
	}
	if len(w.Lines) != 3 {
		t.Errorf("Expected Save to stop after 3 entries, got %d", len(w.Lines))
	}
}

func testRange(t *testing.T, database db.KVDB) {
	defer database.Close()

	for i := 0; i < 20; i++ {
		if err := database.Put(fmt.Sprintf("r%d", i), "x", "string"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	seen := map[string]bool{}
	database.Range(func(e *entry.Entry) bool {
		if seen[e.Key()] {
			t.Errorf("Range visited %s twice", e.Key())
		}
		seen[e.Key()] = true
		return true
	})
	if len(seen) != 20 {
		t.Errorf("Expected Range to visit 20 entries, got %d", len(seen))
	}

	count := 0
	database.Range(func(e *entry.Entry) bool {
		count++
		return count < 5
	})
	if count != 5 {
		t.Errorf("Expected Range to stop after 5 entries, got %d", count)
	}
}

func testClose(t *testing.T, database db.KVDB) {
	for i := 0; i < 5; i++ {
		_ = database.Put(fmt.Sprintf("c%d", i), "1", "int8")
	}
	if err := database.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if database.Len() != 0 {
		t.Errorf("Expected no entries after Close, got %d", database.Len())
	}
	if err := database.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func testAllTypes(t *testing.T, database db.KVDB) {
	defer database.Close()

	cases := []struct {
		key, val, typ string
		want          value.Value
	}{
		{"int8_key", "127", "int8", value.Int8(127)},
		{"int16_key", "32767", "int16", value.Int16(32767)},
		{"int32_key", "2147483647", "int32", value.Int32(2147483647)},
		{"int64_key", "9223372036854775807", "int64", value.Int64(9223372036854775807)},
		{"float_key", "3.14", "float", value.Float32(3.14)},
		{"double_key", "3.141592653589793", "double", value.Float64(3.141592653589793)},
		{"bool_key", "true", "bool", value.Bool(true)},
		{"string_key", "hello world", "string", value.String("hello world")},
	}

	for _, c := range cases {
		if err := database.Put(c.key, c.val, c.typ); err != nil {
			t.Errorf("Put(%s) failed: %v", c.key, err)
		}
	}
	for _, c := range cases {
		got, err := database.Get(c.key)
		if err != nil {
			t.Errorf("Get(%s) failed: %v", c.key, err)
			continue
		}
		if got.Value() != c.want {
			t.Errorf("Expected %s = %v, got %v", c.key, c.want, got.Value())
		}
	}
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	live := map[string]string{}
	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("user-%d", i%60)
		val := fmt.Sprintf("%d", i)
		if err := database.Put(key, val, "int64"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		live[key] = val

		if i%7 == 0 {
			victim := fmt.Sprintf("user-%d", (i/7)%60)
			if _, ok := live[victim]; ok {
				if err := database.Delete(victim); err != nil {
					t.Errorf("Delete(%s) failed: %v", victim, err)
				}
				delete(live, victim)
			}
		}
	}

	if database.Len() != len(live) {
		t.Errorf("Expected Len %d, got %d", len(live), database.Len())
	}
	for key, val := range live {
		got, err := database.Get(key)
		if err != nil {
			t.Errorf("Expected %s to exist: %v", key, err)
			continue
		}
		if got.Value().String() != val {
			t.Errorf("Expected %s = %s, got %s", key, val, got.Value())
		}
	}
}
