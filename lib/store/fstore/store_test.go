package fstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/db/engines/hash"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/ValentinKolb/fKV/lib/serializer"
	"github.com/ValentinKolb/fKV/lib/store"
	"github.com/ValentinKolb/fKV/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []string{"list", "hash"}

func newStore(t *testing.T, kind string, opts *Options) store.IStore {
	t.Helper()
	s, err := NewFileStore(kind, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewFileStoreKinds(t *testing.T) {
	for _, kind := range kinds {
		s := newStore(t, kind, nil)
		info, err := s.GetDBInfo()
		require.NoError(t, err)
		assert.Equal(t, db.Implementation(kind), info.DbType)
	}

	for _, kind := range []string{"", "L", "H", "tree", "LIST"} {
		s, err := NewFileStore(kind, nil)
		assert.Nil(t, s)
		assert.ErrorIs(t, err, common.ErrInvalidStorageKind, "kind %q", kind)
	}

	_, err := NewFileStore("hash", &Options{Buckets: -1})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = New(nil, nil)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestPutUpdate(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, nil)

			require.NoError(t, s.Put("k", "true", "bool"))
			e, err := s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, value.TypeBool, e.Type())
			assert.Equal(t, value.Bool(true), e.Value())

			require.NoError(t, s.Put("k", "false", "bool"))
			e, err = s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, "k", e.Key())
			assert.Equal(t, value.Bool(false), e.Value())

			n, err := s.Len()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, nil)
			require.NoError(t, s.Put("k", "1", "int8"))

			e, err := s.Get("k")
			require.NoError(t, err)
			require.NoError(t, e.Update("2", ""))

			again, err := s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, value.Int8(1), again.Value())
		})
	}
}

func TestDeleteScenario(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, nil)

			for i := 0; i < 10; i++ {
				require.NoError(t, s.Put(fmt.Sprintf("key%d", i), fmt.Sprintf("%d", i*11), "int32"))
			}
			for i := 0; i < 5; i++ {
				require.NoError(t, s.Delete(fmt.Sprintf("key%d", i)))
			}

			for i := 0; i < 10; i++ {
				e, err := s.Get(fmt.Sprintf("key%d", i))
				if i < 5 {
					assert.ErrorIs(t, err, common.ErrNotFound)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, value.Int32(int32(i*11)), e.Value())
			}

			assert.ErrorIs(t, s.Delete("key0"), common.ErrNotFound)
		})
	}
}

func TestInputValidation(t *testing.T) {
	s := newStore(t, "hash", nil)

	assert.ErrorIs(t, s.Insert(nil), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Put("", "1", "int8"), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Put("k", "", "int8"), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Put("k", "1", ""), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Delete(""), common.ErrInvalidArgument)
	_, err := s.Get("")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Load(""), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Save(""), common.ErrInvalidArgument)
	assert.ErrorIs(t, s.Print(nil), common.ErrInvalidArgument)

	assert.ErrorIs(t, s.Put("k", "abc", "int8"), common.ErrParse)
	assert.ErrorIs(t, s.Put("k", "1", "uint8"), common.ErrInvalidType)
}

func TestInsertDuplicate(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			s := newStore(t, kind, nil)
			e1, _ := entry.New("dup", "1", "int64")
			e2, _ := entry.New("dup", "2", "int64")
			require.NoError(t, s.Insert(e1))
			assert.ErrorIs(t, s.Insert(e2), common.ErrDuplicateKey)

			got, err := s.Get("dup")
			require.NoError(t, err)
			assert.Equal(t, value.Int64(1), got.Value())
		})
	}
}

func TestGetByIndex(t *testing.T) {
	l := newStore(t, "list", nil)
	require.NoError(t, l.Put("a", "1", "int8"))
	require.NoError(t, l.Put("b", "2", "int8"))

	e, err := l.GetByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, "b", e.Key())
	_, err = l.GetByIndex(2)
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)

	h := newStore(t, "hash", nil)
	_, err = h.GetByIndex(0)
	assert.ErrorIs(t, err, common.ErrUnsupported)
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func fillAllTypes(t *testing.T, s store.IStore) {
	rows := [][3]string{
		{"a_int8", "-7", "int8"},
		{"a_int16", "1234", "int16"},
		{"a_int32", "2147483647", "int32"},
		{"a_int64", "-9223372036854775808", "int64"},
		{"a_float", "0.5", "float"},
		{"a_double", "-1.25", "double"},
		{"a_bool", "true", "bool"},
		{"a_string", "some text", "string"},
	}
	for _, r := range rows {
		require.NoError(t, s.Put(r[0], r[1], r[2]))
	}
	for i := 0; i < 40; i++ {
		require.NoError(t, s.Put(fmt.Sprintf("n%d", i), fmt.Sprintf("%d", i), "int16"))
	}
}

func snapshot(t *testing.T, s store.IStore) map[string]string {
	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	out := map[string]string{}
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		parts := strings.SplitN(line, "\t", 3)
		require.Len(t, parts, 3)
		out[parts[1]] = parts[0] + "\t" + parts[2]
	}
	return out
}

func TestSaveLoadRoundTrip(t *testing.T) {
	formats := map[string]serializer.ISerializer{
		"text":    nil,
		"json":    serializer.NewJSONSerializer(),
		"msgpack": serializer.NewMsgPackSerializer(),
	}

	for _, kind := range kinds {
		for name, ser := range formats {
			t.Run(kind+"/"+name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "db.fkv")
				opts := &Options{Buckets: 7, Serializer: ser}

				src := newStore(t, kind, opts)
				fillAllTypes(t, src)
				require.NoError(t, src.Save(path))

				_, err := os.Stat(path + TempSuffix)
				assert.True(t, os.IsNotExist(err), "temp file must be gone after a successful save")

				dst := newStore(t, kind, opts)
				require.NoError(t, dst.Load(path))
				assert.Equal(t, snapshot(t, src), snapshot(t, dst))
			})
		}
	}
}

func TestSaveTextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.fkv")
	s := newStore(t, "list", nil)
	require.NoError(t, s.Put("int32_key", "2147483647", "int32"))
	require.NoError(t, s.Put("f", "3.14", "float"))
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int32:int32_key=2147483647;\nfloat:f=3.1400001;\n", string(data))
}

func TestSaveEmptyAndOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.fkv")
	require.NoError(t, os.WriteFile(path, []byte("int8:old=1;\n"), 0o644))

	s := newStore(t, "hash", nil)
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

// failingSerializer wraps the text format and fails after a number of entries
type failingSerializer struct {
	serializer.ISerializer
	failAfter int
}

type failingEncoder struct {
	serializer.IEncoder
	left int
}

var errInjected = errors.New("injected encoder failure")

func (f *failingSerializer) NewEncoder(w io.Writer) serializer.IEncoder {
	return &failingEncoder{IEncoder: f.ISerializer.NewEncoder(w), left: f.failAfter}
}

func (f *failingEncoder) WriteEntry(e *entry.Entry) error {
	if f.left == 0 {
		return errInjected
	}
	f.left--
	return f.IEncoder.WriteEntry(e)
}

func TestSaveIsAtomic(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "db.fkv")
			original := []byte("# keep me\nint8:old=1;\n")
			require.NoError(t, os.WriteFile(path, original, 0o644))

			text, _ := serializer.NewTextSerializer(0)
			s := newStore(t, kind, &Options{Serializer: &failingSerializer{ISerializer: text, failAfter: 3}})
			fillAllTypes(t, s)

			err := s.Save(path)
			assert.ErrorIs(t, err, errInjected)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, data)

			_, err = os.Stat(path + TempSuffix)
			assert.NoError(t, err, "temp file stays after a failed save")
		})
	}
}

func TestSaveRejectsOverlongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.fkv")
	s := newStore(t, "list", &Options{LineBufferSize: 24})
	require.NoError(t, s.Put("k", "short", "string"))
	require.NoError(t, s.Save(path))

	require.NoError(t, s.Put("k2", "a value that is far too long", "string"))
	assert.ErrorIs(t, s.Save(path), common.ErrMalformedLine)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "string:k=short;\n", string(data))
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	s := newStore(t, "hash", nil)
	err := s.Save(filepath.Join(t.TempDir(), "missing", "db.fkv"))
	assert.ErrorIs(t, err, common.ErrIo)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		s := newStore(t, "hash", nil)
		assert.ErrorIs(t, s.Load(filepath.Join(dir, "nope.fkv")), common.ErrIo)
	})

	t.Run("malformed line keeps earlier entries", func(t *testing.T) {
		path := filepath.Join(dir, "malformed.fkv")
		require.NoError(t, os.WriteFile(path, []byte("int8:a=1;\nbad_format\nint8:b=2;\n"), 0o644))

		s := newStore(t, "list", nil)
		assert.ErrorIs(t, s.Load(path), common.ErrMalformedLine)

		_, err := s.Get("a")
		assert.NoError(t, err)
		_, err = s.Get("b")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("duplicate key in file", func(t *testing.T) {
		path := filepath.Join(dir, "dup.fkv")
		require.NoError(t, os.WriteFile(path, []byte("int8:a=1;\nint8:a=2;\n"), 0o644))

		for _, kind := range kinds {
			s := newStore(t, kind, nil)
			assert.ErrorIs(t, s.Load(path), common.ErrDuplicateKey)
			e, err := s.Get("a")
			require.NoError(t, err)
			assert.Equal(t, value.Int8(1), e.Value())
		}
	})

	t.Run("load into non-empty store", func(t *testing.T) {
		path := filepath.Join(dir, "existing.fkv")
		require.NoError(t, os.WriteFile(path, []byte("int8:a=1;\n"), 0o644))

		s := newStore(t, "hash", nil)
		require.NoError(t, s.Put("a", "5", "int8"))
		assert.ErrorIs(t, s.Load(path), common.ErrDuplicateKey)
	})

	t.Run("comments and blank lines", func(t *testing.T) {
		path := filepath.Join(dir, "comments.fkv")
		require.NoError(t, os.WriteFile(path, []byte("# header\n\nint8:a=1;\n# int8:b=2;\n"), 0o644))

		s := newStore(t, "hash", nil)
		require.NoError(t, s.Load(path))
		n, _ := s.Len()
		assert.Equal(t, 1, n)
	})
}

func TestPrint(t *testing.T) {
	s := newStore(t, "list", nil)
	require.NoError(t, s.Put("x", "1", "int8"))
	require.NoError(t, s.Put("y", "hi", "string"))

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	assert.Equal(t, "int8\tx\t1\nstring\ty\thi\n", buf.String())
}

func TestClose(t *testing.T) {
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			s, err := NewFileStore(kind, nil)
			require.NoError(t, err)
			require.NoError(t, s.Put("k", "1", "int8"))

			require.NoError(t, s.Close())
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Put("k", "1", "int8"), common.ErrInvalidArgument)
			_, err = s.Get("k")
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.ErrorIs(t, s.Delete("k"), common.ErrInvalidArgument)
			assert.ErrorIs(t, s.Save(filepath.Join(t.TempDir(), "x")), common.ErrInvalidArgument)
			_, err = s.GetDBInfo()
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}
}

func TestHashInfo(t *testing.T) {
	s := newStore(t, "hash", &Options{Buckets: 4})
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Put(k, "1", "int8"))
	}

	info, err := s.GetDBInfo()
	require.NoError(t, err)
	assert.Equal(t, 5, info.Entries)
	meta, ok := info.Metadata.(*hash.Metadata)
	require.True(t, ok)
	assert.Equal(t, 4, meta.BucketCount)
	assert.Equal(t, 4, meta.UsedBuckets)
	assert.Equal(t, int64(2), meta.BucketDistribution.Max)
}

func TestMetrics(t *testing.T) {
	s := newStore(t, "hash", nil)
	require.NoError(t, s.Put("k", "1", "int8"))
	require.NoError(t, s.Put("k", "2", "int8"))
	_, _ = s.Get("missing")
	require.NoError(t, s.Save(filepath.Join(t.TempDir(), "m.fkv")))

	var buf bytes.Buffer
	s.WriteMetrics(&buf)
	out := buf.String()

	assert.Contains(t, out, `fkv_ops_total{op="put",storage="hash"} 2`)
	assert.Contains(t, out, `fkv_ops_total{op="get",storage="hash"} 1`)
	assert.Contains(t, out, `fkv_errors_total{op="get",storage="hash"} 1`)
	assert.Contains(t, out, `fkv_entries{storage="hash"} 1`)
	assert.Contains(t, out, `fkv_file_duration_seconds_count{op="save"} 1`)
}

func TestPutOfUnsaveableValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.fkv")
	s := newStore(t, "hash", nil)
	require.NoError(t, s.Put("ok", "1", "int8"))
	require.NoError(t, s.Save(path))

	// accepted by the store, but its line exceeds the default buffer
	require.NoError(t, s.Put("d", "1e300", "double"))
	assert.ErrorIs(t, s.Save(path), common.ErrMalformedLine)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int8:ok=1;\n", string(data))

	// shrinking the value makes the store saveable again
	require.NoError(t, s.Put("d", "1", "double"))
	require.NoError(t, s.Save(path))

	// the json format has no line limit
	j := newStore(t, "hash", &Options{Serializer: serializer.NewJSONSerializer()})
	require.NoError(t, j.Put("d", "1e300", "double"))
	require.NoError(t, j.Save(path))
}
