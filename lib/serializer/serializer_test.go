package serializer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/ValentinKolb/fKV/lib/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISerializer{
	"Text": func() ISerializer {
		s, _ := NewTextSerializer(DefaultLineBufferSize)
		return s
	},
	"JSON":    NewJSONSerializer,
	"MsgPack": NewMsgPackSerializer,
}

// testEntries creates one entry per value type
func testEntries(t *testing.T) []*entry.Entry {
	raw := [][3]string{
		{"i8", "-128", "int8"},
		{"i16", "32767", "int16"},
		{"i32", "-2147483648", "int32"},
		{"i64", "9223372036854775807", "int64"},
		{"f", "3.14", "float"},
		{"d", "2.718281828459045", "double"},
		{"b", "false", "bool"},
		{"s", "hello world", "string"},
	}
	out := make([]*entry.Entry, 0, len(raw))
	for _, r := range raw {
		e, err := entry.New(r[0], r[1], r[2])
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func readAll(dec IDecoder) ([]*entry.Entry, error) {
	var out []*entry.Entry
	for {
		e, err := dec.ReadEntry()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}

func TestRoundTrip(t *testing.T) {
	entries := testEntries(t)

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()

			var buf bytes.Buffer
			enc := s.NewEncoder(&buf)
			for _, e := range entries {
				require.NoError(t, enc.WriteEntry(e))
			}
			require.NoError(t, enc.Flush())

			got, err := readAll(s.NewDecoder(&buf))
			require.NoError(t, err)
			require.Len(t, got, len(entries))
			for i := range entries {
				assert.Equal(t, entries[i].Key(), got[i].Key())
				assert.Equal(t, entries[i].Value(), got[i].Value())
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			e, err := factory().NewDecoder(strings.NewReader("")).ReadEntry()
			assert.Nil(t, e)
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestNilEntry(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			err := factory().NewEncoder(io.Discard).WriteEntry(nil)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{FormatText, FormatJSON, FormatMsgPack} {
		s, err := ByName(name, 0)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	s, err := ByName("", 0)
	require.NoError(t, err)
	assert.Equal(t, FormatText, s.Name())

	_, err = ByName("yaml", 0)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

// --------------------------------------------------------------------------
// Text format
// --------------------------------------------------------------------------

func TestTextFormat(t *testing.T) {
	s, err := NewTextSerializer(0)
	require.NoError(t, err)

	e, err := entry.New("a", "1", "int8")
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := s.NewEncoder(&buf)
	require.NoError(t, enc.WriteEntry(e))
	require.NoError(t, enc.Flush())
	assert.Equal(t, "int8:a=1;\n", buf.String())
}

func TestTextSkipsCommentsAndBlankLines(t *testing.T) {
	s, _ := NewTextSerializer(0)
	input := "# header\n\nint8:a=1;\n#int8:b=2;\n\nstring:c=x;trailing\nbool:d=true;"

	got, err := readAll(s.NewDecoder(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Key())
	assert.Equal(t, value.String("x"), got[1].Value())
	// last line without newline
	assert.Equal(t, value.Bool(true), got[2].Value())
}

func TestTextMalformedLine(t *testing.T) {
	s, _ := NewTextSerializer(0)
	dec := s.NewDecoder(strings.NewReader("int8:a=1;\ngarbage\nint8:b=2;\n"))

	e, err := dec.ReadEntry()
	require.NoError(t, err)
	assert.Equal(t, "a", e.Key())

	_, err = dec.ReadEntry()
	assert.ErrorIs(t, err, common.ErrMalformedLine)
	assert.Contains(t, err.Error(), "line 2")
}

func TestTextFieldErrorsKeepTheirCode(t *testing.T) {
	s, _ := NewTextSerializer(0)

	_, err := s.NewDecoder(strings.NewReader("int9:a=1;\n")).ReadEntry()
	assert.ErrorIs(t, err, common.ErrInvalidType)

	_, err = s.NewDecoder(strings.NewReader("int8:a=x;\n")).ReadEntry()
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestTextOverlongLineIsChunked(t *testing.T) {
	s, err := NewTextSerializer(16)
	require.NoError(t, err)

	// 15 bytes fit (buffer of 16 minus terminator)
	got, err := readAll(s.NewDecoder(strings.NewReader("string:k=abcd;\n")))
	require.NoError(t, err)
	require.Len(t, got, 1)

	// the first chunk "string:k=abcdef" has no value separator
	_, err = readAll(s.NewDecoder(strings.NewReader("string:k=abcdefghij;\n")))
	assert.ErrorIs(t, err, common.ErrMalformedLine)
}

func TestTextEncoderRejectsOverlongLine(t *testing.T) {
	s, err := NewTextSerializer(16)
	require.NoError(t, err)

	short, _ := entry.New("k", "abcd", "string")
	long, _ := entry.New("k", "abcdefghij", "string")

	var buf bytes.Buffer
	enc := s.NewEncoder(&buf)
	require.NoError(t, enc.WriteEntry(short))
	assert.ErrorIs(t, enc.WriteEntry(long), common.ErrMalformedLine)
	require.NoError(t, enc.Flush())
	assert.Equal(t, "string:k=abcd;\n", buf.String())
}

func TestTextInvalidBufferSize(t *testing.T) {
	_, err := NewTextSerializer(1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	_, err = NewTextSerializer(-5)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestChunkedLines(t *testing.T) {
	split := chunkedLines(4)

	adv, tok, err := split([]byte("ab\ncd"), false)
	require.NoError(t, err)
	assert.Equal(t, 3, adv)
	assert.Equal(t, "ab\n", string(tok))

	adv, tok, _ = split([]byte("abcdef"), false)
	assert.Equal(t, 4, adv)
	assert.Equal(t, "abcd", string(tok))

	// need more data
	adv, tok, _ = split([]byte("ab"), false)
	assert.Equal(t, 0, adv)
	assert.Nil(t, tok)

	adv, tok, _ = split([]byte("ab"), true)
	assert.Equal(t, 2, adv)
	assert.Equal(t, "ab", string(tok))
}

// --------------------------------------------------------------------------
// Structured formats
// --------------------------------------------------------------------------

func TestJSONFormat(t *testing.T) {
	e, _ := entry.New("pi", "3.5", "double")

	var buf bytes.Buffer
	enc := NewJSONSerializer().NewEncoder(&buf)
	require.NoError(t, enc.WriteEntry(e))
	require.NoError(t, enc.Flush())
	assert.Equal(t, `{"type":"double","key":"pi","value":"3.500000000000000"}`+"\n", buf.String())
}

func TestJSONMalformed(t *testing.T) {
	_, err := NewJSONSerializer().NewDecoder(strings.NewReader(`{"type":`)).ReadEntry()
	assert.ErrorIs(t, err, common.ErrMalformedLine)

	_, err = NewJSONSerializer().NewDecoder(strings.NewReader(`{"type":"int8","key":"a","value":"999"}`)).ReadEntry()
	assert.NoError(t, err, "out of int8 range values are truncated, not rejected")

	_, err = NewJSONSerializer().NewDecoder(strings.NewReader(`{"type":"int8","key":"a=b","value":"1"}`)).ReadEntry()
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestMsgPackRejectsInvalidRecord(t *testing.T) {
	var buf bytes.Buffer
	enc := NewMsgPackSerializer().NewEncoder(&buf)
	e, _ := entry.New("a", "1", "int8")
	require.NoError(t, enc.WriteEntry(e))
	require.NoError(t, enc.Flush())

	// flip the type name "int8" into "int9"
	data := bytes.Replace(buf.Bytes(), []byte("int8"), []byte("int9"), 1)
	_, err := NewMsgPackSerializer().NewDecoder(bytes.NewReader(data)).ReadEntry()
	assert.ErrorIs(t, err, common.ErrInvalidType)
}

func TestTextValidate(t *testing.T) {
	s, err := NewTextSerializer(0)
	require.NoError(t, err)
	v, ok := s.(IEntryValidator)
	require.True(t, ok)

	small, _ := entry.New("d", "1.5", "double")
	assert.NoError(t, v.Validate(small))

	// 1e300 rendered with 15 decimals is far longer than 127 bytes
	huge, _ := entry.New("d", "1e300", "double")
	assert.ErrorIs(t, v.Validate(huge), common.ErrMalformedLine)
	assert.ErrorIs(t, v.Validate(nil), common.ErrInvalidArgument)

	_, ok = NewJSONSerializer().(IEntryValidator)
	assert.False(t, ok)
}
