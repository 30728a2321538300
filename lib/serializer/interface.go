package serializer

import (
	"io"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogSerializer)

// Format names accepted by ByName
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// ISerializer is the interface for all database file formats
type ISerializer interface {
	// Name returns the format name (see the Format* constants)
	Name() string
	// NewEncoder returns an encoder writing to w.
	// Nothing is guaranteed to reach w before Flush returns.
	NewEncoder(w io.Writer) IEncoder
	// NewDecoder returns a decoder reading from r
	NewDecoder(r io.Reader) IDecoder
}

// IEncoder writes entries in a specific format. It is the db.EntryWriter a
// backend saves into.
type IEncoder interface {
	db.EntryWriter
	// Flush writes any buffered data to the underlying writer
	Flush() error
}

// IDecoder reads entries in a specific format
type IDecoder interface {
	// ReadEntry returns the next entry. At the end of the input it returns
	// (nil, io.EOF). Any other error aborts decoding; the decoder must not be
	// used afterwards.
	ReadEntry() (*entry.Entry, error)
}

// IEntryValidator is implemented by formats that can not store every
// entry, e.g. the text format with its bounded line length.
type IEntryValidator interface {
	// Validate reports whether e can be written in this format
	Validate(e *entry.Entry) error
}

// ByName returns the serializer for a format name. lineBufferSize only
// applies to the text format (0 = DefaultLineBufferSize).
func ByName(name string, lineBufferSize int) (ISerializer, error) {
	switch name {
	case FormatText, "":
		return NewTextSerializer(lineBufferSize)
	case FormatJSON:
		return NewJSONSerializer(), nil
	case FormatMsgPack:
		return NewMsgPackSerializer(), nil
	default:
		return nil, common.NewError(common.RetCInvalidArgument, "unknown format %q (expected %q, %q or %q)", name, FormatText, FormatJSON, FormatMsgPack)
	}
}

// --------------------------------------------------------------------------
// Shared record layout of the structured formats
// --------------------------------------------------------------------------

// record is one entry in the structured formats. The value is kept in its
// rendered form so that every format goes through the same value codec.
type record struct {
	Type  string `json:"type" msgpack:"type"`
	Key   string `json:"key" msgpack:"key"`
	Value string `json:"value" msgpack:"value"`
}

func recordOf(e *entry.Entry) (record, error) {
	if e == nil {
		return record{}, common.NewError(common.RetCInvalidArgument, "nil entry passed to encoder")
	}
	typeName, err := e.Type().Name()
	if err != nil {
		return record{}, err
	}
	return record{Type: typeName, Key: e.Key(), Value: e.Value().String()}, nil
}

func (r record) toEntry() (*entry.Entry, error) {
	e, err := entry.New(r.Key, r.Value, r.Type)
	if err != nil {
		log.Debugf("failed to create entry from record %+v: %v", r, err)
		return nil, err
	}
	return e, nil
}
