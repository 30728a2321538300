package entry

import (
	"strings"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogEntry)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	TypeSeparator  = ":" // between type name and key
	KeySeparator   = "=" // between key and value
	ValueSeparator = ";" // terminates the value

	// MaxKeyLength is the longest accepted key in bytes
	MaxKeyLength = 31

	// CommentPrefix marks a line that is skipped on load
	CommentPrefix = "#"
)

// --------------------------------------------------------------------------
// Entry
// --------------------------------------------------------------------------

// Entry is a typed key-value record. The key is fixed at creation, the value
// (and with it the type) can be replaced through Update.
type Entry struct {
	key string
	val value.Value
}

// New creates an entry from a key, a value string and a type name.
// Construction is all-or-nothing: on error no entry is returned.
func New(key, valueStr, typeStr string) (*Entry, error) {
	if key == "" || valueStr == "" || typeStr == "" {
		return nil, common.NewError(common.RetCInvalidArgument, "key, value and type must not be empty (key=%q, value=%q, type=%q)", key, valueStr, typeStr)
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	typ, err := value.ParseType(typeStr)
	if err != nil {
		return nil, err
	}

	val, err := value.Parse(typ, valueStr)
	if err != nil {
		log.Debugf("failed to create entry with key %q: %v", key, err)
		return nil, err
	}

	return &Entry{key: key, val: val}, nil
}

// NewWithValue creates an entry from an already typed value.
func NewWithValue(key string, val value.Value) (*Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if _, err := value.Format(val); err != nil {
		return nil, err
	}
	return &Entry{key: key, val: val}, nil
}

// ValidateKey checks that a key is non-empty, fits MaxKeyLength and does not
// contain a separator or line break.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return common.NewError(common.RetCInvalidArgument, "empty key")
	case len(key) > MaxKeyLength:
		return common.NewError(common.RetCInvalidArgument, "key %q is longer than %d bytes", key, MaxKeyLength)
	case strings.ContainsAny(key, TypeSeparator+KeySeparator+ValueSeparator+"\r\n"):
		return common.NewError(common.RetCInvalidArgument, "key %q contains a reserved character", key)
	}
	return nil
}

func (e *Entry) Key() string {
	return e.key
}

func (e *Entry) Type() value.Type {
	return e.val.Type()
}

func (e *Entry) Value() value.Value {
	return e.val
}

// Update replaces the value of the entry. An empty typeStr keeps the
// current type. The new value is parsed before anything is changed, so on
// error the entry still holds its old type and value. The key never changes.
func (e *Entry) Update(valueStr, typeStr string) error {
	if valueStr == "" {
		return common.NewError(common.RetCInvalidArgument, "empty value for key %q", e.key)
	}

	typ := e.val.Type()
	if typeStr != "" {
		t, err := value.ParseType(typeStr)
		if err != nil {
			return err
		}
		typ = t
	}

	val, err := value.Parse(typ, valueStr)
	if err != nil {
		log.Debugf("failed to update entry %q: %v", e.key, err)
		return err
	}

	e.val = val
	return nil
}

// Clone returns an independent copy of the entry
func (e *Entry) Clone() *Entry {
	return &Entry{key: e.key, val: e.val}
}

// String returns the debug form "type<TAB>key<TAB>value"
func (e *Entry) String() string {
	return e.val.Type().String() + "\t" + e.key + "\t" + e.val.String()
}
