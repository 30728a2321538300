package entry

import (
	"strings"

	"github.com/ValentinKolb/fKV/lib/common"
)

// --------------------------------------------------------------------------
// Text line format: <type>:<key>=<value>;\n
// --------------------------------------------------------------------------

// MarshalLine serializes the entry as one line of the text format,
// including the trailing newline.
func (e *Entry) MarshalLine() (string, error) {
	typeName, err := e.val.Type().Name()
	if err != nil {
		return "", err
	}
	if e.key == "" {
		return "", common.NewError(common.RetCInvalidArgument, "entry has an empty key")
	}
	val := e.val.String()
	if val == "" {
		return "", common.NewError(common.RetCInvalidArgument, "entry %q renders an empty value", e.key)
	}

	var sb strings.Builder
	sb.Grow(len(typeName) + len(e.key) + len(val) + 4)
	sb.WriteString(typeName)
	sb.WriteString(TypeSeparator)
	sb.WriteString(e.key)
	sb.WriteString(KeySeparator)
	sb.WriteString(val)
	sb.WriteString(ValueSeparator)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// IsSkippable reports whether a line is blank or a comment
func IsSkippable(line string) bool {
	return line == "\n" || strings.HasPrefix(line, CommentPrefix)
}

// ParseLine parses one line of the text format.
// Blank lines ("\n") and comments ("#...") return (nil, nil).
//
// The line is split on the first ':' (type), then the first '=' (key), then
// the first ';' (value). Missing separators or empty fields are a
// MalformedLine error. Fields are not trimmed and anything after ';' is
// ignored.
func ParseLine(line string) (*Entry, error) {
	if line == "" {
		return nil, common.NewError(common.RetCInvalidArgument, "empty line")
	}
	if IsSkippable(line) {
		return nil, nil
	}

	typeStr, rest, ok := strings.Cut(line, TypeSeparator)
	if !ok || typeStr == "" {
		return nil, malformed(line, "missing type")
	}
	key, rest, ok := strings.Cut(rest, KeySeparator)
	if !ok || key == "" {
		return nil, malformed(line, "missing key")
	}
	val, _, ok := strings.Cut(rest, ValueSeparator)
	if !ok || val == "" {
		return nil, malformed(line, "missing value")
	}

	e, err := New(key, val, typeStr)
	if err != nil {
		log.Debugf("failed to create entry from line %q: %v", line, err)
		return nil, err
	}
	return e, nil
}

func malformed(line, reason string) error {
	log.Debugf("failed to tokenize line %q: %s", line, reason)
	return common.NewError(common.RetCMalformedLine, "failed to tokenize line %q: %s", strings.TrimRight(line, "\n"), reason)
}
