package serializer

import (
	"bufio"
	"bytes"
	"io"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/entry"
)

// DefaultLineBufferSize is the size of the line buffer used when loading
// the text format. A line (including its newline) must be shorter than it.
const DefaultLineBufferSize = 128

// NewTextSerializer creates the serializer for the line format
// "<type>:<key>=<value>;\n".
func NewTextSerializer(lineBufferSize int) (ISerializer, error) {
	if lineBufferSize == 0 {
		lineBufferSize = DefaultLineBufferSize
	}
	if lineBufferSize < 2 {
		return nil, common.NewError(common.RetCInvalidArgument, "line buffer size must be at least 2, got %d", lineBufferSize)
	}
	return &textSerializerImpl{lineBufferSize: lineBufferSize}, nil
}

// textSerializerImpl implements ISerializer for the text format
type textSerializerImpl struct {
	lineBufferSize int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s *textSerializerImpl) Name() string {
	return FormatText
}

// Validate fails with MalformedLine if the line of e does not fit into the
// line buffer.
func (s *textSerializerImpl) Validate(e *entry.Entry) error {
	if e == nil {
		return common.NewError(common.RetCInvalidArgument, "nil entry")
	}
	line, err := e.MarshalLine()
	if err != nil {
		return err
	}
	return checkLineLength(e, line, s.lineBufferSize-1)
}

func checkLineLength(e *entry.Entry, line string, maxLine int) error {
	if len(line) > maxLine {
		return common.NewError(common.RetCMalformedLine, "line for key %q is %d bytes long, limit is %d", e.Key(), len(line), maxLine)
	}
	return nil
}

func (s *textSerializerImpl) NewEncoder(w io.Writer) IEncoder {
	return &textEncoder{w: bufio.NewWriter(w), maxLine: s.lineBufferSize - 1}
}

func (s *textSerializerImpl) NewDecoder(r io.Reader) IDecoder {
	maxLine := s.lineBufferSize - 1
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, s.lineBufferSize), s.lineBufferSize)
	scanner.Split(chunkedLines(maxLine))
	return &textDecoder{scanner: scanner}
}

// --------------------------------------------------------------------------
// Encoder
// --------------------------------------------------------------------------

type textEncoder struct {
	w       *bufio.Writer
	maxLine int
}

// WriteEntry writes one line. Lines that would not fit into the line buffer
// on load are rejected, so a saved file can always be loaded again.
func (enc *textEncoder) WriteEntry(e *entry.Entry) error {
	if e == nil {
		return common.NewError(common.RetCInvalidArgument, "nil entry passed to encoder")
	}
	line, err := e.MarshalLine()
	if err != nil {
		return err
	}
	if err := checkLineLength(e, line, enc.maxLine); err != nil {
		log.Warningf("entry %q does not fit into a %d byte line", e.Key(), enc.maxLine+1)
		return err
	}
	if _, err := enc.w.WriteString(line); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to write entry %q", e.Key())
	}
	return nil
}

func (enc *textEncoder) Flush() error {
	if err := enc.w.Flush(); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to flush text encoder")
	}
	return nil
}

// --------------------------------------------------------------------------
// Decoder
// --------------------------------------------------------------------------

type textDecoder struct {
	scanner *bufio.Scanner
	lineNo  int
}

func (dec *textDecoder) ReadEntry() (*entry.Entry, error) {
	for dec.scanner.Scan() {
		dec.lineNo++
		e, err := entry.ParseLine(dec.scanner.Text())
		if err != nil {
			return nil, common.WrapError(common.CodeOf(err), err, "line %d", dec.lineNo)
		}
		if e == nil {
			continue
		}
		return e, nil
	}
	if err := dec.scanner.Err(); err != nil {
		log.Errorf("failed to read line %d: %v", dec.lineNo+1, err)
		return nil, common.WrapError(common.RetCIoError, err, "failed to read line %d", dec.lineNo+1)
	}
	return nil, io.EOF
}

// chunkedLines splits the input like a line reader with a fixed buffer of
// maxLen+1 bytes: a token ends after '\n' or after maxLen bytes, whichever comes
// first. Over-long lines therefore arrive as several tokens, and the last
// token may lack a newline.
func chunkedLines(maxLen int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		limit := len(data)
		if limit > maxLen {
			limit = maxLen
		}
		if i := bytes.IndexByte(data[:limit], '\n'); i >= 0 {
			return i + 1, data[:i+1], nil
		}
		if limit == maxLen || atEOF {
			return limit, data[:limit], nil
		}
		return 0, nil, nil
	}
}
