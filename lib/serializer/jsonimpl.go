package serializer

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/entry"
)

// NewJSONSerializer creates a serializer writing one JSON object per line
func NewJSONSerializer() ISerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s *jsonSerializerImpl) Name() string {
	return FormatJSON
}

func (s *jsonSerializerImpl) NewEncoder(w io.Writer) IEncoder {
	bw := bufio.NewWriter(w)
	return &jsonEncoder{w: bw, enc: json.NewEncoder(bw)}
}

func (s *jsonSerializerImpl) NewDecoder(r io.Reader) IDecoder {
	return &jsonDecoder{dec: json.NewDecoder(r)}
}

type jsonEncoder struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (enc *jsonEncoder) WriteEntry(e *entry.Entry) error {
	rec, err := recordOf(e)
	if err != nil {
		return err
	}
	if err := enc.enc.Encode(rec); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to encode entry %q", rec.Key)
	}
	return nil
}

func (enc *jsonEncoder) Flush() error {
	if err := enc.w.Flush(); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to flush json encoder")
	}
	return nil
}

type jsonDecoder struct {
	dec   *json.Decoder
	count int
}

func (dec *jsonDecoder) ReadEntry() (*entry.Entry, error) {
	var rec record
	if err := dec.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		log.Debugf("failed to decode json record %d: %v", dec.count+1, err)
		return nil, common.WrapError(common.RetCMalformedLine, err, "failed to decode json record %d", dec.count+1)
	}
	dec.count++
	return rec.toEntry()
}
