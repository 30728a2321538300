package serializer

import (
	"bufio"
	"errors"
	"io"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/vmihailenco/msgpack/v5"
)

// NewMsgPackSerializer creates a serializer writing a stream of msgpack maps
func NewMsgPackSerializer() ISerializer {
	return &msgpackSerializerImpl{}
}

// msgpackSerializerImpl implements the ISerializer interface using msgpack
type msgpackSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (s *msgpackSerializerImpl) Name() string {
	return FormatMsgPack
}

func (s *msgpackSerializerImpl) NewEncoder(w io.Writer) IEncoder {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	enc.SetSortMapKeys(true)
	return &msgpackEncoder{w: bw, enc: enc}
}

func (s *msgpackSerializerImpl) NewDecoder(r io.Reader) IDecoder {
	return &msgpackDecoder{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

type msgpackEncoder struct {
	w   *bufio.Writer
	enc *msgpack.Encoder
}

func (enc *msgpackEncoder) WriteEntry(e *entry.Entry) error {
	rec, err := recordOf(e)
	if err != nil {
		return err
	}
	if err := enc.enc.Encode(&rec); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to encode entry %q", rec.Key)
	}
	return nil
}

func (enc *msgpackEncoder) Flush() error {
	if err := enc.w.Flush(); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to flush msgpack encoder")
	}
	return nil
}

type msgpackDecoder struct {
	dec   *msgpack.Decoder
	count int
}

func (dec *msgpackDecoder) ReadEntry() (*entry.Entry, error) {
	var rec record
	if err := dec.dec.Decode(&rec); err != nil {
		// a clean end of stream is reported as io.EOF, a truncated record
		// as io.ErrUnexpectedEOF
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Debugf("truncated msgpack record %d", dec.count+1)
		}
		return nil, common.WrapError(common.RetCMalformedLine, err, "failed to decode msgpack record %d", dec.count+1)
	}
	dec.count++
	return rec.toEntry()
}
