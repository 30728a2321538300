// Package serializer provides the file formats a database can be saved to
// and loaded from. It defines a common streaming interface and one
// implementation per format.
//
// Key Components:
//
//   - ISerializer: creates encoders and decoders for one format.
//
//   - IEncoder: a db.EntryWriter with a Flush method. Backends save into it
//     entry by entry.
//
//   - IDecoder: yields one entry per call and io.EOF at the end of the input.
//
// Formats:
//
//   - text (default): one "<type>:<key>=<value>;\n" line per entry. Blank
//     lines and lines starting with '#' are skipped on load. Lines are read
//     through a fixed line buffer (DefaultLineBufferSize bytes): a longer
//     line is split into buffer-sized chunks that are parsed independently,
//     which usually fails with MalformedLine. The encoder refuses to write
//     such lines.
//
//   - json: one {"type","key","value"} object per line.
//
//   - msgpack: a stream of msgpack maps with the same three fields.
//
// All formats store the value in its rendered text form, so loading goes
// through the same parser regardless of the format.
//
// Thread Safety:
//
//	Serializers are stateless. Encoders and decoders are not safe for
//	concurrent use.
//
// Usage:
//
//	s, _ := serializer.ByName("text", 128)
//	enc := s.NewEncoder(file)
//	err := backend.Save(enc)
//	err = enc.Flush()
package serializer
