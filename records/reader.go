package records

import (
	"encoding/binary"
	"io"
)

// Reader splits a byte stream into individual records. It performs the
// transport side of the framing contract: read the header first to learn
// the declared length, then read exactly that many further bytes, so that
// each complete record can be handed to a Parser.
type Reader struct {
	reader io.Reader // source of records
	buffer []byte    // holds one entire record including the header
}

// NewReader creates a Reader that extracts records from the given stream.
// The buffer argument enables external buffer management to minimize large
// allocations. It must be large enough to accommodate maximum record size
// (MaxCiphertextLength+HeaderSize), otherwise the Reader will not be
// created. If buffer is nil a new buffer is allocated.
func NewReader(reader io.Reader, buffer []byte) *Reader {
	if buffer == nil {
		buffer = make([]byte, MaxBufferSize)
	} else if len(buffer) > MaxBufferSize {
		// Make sure buffer does not exceed maximum record length
		buffer = buffer[:MaxBufferSize]
	} else if len(buffer) < MaxBufferSize {
		// buffer must be large enough to fit a largest legal size record
		return nil
	}
	return &Reader{reader: reader, buffer: buffer}
}

// Next reads exactly one record from the underlying stream and returns the
// slice of the internal buffer framing it (header and fragment). The slice
// is only valid until the following call to Next. Returns io.EOF when the
// stream ends at a record boundary and io.ErrUnexpectedEOF when it ends
// mid-record. Records declaring a length beyond MaxCiphertextLength are
// rejected before any fragment bytes are consumed.
func (r *Reader) Next() ([]byte, error) {
	header := r.buffer[:HeaderSize]
	if _, err := io.ReadFull(r.reader, header); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(header[3:HeaderSize]))
	if length > MaxCiphertextLength {
		return nil, RecordTooLarge
	}
	record := r.buffer[:HeaderSize+length]
	if _, err := io.ReadFull(r.reader, record[HeaderSize:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return record, nil
}

// ReadRecord reads the next record from the stream and decodes it.
// The returned record owns its fragment bytes. Note that the decode path
// enforces the plaintext length bound, which is stricter than what Next
// accepts for encrypted records.
func (r *Reader) ReadRecord() (Plaintext[Opaque], error) {
	record, err := r.Next()
	if err != nil {
		return Plaintext[Opaque]{}, err
	}
	return Parse(record)
}

// Close releases any associated resources.
func (r *Reader) Close() error {
	if c, ok := r.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
