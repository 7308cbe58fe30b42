package records

import (
	"encoding/binary"
	"io"
)

type flusher interface {
	Flush() error
}

// Writer transforms written content into properly formed records.
// Records are flushed automatically when the content fills the configured
// buffer, or explicitly using the Flush method.
type Writer struct {
	writer  io.Writer // destination of written records
	buffer  []byte    // holds the entire record including the header
	content []byte    // frames the section of the record available for content
	free    []byte    // frames the section of content that is still free
}

// NewWriter creates a Writer that frames written content using the record
// format. The buffer argument enables external buffer management and
// controls the maximum size of records the writer produces; it must be
// larger than HeaderSize or the Writer will not be created. If buffer is
// nil a new buffer is allocated with default (maximum) record size.
func NewWriter(writer io.Writer, buffer []byte) *Writer {
	maxSize := MaxPlaintextLength + HeaderSize
	if buffer == nil {
		buffer = make([]byte, maxSize)
	} else if len(buffer) > maxSize {
		// Make sure buffer does not exceed maximum record length
		buffer = buffer[:maxSize]
	} else if len(buffer) <= HeaderSize {
		return nil
	}
	w := &Writer{writer: writer, buffer: buffer}
	content := buffer[HeaderSize:]
	w.content = content
	w.free = content
	w.SetVersion(TLS12)
	w.SetContentType(Handshake)
	return w
}

// Write buffers b in the writer. If there is not enough room, records with
// older content will be flushed automatically into the underlying writer
// as necessary.
func (w *Writer) Write(b []byte) (int, error) {
	var err error
	flushed := 0
	copied := copy(w.free, b)
	b = b[copied:]
	w.free = w.free[copied:]
	for len(b) > 0 {
		err = w.Flush()
		if err != nil {
			break
		}
		flushed += copied
		copied = copy(w.free, b)
		b = b[copied:]
		w.free = w.free[copied:]
	}
	return flushed + copied, err
}

// Flush emits a record with entire buffered content into the underlying
// writer.
func (w *Writer) Flush() error {
	length := len(w.content) - len(w.free)
	_assert(length <= MaxPlaintextLength, "record content %d exceeds maximum length", length)
	binary.BigEndian.PutUint16(w.buffer[3:HeaderSize], uint16(length))
	if _, err := w.writer.Write(w.buffer[:HeaderSize+length]); err != nil {
		return err
	}
	if f, ok := w.writer.(flusher); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	w.free = w.content
	return nil
}

// Close flushes remaining buffered content and releases any associated
// resources.
func (w *Writer) Close() error {
	if !w.bufferEmpty() {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if c, ok := w.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Version returns current protocol version.
func (w *Writer) Version() ProtocolVersion {
	return ProtocolVersion(w.buffer[1])<<8 | ProtocolVersion(w.buffer[2])
}

// SetVersion sets current protocol version. If previous version is
// different any buffered content is flushed in a record of that version.
func (w *Writer) SetVersion(v ProtocolVersion) error {
	if w.Version() == v {
		return nil
	}
	if !w.bufferEmpty() {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.buffer[1] = byte(v >> 8)
	w.buffer[2] = byte(v & 0xFF)
	return nil
}

// ContentType returns current record content type.
func (w *Writer) ContentType() ContentType {
	return ContentType(w.buffer[0])
}

// SetContentType sets current record content type. If previous type is
// different any buffered content is flushed in a record of that type.
func (w *Writer) SetContentType(t ContentType) error {
	if w.ContentType() == t {
		return nil
	}
	if !w.bufferEmpty() {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	w.buffer[0] = t.Byte()
	return nil
}

func (w *Writer) bufferEmpty() bool {
	return len(w.free) == len(w.content)
}
