// Package records implements the TLS record framing format: the outer
// envelope of content type, protocol version, declared length and opaque
// fragment used to frame payloads on the wire. It does not interpret,
// encrypt or decrypt fragment contents.
package records

import (
	"encoding/binary"
	"errors"
	"fmt"
)

type ContentType uint8

const (
	InvalidContent   ContentType = 0x00
	ChangeCipherSpec ContentType = 0x14
	Alert            ContentType = 0x15
	Handshake        ContentType = 0x16
	ApplicationData  ContentType = 0x17
)

type ProtocolVersion uint16

const (
	TLS10 ProtocolVersion = 0x0301
	TLS11 ProtocolVersion = 0x0302
	TLS12 ProtocolVersion = 0x0303
	TLS13 ProtocolVersion = 0x0304
)

const (
	HeaderSize         = 5
	MaxPlaintextLength = 1 << 14
	// Encrypted records may exceed the plaintext limit by up to the
	// maximum AEAD expansion.
	MaxCiphertextLength = MaxPlaintextLength + 256
	MaxBufferSize       = MaxCiphertextLength + HeaderSize
)

var (
	InvalidContentTypeEncoding = errors.New("Byte is not a valid content type encoding.")
	InvalidVersionEncoding     = errors.New("Bytes are not a valid protocol version encoding.")
	VersionEncodingTooShort    = errors.New("Protocol version encoding requires two bytes.")
	RecordTooLarge             = errors.New("Record reports length exceeding maximum allowed record size.")
	RecordTruncated            = errors.New("Buffer is shorter than the record header requires.")
	RecordLengthMismatch       = errors.New("Remaining bytes do not match the declared record length.")
)

// Byte returns the one-byte wire encoding of t.
func (t ContentType) Byte() byte {
	return byte(t)
}

// ParseContentType decodes a content type byte. Only the five declared
// values are accepted; anything else is an error, not a best-effort guess.
func ParseContentType(b byte) (ContentType, error) {
	switch t := ContentType(b); t {
	case InvalidContent, ChangeCipherSpec, Alert, Handshake, ApplicationData:
		return t, nil
	}
	return 0, InvalidContentTypeEncoding
}

func (t ContentType) String() string {
	switch t {
	case InvalidContent:
		return "invalid"
	case ChangeCipherSpec:
		return "change_cipher_spec"
	case Alert:
		return "alert"
	case Handshake:
		return "handshake"
	case ApplicationData:
		return "application_data"
	}
	return fmt.Sprintf("content_type(0x%02x)", uint8(t))
}

// Bytes returns the two-byte big-endian wire encoding of v.
func (v ProtocolVersion) Bytes() []byte {
	return []byte{byte(v >> 8), byte(v & 0xFF)}
}

// ParseProtocolVersion decodes the leading two bytes of b as a protocol
// version. Only the declared versions are accepted.
func ParseProtocolVersion(b []byte) (ProtocolVersion, error) {
	if len(b) < 2 {
		return 0, VersionEncodingTooShort
	}
	switch v := ProtocolVersion(b[0])<<8 | ProtocolVersion(b[1]); v {
	case TLS10, TLS11, TLS12, TLS13:
		return v, nil
	}
	return 0, InvalidVersionEncoding
}

func (v ProtocolVersion) String() string {
	switch v {
	case TLS10:
		return "TLS1.0"
	case TLS11:
		return "TLS1.1"
	case TLS12:
		return "TLS1.2"
	case TLS13:
		return "TLS1.3"
	}
	return fmt.Sprintf("version(0x%04x)", uint16(v))
}

// Payload is content that can serialize itself into fragment bytes.
type Payload interface {
	Bytes() []byte
}

// Opaque is a raw byte fragment.
type Opaque []byte

func (o Opaque) Bytes() []byte { return o }

// Record is one framed unit of the wire protocol: a fixed header followed
// by a variable length payload. It is implemented by exactly Plaintext and
// Ciphertext and exists as the encoding dispatch point between them.
type Record interface {
	Payload
	record()
}

// Plaintext is an unencrypted record, used for negotiation messages.
type Plaintext[P Payload] struct {
	ContentType ContentType
	Version     ProtocolVersion
	Length      uint16
	Fragment    P
}

// Ciphertext is an already encrypted record. The framing layer treats the
// encrypted fragment opaquely.
type Ciphertext[P Payload] struct {
	OpaqueType        ContentType     // conventionally ApplicationData
	Version           ProtocolVersion // conventionally TLS12
	Length            uint16
	EncryptedFragment P
}

func (r Plaintext[P]) record()  {}
func (r Ciphertext[P]) record() {}

// Bytes serializes r into its wire format: content type, version, length
// and fragment, multi-byte fields big-endian. Length is written as given;
// keeping it consistent with the actual fragment size is the caller's
// obligation.
func (r Plaintext[P]) Bytes() []byte {
	return encodeRecord(r.ContentType, r.Version, r.Length, r.Fragment)
}

// Bytes serializes r into its wire format.
func (r Ciphertext[P]) Bytes() []byte {
	return encodeRecord(r.OpaqueType, r.Version, r.Length, r.EncryptedFragment)
}

func encodeRecord(t ContentType, v ProtocolVersion, length uint16, p Payload) []byte {
	fragment := p.Bytes()
	buf := make([]byte, 0, HeaderSize+len(fragment))
	buf = append(buf, t.Byte())
	buf = append(buf, v.Bytes()...)
	buf = binary.BigEndian.AppendUint16(buf, length)
	return append(buf, fragment...)
}

// Helpers

func _assert(v bool, msg string, params ...interface{}) {
	if !v {
		panic(fmt.Sprintf(msg, params...))
	}
}
