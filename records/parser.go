package records

import "encoding/binary"

type parserState uint8

const (
	expectContentType parserState = iota
	expectVersion
	expectLength
	expectFragment
	finished
	failed
)

// Parser is a state machine that decodes a single record from a byte
// buffer. The buffer must hold the bytes of exactly one record: the header
// followed by precisely the declared number of fragment bytes; locating
// record boundaries in a byte stream is the Reader's job.
//
// Parsers are values. Each Transition consumes the current value and
// produces the next one wholesale, keeping a zero-copy window into the
// caller's buffer; the fragment is copied into owned storage only at the
// Finished step. The window must not outlive the caller's buffer.
type Parser struct {
	state       parserState
	remainder   []byte
	contentType ContentType
	version     ProtocolVersion
	length      uint16
	record      Plaintext[Opaque]
	cause       error
}

var _ StateMachine[Parser] = Parser{}

// NewParser returns a Parser in its initial state, expecting b to contain
// exactly one record.
func NewParser(b []byte) Parser {
	return Parser{state: expectContentType, remainder: b}
}

// Transition advances the parser by one step. Finished and Failed are
// terminal and transition to themselves.
func (p Parser) Transition() Parser {
	switch p.state {
	case expectContentType:
		return p.parseContentType()
	case expectVersion:
		return p.parseVersion()
	case expectLength:
		return p.parseLength()
	case expectFragment:
		return p.parseFragment()
	}
	return p
}

// Halted reports whether the parser reached a terminal state.
func (p Parser) Halted() bool {
	return p.state == finished || p.state == failed
}

// Finished reports whether the parser halted with a decoded record.
func (p Parser) Finished() bool {
	return p.state == finished
}

// Failed reports whether the parser halted without a decoded record.
// All failure causes collapse into this one state; a failed buffer is not
// a valid record and the connection it came from should be torn down, not
// resynchronized.
func (p Parser) Failed() bool {
	return p.state == failed
}

// Record returns the decoded record. ok is false unless the parser
// Finished.
func (p Parser) Record() (record Plaintext[Opaque], ok bool) {
	return p.record, p.state == finished
}

func (p Parser) parseContentType() Parser {
	if len(p.remainder) < 1 {
		return p.fail(RecordTruncated)
	}
	t, err := ParseContentType(p.remainder[0])
	if err != nil {
		return p.fail(err)
	}
	p.contentType = t
	p.remainder = p.remainder[1:]
	p.state = expectVersion
	return p
}

func (p Parser) parseVersion() Parser {
	v, err := ParseProtocolVersion(p.remainder)
	if err != nil {
		return p.fail(err)
	}
	p.version = v
	p.remainder = p.remainder[2:]
	p.state = expectLength
	return p
}

func (p Parser) parseLength() Parser {
	if len(p.remainder) < 2 {
		return p.fail(RecordTruncated)
	}
	length := binary.BigEndian.Uint16(p.remainder)
	if length > MaxPlaintextLength {
		return p.fail(RecordTooLarge)
	}
	p.length = length
	p.remainder = p.remainder[2:]
	p.state = expectFragment
	return p
}

func (p Parser) parseFragment() Parser {
	// Strict equality: trailing bytes would belong to a subsequent record,
	// which this parser does not attempt to locate.
	if len(p.remainder) != int(p.length) {
		return p.fail(RecordLengthMismatch)
	}
	fragment := make(Opaque, len(p.remainder))
	copy(fragment, p.remainder)
	return Parser{
		state: finished,
		record: Plaintext[Opaque]{
			ContentType: p.contentType,
			Version:     p.version,
			Length:      p.length,
			Fragment:    fragment,
		},
	}
}

func (p Parser) fail(cause error) Parser {
	return Parser{state: failed, cause: cause}
}

// Parse runs a Parser over b until it halts and returns the decoded
// record, or the error that failed the parse.
func Parse(b []byte) (Plaintext[Opaque], error) {
	p := Run(NewParser(b))
	if record, ok := p.Record(); ok {
		return record, nil
	}
	return Plaintext[Opaque]{}, p.cause
}
