package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParserSteps(t *testing.T) {
	p := NewParser(h2b("16030300050001020304"))
	p = p.Transition() // content type
	assert.False(t, p.Halted())
	p = p.Transition() // version
	assert.False(t, p.Halted())
	p = p.Transition() // length
	assert.False(t, p.Halted())
	p = p.Transition() // fragment
	assert.True(t, p.Halted())
	assert.True(t, p.Finished())
	assert.False(t, p.Failed())

	record, ok := p.Record()
	assert.True(t, ok)
	assert.Equal(t, Handshake, record.ContentType)
	assert.Equal(t, TLS12, record.Version)
	assert.Equal(t, uint16(5), record.Length)
	assertEqualBytes(t, h2b("0001020304"), record.Fragment)
}

func TestParserMissingContentType(t *testing.T) {
	p := Run(NewParser(nil))
	assert.True(t, p.Failed())
	_, ok := p.Record()
	assert.False(t, ok)
}

func TestParserInvalidContentType(t *testing.T) {
	p := Run(NewParser(h2b("ff0301000100")))
	assert.True(t, p.Failed())
}

func TestParserInvalidVersion(t *testing.T) {
	p := Run(NewParser(h2b("1603050000"))) // there is no TLS1.4
	assert.True(t, p.Failed())
}

func TestParserTruncatedHeader(t *testing.T) {
	assert.True(t, Run(NewParser(h2b("16"))).Failed())
	assert.True(t, Run(NewParser(h2b("160303"))).Failed())
	assert.True(t, Run(NewParser(h2b("16030300"))).Failed())
}

func TestParserLengthOverflow(t *testing.T) {
	// 0x4001 exceeds the plaintext limit even with the fragment present
	buf := append(h2b("1603034001"), make([]byte, 0x4001)...)
	p := Run(NewParser(buf))
	assert.True(t, p.Failed())
	_, err := Parse(buf)
	assert.Equal(t, RecordTooLarge, err)
	// the limit itself is fine
	buf = append(h2b("1703034000"), make([]byte, 0x4000)...)
	assert.True(t, Run(NewParser(buf)).Finished())
}

func TestParserFragmentLengthMismatch(t *testing.T) {
	// too few remaining bytes
	p := Run(NewParser(h2b("160303000a0001020304")))
	assert.True(t, p.Failed())
	// too many remaining bytes: strict equality, not "at least"
	p = Run(NewParser(h2b("16030300030001020304")))
	assert.True(t, p.Failed())
}

func TestParserTerminalStatesSelfLoop(t *testing.T) {
	done := Run(NewParser(h2b("1503030000")))
	assert.True(t, done.Finished())
	assert.Equal(t, done, done.Transition())
	assert.Equal(t, done, done.Transition().Transition())

	dead := Run(NewParser(h2b("ff")))
	assert.True(t, dead.Failed())
	assert.Equal(t, dead, dead.Transition())
	assert.Equal(t, dead, dead.Transition().Transition())
}

func TestParse(t *testing.T) {
	record, err := Parse(h2b("17030300026869"))
	assert.Nil(t, err)
	assert.Equal(t, ApplicationData, record.ContentType)
	assert.Equal(t, TLS12, record.Version)
	assert.Equal(t, uint16(2), record.Length)
	assertEqualBytes(t, h2b("6869"), record.Fragment)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil)
	assert.Equal(t, RecordTruncated, err)
	_, err = Parse(h2b("ff"))
	assert.Equal(t, InvalidContentTypeEncoding, err)
	_, err = Parse(h2b("160305000100"))
	assert.Equal(t, InvalidVersionEncoding, err)
	_, err = Parse(h2b("160303000a00"))
	assert.Equal(t, RecordLengthMismatch, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fragment := Opaque(h2b("facadebeefdead"))
	r := Plaintext[Opaque]{
		ContentType: Alert,
		Version:     TLS13,
		Length:      uint16(len(fragment)),
		Fragment:    fragment,
	}
	decoded, err := Parse(r.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, r, decoded)
}

// The fragment is an owned copy; mutating the input buffer after a parse
// must not affect the decoded record.
func TestParsedFragmentIsOwned(t *testing.T) {
	buf := h2b("1603030002beef")
	record, err := Parse(buf)
	assert.Nil(t, err)
	buf[5] = 0x00
	assertEqualBytes(t, h2b("beef"), record.Fragment)
}
