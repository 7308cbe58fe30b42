package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countdown struct {
	n int
}

func (c countdown) Transition() countdown {
	if c.n > 0 {
		c.n--
	}
	return c
}

func (c countdown) Halted() bool {
	return c.n == 0
}

func TestRun(t *testing.T) {
	assert.Equal(t, countdown{}, Run(countdown{n: 3}))
	// an already halted machine stays put
	assert.Equal(t, countdown{}, Run(countdown{}))
}
