package xmlpull

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameScratchAppendRune(t *testing.T) {
	s := newNameScratch(4)
	begin := s.Len()
	s.AppendRune('x')
	s.AppendRune(0x4E2D)
	end := s.Len()
	assert.Equal(t, "x中", string(s.Bytes()[begin:end]))
}

func TestNameScratchGrowsPastInitialIncrement(t *testing.T) {
	s := newNameScratch(1)
	for i := 0; i < 100; i++ {
		s.AppendRune('a')
	}
	assert.Equal(t, 100, s.Len())
}

func TestNameScratchDefaultIncrement(t *testing.T) {
	s := newNameScratch(0)
	assert.Equal(t, defaultScratchIncrement, s.increment)
}
