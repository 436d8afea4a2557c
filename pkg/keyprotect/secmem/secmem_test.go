package secmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocZeroed(t *testing.T) {
	buf := Alloc(16)
	defer buf.Free()
	for _, b := range buf.Bytes() {
		assert.Equal(t, byte(0), b)
	}
}

func TestFreeZeroesAndMarksDone(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	buf := Wrap(data)
	buf.Free()
	assert.Equal(t, []byte{0, 0, 0, 0}, data)
	assert.Panics(t, func() { buf.Bytes() })
}

func TestFreeIdempotent(t *testing.T) {
	buf := Alloc(4)
	buf.Free()
	assert.NotPanics(t, func() { buf.Free() })
}

func TestZeroHelper(t *testing.T) {
	data := []byte{0xaa, 0xbb, 0xcc}
	Zero(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
