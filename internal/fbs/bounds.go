package fbs

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/arloliu/ktable/errs"
)

// Element sizes of the payload vectors. String and table vectors hold 4-byte offsets.
const (
	sizeByte   = flatbuffers.SizeByte
	sizeInt32  = flatbuffers.SizeInt32
	sizeInt64  = flatbuffers.SizeInt64
	sizeOffset = flatbuffers.SizeUOffsetT
)

// VectorFits reports an errs.ErrMalformedBuffer error unless n elements of size bytes starting
// at byte start lie inside a buffer of bufLen bytes.
func VectorFits(start, n, size, bufLen int) error {
	if start < 0 || n < 0 || start > bufLen || n > (bufLen-start)/size {
		return fmt.Errorf("%w: vector of %d elements of %d bytes at offset %d overruns %d byte buffer",
			errs.ErrMalformedBuffer, n, size, start, bufLen)
	}

	return nil
}

// vectorLen returns the length of the vector at field offset o of t.
//
// Lengths are checked against the bytes left after the vector start, so a forged length can
// never size an allocation beyond the buffer. A vector that does not fit panics with an
// errs.ErrMalformedBuffer error, which Recover returns unchanged.
func vectorLen(t *flatbuffers.Table, o flatbuffers.UOffsetT, size int) int {
	n := t.VectorLen(o)
	if err := VectorFits(int(t.Vector(o)), n, size, len(t.Bytes)); err != nil {
		panic(err)
	}

	return n
}
