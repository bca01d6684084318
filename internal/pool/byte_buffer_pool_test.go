package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndClone(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, bb.Len())

	clone := bb.Clone()
	require.Equal(t, []byte("hello"), clone)

	bb.B[0] = 'j'
	require.Equal(t, byte('h'), clone[0], "clone must not alias the buffer")
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.Grow(10)
	require.GreaterOrEqual(t, cap(bb.B), 10)
	require.Equal(t, 0, bb.Len())

	big := NewByteBuffer(0)
	big.Grow(EnvelopeBufferDefaultSize * 2)
	require.GreaterOrEqual(t, cap(big.B), EnvelopeBufferDefaultSize*2)
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("data"))
	capBefore := cap(bb.B)

	bb.Reset()

	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBufferPool_DropsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	require.NotNil(t, bb)
	_, _ = bb.Write(make([]byte, 64))
	p.Put(bb)

	next := p.Get()
	require.Equal(t, 0, next.Len())
	p.Put(nil)
}

func TestEnvelopeBuffer(t *testing.T) {
	bb := GetEnvelopeBuffer()
	defer PutEnvelopeBuffer(bb)

	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 0)
}

func TestGetBuilder(t *testing.T) {
	b := GetBuilder()
	off := b.CreateString("RowKey")
	b.Finish(off)
	require.NotEmpty(t, b.FinishedBytes())
	PutBuilder(b)

	again := GetBuilder()
	require.Equal(t, 0, int(again.Offset()))
	PutBuilder(again)
}

func TestGetOffsetSlice(t *testing.T) {
	offsets, cleanup := GetOffsetSlice(3)
	require.Len(t, offsets, 3)
	cleanup()

	offsets, cleanup = GetOffsetSlice(10)
	defer cleanup()
	require.Len(t, offsets, 10)
}
