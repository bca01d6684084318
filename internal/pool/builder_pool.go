package pool

import (
	"sync"

	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	builderInitialSize  = 1024 * 16
	builderMaxThreshold = 1024 * 1024 * 32
)

var builderPool = sync.Pool{
	New: func() any {
		return flatbuffers.NewBuilder(builderInitialSize)
	},
}

// GetBuilder retrieves a reset flatbuffers builder.
func GetBuilder() *flatbuffers.Builder {
	b, _ := builderPool.Get().(*flatbuffers.Builder)
	b.Reset()

	return b
}

// PutBuilder returns a builder to the pool. Builders whose buffer grew beyond
// 32MiB are dropped. The builder's finished bytes must not be used afterwards.
func PutBuilder(b *flatbuffers.Builder) {
	if b == nil || cap(b.Bytes) > builderMaxThreshold {
		return
	}

	builderPool.Put(b)
}

var offsetSlicePool = sync.Pool{
	New: func() any { return &[]flatbuffers.UOffsetT{} },
}

// GetOffsetSlice retrieves an offset slice of length size.
//
// Vectors of strings and tables need all element offsets before the vector itself can be
// started, so writers collect them here first. The caller must call the returned cleanup
// function once the vector is written.
//
// Example:
//
//	offsets, cleanup := pool.GetOffsetSlice(len(names))
//	defer cleanup()
func GetOffsetSlice(size int) ([]flatbuffers.UOffsetT, func()) {
	ptr, _ := offsetSlicePool.Get().(*[]flatbuffers.UOffsetT)
	slice := *ptr

	if cap(slice) < size {
		slice = make([]flatbuffers.UOffsetT, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { offsetSlicePool.Put(ptr) }
}
