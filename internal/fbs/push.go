package fbs

import (
	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/arloliu/ktable/internal/pool"
)

func vector[T any](b *flatbuffers.Builder, vals []T, size int, prepend func(T)) flatbuffers.UOffsetT {
	b.StartVector(size, len(vals), size)
	for i := len(vals) - 1; i >= 0; i-- {
		prepend(vals[i])
	}

	return b.EndVector(len(vals))
}

// Int32s writes vals as an int vector.
func Int32s(b *flatbuffers.Builder, vals []int32) flatbuffers.UOffsetT {
	return vector(b, vals, flatbuffers.SizeInt32, b.PrependInt32)
}

// Int64s writes vals as a long vector.
func Int64s(b *flatbuffers.Builder, vals []int64) flatbuffers.UOffsetT {
	return vector(b, vals, flatbuffers.SizeInt64, b.PrependInt64)
}

// Uint64s writes vals as a ulong vector.
func Uint64s(b *flatbuffers.Builder, vals []uint64) flatbuffers.UOffsetT {
	return vector(b, vals, flatbuffers.SizeUint64, b.PrependUint64)
}

// Float64s writes vals as a double vector.
func Float64s(b *flatbuffers.Builder, vals []float64) flatbuffers.UOffsetT {
	return vector(b, vals, flatbuffers.SizeFloat64, b.PrependFloat64)
}

// Bools writes vals as a bool vector.
func Bools(b *flatbuffers.Builder, vals []bool) flatbuffers.UOffsetT {
	return vector(b, vals, flatbuffers.SizeBool, b.PrependBool)
}

// Tables writes a vector of already finished tables.
func Tables(b *flatbuffers.Builder, offsets []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	return b.CreateVectorOfTables(offsets)
}

// Strings writes vals as a string vector.
func Strings(b *flatbuffers.Builder, vals []string) flatbuffers.UOffsetT {
	offsets, cleanup := pool.GetOffsetSlice(len(vals))
	defer cleanup()

	for i, s := range vals {
		offsets[i] = b.CreateString(s)
	}

	return vector(b, offsets, flatbuffers.SizeUOffsetT, b.PrependUOffsetT)
}

// BytesTables writes vals as a vector of Bytes tables.
func BytesTables(b *flatbuffers.Builder, vals [][]byte) flatbuffers.UOffsetT {
	offsets, cleanup := pool.GetOffsetSlice(len(vals))
	defer cleanup()

	for i, v := range vals {
		value := b.CreateByteVector(v)
		BytesStart(b)
		BytesAddValue(b, value)
		offsets[i] = BytesEnd(b)
	}

	return vector(b, offsets, flatbuffers.SizeUOffsetT, b.PrependUOffsetT)
}

// Collect reads n elements through at into a new slice.
func Collect[T any](n int, at func(int) T) []T {
	out := make([]T, n)
	for j := range out {
		out[j] = at(j)
	}

	return out
}
