// Package ktype models KNIME column types.
//
// A type is a tree built from four node kinds:
//
//   - Primitive: a storage kind (int32, int64, string, double, bool, blob or null), optionally
//     dictionary encoded when the kind is string or blob.
//   - List: an ordered sequence of a single inner type whose elements may be missing.
//   - Struct: a fixed-arity tuple of unnamed, positional fields.
//   - Logical: an opaque tag and an optional value converter attached to a storage type.
//
// Types are immutable values: construct them with the helper functions and compare them
// with Equal, never with ==.
//
//	t := ktype.ListOf(ktype.StructOf(ktype.Int64(), ktype.Datetime(ktype.LocalDateTag)))
//	spec, traits, err := ktype.ToWire(t)
//	back, err := ktype.FromWire(spec, traits)
//	ktype.Equal(t, back) // true
package ktype
