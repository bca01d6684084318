// Package coerce normalizes host values into column vectors of a declared type and back.
//
// Host values are plain Go values held in []any, with nil for a missing value:
//
//   - int32 and int64 columns accept every Go integer type that fits the column width.
//   - double columns accept float32, float64 and integers.
//   - bool, string and blob columns accept bool, string and []byte.
//   - list and set columns accept any slice, struct columns a slice with one element per field.
//   - logical columns accept whatever their converter's Encode accepts.
//
// Values performs the reverse mapping. It returns int32, int64, float64, bool, string and []byte
// for primitives, []any for lists, sets and structs, and the converter's Decode result for
// logical columns. A set that held a null member decodes with a single trailing nil.
//
// The codec itself only ever sees column vectors; all host-type dispatch lives here.
package coerce
