// Package encoding provides the per-column wire codec of the table payload.
//
// EncodeColumn writes a column.Vector as one flatbuffers Column table and DecodeColumn reads
// it back into a freshly allocated vector. The wire type tag selects the layout:
//
//   - Scalar tags store a value vector and a missing vector of the same length.
//   - List tags store one Cell per row, each with its values and an inner missing vector.
//   - Set tags store one Cell per row with its values and a keepDummy flag that records
//     whether the set held a null member.
//   - STRUCT stores one child column per field, NESTED_LIST an offsets vector and one child
//     column, VOID only a row count.
//   - STRING and BYTES columns with a dictionary key type store a struct-dict layout:
//     dictKeys, the entry values and an entryMissing vector.
//
// Values at missing positions are written as zero placeholders and are never read back as data:
// the missing vector alone decides nullness.
//
// # Usage
//
// Encoding happens inside a flatbuffers builder, before the enclosing table is started:
//
//	b := flatbuffers.NewBuilder(0)
//	off, err := encoding.EncodeColumn(b, vec)
//
// Decoding works on an accessor of an encoded table:
//
//	var col fbs.Column
//	root.Columns(&col, i)
//	vec, err := encoding.DecodeColumn(&col)
//
// Decoded vectors never alias the buffer they were read from.
package encoding
