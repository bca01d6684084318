// Package column holds the in-memory column vectors exchanged by the codec.
//
// Every vector carries its own validity. A nil Missing slice means no row is missing; the
// decoder always materializes it. Values at missing positions are placeholders and must
// not be interpreted.
//
// Collections keep their two levels of nullability apart:
//
//   - List[T]: a row may be missing (Missing[i]) and, when present, each element may be
//     missing (Cells[i].Missing[j]).
//   - Set[T]: a row may be missing, and a present set records at most one null member in
//     Cells[i].HasNull.
//
// Struct, Nested and Void extend the primitive kind x cardinality matrix so that arbitrary
// type trees can be represented, and Dict[T] stores dictionary encoded strings and blobs.
package column
