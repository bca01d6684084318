package column

import (
	"github.com/arloliu/ktable/format"
)

// DictElem is the set of element types that may be dictionary encoded.
type DictElem interface {
	string | []byte
}

// Dict is a dictionary encoded column in struct-dict layout.
//
// Row i refers to dictionary entry Keys[i]. The entry value is stored once, in
// Entries at the first row that uses the key; Entries.Missing is true at every other row.
// Missing marks rows that are null and carry no key.
type Dict[T DictElem] struct {
	KeyType format.DictKeyType
	Keys    []uint64
	Entries Scalar[T]
	Missing []bool
}

func (d *Dict[T]) Type() format.ColumnType { return tagOf[T](format.Scalar) }
func (d *Dict[T]) Len() int                { return len(d.Keys) }
func (d *Dict[T]) IsMissing(i int) bool    { return isMissing(d.Missing, i) }

// HasEntry reports whether row i stores the value of its key.
func (d *Dict[T]) HasEntry(i int) bool {
	return !d.IsMissing(i) && !d.Entries.IsMissing(i)
}

// Dictionary returns the distinct keys and their values in first-use order.
func (d *Dict[T]) Dictionary() (keys []uint64, values []T) {
	for i := range d.Keys {
		if d.HasEntry(i) {
			keys = append(keys, d.Keys[i])
			values = append(values, d.Entries.Values[i])
		}
	}

	return keys, values
}
