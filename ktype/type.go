package ktype

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

// maxDepth bounds type trees so that corrupt descriptors cannot recurse without limit.
const maxDepth = 64

// ValueConverter translates between host values and storage values of a logical type.
//
// Encode is never called with a nil value and Decode is never called for a missing slot.
type ValueConverter interface {
	// NeedsConversion reports whether Encode and Decode do any work.
	NeedsConversion() bool
	// Encode converts a host value into its storage representation.
	Encode(value any) (any, error)
	// Decode converts a storage value into its host representation.
	Decode(value any) (any, error)
}

// Type is a node of a KNIME type tree. The implementations are Primitive, *List, *Struct and *Logical.
type Type interface {
	fmt.Stringer
	isType()
}

// PrimitiveID identifies a primitive storage kind.
type PrimitiveID uint8

const (
	IDInt32 PrimitiveID = iota
	IDInt64
	IDString
	IDDouble
	IDBool
	IDBlob
	IDNull

	numPrimitives
)

var primitiveNames = [numPrimitives]string{
	IDInt32:  "int32",
	IDInt64:  "int64",
	IDString: "string",
	IDDouble: "double",
	IDBool:   "bool",
	IDBlob:   "blob",
	IDNull:   "null",
}

func (id PrimitiveID) String() string {
	if id >= numPrimitives {
		return fmt.Sprintf("PrimitiveID(%d)", uint8(id))
	}

	return primitiveNames[id]
}

// Primitive is a leaf storage type.
type Primitive struct {
	id  PrimitiveID
	key format.DictKeyType
}

// primitives caches every (id, key) pair so the constructors never allocate.
var primitives = func() (table [numPrimitives][format.DictKeyLong + 1]Primitive) {
	for id := range numPrimitives {
		for key := format.DictKeyNone; key <= format.DictKeyLong; key++ {
			table[id][key] = Primitive{id: id, key: key}
		}
	}

	return table
}()

// NewPrimitive returns the primitive for id with the given dictionary key type.
// Dictionary encoding is only valid for IDString and IDBlob.
func NewPrimitive(id PrimitiveID, key format.DictKeyType) (Primitive, error) {
	if id >= numPrimitives {
		return Primitive{}, fmt.Errorf("%w: %s", errs.ErrUnknownPrimitive, id)
	}
	if !key.IsValid() {
		return Primitive{}, fmt.Errorf("%w: key type %d", errs.ErrInvalidDictEncoding, key)
	}
	if key != format.DictKeyNone && id != IDString && id != IDBlob {
		return Primitive{}, fmt.Errorf("%w: %s", errs.ErrInvalidDictEncoding, id)
	}

	return primitives[id][key], nil
}

func Int32() Primitive  { return primitives[IDInt32][format.DictKeyNone] }
func Int64() Primitive  { return primitives[IDInt64][format.DictKeyNone] }
func String() Primitive { return primitives[IDString][format.DictKeyNone] }
func Double() Primitive { return primitives[IDDouble][format.DictKeyNone] }
func Bool() Primitive   { return primitives[IDBool][format.DictKeyNone] }
func Blob() Primitive   { return primitives[IDBlob][format.DictKeyNone] }
func Null() Primitive   { return primitives[IDNull][format.DictKeyNone] }

// DictString returns a dictionary encoded string type.
func DictString(key format.DictKeyType) Primitive {
	p, err := NewPrimitive(IDString, key)
	if err != nil {
		panic(err)
	}

	return p
}

// DictBlob returns a dictionary encoded blob type.
func DictBlob(key format.DictKeyType) Primitive {
	p, err := NewPrimitive(IDBlob, key)
	if err != nil {
		panic(err)
	}

	return p
}

func (Primitive) isType() {}

// ID returns the storage kind.
func (p Primitive) ID() PrimitiveID { return p.id }

// DictKey returns the dictionary key type, format.DictKeyNone when not dictionary encoded.
func (p Primitive) DictKey() format.DictKeyType { return p.key }

// IsDictEncoded reports whether values are stored as dictionary keys.
func (p Primitive) IsDictEncoded() bool { return p.key != format.DictKeyNone }

// Plain returns the same primitive without dictionary encoding.
func (p Primitive) Plain() Primitive { return primitives[p.id][format.DictKeyNone] }

func (p Primitive) String() string {
	if p.key == format.DictKeyNone {
		return p.id.String()
	}

	return p.id.String() + "[" + p.key.String() + "]"
}

// List is an ordered sequence of Inner values.
type List struct {
	Inner Type
}

// ListOf returns a list type of inner.
func ListOf(inner Type) *List {
	return &List{Inner: inner}
}

func (*List) isType() {}

func (l *List) String() string {
	return "list<" + typeString(l.Inner) + ">"
}

// Struct is a tuple of positional fields.
type Struct struct {
	Fields []Type
}

// StructOf returns a struct type with the given fields.
func StructOf(fields ...Type) *Struct {
	return &Struct{Fields: fields}
}

func (*Struct) isType() {}

func (s *Struct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = typeString(f)
	}

	return "struct<" + strings.Join(parts, ", ") + ">"
}

// Logical attaches an extension tag and an optional converter to a storage type.
//
// Tag is an opaque identity key. Converter may be nil, in which case it is resolved
// from a converter registry when values are converted.
type Logical struct {
	Tag       string
	Storage   Type
	Converter ValueConverter
}

// NewLogical returns a logical type. conv may be nil.
func NewLogical(tag string, storage Type, conv ValueConverter) *Logical {
	return &Logical{Tag: tag, Storage: storage, Converter: conv}
}

func (*Logical) isType() {}

func (l *Logical) String() string {
	return fmt.Sprintf("logical(%s)<%s>", l.Tag, typeString(l.Storage))
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// Equal reports whether a and b are structurally equal.
// Two logical types are equal when their tags, storage types and converters are equal.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}

		return Equal(x.Inner, y.Inner)
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !Equal(x.Fields[i], y.Fields[i]) {
				return false
			}
		}

		return true
	case *Logical:
		y, ok := b.(*Logical)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}

		return x.Tag == y.Tag && Equal(x.Storage, y.Storage) && SameConverter(x.Converter, y.Converter)
	case nil:
		return b == nil
	default:
		return false
	}
}

// SameConverter reports whether a and b are the same converter.
// Converters of a non-comparable dynamic type are never considered the same.
func SameConverter(a, b ValueConverter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	return a == b
}

// Validate checks that t is a finite tree of known nodes.
func Validate(t Type) error {
	return validate(t, 0)
}

func validate(t Type, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", errs.ErrInvalidTypeDescriptor, maxDepth)
	}

	switch x := t.(type) {
	case Primitive:
		if x.id >= numPrimitives {
			return fmt.Errorf("%w: %s", errs.ErrUnknownPrimitive, x.id)
		}

		return nil
	case *List:
		if x == nil {
			return fmt.Errorf("%w: nil list", errs.ErrInvalidTypeDescriptor)
		}

		return validate(x.Inner, depth+1)
	case *Struct:
		if x == nil {
			return fmt.Errorf("%w: nil struct", errs.ErrInvalidTypeDescriptor)
		}
		for _, f := range x.Fields {
			if err := validate(f, depth+1); err != nil {
				return err
			}
		}

		return nil
	case *Logical:
		if x == nil {
			return fmt.Errorf("%w: nil logical type", errs.ErrInvalidTypeDescriptor)
		}

		return validate(x.Storage, depth+1)
	default:
		return fmt.Errorf("%w: %T", errs.ErrInvalidTypeDescriptor, t)
	}
}

// StorageOf strips logical wrappers from the root of t.
func StorageOf(t Type) Type {
	for {
		l, ok := t.(*Logical)
		if !ok || l == nil {
			return t
		}
		t = l.Storage
	}
}
