package ktype

// ValueFactoryTag returns the logical tag of a built-in value factory of the host platform.
func ValueFactoryTag(name string) string {
	return `{"value_factory_class":"org.knime.core.data.v2.value.` + name + `"}`
}

// RowKeyColumnName is the name of the row key column on the wire.
const RowKeyColumnName = "RowKey"

var (
	RowKeyTag = ValueFactoryTag("DefaultRowKeyValueFactory")
	ListTag   = ValueFactoryTag("ListValueFactory")
	SetTag    = ValueFactoryTag("SetValueFactory")
)

// RowKeyType returns the wire type of the row key column.
func RowKeyType() *Logical {
	return NewLogical(RowKeyTag, String(), nil)
}

// IsRowKey reports whether t is the row key type.
func IsRowKey(t Type) bool {
	return Equal(t, RowKeyType())
}

// SetOf returns a set type of inner, a list tagged as a set.
func SetOf(inner Type) *Logical {
	return NewLogical(SetTag, ListOf(inner), nil)
}

// IsSet reports whether t is a set type and returns its element type.
func IsSet(t Type) (Type, bool) {
	l, ok := t.(*Logical)
	if !ok || l.Tag != SetTag {
		return nil, false
	}
	list, ok := l.Storage.(*List)
	if !ok {
		return nil, false
	}

	return list.Inner, true
}

type wrapEntry struct {
	storage Type
	tag     string
}

// wrapTable lists the primitives and primitive lists that have a canonical value factory.
var wrapTable = []wrapEntry{
	{Int32(), ValueFactoryTag("IntValueFactory")},
	{Int64(), ValueFactoryTag("LongValueFactory")},
	{String(), ValueFactoryTag("StringValueFactory")},
	{Bool(), ValueFactoryTag("BooleanValueFactory")},
	{Double(), ValueFactoryTag("DoubleValueFactory")},
	{Null(), ValueFactoryTag("VoidValueFactory")},
	{ListOf(Int32()), ValueFactoryTag("IntListValueFactory")},
	{ListOf(Int64()), ValueFactoryTag("LongListValueFactory")},
	{ListOf(String()), ValueFactoryTag("StringListValueFactory")},
	{ListOf(Bool()), ValueFactoryTag("BooleanListValueFactory")},
	{ListOf(Double()), ValueFactoryTag("DoubleListValueFactory")},
}

var unwrapTable = func() map[string]Type {
	m := make(map[string]Type, len(wrapTable))
	for _, e := range wrapTable {
		m[e.tag] = e.storage
	}

	return m
}()

// Wrap attaches the canonical value factory tag to primitives and primitive lists.
//
// Lists without a canonical tag are tagged as generic lists after wrapping their element type.
// Struct fields are wrapped in place. Logical types and types without a canonical tag are
// returned unchanged.
func Wrap(t Type) Type {
	for _, e := range wrapTable {
		if Equal(t, e.storage) {
			return NewLogical(e.tag, t, nil)
		}
	}

	switch x := t.(type) {
	case *List:
		return NewLogical(ListTag, ListOf(Wrap(x.Inner)), nil)
	case *Struct:
		fields := make([]Type, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Wrap(f)
		}

		return StructOf(fields...)
	default:
		return t
	}
}

// Unwrap removes the canonical value factory tags added by Wrap, including those of set elements.
// Logical types with other tags are returned unchanged.
func Unwrap(t Type) Type {
	switch x := t.(type) {
	case *Logical:
		if storage, ok := unwrapTable[x.Tag]; ok {
			return storage
		}
		if list, ok := x.Storage.(*List); ok {
			switch x.Tag {
			case ListTag:
				return ListOf(Unwrap(list.Inner))
			case SetTag:
				return SetOf(Unwrap(list.Inner))
			}
		}

		return t
	case *Struct:
		fields := make([]Type, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = Unwrap(f)
		}

		return StructOf(fields...)
	default:
		return t
	}
}

// IsWrapTag reports whether tag was attached by Wrap, either as a canonical value factory
// tag or as the generic list tag. Such tags carry no conversion.
func IsWrapTag(tag string) bool {
	_, ok := unwrapTable[tag]
	return ok || tag == ListTag
}
