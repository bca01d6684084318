package ktype

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	specTypeList   = "list"
	specTypeStruct = "struct"

	traitsSimple = "simple"
	traitsList   = "list"
	traitsStruct = "struct"
)

var primitiveSpecs = map[PrimitiveID]string{
	IDInt32:  "int",
	IDInt64:  "long",
	IDDouble: "double",
	IDBool:   "boolean",
	IDString: "string",
	IDBlob:   "variable_width_binary",
	IDNull:   "void",
}

var specPrimitives = func() map[string]PrimitiveID {
	m := make(map[string]PrimitiveID, len(primitiveSpecs))
	for id, name := range primitiveSpecs {
		m[name] = id
	}

	return m
}()

// Spec is the storage shape half of a type descriptor.
//
// A primitive spec is encoded as a bare string ("int", "string", ...). Lists encode as
// {"type":"list","inner_type":...} and structs as {"type":"struct","inner_types":[...]}.
type Spec struct {
	Primitive  string
	Type       string
	InnerType  *Spec
	InnerTypes []Spec
}

type specObject struct {
	Type       string `json:"type"`
	InnerType  *Spec  `json:"inner_type,omitempty"`
	InnerTypes []Spec `json:"inner_types,omitempty"`
}

type structSpecObject struct {
	Type       string `json:"type"`
	InnerTypes []Spec `json:"inner_types"`
}

// MarshalJSON implements json.Marshaler.
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.Type == "" {
		return json.Marshal(s.Primitive)
	}

	if s.Type == specTypeStruct {
		fields := s.InnerTypes
		if fields == nil {
			fields = []Spec{}
		}

		return json.Marshal(structSpecObject{Type: s.Type, InnerTypes: fields})
	}

	return json.Marshal(specObject{Type: s.Type, InnerType: s.InnerType})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spec) UnmarshalJSON(data []byte) error {
	*s = Spec{}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Primitive)
	}

	var obj specObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Type == "" {
		return fmt.Errorf("%w: spec object without type", errs.ErrInvalidTypeDescriptor)
	}
	s.Type, s.InnerType, s.InnerTypes = obj.Type, obj.InnerType, obj.InnerTypes

	return nil
}

// TraitValues holds the leaf traits of a type descriptor node.
type TraitValues struct {
	LogicalType  string `json:"logical_type,omitempty"`
	DictEncoding string `json:"dict_encoding,omitempty"`
}

// Traits is the logical half of a type descriptor.
//
// Type is "simple", "list" or "struct". Inner holds the list element traits,
// Fields the struct field traits; both are encoded under the "inner" key.
type Traits struct {
	Type   string
	Inner  *Traits
	Fields []Traits
	Traits TraitValues
}

type traitsObject struct {
	Type   string              `json:"type"`
	Inner  jsoniter.RawMessage `json:"inner,omitempty"`
	Traits TraitValues         `json:"traits"`
}

// MarshalJSON implements json.Marshaler. The "traits" key is always present.
func (t Traits) MarshalJSON() ([]byte, error) {
	obj := traitsObject{Type: t.Type, Traits: t.Traits}

	var (
		inner []byte
		err   error
	)
	switch t.Type {
	case traitsList:
		inner, err = json.Marshal(t.Inner)
	case traitsStruct:
		fields := t.Fields
		if fields == nil {
			fields = []Traits{}
		}
		inner, err = json.Marshal(fields)
	}
	if err != nil {
		return nil, err
	}
	obj.Inner = inner

	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Traits) UnmarshalJSON(data []byte) error {
	var obj traitsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*t = Traits{Type: obj.Type, Traits: obj.Traits}
	if len(obj.Inner) == 0 {
		return nil
	}

	switch obj.Type {
	case traitsList:
		t.Inner = &Traits{}
		return json.Unmarshal(obj.Inner, t.Inner)
	case traitsStruct:
		return json.Unmarshal(obj.Inner, &t.Fields)
	default:
		return nil
	}
}

// ToWire decomposes t into its spec and traits.
func ToWire(t Type) (Spec, Traits, error) {
	return toWire(t, 0)
}

func toWire(t Type, depth int) (Spec, Traits, error) {
	if depth > maxDepth {
		return Spec{}, Traits{}, fmt.Errorf("%w: nesting deeper than %d", errs.ErrInvalidTypeDescriptor, maxDepth)
	}

	var logicalTag string
	if l, ok := t.(*Logical); ok {
		if l == nil {
			return Spec{}, Traits{}, fmt.Errorf("%w: nil logical type", errs.ErrInvalidTypeDescriptor)
		}
		if _, nested := l.Storage.(*Logical); nested {
			return Spec{}, Traits{}, fmt.Errorf("%w: logical type %s directly wraps another logical type",
				errs.ErrInvalidTypeDescriptor, l.Tag)
		}
		logicalTag = l.Tag
		t = l.Storage
	}

	switch x := t.(type) {
	case Primitive:
		name, ok := primitiveSpecs[x.id]
		if !ok {
			return Spec{}, Traits{}, fmt.Errorf("%w: %s", errs.ErrUnknownPrimitive, x.id)
		}
		traits := Traits{Type: traitsSimple, Traits: TraitValues{LogicalType: logicalTag}}
		if x.IsDictEncoded() {
			traits.Traits.DictEncoding = x.key.String()
		}

		return Spec{Primitive: name}, traits, nil
	case *List:
		if x == nil {
			return Spec{}, Traits{}, fmt.Errorf("%w: nil list", errs.ErrInvalidTypeDescriptor)
		}
		innerSpec, innerTraits, err := toWire(x.Inner, depth+1)
		if err != nil {
			return Spec{}, Traits{}, err
		}

		return Spec{Type: specTypeList, InnerType: &innerSpec},
			Traits{Type: traitsList, Inner: &innerTraits, Traits: TraitValues{LogicalType: logicalTag}}, nil
	case *Struct:
		if x == nil {
			return Spec{}, Traits{}, fmt.Errorf("%w: nil struct", errs.ErrInvalidTypeDescriptor)
		}
		specs := make([]Spec, len(x.Fields))
		traits := make([]Traits, len(x.Fields))
		for i, f := range x.Fields {
			var err error
			if specs[i], traits[i], err = toWire(f, depth+1); err != nil {
				return Spec{}, Traits{}, err
			}
		}

		return Spec{Type: specTypeStruct, InnerTypes: specs},
			Traits{Type: traitsStruct, Fields: traits, Traits: TraitValues{LogicalType: logicalTag}}, nil
	default:
		return Spec{}, Traits{}, fmt.Errorf("%w: %T", errs.ErrInvalidTypeDescriptor, t)
	}
}

// FromWire rebuilds a type from its spec and traits.
//
// Logical tags are kept as opaque strings and no converter is attached; a tag is only
// resolved against a registry when values are converted. A round trip through ToWire
// therefore preserves a type up to converter identity: Equal holds for the input only
// when none of its logical types carries a converter.
func FromWire(spec Spec, traits Traits) (Type, error) {
	return fromWire(spec, traits, 0)
}

func fromWire(spec Spec, traits Traits, depth int) (Type, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", errs.ErrInvalidTypeDescriptor, maxDepth)
	}

	var storage Type
	switch traits.Type {
	case traitsSimple, "":
		if spec.Type != "" {
			return nil, fmt.Errorf("%w: simple traits for %s spec", errs.ErrInvalidTypeDescriptor, spec.Type)
		}
		id, ok := specPrimitives[spec.Primitive]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrUnknownPrimitive, spec.Primitive)
		}
		key := format.DictKeyNone
		if traits.Traits.DictEncoding != "" {
			var err error
			if key, err = format.ParseDictKeyType(traits.Traits.DictEncoding); err != nil {
				return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDictEncoding, err)
			}
		}
		p, err := NewPrimitive(id, key)
		if err != nil {
			return nil, err
		}
		storage = p
	case traitsList:
		if spec.Type != specTypeList || spec.InnerType == nil || traits.Inner == nil {
			return nil, fmt.Errorf("%w: malformed list descriptor", errs.ErrInvalidTypeDescriptor)
		}
		inner, err := fromWire(*spec.InnerType, *traits.Inner, depth+1)
		if err != nil {
			return nil, err
		}
		storage = ListOf(inner)
	case traitsStruct:
		if spec.Type != specTypeStruct || len(spec.InnerTypes) != len(traits.Fields) {
			return nil, fmt.Errorf("%w: malformed struct descriptor", errs.ErrInvalidTypeDescriptor)
		}
		fields := make([]Type, len(spec.InnerTypes))
		for i := range spec.InnerTypes {
			f, err := fromWire(spec.InnerTypes[i], traits.Fields[i], depth+1)
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		storage = StructOf(fields...)
	default:
		return nil, fmt.Errorf("%w: traits type %q", errs.ErrInvalidTypeDescriptor, traits.Type)
	}

	if tag := traits.Traits.LogicalType; tag != "" {
		return NewLogical(tag, storage, nil), nil
	}

	return storage, nil
}

// MarshalDescriptor encodes t as a JSON spec and JSON traits.
func MarshalDescriptor(t Type) (spec, traits []byte, err error) {
	s, tr, err := ToWire(t)
	if err != nil {
		return nil, nil, err
	}
	if spec, err = json.Marshal(s); err != nil {
		return nil, nil, err
	}
	if traits, err = json.Marshal(tr); err != nil {
		return nil, nil, err
	}

	return spec, traits, nil
}

// UnmarshalDescriptor decodes a type from a JSON spec and JSON traits.
func UnmarshalDescriptor(spec, traits []byte) (Type, error) {
	var (
		s  Spec
		tr Traits
	)
	if err := json.Unmarshal(spec, &s); err != nil {
		return nil, fmt.Errorf("%w: spec: %w", errs.ErrInvalidTypeDescriptor, err)
	}
	if err := json.Unmarshal(traits, &tr); err != nil {
		return nil, fmt.Errorf("%w: traits: %w", errs.ErrInvalidTypeDescriptor, err)
	}

	return FromWire(s, tr)
}
