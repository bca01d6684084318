// Package convert provides value converters for logical types and the registry that maps
// logical tags to them.
//
// A converter translates between host values and storage values. The registry is safe for
// concurrent use: writers are serialized and readers load an immutable snapshot without locking,
// which suits the read-mostly pattern of converters registered once at startup.
//
//	reg := convert.NewRegistry()
//	reg.Register(tag, myConverter, convert.WithValueType(reflect.TypeOf(MyValue{})))
//
//	conv := reg.Lookup(tag) // never nil, falls back to a pass-through converter
//
// Default returns the process-wide registry with the date and time converters registered.
package convert
