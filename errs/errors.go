// Package errs defines the error values returned by ktable packages.
//
// Errors are organized in five categories. Every specific error wraps exactly one
// category (ErrValueKindMismatch wraps two), so callers can test for a whole family:
//
//	if errors.Is(err, errs.ErrSchema) {
//	    // duplicate names, empty names, mismatched lengths ...
//	}
package errs

import (
	"errors"
	"fmt"
)

// Categories.
var (
	// ErrSchema reports a structurally invalid schema. It is always returned before any encoding work begins.
	ErrSchema = errors.New("schema error")
	// ErrType reports a value or type that cannot be mapped to the declared column type.
	ErrType = errors.New("type error")
	// ErrEncoding reports a failure while assembling the binary buffer.
	ErrEncoding = errors.New("encoding error")
	// ErrDecoding reports a truncated or malformed buffer.
	ErrDecoding = errors.New("decoding error")
	// ErrConversion reports a failure raised by a value converter.
	ErrConversion = errors.New("conversion error")
)

// Schema errors.
var (
	ErrDuplicateColumnName = fmt.Errorf("%w: duplicate column name", ErrSchema)
	ErrEmptyColumnName     = fmt.Errorf("%w: empty column name", ErrSchema)
	ErrSchemaLength        = fmt.Errorf("%w: mismatched schema lengths", ErrSchema)
	ErrRowKeyCount         = fmt.Errorf("%w: row key count does not match row count", ErrSchema)
	ErrColumnCount         = fmt.Errorf("%w: column count does not match schema", ErrSchema)
	ErrMissingRowKey       = fmt.Errorf("%w: row key column not found", ErrSchema)
)

// Type errors.
var (
	ErrUnknownPrimitive      = fmt.Errorf("%w: unknown primitive type", ErrType)
	ErrUnregisteredLogical   = fmt.Errorf("%w: no converter registered for logical type", ErrType)
	ErrInvalidDictEncoding   = fmt.Errorf("%w: dictionary encoding is only valid for string and blob", ErrType)
	ErrUnsupportedHostType   = fmt.Errorf("%w: unsupported host value type", ErrType)
	ErrInvalidTypeDescriptor = fmt.Errorf("%w: invalid type descriptor", ErrType)
	ErrVectorTypeMismatch    = fmt.Errorf("%w: vector does not match column type", ErrType)
	ErrInvalidSentinel       = fmt.Errorf("%w: invalid sentinel", ErrType)

	// ErrValueKindMismatch is returned when a value's runtime kind disagrees with the declared column kind.
	// It matches both ErrType and ErrEncoding.
	ErrValueKindMismatch = fmt.Errorf("%w: %w: value kind does not match column kind", ErrType, ErrEncoding)
)

// Encoding errors.
var (
	ErrDictKeyOverflow     = fmt.Errorf("%w: dictionary key exceeds key width", ErrEncoding)
	ErrUnsupportedNesting  = fmt.Errorf("%w: unsupported nesting", ErrEncoding)
	ErrSerializerNotBytes  = fmt.Errorf("%w: serializer is only valid on bytes columns", ErrEncoding)
	ErrVectorLength        = fmt.Errorf("%w: vector length mismatch", ErrEncoding)
	ErrInvalidCompression  = fmt.Errorf("%w: invalid compression type", ErrEncoding)
	ErrPayloadTooLarge     = fmt.Errorf("%w: payload exceeds 4GiB", ErrEncoding)
	ErrInvalidHeaderFields = fmt.Errorf("%w: invalid header fields", ErrEncoding)
)

// Decoding errors.
var (
	ErrInvalidHeaderSize  = fmt.Errorf("%w: invalid header size", ErrDecoding)
	ErrInvalidHeaderFlags = fmt.Errorf("%w: invalid header flags", ErrDecoding)
	ErrTruncatedBuffer    = fmt.Errorf("%w: truncated buffer", ErrDecoding)
	ErrChecksumMismatch   = fmt.Errorf("%w: checksum mismatch", ErrDecoding)
	ErrUnknownColumnType  = fmt.Errorf("%w: unknown column type tag", ErrDecoding)
	ErrLengthMismatch     = fmt.Errorf("%w: parallel vector length mismatch", ErrDecoding)
	ErrMalformedBuffer    = fmt.Errorf("%w: malformed buffer", ErrDecoding)
	ErrDictKeyOutOfRange  = fmt.Errorf("%w: dictionary key has no entry", ErrDecoding)
	ErrColumnIndex        = fmt.Errorf("%w: column index out of range", ErrDecoding)
	ErrRowIndex           = fmt.Errorf("%w: row index out of range", ErrDecoding)
	ErrRawSize            = fmt.Errorf("%w: implausible uncompressed payload size", ErrDecoding)
)

// ConversionError annotates a converter failure with the column name and row index where it occurred.
//
// Both ErrConversion and the converter's own error are reachable with errors.Is and errors.As.
type ConversionError struct {
	Column string
	Row    int
	Err    error
}

// NewConversionError wraps err with the given column and row.
func NewConversionError(column string, row int, err error) *ConversionError {
	return &ConversionError{Column: column, Row: row, Err: err}
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error: column %q, row %d: %v", e.Column, e.Row, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}
