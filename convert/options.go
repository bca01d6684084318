package convert

import (
	"reflect"

	"github.com/go-kit/log"

	"github.com/arloliu/ktable/internal/options"
	"github.com/arloliu/ktable/ktype"
)

// RegisterOption configures a registration.
type RegisterOption = options.Option[*Bundle]

// WithValueType declares the host type handled by the converter.
// Registry.ForValue uses it to pick a converter for a host value.
func WithValueType(t reflect.Type) RegisterOption {
	return options.NoError(func(b *Bundle) {
		b.ValueType = t
	})
}

// WithDataType sets a human readable name for the logical type, e.g. "Local Date".
func WithDataType(name string) RegisterOption {
	return options.NoError(func(b *Bundle) {
		b.DataType = name
	})
}

// WithStorage declares the storage type of the logical type.
func WithStorage(t ktype.Type) RegisterOption {
	return options.New(func(b *Bundle) error {
		if err := ktype.Validate(t); err != nil {
			return err
		}
		b.Storage = t

		return nil
	})
}

// RegistryOption configures a Registry.
type RegistryOption = options.Option[*Registry]

// WithLogger sets the logger used for registry warnings. The default discards everything.
func WithLogger(logger log.Logger) RegistryOption {
	return options.NoError(func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	})
}
