package convert

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/internal/options"
	"github.com/arloliu/ktable/ktype"
)

// Bundle is a registered converter together with what is known about its logical type.
type Bundle struct {
	Tag       string
	Converter ValueConverter
	// ValueType is the host type handled by Converter, nil if unknown.
	ValueType reflect.Type
	// DataType is a human readable name of the logical type.
	DataType string
	// Storage is the storage type of the logical type, nil if unknown.
	Storage ktype.Type
}

// LogicalType returns the logical type described by the bundle, or nil if the storage type is unknown.
func (b *Bundle) LogicalType() *ktype.Logical {
	if b.Storage == nil {
		return nil
	}

	return ktype.NewLogical(b.Tag, b.Storage, b.Converter)
}

// valueChecker is implemented by converters that accept only some values of their host type.
type valueChecker interface {
	CanConvert(value any) bool
}

type snapshot struct {
	byTag  map[string]*Bundle
	byType map[reflect.Type][]*Bundle
}

// Registry maps logical tags to converters.
//
// Registration is serialized by a mutex and publishes a new immutable snapshot; lookups
// load the current snapshot and never block.
type Registry struct {
	mu       sync.Mutex
	current  *atomic.Pointer[snapshot]
	lists    *collection
	logger   log.Logger
	fallback ValueConverter
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		current: atomic.NewPointer(&snapshot{
			byTag:  map[string]*Bundle{},
			byType: map[reflect.Type][]*Bundle{},
		}),
		logger:   log.NewNopLogger(),
		fallback: Fallback(),
	}
	r.lists = &collection{registry: r}
	_ = options.Apply(r, opts...)

	return r
}

// Register associates tag with conv. Registering a tag again replaces the previous converter
// and logs a warning.
func (r *Registry) Register(tag string, conv ValueConverter, opts ...RegisterOption) error {
	if tag == "" {
		return fmt.Errorf("%w: empty logical tag", errs.ErrInvalidTypeDescriptor)
	}
	if conv == nil {
		return fmt.Errorf("%w: nil converter for %s", errs.ErrInvalidTypeDescriptor, tag)
	}

	bundle := &Bundle{Tag: tag, Converter: conv}
	if err := options.Apply(bundle, opts...); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.current.Load()
	next := &snapshot{
		byTag:  make(map[string]*Bundle, len(old.byTag)+1),
		byType: make(map[reflect.Type][]*Bundle, len(old.byType)+1),
	}
	for k, v := range old.byTag {
		next.byTag[k] = v
	}

	if prev, ok := old.byTag[tag]; ok {
		level.Warn(r.logger).Log("msg", "logical type registered twice, replacing converter",
			"tag", tag, "previous", fmt.Sprintf("%T", prev.Converter), "converter", fmt.Sprintf("%T", conv))
	}
	next.byTag[tag] = bundle

	for k, bundles := range old.byType {
		kept := make([]*Bundle, 0, len(bundles))
		for _, b := range bundles {
			if b.Tag != tag {
				kept = append(kept, b)
			}
		}
		if len(kept) > 0 {
			next.byType[k] = kept
		}
	}
	if bundle.ValueType != nil {
		next.byType[bundle.ValueType] = append(next.byType[bundle.ValueType], bundle)
	}

	r.current.Store(next)

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tag string, conv ValueConverter, opts ...RegisterOption) {
	if err := r.Register(tag, conv, opts...); err != nil {
		panic(err)
	}
}

// Get returns the converter registered for tag.
func (r *Registry) Get(tag string) (ValueConverter, error) {
	b, ok := r.current.Load().byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnregisteredLogical, tag)
	}

	return b.Converter, nil
}

// Bundle returns the registration of tag.
func (r *Registry) Bundle(tag string) (*Bundle, bool) {
	b, ok := r.current.Load().byTag[tag]
	return b, ok
}

// Lookup returns the converter for tag. Generic list and set tags get an element-wise
// converter and unknown tags get the pass-through Fallback converter, so Lookup never returns nil.
func (r *Registry) Lookup(tag string) ValueConverter {
	if b, ok := r.current.Load().byTag[tag]; ok {
		return b.Converter
	}
	if tag == ktype.ListTag || tag == ktype.SetTag {
		return r.lists
	}

	level.Debug(r.logger).Log("msg", "no converter registered, using fallback", "tag", tag)

	return r.fallback
}

// ForValue returns the registration whose host type matches value. When several converters
// share a host type, the first one whose CanConvert method accepts value wins.
func (r *Registry) ForValue(value any) (*Bundle, bool) {
	if value == nil {
		return nil, false
	}

	for _, b := range r.current.Load().byType[reflect.TypeOf(value)] {
		if checker, ok := b.Converter.(valueChecker); ok && !checker.CanConvert(value) {
			continue
		}

		return b, true
	}

	return nil, false
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	snap := r.current.Load()
	tags := make([]string, 0, len(snap.byTag))
	for tag := range snap.byTag {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry. The date and time converters are registered on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterDatetime(defaultRegistry)
	})

	return defaultRegistry
}
