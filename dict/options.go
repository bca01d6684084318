package dict

import (
	"fmt"

	"github.com/go-kit/log"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/options"
)

type config struct {
	keyType format.DictKeyType
	keys    KeyGenerator
	logger  log.Logger
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		keyType: format.DictKeyLong,
		logger:  log.NewNopLogger(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Option configures dictionary encoding.
type Option = options.Option[*config]

// WithKeyType sets the key width. The default is LONG_KEY.
func WithKeyType(keyType format.DictKeyType) Option {
	return options.New(func(c *config) error {
		if keyType == format.DictKeyNone || !keyType.IsValid() {
			return fmt.Errorf("%w: key type %d", errs.ErrInvalidDictEncoding, keyType)
		}
		c.keyType = keyType

		return nil
	})
}

// WithKeyGenerator sets the key generator. The default is a new Sequential per call.
func WithKeyGenerator(keys KeyGenerator) Option {
	return options.NoError(func(c *config) {
		c.keys = keys
	})
}

// WithLogger sets the logger used for capacity warnings.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
