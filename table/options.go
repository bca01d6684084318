package table

import (
	"fmt"

	"github.com/go-kit/log"

	"github.com/arloliu/ktable/compress"
	"github.com/arloliu/ktable/convert"
	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/format"
	"github.com/arloliu/ktable/internal/options"
)

type config struct {
	compression format.CompressionType
	bigEndian   bool
	checksum    bool
	logger      log.Logger
	metrics     *Metrics
	registry    *convert.Registry
	dictOpts    []dict.Option
	maxRawSize  int
	dictCache   int
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		compression: format.CompressionNone,
		checksum:    true,
		logger:      log.NewNopLogger(),
		maxRawSize:  compress.DefaultMaxRawSize,
		dictCache:   dict.DefaultCacheSize,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.registry == nil {
		cfg.registry = convert.Default()
	}

	return cfg, nil
}

// Option configures an Encoder or a Reader. Options that only affect encoding are ignored by Open.
type Option = options.Option[*config]

// WithCompression sets the payload compression. The default is format.CompressionNone.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = compression
			return nil
		default:
			return errs.ErrInvalidCompression
		}
	})
}

// WithBigEndianHeader writes the header fields in big-endian byte order.
func WithBigEndianHeader() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}

// WithChecksum enables or disables the payload checksum. It is enabled by default.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.checksum = enabled
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics records codec metrics. A nil Metrics disables them.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}

// WithRegistry sets the converter registry. The default is convert.Default().
func WithRegistry(r *convert.Registry) Option {
	return options.NoError(func(c *config) {
		c.registry = r
	})
}

// WithDictOptions configures dictionary encoding of dict-encoded columns.
func WithDictOptions(opts ...dict.Option) Option {
	return options.NoError(func(c *config) {
		c.dictOpts = append(c.dictOpts, opts...)
	})
}

// WithMaxRawSize limits the uncompressed payload size Open accepts from a table header.
// The default is compress.DefaultMaxRawSize; n must lie in (0, compress.MaxRawSize].
func WithMaxRawSize(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 || n > compress.MaxRawSize {
			return fmt.Errorf("%w: raw size limit %d", errs.ErrRawSize, n)
		}
		c.maxRawSize = n

		return nil
	})
}

// WithDictCacheSize sets how many dictionary key indexes a Reader keeps. The default is dict.DefaultCacheSize.
func WithDictCacheSize(n int) Option {
	return options.NoError(func(c *config) {
		if n > 0 {
			c.dictCache = n
		}
	})
}
