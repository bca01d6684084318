package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/ktable/dict"
	"github.com/arloliu/ktable/format"
)

// Config is the YAML form of the encoder settings, meant to be embedded in a host's configuration.
//
//	compression: zstd
//	big_endian_header: false
//	checksum: true
//	dict_key_type: INT_KEY
type Config struct {
	Compression     string `yaml:"compression"`
	BigEndianHeader bool   `yaml:"big_endian_header"`
	// Checksum defaults to true when unset.
	Checksum    *bool  `yaml:"checksum"`
	DictKeyType string `yaml:"dict_key_type"`
}

// ParseConfig parses a YAML document. Unknown fields are rejected; an empty document yields the zero Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse table config: %w", err)
	}

	return cfg, nil
}

// EncoderOptions converts the configuration into encoder options.
func (c Config) EncoderOptions() ([]Option, error) {
	compression, err := format.ParseCompressionType(c.Compression)
	if err != nil {
		return nil, err
	}

	opts := []Option{WithCompression(compression)}
	if c.BigEndianHeader {
		opts = append(opts, WithBigEndianHeader())
	}
	if c.Checksum != nil {
		opts = append(opts, WithChecksum(*c.Checksum))
	}
	if c.DictKeyType != "" {
		keyType, err := format.ParseDictKeyType(c.DictKeyType)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithDictOptions(dict.WithKeyType(keyType)))
	}

	return opts, nil
}
