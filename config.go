package sieve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by DefaultConfig.
const (
	DefaultCapacity    = 10
	DefaultConsumers   = 3
	DefaultJoinTimeout = time.Second
)

// validate is the shared validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// multiple3 holds for integers that split evenly over the three categories.
	_ = v.RegisterValidation("multiple3", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%int64(len(AllCategories)) == 0
	})
	return v
}

// Validator is implemented by configuration documents.
type Validator interface {
	Validate() error
}

// Config describes one Pipeline.
type Config struct {
	// Capacity is the maximum number of buffered items.
	Capacity int `yaml:"capacity" json:"capacity" validate:"min=1"`

	// Consumers is the number of consumers. It must be a multiple of three
	// so every category gets the same number of consumers.
	Consumers int `yaml:"consumers" json:"consumers" validate:"min=3,multiple3"`

	// Speed selects the producer and consumer delays. Zero means DefaultSpeed.
	Speed Speed `yaml:"speed" json:"speed" validate:"omitempty,min=1,max=5"`

	// Source is the path of the number file.
	Source string `yaml:"source" json:"source"`

	// JoinTimeout bounds how long Stop waits for the loops to exit.
	// Zero means DefaultJoinTimeout.
	JoinTimeout time.Duration `yaml:"join_timeout" json:"join_timeout" validate:"min=0"`
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Capacity:    DefaultCapacity,
		Consumers:   DefaultConsumers,
		Speed:       DefaultSpeed,
		Source:      "numeros.txt",
		JoinTimeout: DefaultJoinTimeout,
	}
}

// Validate implements Validator.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads a configuration file over DefaultConfig and validates it.
// Files ending in .json are decoded as JSON, anything else as YAML.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := CodecFor(path).Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CodecFor picks a codec from the file extension.
func CodecFor(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONCodec{}
	}
	return YAMLCodec{}
}
