package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/harun/rcrm/pkg/toolregistry"
)

// ErrInvalidConfig marks every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Validator validates configuration values
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their config key
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks cfg and joins every failing field into one error
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Mark(errors.New("config is nil"), ErrInvalidConfig)
	}

	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Mark(errors.Wrap(err, "validate config"), ErrInvalidConfig)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.Wrapf(ErrInvalidConfig, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	// drop the root struct name
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_if":
		return key + " is required"
	case "oneof":
		return key + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return key + " must be at least " + fe.Param()
	case "max", "lte":
		return key + " must be at most " + fe.Param()
	case "startswith":
		return key + " must start with " + fe.Param()
	default:
		return key + " failed " + fe.Tag()
	}
}

// ValidateLogLevel validates a log level given on the command line
func (v *Validator) ValidateLogLevel(level string) error {
	if err := v.validate.Var(level, "oneof=debug info warn error"); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if err := v.validate.Var(port, "min=1,max=65535"); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "invalid port: %d", port)
	}
	return nil
}

// ValidateCatalogPath checks that a catalog file exists. Empty selects the built-in catalog.
func (v *Validator) ValidateCatalogPath(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "catalog %s", path), ErrInvalidConfig)
	}
	if info.IsDir() {
		return errors.Wrapf(ErrInvalidConfig, "catalog %s is a directory", path)
	}
	return nil
}

// ValidateCategory validates a category filter
func (v *Validator) ValidateCategory(category string) error {
	if category == "" {
		return nil
	}
	if _, err := toolregistry.ParseCategory(category); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	return nil
}
