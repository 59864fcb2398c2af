package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their config key.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return err
	}
	return c.validationError(valErrs[0])
}

func (c *Config) validationError(e validator.FieldError) error {
	switch e.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q (supported: %s)", e.Field(), e.Value(), strings.ReplaceAll(e.Param(), " ", ", "))
	case "required_unless":
		return fmt.Errorf("%s is required for the %s backend", e.Field(), c.Backend)
	default:
		return fmt.Errorf("%s is invalid", e.Field())
	}
}
