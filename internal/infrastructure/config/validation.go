package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/factorycore/internal/domain/catalog"
)

// Validator is a wrapper around go-playground/validator with catalog-aware rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that checks item and facility references
// against the given catalog:
//
//	catalog_item   - the string is an item id
//	facility_type  - the string is a facility type
func NewValidator(cat catalog.Catalog) *Validator {
	v := validator.New()

	_ = v.RegisterValidation("catalog_item", func(fl validator.FieldLevel) bool {
		_, ok := cat.Item(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("facility_type", func(fl validator.FieldLevel) bool {
		_, ok := cat.Facility(fl.Field().String())
		return ok
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		switch e.Tag() {
		case "catalog_item":
			messages = append(messages, fmt.Sprintf("%s: unknown item '%v'", e.Namespace(), e.Value()))
		case "facility_type":
			messages = append(messages, fmt.Sprintf("%s: unknown facility type '%v'", e.Namespace(), e.Value()))
		default:
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration against the standard catalog
func ValidateConfig(cfg *Config) error {
	return NewValidator(catalog.Standard()).Validate(cfg)
}
