// Package validation adapts go-playground/validator to the API's
// field-keyed error format.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator validates request structs and reports failures under their JSON names.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that understands models.Money as a number and
// rejects whitespace-only strings tagged notblank.
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(models.Money); ok {
			f, _ := m.Float64()
			return f
		}
		return nil
	}, models.Money{})
	return &Validator{validate: v}
}

// Struct validates s. It returns nil when s is valid.
func (v *Validator) Struct(s any) *apperr.ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable when s is not a struct.
		panic(fmt.Sprintf("validation: %v", err))
	}
	out := apperr.NewValidationError()
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), Message(fe.Field(), fe.Tag(), fe.Param(), fe.Kind()))
	}
	return out
}

// Message renders a validator tag failure in the API's wording.
func Message(field, tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min", "gte":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, param)
	case "max", "lte":
		if kind == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", field)
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
