// Package validate wraps go-playground/validator with the tags and messages
// used by request DTOs.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator checks request structs against their `validate` tags
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields by their json tag and knows "notblank"
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns a readable message, or "" if s is valid
func (val *Validator) Struct(s any) string {
	err := val.v.Struct(s)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs[i] = fe.Field() + " is required"
		case "max":
			msgs[i] = fe.Field() + " must be at most " + fe.Param() + " characters"
		case "min":
			msgs[i] = fe.Field() + " must be at least " + fe.Param() + " characters"
		case "email":
			msgs[i] = fe.Field() + " must be a valid email address"
		default:
			msgs[i] = fe.Field() + " is invalid"
		}
	}
	return strings.Join(msgs, "; ")
}
