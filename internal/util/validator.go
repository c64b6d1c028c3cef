package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var validationMessages = map[string]string{
	"required": "The field '%s' is required.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"min":      "The field '%s' must be at least %s characters long.",
	"uuid":     "The field '%s' must be a valid UUID.",
}

func validationMessage(field string, e validator.FieldError) string {
	msg, ok := validationMessages[e.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, field, e.Param())
	}
	return fmt.Sprintf(msg, field)
}

// ValidateStruct checks s, a pointer to a struct with validate tags, and
// returns a *FormError keyed by JSON field name when it is invalid.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	out := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		name := e.StructField()
		if field, ok := structType.FieldByName(e.StructField()); ok {
			if tag := strings.Split(field.Tag.Get("json"), ",")[0]; tag != "" {
				name = tag
			}
		}
		out[name] = validationMessage(name, e)
	}
	return NewFormError("validation failed", out)
}
