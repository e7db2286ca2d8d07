package api

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// usernameRegex limits usernames to letters, digits and @/./+/-/_.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9@.+_-]+$`)

// validate is the package validator. It reports every failed field, not
// just the first, which is what lets handlers return all violations in a
// single response.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report errors under the JSON field name so the error payload
	// matches what the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// ALLOW-PANIC: registration only fails for a nil function
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// validateStruct validates v and converts any violations into a per-field
// message map. Returns nil when validation passes.
func validateStruct(v interface{}) map[string][]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"non_field_errors": {"Invalid input."}}
	}

	fieldErrors := make(map[string][]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		fieldErrors[field] = append(fieldErrors[field], messageForTag(fe))
	}
	return fieldErrors
}

// messageForTag maps a failed validation tag to a human-readable message.
func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "Password fields didn't match."
	case "username":
		return "May only contain letters, digits and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}
