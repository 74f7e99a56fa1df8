package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries a message that can be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CookingTimeOptions are the accepted cooking time preferences.
var CookingTimeOptions = []string{"Quick (<20 mins)", "Moderate (20-40 mins)", "Elaborate (>40 mins)"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("cooking_time", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, opt := range CookingTimeOptions {
			if value == opt {
				return true
			}
		}
		return false
	})
	v.RegisterValidation("plan_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
	return v
}

// validateStruct runs the struct tags of s and turns the first failure into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if i := strings.Index(field, "["); i > 0 {
		field = field[:i]
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Message: fmt.Sprintf("Missing required field: %s", field)}
	case "oneof", "cooking_time":
		return &ValidationError{Message: fmt.Sprintf("Invalid value for %s: %q", field, fmt.Sprint(fe.Value()))}
	case "plan_date":
		return &ValidationError{Message: fmt.Sprintf("Invalid %s: expected YYYY-MM-DD", field)}
	default:
		return &ValidationError{Message: fmt.Sprintf("Invalid value for %s", field)}
	}
}
