package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
)

var (
	structValidator     *playground.Validate
	structValidatorOnce sync.Once
)

func engine() *playground.Validate {
	structValidatorOnce.Do(func() {
		v := playground.New(playground.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("thphone", func(fl playground.FieldLevel) bool {
			return IsValidPhoneNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", func(fl playground.FieldLevel) bool {
			return !IsEmpty(fl.Field().String())
		})
		structValidator = v
	})
	return structValidator
}

// Struct runs the `validate` tags of s and converts failures to ValidationErrors.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate struct: %w", err)
	}

	var out ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), tagMessage(fe))
	}
	return out
}

func tagMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "thphone":
		return "must be a valid Thai phone number"
	case "notblank":
		return "must not be blank"
	}
	return "is invalid (" + fe.Tag() + ")"
}
