package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// custom validation tags
const (
	ymdTag      = "ymd"
	notBlankTag = "notblank"
)

// RegisterValidators installs the custom tags on v (gin's binding engine at startup)
func RegisterValidators(v *validator.Validate) error {
	// report json/form field names instead of Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation(ymdTag, ymdValidation); err != nil {
		return err
	}
	return v.RegisterValidation(notBlankTag, notBlankValidation)
}

// ymdValidation a calendar date in YYYY-MM-DD form
func ymdValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func notBlankValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && strings.TrimSpace(s) != ""
}

// FieldErrors maps binding failures to field -> message for the response
// details; nil when err is not a validation failure
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case ymdTag:
		return "must be a date in YYYY-MM-DD form"
	case notBlankTag:
		return "this field cannot be blank"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
