package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names and registers the
// "date" (YYYY-MM-DD) and "clock" (HH:MM) tags.
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("date", layoutValidator(dateLayout))
	_ = v.RegisterValidation("clock", layoutValidator(clockLayout))

	return &CustomValidator{validator: v}
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		parsed, err := time.Parse(layout, value)
		return err == nil && parsed.Format(layout) == value
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = field + " is required"
		case "required_with":
			errs[field] = field + " is required with " + strings.ToLower(e.Param())
		case "email":
			errs[field] = field + " must be a valid email address"
		case "min":
			if e.Kind() == reflect.String {
				errs[field] = field + " must be at least " + e.Param() + " characters"
			} else {
				errs[field] = field + " must be at least " + e.Param()
			}
		case "max":
			if e.Kind() == reflect.String {
				errs[field] = field + " must be at most " + e.Param() + " characters"
			} else {
				errs[field] = field + " must be at most " + e.Param()
			}
		case "oneof":
			errs[field] = field + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
		case "latitude":
			errs[field] = field + " must be between -90 and 90"
		case "longitude":
			errs[field] = field + " must be between -180 and 180"
		case "date":
			errs[field] = field + " must be a date formatted YYYY-MM-DD"
		case "clock":
			errs[field] = field + " must be a time formatted HH:MM"
		default:
			errs[field] = field + " is invalid"
		}
	}

	return errs
}
