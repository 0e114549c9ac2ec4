package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("job_type") instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "jobstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	mustRegister(v, "jobtype", func(fl validator.FieldLevel) bool {
		return JobType(fl.Field().String()).Valid()
	})
	mustRegister(v, "currency", func(fl validator.FieldLevel) bool {
		return Currency(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// checkVar validates a single value against a tag and names the field on failure.
func checkVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return translate(err, field)
	}
	return nil
}

// translate turns validator output into a *ValidationError for the first failing field.
func translate(err error, field string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: field, Reason: err.Error()}
	}
	fe := verrs[0]
	if field == "" {
		field = fe.Field()
	}
	return &ValidationError{Field: field, Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gte":
		return "must be >= " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "jobstatus":
		return fmt.Sprintf("must be one of %v", Statuses)
	case "jobtype":
		return fmt.Sprintf("must be one of %v", JobTypes)
	case "currency":
		return fmt.Sprintf("must be one of %v", Currencies)
	default:
		return "failed on " + fe.Tag()
	}
}
