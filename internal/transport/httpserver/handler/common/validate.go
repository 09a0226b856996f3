package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"mess-app-go/internal/domain/account"

	"github.com/go-playground/validator/v10"
)

// Validator wraps validator/v10 with the institution's custom tags:
// regnumber (seven digits) and institution_email (any address under the
// configured domain).
type Validator struct {
	validate *validator.Validate
	domain   string
}

func NewValidator(rules account.EmailRules) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("regnumber", func(fl validator.FieldLevel) bool {
		return account.ValidateRegNumber(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("institution_email", func(fl validator.FieldLevel) bool {
		return rules.ValidateLogin(fl.Field().String()) == nil
	})

	return &Validator{validate: v, domain: rules.Domain()}
}

func (v *Validator) Struct(value interface{}) error {
	return v.humanize(v.validate.Struct(value), "")
}

func (v *Validator) Var(name string, value interface{}, tag string) error {
	return v.humanize(v.validate.Var(value, tag), name)
}

// humanize turns the first field error into a message fit for a notification.
func (v *Validator) humanize(err error, name string) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	fe := fieldErrors[0]
	field := fe.Field()
	if name != "" {
		field = name
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, fe.Param())
	case "uuid":
		return fmt.Errorf("%s must be a valid id", field)
	case "email":
		return fmt.Errorf("%s must be a valid email", field)
	case "regnumber":
		return fmt.Errorf("%s must be exactly 7 digits", field)
	case "institution_email":
		return fmt.Errorf("only @%s emails are allowed", v.domain)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
