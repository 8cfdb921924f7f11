package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/BradenHooton/searchdesk/pkg/auth"
	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all forms)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// bcrypt only reads the first 72 bytes of its input
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})

	return v
}

// Validate checks s against its validate tags. It returns nil when s is valid.
func Validate(s interface{}) models.ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs := models.ValidationErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs.Add("", err.Error())
		return errs
	}
	for _, fe := range ve {
		// list elements report as name[i]; the form shows one message per field
		name, _, _ := strings.Cut(fe.Field(), "[")
		msg := formatValidationError(fe)
		if errs.First(name) == msg {
			continue
		}
		errs.Add(name, msg)
	}
	return errs
}

// formatValidationError converts a validator FieldError to the message shown next to the field
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return models.MsgRequired
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "oneof":
		return "Not a valid choice."
	case "bcryptlen":
		return models.MsgPasswordTooLong
	case "uuid":
		return "Not a valid choice."
	default:
		return fmt.Sprintf("Failed validation: %s", fe.Tag())
	}
}
