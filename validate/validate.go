package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	pinPattern      = regexp.MustCompile(`^[0-9]{4,8}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

var messages = map[string]string{
	"required": "is required",
	"pin":      "must be 4-8 digits",
	"username": "must be 3-20 alphanumeric characters",
	"oneof":    "must be one of [%s]",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gt":       "must be greater than %s",
}

// Struct validates s against its `validate` tags and flattens the result into
// a single readable error.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "failed " + fe.Tag()
		}
		if strings.Contains(msg, "%s") {
			msg = fmt.Sprintf(msg, fe.Param())
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldName(fe), msg))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Username reports whether name is an acceptable username.
func Username(name string) bool {
	return usernamePattern.MatchString(name)
}

// PIN reports whether pin is an acceptable credential.
func PIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}
