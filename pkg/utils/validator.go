package utils

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   *validator.Validate
	phoneChars = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)
)

func init() {
	validate = validator.New()

	err := validate.RegisterValidation("phone", validatePhone)
	if err != nil {
		return
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against validator tags, e.g. "email" or "phone"
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}

// validatePhone accepts common human formats with at least seven digits
func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if !phoneChars.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

func IsValidEmail(email string) bool {
	return ValidateVar(strings.TrimSpace(strings.ToLower(email)), "required,email") == nil
}

// FirstFieldError returns the struct field name and tag of the first
// validation failure in err, if any.
func FirstFieldError(err error) (field, tag string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", "", false
	}
	return verrs[0].Field(), verrs[0].Tag(), true
}
