package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "MM"

var validate = validator.New()

// ValidateStruct runs `validate` tags on an input struct. Used for inputs
// that arrive outside gin's binding path (workflow-level inputs).
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

// IsValidPhoneNumber parses against the deployment country code.
// Empty is allowed; suppliers are often created before contacts are known.
func IsValidPhoneNumber(phone string) bool {
	if phone == "" {
		return true
	}
	num, err := libphonenumber.Parse(phone, CountryCode)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}
