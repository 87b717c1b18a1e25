package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	// the validator's email tag alone accepts bare hostnames on some inputs
	dottedDomain = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	integer      = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

// ValidationError represents a client-side input error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidEmail = &ValidationError{Field: "email", Message: "invalid email address"}
	ErrInvalidAge   = &ValidationError{Field: "dogAge", Message: "age must be a whole number"}
)

// IsValidEmail reports whether s looks like local@domain.tld
func IsValidEmail(s string) bool {
	if !dottedDomain.MatchString(s) {
		return false
	}
	return validate.Var(s, "required,email") == nil
}

// IsValidInteger reports whether s is an optionally signed run of decimal digits
func IsValidInteger(s string) bool {
	return integer.MatchString(strings.TrimSpace(s))
}

// ParseAge converts a validated age field to the GraphQL Int range
func ParseAge(s string) (int32, error) {
	if !IsValidInteger(s) {
		return 0, ErrInvalidAge
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAge, err)
	}
	return int32(n), nil
}

// Struct validates a tagged struct, returning field -> message pairs
func Struct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "field is required"
		case "email":
			errs[field] = "invalid email format"
		case "oneof":
			errs[field] = "must be one of " + e.Param()
		case "max":
			errs[field] = "must be at most " + e.Param() + " characters"
		default:
			errs[field] = "validation failed on " + e.Tag()
		}
	}
	return errs
}
