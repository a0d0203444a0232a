package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxFieldLength is the column width of the user name and email.
	MaxFieldLength = 50

	// TagMaxLength rejects strings longer than MaxFieldLength runes.
	TagMaxLength = "fieldmax"
	// TagNotBlank rejects strings made only of whitespace.
	TagNotBlank = "notblank"
	// TagEmailFormat requires local@domain.tld with no whitespace or extra '@'.
	TagEmailFormat = "emailfmt"
)

// emailPattern checks shape only, not deliverability. RE2's \s is ASCII
// only, so the class also excludes \v, NEL, BOM and every Unicode separator.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{85}\x{FEFF}@]+@[^\s\v\p{Z}\x{85}\x{FEFF}@]+\.[^\s\v\p{Z}\x{85}\x{FEFF}@]+$`)

// IsEmailFormat reports whether s looks like an email address.
func IsEmailFormat(s string) bool {
	return emailPattern.MatchString(s)
}

// IsSpace reports whether r is whitespace: Unicode White_Space plus the
// byte order mark.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// TrimSpace removes leading and trailing runes for which IsSpace holds.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// IsBlank reports whether s is empty once surrounding whitespace is removed.
func IsBlank(s string) bool {
	return TrimSpace(s) == ""
}

// RegisterValidations installs the custom field tags used for user input.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation(TagNotBlank, func(fl validator.FieldLevel) bool {
		return !IsBlank(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagNotBlank, err)
	}

	if err := v.RegisterValidation(TagMaxLength, func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= MaxFieldLength
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagMaxLength, err)
	}

	if err := v.RegisterValidation(TagEmailFormat, func(fl validator.FieldLevel) bool {
		return IsEmailFormat(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagEmailFormat, err)
	}

	return nil
}

// NewValidator returns a validator with the custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		// Tags are constants; this only fails on programmer error.
		panic(err)
	}
	return v
}
