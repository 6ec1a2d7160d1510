package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// local@domain.tld with a single @ and no whitespace. \s is ASCII only
	// in RE2, so Unicode separators, \v and the BOM are listed explicitly.
	contactEmailRegex = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
)

// New returns a validator with the custom contact tags registered and
// field names reported by their json tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("contact_email", ContactEmail)
}

// NotBlank fails for empty or whitespace-only strings. A byte order mark
// counts as whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), isBlankRune) != ""
}

func isBlankRune(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// ContactEmail validates the loose local@domain.tld shape.
// The raw value is matched, so surrounding whitespace fails.
func ContactEmail(fl validator.FieldLevel) bool {
	return IsContactEmail(fl.Field().String())
}

// IsContactEmail reports whether s has the local@domain.tld shape.
func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
