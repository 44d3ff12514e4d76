package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

func init() {
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	// Byte length, not rune count: bcrypt limits bytes.
	_ = v.RegisterValidation("password_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRegex.MatchString(s)
}

// Struct validates the given struct using its validate tags.
// Missing required fields are reported together in one Validation error whose
// details list their names; any other failure is reported on its own.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var missing []string
	for _, fe := range ve {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return domain.Validation("Missing required fields: %s.", strings.Join(missing, ", ")).
			WithDetails(map[string][]string{"missing_fields": missing})
	}

	fe := ve[0]
	switch fe.Tag() {
	case "email_addr":
		return domain.Validation("Invalid email format.")
	case "password_len":
		return domain.Validation("Password must not exceed %d bytes.", MaxPasswordBytes)
	}
	return domain.Validation("field '%s' failed '%s'", fe.Field(), fe.Tag())
}
