package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom tags are registered in
// init before any call to Failed.
var v = validator.New()

func init() {
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("digits6", func(fl validator.FieldLevel) bool {
		return IsDigits(fl.Field().String(), 6)
	})
}

// IsDigits reports whether s is exactly n ASCII digits.
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Failed returns the json names of fields failing tag, in declaration order.
func Failed(s interface{}, tag string) []string {
	err := v.Struct(s)
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	var out []string
	for _, fe := range ve {
		if fe.Tag() == tag {
			out = append(out, fe.Field())
		}
	}
	return out
}

// Missing returns the names of fields failing their "required" tag.
func Missing(s interface{}) []string { return Failed(s, "required") }
