package enum

import (
	"github.com/go-playground/validator/v10"
)

type Enum interface {
	ToString() string
	IsValid() bool
}

func ValidateEnum(fl validator.FieldLevel) bool {
	value := fl.Field().Interface().(Enum)
	return value.IsValid()
}

// Values returns the string form of the given enum constants, skipping any
// that are not valid members. Used for schema descriptions and messages.
func Values[E Enum](values ...E) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !v.IsValid() {
			continue
		}
		out = append(out, v.ToString())
	}
	return out
}
