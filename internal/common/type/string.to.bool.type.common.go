package types

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StringToBool is a bool that rides in as a form value. Multipart fields
// are untyped strings, so the flag coerces itself on read.
type StringToBool string

func (s StringToBool) ToBool() bool {
	value, _ := strconv.ParseBool(strings.ToLower(string(s)))
	return value
}

// ValidateStringToBool backs the stringToBool tag: a present value must
// parse as a bool.
func ValidateStringToBool(fl validator.FieldLevel) bool {
	value := fl.Field().Interface().(StringToBool)
	_, err := strconv.ParseBool(strings.ToLower(string(value)))
	return err == nil
}
