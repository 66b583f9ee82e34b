package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"uploadkit-go/internal/common/enum"
	types "uploadkit-go/internal/common/type"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var val *validator.Validate

var validationMessages = map[string]string{
	"required":     "is required",
	"url":          "must be a valid URL",
	"number":       "must be a number",
	"oneof":        "must be one of the allowed values: %s",
	"email":        "must be a valid email address",
	"min":          "must be greater than or equal to %s",
	"max":          "must be less than or equal to %s",
	"len":          "must have the exact length of %s",
	"gt":           "must be greater than %s",
	"gte":          "must be greater than or equal to %s",
	"lt":           "must be less than %s",
	"lte":          "must be less than or equal to %s",
	"enum":         "must be one of the allowed enum values: %s",
	"stringToBool": "must be a boolean value",
}

// Setup builds the package validator and registers the custom tags on both
// it and gin's binding engine, so ShouldBind failures and explicit Validate
// calls enforce the same rules. Message field names come from json tags,
// the wire names clients actually sent.
func Setup() error {
	val = validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterValidations(val); err != nil {
		return err
	}

	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	return RegisterValidations(engine)
}

func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("registering enum validation: %w", err)
	}
	if err := v.RegisterValidation("stringToBool", types.ValidateStringToBool); err != nil {
		return fmt.Errorf("registering stringToBool validation: %w", err)
	}
	return nil
}

// Validate checks payload against its validate tags and flattens every
// violation into one message, namespaced per field.
func Validate(payload interface{}) error {
	err := val.Struct(payload)
	if err == nil {
		return nil
	}
	return errors.New("Validation failed: " + describe(err))
}

func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := validationMessages[e.Tag()]
		switch e.Tag() {
		case "enum":
			msg = fmt.Sprintf(msg, e.Type())
		default:
			if strings.Contains(msg, "%s") {
				msg = fmt.Sprintf(msg, e.Param())
			}
		}
		parts = append(parts, fmt.Sprintf("%s: %s %s", e.Namespace(), e.Field(), msg))
	}

	return strings.Join(parts, ", ")
}
