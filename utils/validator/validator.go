package validatorx

import (
	"reflect"
	"strings"
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/muhammadheryan/artisanhub/constant"
)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

// Init initializes the validator singleton (idempotent)
func Init() {
	once.Do(func() {
		v = newValidator()
	})
}

// newValidator registers every custom tag before the instance is shared.
func newValidator() *gpvalidator.Validate {
	validate := gpvalidator.New()

	// report json field names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("role", func(fl gpvalidator.FieldLevel) bool {
		return constant.Role(fl.Field().String()).Valid()
	})

	// rejects values that are only whitespace
	_ = validate.RegisterValidation("notblank", func(fl gpvalidator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return validate
}

// ValidateStruct validates a struct using go-playground/validator
func ValidateStruct(s interface{}) error {
	Init()
	return v.Struct(s)
}
