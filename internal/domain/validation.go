// internal/domain/validation.go
package domain

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinReleaseDate самая ранняя допустимая дата выхода фильма
var MinReleaseDate = NewDate(1895, time.December, 28)

// NewValidator создает валидатор с правилами, которые используют DTO домена:
// notblank, nowhitespace, releasedate, notfuture.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	// Ошибки регистрации возможны только при пустом имени тега.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	_ = v.RegisterValidation("releasedate", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.Before(MinReleaseDate.Time)
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(time.Now().UTC())
	})
	return v
}
