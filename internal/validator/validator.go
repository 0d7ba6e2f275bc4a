// Package validator registers custom validation rules with Gin's binding engine.
package validator

import (
	"reflect"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// Register registers all custom validators with the Gin binding engine.
// decimal.Decimal fields are validated as float64 so the standard numeric
// tags (gte, lte, ...) apply to money amounts.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("strong_password", validateStrongPassword)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether password is at least MinPasswordLength
// characters and contains a digit, a lower-case and an upper-case letter.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}
	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}
