package handlers

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators installs validation tags used by the DTOs on gin's
// binding validator. Safe to call more than once.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// currencycode: three uppercase letters, ISO 4217 shaped.
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 3 {
			return false
		}
		for _, r := range code {
			if !unicode.IsUpper(r) {
				return false
			}
		}
		return true
	})
}
