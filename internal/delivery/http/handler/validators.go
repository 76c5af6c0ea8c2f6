package handler

import (
	"fmt"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by the request structs
// to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("onboarding_step", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseStep(fl.Field().String())
		return err == nil
	})
}
