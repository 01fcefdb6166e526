package configs

import (
	"github.com/go-playground/validator/v10"
	"github.com/mdayat/nur-ramadan/internal/dtos"
)

func NewValidate() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("prayername", func(fl validator.FieldLevel) bool {
		return dtos.IsPrayerName(fl.Field().String())
	})

	return validate
}
