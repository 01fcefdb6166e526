package configs

import "github.com/go-playground/validator/v10"

type Configs struct {
	Env      Env
	Validate *validator.Validate
}

func NewConfigs(env Env) Configs {
	return Configs{
		Env:      env,
		Validate: NewValidate(),
	}
}
