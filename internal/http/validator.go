package http

import "github.com/go-playground/validator/v10"

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate runs struct tag validation on the bound request.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
