package utils

import (
	"regexp"
	"unicode"

	"main/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var dateStringPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func InitValidator() {
	Validate = validator.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("password", ValidatePasswordRule)
		v.RegisterValidation("habitcolor", ValidateHabitColorRule)
	}
	Validate.RegisterValidation("password", ValidatePasswordRule)
	Validate.RegisterValidation("habitcolor", ValidateHabitColorRule)
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// ValidateHabitColorRule accepts only tokens from the fixed pastel palette.
// An empty value passes; the store assigns a default.
func ValidateHabitColorRule(fl validator.FieldLevel) bool {
	color := fl.Field().String()
	return color == "" || model.ValidColor(color)
}

// ValidDateString reports whether a value is a zero-padded YYYY-MM-DD key.
func ValidDateString(date string) bool {
	return dateStringPattern.MatchString(date)
}

func ValidatePassword(password string) bool {
	// Password must:
	// - Be at least 6 characters long
	// - Contain at least one number
	// - Contain at least one special character
	hasNumber := false
	hasSpecial := false

	if len(password) < 6 {
		return false
	}

	for _, char := range password {
		switch {
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasNumber && hasSpecial
}
