package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bpariverside/skillswap-service/internal/models"
)

// ValidationError represents a single failed field rule.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with the domain's custom rules.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator with all custom rules registered. Field names in
// errors come from json tags so they match what the client sent.
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

// Validate runs struct tag validation and converts failures.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerRules() {
	// Handles are url-safe lowercase identifiers.
	v.validate.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})

	v.validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return models.DifficultyLevels[models.DifficultyLevel(fl.Field().String())]
	})

	v.validate.RegisterValidation("profile_tag", func(fl validator.FieldLevel) bool {
		return models.ProfileTags[fl.Field().String()]
	})

	v.validate.RegisterValidation("meeting_url", func(fl validator.FieldLevel) bool {
		return IsRecognizedMeetingURL(fl.Field().String())
	})
}

// ToValidationErrors converts a go-playground error into our error slice.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	for _, fe := range validationErrors {
		errors = append(errors, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "handle":
		return "must be 3-30 lowercase letters, digits, hyphens or underscores"
	case "difficulty":
		return "must be beginner, intermediate or advanced"
	case "profile_tag":
		return "is not a recognized profile tag"
	case "meeting_url":
		return "must be an https link on a recognized video-conferencing domain"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
