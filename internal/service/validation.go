package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appErrors "github.com/noah-isme/project-portal-api/pkg/errors"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// validID reports whether id can address a row; other values never reach the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NewValidator returns a validator that reports json/form field names and knows the portal's custom tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerPortalValidations(v)
	return v
}

func registerPortalValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	_ = v.RegisterValidation("project_year", func(fl validator.FieldLevel) bool {
		return yearPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("project_year_or_all", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "all" || yearPattern.MatchString(value)
	})
}

// validationError converts validator output into the per-field error envelope.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	details := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, appErrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return appErrors.WithDetails(appErrors.ErrValidation, "", details)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "project_year":
		return "Year must be a 4-digit number"
	case "project_year_or_all":
		return "Year must be a 4-digit number or 'all'"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
