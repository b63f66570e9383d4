package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	personNamePattern = regexp.MustCompile(`^[A-Za-z\s]*[A-Za-z][A-Za-z\s]*$`)
	registerOnce      sync.Once
	registerErr       error
)

// Register installs the custom tags on gin's default validator engine.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		if err := v.RegisterValidation("person_name", validatePersonName); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("password_policy", validatePasswordPolicy)
	})
	return registerErr
}

func validatePersonName(fl validator.FieldLevel) bool {
	return personNamePattern.MatchString(fl.Field().String())
}

func validatePasswordPolicy(fl validator.FieldLevel) bool {
	return PasswordMeetsPolicy(fl.Field().String())
}

// PasswordMeetsPolicy requires an upper-case letter, a digit and one of !@#$%^&*.
func PasswordMeetsPolicy(p string) bool {
	var upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*", r):
			special = true
		}
	}
	return upper && digit && special
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "person_name":
		return fmt.Sprintf("%s can only contain letters and spaces", field)
	case "password_policy":
		return fmt.Sprintf("%s must contain at least one uppercase letter, one number, and one special character (!@#$%%^&*)", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":          "Name",
		"Email":         "Email",
		"Password":      "Password",
		"Role":          "Role",
		"Title":         "Title",
		"Description":   "Description",
		"CategoryID":    "Category",
		"CommentText":   "Comment text",
		"Text":          "Comment text",
		"Status":        "Status",
		"ReviewComment": "Review comment",
		"Feedback":      "Feedback",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
