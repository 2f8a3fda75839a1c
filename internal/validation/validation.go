// package validation checks todo requests against their field rules
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/cirocosta/todoapi/internal/model"
)

// Violation codes
const (
	CodeRequiredField = "required_field"
	CodeMaxLength     = "max_length"
)

// Violation is a single field-level validation failure
type Violation struct {
	Field   string `json:"field" doc:"Name of the offending field" example:"title"`
	Code    string `json:"code" doc:"Kind of violation" example:"required_field" enum:"required_field,max_length"`
	Message string `json:"message" doc:"Human readable message" example:"Title is required"`
}

// Validator checks create and update requests. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the todo field rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank also rejects whitespace-only strings, which "required" accepts
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Errorf("register notblank validation: %w", err))
	}

	return &Validator{validate: v}
}

// ValidateCreate returns the violations of a create request, empty when valid
func (v *Validator) ValidateCreate(req model.CreateTodoRequest) []Violation {
	return v.check(req)
}

// ValidateUpdate returns the violations of an update request, empty when valid
func (v *Validator) ValidateUpdate(req model.UpdateTodoRequest) []Violation {
	return v.check(req)
}

func (v *Validator) check(req any) []Violation {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// only reachable on programmer error (non-struct input)
		panic(fmt.Errorf("validate %T: %w", req, err))
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, toViolation(fe.Field(), fe))
		if fe.Tag() == "notblank" {
			violations = append(violations, v.remaining(req, fe)...)
		}
	}

	return violations
}

// remaining runs the rules listed after a failed tag on the same field,
// which validator skips once a field has failed
func (v *Validator) remaining(req any, fe validator.FieldError) []Violation {
	field, ok := reflect.TypeOf(req).FieldByName(fe.StructField())
	if !ok {
		return nil
	}

	_, rules, found := strings.Cut(field.Tag.Get("validate"), fe.Tag()+",")
	if !found || rules == "" {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(v.validate.Var(fe.Value(), rules), &fieldErrs) {
		return nil
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, rfe := range fieldErrs {
		violations = append(violations, toViolation(fe.Field(), rfe))
	}
	return violations
}

// toViolation translates a validator tag failure on field into a violation
func toViolation(field string, fe validator.FieldError) Violation {
	label := displayName(field)

	switch fe.Tag() {
	case "notblank", "required":
		return Violation{
			Field:   field,
			Code:    CodeRequiredField,
			Message: fmt.Sprintf("%s is required", label),
		}
	case "max":
		return Violation{
			Field:   field,
			Code:    CodeMaxLength,
			Message: fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param()),
		}
	default:
		return Violation{
			Field:   field,
			Code:    fe.Tag(),
			Message: fmt.Sprintf("%s is invalid", label),
		}
	}
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
