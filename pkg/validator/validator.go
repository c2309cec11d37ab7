package validator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator"

	"artfoundation/internal/model"
)

var global *validator.Validate

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrInvalidEmail       = "Invalid email address"
	ErrInvalidAmount      = "Amount must be a non-negative value with at most two decimals"
	ErrUnknownStatus      = "Unknown status"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("amount", validateAmount)
	_ = v.RegisterValidation("paymentstatus", validatePaymentStatus)
	_ = v.RegisterValidation("registrationstatus", validateRegistrationStatus)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// validateAmount accepts finite non-negative decimal amounts with no more
// than cent precision.
func validateAmount(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return false
	}
	cents := f * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return model.IsPaymentStatus(fl.Field().String())
}

func validateRegistrationStatus(fl validator.FieldLevel) bool {
	return model.IsRegistrationStatus(fl.Field().String())
}

// Validate checks structure and reports the first failing field as a
// model.ErrValidation.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "email":
		msg = ErrInvalidEmail
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "amount":
		msg = ErrInvalidAmount
	case "paymentstatus", "registrationstatus", "oneof":
		msg = ErrUnknownStatus
	default:
		msg = ErrInvalidFormat
	}
	return fmt.Errorf("%w: %s: %s", model.ErrValidation, msg, ve.Field())
}
