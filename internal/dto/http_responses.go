package dto

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"artfoundation/internal/model"
)

const (
	FieldBadFormat        = "FIELD_BADFORMAT"
	FieldIncorrect        = "FIELD_INCORRECT"
	InvalidTransition     = "INVALID_TRANSITION"
	TokenInvalid          = "TOKEN_INVALID"
	Unauthorized          = "UNAUTHORIZED"
	InvalidCredentials    = "INVALID_CREDENTIALS"
	NotRegistered         = "NOT_REGISTERED"
	NotVerified           = "NOT_VERIFIED"
	NotFound              = "NOT_FOUND"
	Conflict              = "CONFLICT"
	PaymentNotConfirmable = "PAYMENT_NOT_CONFIRMABLE"
	GatewayError          = "GATEWAY_ERROR"
	ServiceUnavailable    = "SERVICE_UNAVAILABLE"

	InternalError      = "Service is currently unavailable. Please try again later."
	GatewayUnavailable = "Payment or mail provider is unavailable. Please try again later."
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

type errorKind struct {
	target error
	status int
	code   string
}

// Order matters: ErrInvalidTransition is checked before the generic kinds.
var errorKinds = []errorKind{
	{model.ErrInvalidTransition, http.StatusBadRequest, InvalidTransition},
	{model.ErrValidation, http.StatusBadRequest, FieldIncorrect},
	{model.ErrInvalidOrExpiredToken, http.StatusBadRequest, TokenInvalid},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, InvalidCredentials},
	{model.ErrNotRegistered, http.StatusUnauthorized, NotRegistered},
	{model.ErrNotVerified, http.StatusForbidden, NotVerified},
	{model.ErrNotFound, http.StatusNotFound, NotFound},
	{model.ErrConflict, http.StatusConflict, Conflict},
	{model.ErrPaymentNotConfirmable, http.StatusUnprocessableEntity, PaymentNotConfirmable},
	{model.ErrGateway, http.StatusBadGateway, GatewayError},
}

// StatusFor maps an error onto its HTTP status and response code.
func StatusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, ServiceUnavailable
}

// ErrorResponse writes the error envelope for err. Server-side failures get a
// generic description so driver and gateway details stay in the logs.
func ErrorResponse(c *ginext.Context, err error) {
	status, code := StatusFor(err)
	desc := err.Error()
	switch status {
	case http.StatusInternalServerError:
		desc = InternalError
	case http.StatusBadGateway:
		desc = GatewayUnavailable
	}
	c.JSON(status, Response{
		Success: false,
		Message: desc,
		Error:   &Error{Code: code, Desc: desc},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: desc,
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func UnauthorizedError(c *ginext.Context, desc string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Success: false,
		Message: desc,
		Error: &Error{
			Code: Unauthorized,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: InternalError,
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func InvalidJSONError(c *ginext.Context) {
	BadResponseError(c, FieldBadFormat, "Invalid JSON format")
}

func SuccessResponse(c *ginext.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
