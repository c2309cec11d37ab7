package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"artfoundation/internal/dto"
	"artfoundation/internal/model"
	"artfoundation/internal/service"
	"artfoundation/pkg/validator"
)

type RegistrationSvc interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error)
	GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error)
	GetRegistrationWithPayment(ctx context.Context, registrationID string) (*service.RegistrationWithPayment, error)
	ListByEmail(ctx context.Context, email string) ([]model.Registration, error)
	UpdatePaymentStatus(ctx context.Context, registrationID, status string) (*model.Registration, error)
	Ticket(ctx context.Context, registrationID string) ([]byte, error)
}

type PaymentSvc interface {
	CreatePayment(ctx context.Context, in service.CreatePaymentInput) (*service.CreatePaymentResult, error)
	CreatePaymentIntent(ctx context.Context, amountMinor int64, email string) (string, error)
	GetPayment(ctx context.Context, identifier string) (*model.Payment, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
	GetPaymentByRegistrationID(ctx context.Context, registrationID string) (*model.Payment, error)
	SetStatus(ctx context.Context, identifier, status string) (*model.Payment, error)
	Confirm(ctx context.Context, gatewayID string) (*model.Payment, error)
}

type IdentitySvc interface {
	Signup(ctx context.Context, in service.SignupInput) (*model.Artist, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) (*model.Artist, error)
	GetArtist(ctx context.Context, artistID int64) (*model.Artist, error)
}

type EventSvc interface {
	Create(ctx context.Context, artistID int64, in service.CreateEventInput) (*model.Event, error)
	Get(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
}

type Handler struct {
	registrations RegistrationSvc
	payments      PaymentSvc
	identity      IdentitySvc
	events        EventSvc
	log           *zerolog.Logger
}

func NewHandler(registrations RegistrationSvc, payments PaymentSvc, identity IdentitySvc, events EventSvc, log *zerolog.Logger) *Handler {
	return &Handler{
		registrations: registrations,
		payments:      payments,
		identity:      identity,
		events:        events,
		log:           log,
	}
}

// bind decodes and validates a JSON body, writing the error response itself.
func (h *Handler) bind(c *ginext.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("failed to parse request body")
		dto.InvalidJSONError(c)
		return false
	}
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("validation failed")
		dto.ErrorResponse(c, err)
		return false
	}
	return true
}

func (h *Handler) handleError(c *ginext.Context, op string, err error) {
	if status, _ := dto.StatusFor(err); status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("op", op).Msg("request failed")
	}
	dto.ErrorResponse(c, err)
}
