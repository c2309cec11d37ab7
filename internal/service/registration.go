package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"artfoundation/internal/gateway"
	"artfoundation/internal/mailer"
	"artfoundation/internal/model"
	"artfoundation/internal/repo"
	"artfoundation/internal/ticket"
)

type RegisterInput struct {
	EventID       int64
	EventName     string
	EventDate     string
	EventVenue    string
	EventTime     string
	FirstName     string
	MiddleName    string
	LastName      string
	Email         string
	Contact       string
	Address1      string
	Address2      string
	City          string
	State         string
	Zipcode       string
	PaymentAmount float64
}

type RegisterResult struct {
	Message      string
	Registration *model.Registration
	Payment      *model.Payment
	ClientSecret string
}

type RegistrationWithPayment struct {
	Registration *model.Registration `json:"registration"`
	Payment      *model.Payment      `json:"payment"`
	IsFreeEvent  bool                `json:"isFreeEvent"`
}

type RegistrationService struct {
	registrations repo.RegistrationRepository
	payments      repo.PaymentRepository
	gateway       PaymentGateway
	dispatcher    Dispatcher
	ids           IDGenerator
	frontendURL   string
	log           *zerolog.Logger
}

func NewRegistrationService(
	registrations repo.RegistrationRepository,
	payments repo.PaymentRepository,
	gw PaymentGateway,
	dispatcher Dispatcher,
	ids IDGenerator,
	frontendURL string,
	log *zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		payments:      payments,
		gateway:       gw,
		dispatcher:    dispatcher,
		ids:           ids,
		frontendURL:   frontendURL,
		log:           log,
	}
}

// Register stores the registration and, for paid events, opens a gateway
// intent, records the pending payment and links it back. A failure after the
// registration row is written leaves that row in place with status pending.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.EventName = strings.TrimSpace(in.EventName)
	if in.EventName == "" {
		return nil, validationErr("event name is required")
	}
	if in.Email == "" {
		return nil, validationErr("email is required")
	}
	if !validAmount(in.PaymentAmount) {
		return nil, validationErr("payment amount must be a non-negative number")
	}
	if in.PaymentAmount > 0 && toMinorUnits(in.PaymentAmount) == 0 {
		return nil, validationErr("payment amount is below the smallest currency unit")
	}

	reg := &model.Registration{
		RegistrationID: s.ids.RegistrationID(),
		EventID:        in.EventID,
		EventName:      in.EventName,
		EventDate:      in.EventDate,
		EventVenue:     in.EventVenue,
		EventTime:      in.EventTime,
		FirstName:      in.FirstName,
		MiddleName:     in.MiddleName,
		LastName:       in.LastName,
		Email:          in.Email,
		Contact:        in.Contact,
		Address1:       in.Address1,
		Address2:       in.Address2,
		City:           in.City,
		State:          in.State,
		Zipcode:        in.Zipcode,
		PaymentAmount:  in.PaymentAmount,
		PaymentStatus:  model.RegistrationPending,
	}
	if reg.IsFree() {
		reg.PaymentStatus = model.RegistrationFree
	}

	if err := s.registrations.CreateRegistration(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	log := s.log.With().Str("registration_id", reg.RegistrationID).Logger()

	if reg.IsFree() {
		log.Info().Msg("free registration created")
		s.notifyRegistration(ctx, reg)
		return &RegisterResult{Message: "Registration successful", Registration: reg}, nil
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.IntentRequest{
		AmountMinor:  toMinorUnits(reg.PaymentAmount),
		ReceiptEmail: reg.Email,
		CardOnly:     true,
		Metadata: map[string]string{
			"registration_id": reg.RegistrationID,
			"event_name":      reg.EventName,
			"email":           reg.Email,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create payment intent for registration")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	payment := &model.Payment{
		PaymentID:            s.ids.PaymentID(),
		RegistrationID:       reg.RegistrationID,
		GatewayTransactionID: intent.ID,
		OrderID:              s.ids.OrderID(),
		Amount:               reg.PaymentAmount,
		Currency:             intent.Currency,
		PaymentMethod:        model.PaymentMethodCard,
		PaymentStatus:        model.PaymentPending,
		Email:                reg.Email,
		FullName:             reg.FullName(),
		Address1:             reg.Address1,
		Address2:             reg.Address2,
		City:                 reg.City,
		State:                reg.State,
		IsDonation:           false,
		EventName:            reg.EventName,
		EventDate:            reg.EventDate,
		EventVenue:           reg.EventVenue,
		EventTime:            reg.EventTime,
	}

	if err := s.dispatcher.ScheduleReconcile(ctx, intent.ID, payment.PaymentID); err != nil {
		log.Warn().Err(err).Str("gateway_id", intent.ID).Msg("reconcile check not scheduled")
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		log.Error().Err(err).Str("gateway_id", intent.ID).Msg("payment intent created but payment record not stored")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if err := s.registrations.LinkRegistrationPayment(ctx, reg.RegistrationID, payment.PaymentID, model.RegistrationPending); err != nil {
		log.Error().Err(err).Str("payment_id", payment.PaymentID).Msg("failed to link payment to registration")
		return nil, fmt.Errorf("link payment: %w", err)
	}
	reg.PaymentID = payment.PaymentID
	reg.PaymentStatus = model.RegistrationPending

	log.Info().
		Str("payment_id", payment.PaymentID).
		Str("gateway_id", intent.ID).
		Float64("amount", payment.Amount).
		Msg("paid registration created")

	s.notifyRegistration(ctx, reg)

	return &RegisterResult{
		Message:      "Registration created, complete the payment to confirm",
		Registration: reg,
		Payment:      payment,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *RegistrationService) notifyRegistration(ctx context.Context, reg *model.Registration) {
	msg, err := mailer.RegistrationEmail(reg, ticket.Link(s.frontendURL, reg.RegistrationID))
	if err == nil {
		err = s.dispatcher.SendEmail(ctx, msg)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("registration_id", reg.RegistrationID).Msg("registration email not sent")
	}
}

func (s *RegistrationService) GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error) {
	if registrationID == "" {
		return nil, validationErr("registration id is required")
	}
	return s.registrations.GetRegistration(ctx, registrationID)
}

func (s *RegistrationService) GetRegistrationWithPayment(ctx context.Context, registrationID string) (*RegistrationWithPayment, error) {
	reg, err := s.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	res := &RegistrationWithPayment{Registration: reg, IsFreeEvent: reg.IsFree()}
	if reg.IsFree() {
		return res, nil
	}

	p, err := s.payments.GetPaymentByRegistrationID(ctx, registrationID)
	switch {
	case err == nil:
		res.Payment = p
	case errors.Is(err, model.ErrNotFound):
	default:
		return nil, err
	}
	return res, nil
}

func (s *RegistrationService) ListByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, validationErr("email is required")
	}
	return s.registrations.ListRegistrationsByEmail(ctx, email)
}

// UpdatePaymentStatus sets a registration's payment status directly. A free
// registration stays free and a paid one can never become free.
func (s *RegistrationService) UpdatePaymentStatus(ctx context.Context, registrationID, status string) (*model.Registration, error) {
	if !model.IsRegistrationStatus(status) {
		return nil, validationErr("unknown registration status %q", status)
	}
	reg, err := s.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.IsFree() != (status == model.RegistrationFree) {
		return nil, fmt.Errorf("%w: registration %s with amount %s cannot be %s",
			model.ErrInvalidTransition, registrationID, strconv.FormatFloat(reg.PaymentAmount, 'f', 2, 64), status)
	}
	if reg.PaymentStatus == status {
		return reg, nil
	}
	return s.registrations.UpdateRegistrationStatus(ctx, registrationID, status)
}

func (s *RegistrationService) Ticket(ctx context.Context, registrationID string) ([]byte, error) {
	reg, err := s.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return ticket.QRCode(s.frontendURL, reg.RegistrationID)
}
