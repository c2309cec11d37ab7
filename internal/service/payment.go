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
)

type EventDetails struct {
	EventName  string
	EventDate  string
	EventVenue string
	EventTime  string
}

type CreatePaymentInput struct {
	Amount       float64
	Email        string
	FullName     string
	Address1     string
	Address2     string
	City         string
	State        string
	IsEvent      bool
	EventDetails *EventDetails
}

type CreatePaymentResult struct {
	Message      string
	Payment      *model.Payment
	ClientSecret string
}

type PaymentService struct {
	payments      repo.PaymentRepository
	registrations repo.RegistrationRepository
	gateway       PaymentGateway
	dispatcher    Dispatcher
	broadcaster   StatusBroadcaster
	ids           IDGenerator
	log           *zerolog.Logger
}

func NewPaymentService(
	payments repo.PaymentRepository,
	registrations repo.RegistrationRepository,
	gw PaymentGateway,
	dispatcher Dispatcher,
	broadcaster StatusBroadcaster,
	ids IDGenerator,
	log *zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		registrations: registrations,
		gateway:       gw,
		dispatcher:    dispatcher,
		broadcaster:   broadcaster,
		ids:           ids,
		log:           log,
	}
}

// CreatePayment opens a gateway intent for a donation or an event ticket that
// is not tied to a registration and records it as pending.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		return nil, validationErr("email is required")
	}
	if !validAmount(in.Amount) || toMinorUnits(in.Amount) <= 0 {
		return nil, validationErr("amount must be greater than zero")
	}

	details := EventDetails{}
	if in.IsEvent && in.EventDetails != nil {
		details = *in.EventDetails
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.IntentRequest{
		AmountMinor:  toMinorUnits(in.Amount),
		ReceiptEmail: in.Email,
		CardOnly:     true,
		Metadata: map[string]string{
			"full_name":   in.FullName,
			"address1":    in.Address1,
			"address2":    in.Address2,
			"city":        in.City,
			"state":       in.State,
			"is_event":    strconv.FormatBool(in.IsEvent),
			"event_name":  details.EventName,
			"event_date":  details.EventDate,
			"event_venue": details.EventVenue,
			"event_time":  details.EventTime,
		},
	})
	if err != nil {
		s.log.Error().Err(err).Str("email", in.Email).Msg("failed to create payment intent")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	p := &model.Payment{
		PaymentID:            s.ids.PaymentID(),
		GatewayTransactionID: intent.ID,
		OrderID:              s.ids.OrderID(),
		Amount:               in.Amount,
		Currency:             intent.Currency,
		PaymentMethod:        model.PaymentMethodCard,
		PaymentStatus:        model.PaymentPending,
		Email:                in.Email,
		FullName:             strings.TrimSpace(in.FullName),
		Address1:             in.Address1,
		Address2:             in.Address2,
		City:                 in.City,
		State:                in.State,
		IsDonation:           !in.IsEvent,
		EventName:            details.EventName,
		EventDate:            details.EventDate,
		EventVenue:           details.EventVenue,
		EventTime:            details.EventTime,
	}

	if err := s.dispatcher.ScheduleReconcile(ctx, intent.ID, p.PaymentID); err != nil {
		s.log.Warn().Err(err).Str("gateway_id", intent.ID).Msg("reconcile check not scheduled")
	}

	if err := s.payments.CreatePayment(ctx, p); err != nil {
		s.log.Error().Err(err).Str("gateway_id", intent.ID).Msg("payment intent created but payment record not stored")
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info().
		Str("payment_id", p.PaymentID).
		Str("gateway_id", intent.ID).
		Bool("donation", p.IsDonation).
		Msg("payment created")

	return &CreatePaymentResult{
		Message:      "Payment intent created",
		Payment:      p,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// CreatePaymentIntent opens a bare gateway intent with no local record.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amountMinor int64, email string) (string, error) {
	if amountMinor <= 0 {
		return "", validationErr("amount must be greater than zero")
	}
	intent, err := s.gateway.CreateIntent(ctx, gateway.IntentRequest{
		AmountMinor:  amountMinor,
		ReceiptEmail: normalizeEmail(email),
	})
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// GetPayment resolves a payment by its payment id first and by gateway
// transaction id second.
func (s *PaymentService) GetPayment(ctx context.Context, identifier string) (*model.Payment, error) {
	if identifier == "" {
		return nil, validationErr("payment identifier is required")
	}
	p, err := s.payments.GetPaymentByID(ctx, identifier)
	if errors.Is(err, model.ErrNotFound) {
		return s.payments.GetPaymentByGatewayID(ctx, identifier)
	}
	return p, err
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}

func (s *PaymentService) GetPaymentByRegistrationID(ctx context.Context, registrationID string) (*model.Payment, error) {
	if registrationID == "" {
		return nil, validationErr("registration id is required")
	}
	return s.payments.GetPaymentByRegistrationID(ctx, registrationID)
}

func (s *PaymentService) SetStatus(ctx context.Context, identifier, status string) (*model.Payment, error) {
	if !model.IsPaymentStatus(status) {
		return nil, validationErr("unknown payment status %q", status)
	}
	p, err := s.GetPayment(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, p.PaymentID, status)
}

// Confirm asks the gateway for the authoritative intent state and completes
// the local payment only when the gateway reports success.
func (s *PaymentService) Confirm(ctx context.Context, gatewayID string) (*model.Payment, error) {
	if gatewayID == "" {
		return nil, validationErr("gateway transaction id is required")
	}

	intent, err := s.gateway.RetrieveIntent(ctx, gatewayID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if !intent.Succeeded() {
		return nil, fmt.Errorf("%w: payment is in %s state", model.ErrPaymentNotConfirmable, intent.Status)
	}

	p, err := s.payments.GetPaymentByGatewayID(ctx, gatewayID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.log.Error().Str("gateway_id", gatewayID).Msg("gateway reports success but no local payment exists")
		}
		return nil, err
	}

	return s.applyStatus(ctx, p.PaymentID, model.PaymentCompleted)
}

// Reconcile settles a payment against the gateway some time after its intent
// was created. It covers intents whose local record never landed and pending
// payments the client never confirmed.
func (s *PaymentService) Reconcile(ctx context.Context, gatewayID string) error {
	log := s.log.With().Str("gateway_id", gatewayID).Logger()

	intent, err := s.gateway.RetrieveIntent(ctx, gatewayID)
	if err != nil {
		return fmt.Errorf("retrieve payment intent: %w", err)
	}

	p, err := s.payments.GetPaymentByGatewayID(ctx, gatewayID)
	if errors.Is(err, model.ErrNotFound) {
		switch intent.Status {
		case gateway.StatusSucceeded:
			log.Error().Int64("amount", intent.AmountMinor).Msg("payment succeeded at gateway without a local record")
		case gateway.StatusCanceled:
		default:
			if _, err := s.gateway.CancelIntent(ctx, gatewayID); err != nil {
				return fmt.Errorf("cancel orphaned intent: %w", err)
			}
			log.Warn().Msg("orphaned payment intent canceled")
		}
		return nil
	}
	if err != nil {
		return err
	}

	if p.PaymentStatus != model.PaymentPending {
		return nil
	}

	var target string
	switch intent.Status {
	case gateway.StatusSucceeded:
		target = model.PaymentCompleted
	case gateway.StatusCanceled:
		target = model.PaymentFailed
	default:
		log.Debug().Str("status", intent.Status).Msg("payment still in flight")
		return nil
	}

	if _, err := s.applyStatus(ctx, p.PaymentID, target); err != nil {
		return err
	}
	log.Info().Str("payment_id", p.PaymentID).Str("status", target).Msg("payment reconciled")
	return nil
}

func (s *PaymentService) applyStatus(ctx context.Context, paymentID, status string) (*model.Payment, error) {
	p, changed, err := s.payments.TransitionPaymentStatus(ctx, paymentID, status)
	if err != nil {
		return nil, err
	}

	s.propagate(ctx, p)

	if !changed {
		return p, nil
	}

	s.log.Info().
		Str("payment_id", p.PaymentID).
		Str("status", p.PaymentStatus).
		Msg("payment status changed")

	s.broadcaster.PaymentStatusChanged(p)

	if p.PaymentStatus == model.PaymentCompleted {
		msg, err := mailer.PaymentReceiptEmail(p)
		if err == nil {
			err = s.dispatcher.SendEmail(ctx, msg)
		}
		if err != nil {
			s.log.Warn().Err(err).Str("payment_id", p.PaymentID).Msg("payment receipt not sent")
		}
	}
	return p, nil
}

// propagate mirrors the payment status onto its registration. It runs on
// every status call so a repeated call repairs a registration left behind.
func (s *PaymentService) propagate(ctx context.Context, p *model.Payment) {
	if p.RegistrationID == "" {
		return
	}
	status, ok := model.RegistrationStatusFor(p.PaymentStatus)
	if !ok {
		return
	}
	if _, err := s.registrations.UpdateRegistrationStatus(ctx, p.RegistrationID, status); err != nil {
		s.log.Error().Err(err).
			Str("payment_id", p.PaymentID).
			Str("registration_id", p.RegistrationID).
			Msg("failed to propagate payment status to registration")
	}
}
