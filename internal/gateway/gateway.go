package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"artfoundation/internal/model"
)

const (
	StatusSucceeded  = string(stripe.PaymentIntentStatusSucceeded)
	StatusCanceled   = string(stripe.PaymentIntentStatusCanceled)
	StatusProcessing = string(stripe.PaymentIntentStatusProcessing)
)

type IntentRequest struct {
	AmountMinor  int64
	Currency     string
	ReceiptEmail string
	CardOnly     bool
	Metadata     map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
	ReceiptEmail string
	Metadata     map[string]string
}

func (i *Intent) Succeeded() bool {
	return i.Status == StatusSucceeded
}

type Config struct {
	SecretKey string
	Currency  string
	Timeout   time.Duration

	// MaxNetworkRetries is passed to stripe-go, which sends an idempotency
	// key with every retried POST. Zero disables retries.
	MaxNetworkRetries int64
}

// Stripe talks to the Stripe PaymentIntents API. Every call is bounded by the
// configured timeout.
type Stripe struct {
	api      *client.API
	currency string
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewStripe(cfg Config, log *zerolog.Logger) (*Stripe, error) {
	return newStripe(cfg, stripe.NewBackendsWithConfig(backendConfig(cfg)), log)
}

func backendConfig(cfg Config) *stripe.BackendConfig {
	retries := cfg.MaxNetworkRetries
	if retries < 0 {
		retries = 0
	}
	return &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(retries),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
}

func newStripe(cfg Config, backends *stripe.Backends, log *zerolog.Logger) (*Stripe, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Stripe{
		api:      client.New(cfg.SecretKey, backends),
		currency: cfg.Currency,
		timeout:  cfg.Timeout,
		log:      log,
	}, nil
}

func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	if req.CardOnly {
		params.PaymentMethodTypes = stripe.StringSlice([]string{model.PaymentMethodCard})
	}
	for k, v := range req.Metadata {
		if v != "" {
			params.AddMetadata(k, v)
		}
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapErr("create payment intent", err)
	}

	s.log.Debug().
		Str("gateway_id", pi.ID).
		Int64("amount", pi.Amount).
		Msg("payment intent created")

	return toIntent(pi), nil
}

func (s *Stripe) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, wrapErr("retrieve payment intent", err)
	}
	return toIntent(pi), nil
}

func (s *Stripe) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonAbandoned)),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Cancel(id, params)
	if err != nil {
		return nil, wrapErr("cancel payment intent", err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		ReceiptEmail: pi.ReceiptEmail,
		Metadata:     pi.Metadata,
	}
}

func wrapErr(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return fmt.Errorf("%w: %s: %s", model.ErrGateway, op, se.Msg)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrGateway, op, err)
}
