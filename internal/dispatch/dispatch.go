package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"artfoundation/internal/mailer"
)

const (
	KindEmail            = "email"
	KindReconcilePayment = "reconcile_payment"
)

// Envelope is the single message shape carried on the work queue.
type Envelope struct {
	Kind      string          `json:"kind"`
	Email     *mailer.Message `json:"email,omitempty"`
	Reconcile *ReconcileJob   `json:"reconcile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type ReconcileJob struct {
	GatewayTransactionID string `json:"gateway_transaction_id"`
	PaymentID            string `json:"payment_id,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, message []byte, delay time.Duration) error
}

type Sender interface {
	Send(to, subject, html string) error
}

// Dispatcher hands background work to the queue. Mail falls back to direct
// delivery when the broker rejects the publish.
type Dispatcher struct {
	pub            Publisher
	mail           Sender
	reconcileDelay time.Duration
	log            *zerolog.Logger
}

func New(pub Publisher, mail Sender, reconcileDelay time.Duration, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, mail: mail, reconcileDelay: reconcileDelay, log: log}
}

func (d *Dispatcher) SendEmail(ctx context.Context, msg mailer.Message) error {
	err := d.publish(ctx, Envelope{Kind: KindEmail, Email: &msg}, 0)
	if err == nil {
		return nil
	}

	d.log.Warn().Err(err).Str("email", msg.To).Msg("queue unavailable, sending email inline")
	return d.mail.Send(msg.To, msg.Subject, msg.HTML)
}

func (d *Dispatcher) ScheduleReconcile(ctx context.Context, gatewayID, paymentID string) error {
	job := &ReconcileJob{GatewayTransactionID: gatewayID, PaymentID: paymentID}
	if err := d.publish(ctx, Envelope{Kind: KindReconcilePayment, Reconcile: job}, d.reconcileDelay); err != nil {
		return fmt.Errorf("schedule reconcile for %s: %w", gatewayID, err)
	}
	return nil
}

func (d *Dispatcher) publish(ctx context.Context, env Envelope, delay time.Duration) error {
	env.CreatedAt = time.Now()
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", env.Kind, err)
	}
	return d.pub.Publish(ctx, payload, delay)
}

func Decode(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch env.Kind {
	case KindEmail:
		if env.Email == nil {
			return nil, fmt.Errorf("decode message: email payload missing")
		}
	case KindReconcilePayment:
		if env.Reconcile == nil || env.Reconcile.GatewayTransactionID == "" {
			return nil, fmt.Errorf("decode message: reconcile payload missing")
		}
	default:
		return nil, fmt.Errorf("decode message: unknown kind %q", env.Kind)
	}
	return &env, nil
}
