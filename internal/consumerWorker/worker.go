package consumerWorker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"artfoundation/internal/dispatch"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Sender interface {
	Send(to, subject, html string) error
}

type Reconciler interface {
	Reconcile(ctx context.Context, gatewayID string) error
}

// Reader drains the work queue: queued emails and delayed payment
// reconciliation checks.
type Reader struct {
	consumer   Consumer
	mail       Sender
	reconciler Reconciler
	log        *zerolog.Logger
	done       chan struct{}
	cancel     context.CancelFunc
}

func NewReader(consumer Consumer, mail Sender, reconciler Reconciler, log *zerolog.Logger) *Reader {
	return &Reader{
		consumer:   consumer,
		mail:       mail,
		reconciler: reconciler,
		log:        log,
		done:       make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) error {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if err := r.consumer.Consume(func(body []byte) error {
		return r.handle(cctx, body)
	}); err != nil {
		cancel()
		close(r.done)
		return fmt.Errorf("start consuming: %w", err)
	}

	r.log.Info().Msg("RabbitMQ reader started")

	go func() {
		defer close(r.done)
		<-cctx.Done()
		r.log.Info().Msg("RabbitMQ reader stopped by context")
	}()
	return nil
}

// handle returns an error only for failures worth a redelivery. Malformed
// messages are logged and acknowledged.
func (r *Reader) handle(ctx context.Context, body []byte) error {
	env, err := dispatch.Decode(body)
	if err != nil {
		r.log.Error().Err(err).Str("body", string(body)).Msg("dropping malformed message")
		return nil
	}

	switch env.Kind {
	case dispatch.KindEmail:
		msg := env.Email
		if err := r.mail.Send(msg.To, msg.Subject, msg.HTML); err != nil {
			r.log.Warn().Err(err).Str("email", msg.To).Msg("failed to deliver queued email")
			return err
		}
		r.log.Info().Str("email", msg.To).Str("subject", msg.Subject).Msg("queued email delivered")

	case dispatch.KindReconcilePayment:
		job := env.Reconcile
		if err := r.reconciler.Reconcile(ctx, job.GatewayTransactionID); err != nil {
			r.log.Error().Err(err).
				Str("gateway_id", job.GatewayTransactionID).
				Str("payment_id", job.PaymentID).
				Msg("payment reconciliation failed")
			return err
		}
	}
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
