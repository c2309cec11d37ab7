package repo

import (
	"context"
	"fmt"

	"artfoundation/internal/model"
)

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPaymentByID(ctx context.Context, paymentID string) (*model.Payment, error)
	GetPaymentByGatewayID(ctx context.Context, gatewayID string) (*model.Payment, error)
	GetPaymentByRegistrationID(ctx context.Context, registrationID string) (*model.Payment, error)
	ListPayments(ctx context.Context) ([]model.Payment, error)
	TransitionPaymentStatus(ctx context.Context, paymentID, status string) (*model.Payment, bool, error)
}

const paymentColumns = `
	id, payment_id, registration_id, gateway_transaction_id, order_id, amount, currency,
	payment_method, payment_status, email, full_name, address1, address2, city, state,
	is_donation, event_name, event_date, event_venue, event_time, payment_date,
	created_at, updated_at`

func scanPayment(row scanner) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.PaymentID, &p.RegistrationID, &p.GatewayTransactionID, &p.OrderID, &p.Amount, &p.Currency,
		&p.PaymentMethod, &p.PaymentStatus, &p.Email, &p.FullName, &p.Address1, &p.Address2, &p.City, &p.State,
		&p.IsDonation, &p.EventName, &p.EventDate, &p.EventVenue, &p.EventTime, &p.PaymentDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreatePayment(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (
			payment_id, registration_id, gateway_transaction_id, order_id, amount, currency,
			payment_method, payment_status, email, full_name, address1, address2, city, state,
			is_donation, event_name, event_date, event_venue, event_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		p.PaymentID, p.RegistrationID, p.GatewayTransactionID, p.OrderID, p.Amount, p.Currency,
		p.PaymentMethod, p.PaymentStatus, p.Email, p.FullName, p.Address1, p.Address2, p.City, p.State,
		p.IsDonation, p.EventName, p.EventDate, p.EventVenue, p.EventTime,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapErr("insert payment", err)
	}
	return nil
}

func (r *repository) GetPaymentByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	return r.getPayment(ctx, "payment_id", paymentID)
}

func (r *repository) GetPaymentByGatewayID(ctx context.Context, gatewayID string) (*model.Payment, error) {
	return r.getPayment(ctx, "gateway_transaction_id", gatewayID)
}

// GetPaymentByRegistrationID returns the most recent payment for a registration.
func (r *repository) GetPaymentByRegistrationID(ctx context.Context, registrationID string) (*model.Payment, error) {
	return r.getPayment(ctx, "registration_id", registrationID)
}

func (r *repository) getPayment(ctx context.Context, column, value string) (*model.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s = $1 ORDER BY created_at DESC LIMIT 1`, paymentColumns, column)

	p, err := scanPayment(r.db.Master.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, mapErr("get payment by "+column, err)
	}
	return p, nil
}

func (r *repository) ListPayments(ctx context.Context) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapErr("list payments", err)
	}
	defer rows.Close()

	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, mapErr("scan payment", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate payments", err)
	}
	return payments, nil
}

// TransitionPaymentStatus moves a payment to status under a row lock. Setting
// the current status again is a no-op and reports changed=false; the
// completion timestamp is stamped only on the first move to completed.
func (r *repository) TransitionPaymentStatus(ctx context.Context, paymentID, status string) (*model.Payment, bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, mapErr("begin payment transition", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
	}()

	current, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1 FOR UPDATE`, paymentID))
	if err != nil {
		rollback(tx)
		return nil, false, mapErr("lock payment", err)
	}

	if current.PaymentStatus == status {
		rollback(tx)
		return current, false, nil
	}

	if !model.CanTransitionPayment(current.PaymentStatus, status) {
		rollback(tx)
		return nil, false, fmt.Errorf("%w: payment %s cannot move from %s to %s",
			model.ErrInvalidTransition, paymentID, current.PaymentStatus, status)
	}

	updated, err := scanPayment(tx.QueryRowContext(ctx, `
		UPDATE payments
		SET payment_status = $1,
		    payment_date = CASE WHEN $1 = 'completed' THEN COALESCE(payment_date, NOW()) ELSE payment_date END,
		    updated_at = NOW()
		WHERE payment_id = $2
		RETURNING `+paymentColumns, status, paymentID))
	if err != nil {
		rollback(tx)
		return nil, false, mapErr("update payment status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, mapErr("commit payment transition", err)
	}

	return updated, true, nil
}
