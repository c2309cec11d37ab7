package repo

import (
	"context"
	"database/sql"

	"artfoundation/internal/model"
)

type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, reg *model.Registration) error
	GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error)
	ListRegistrationsByEmail(ctx context.Context, email string) ([]model.Registration, error)
	LinkRegistrationPayment(ctx context.Context, registrationID, paymentID, status string) error
	UpdateRegistrationStatus(ctx context.Context, registrationID, status string) (*model.Registration, error)
}

const registrationColumns = `
	id, registration_id, event_id, event_name, event_date, event_venue, event_time,
	first_name, middle_name, last_name, email, contact, address1, address2,
	city, state, zipcode, payment_amount, payment_status, payment_id,
	registration_date, created_at, updated_at`

func scanRegistration(row scanner) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.RegistrationID, &reg.EventID, &reg.EventName, &reg.EventDate, &reg.EventVenue, &reg.EventTime,
		&reg.FirstName, &reg.MiddleName, &reg.LastName, &reg.Email, &reg.Contact, &reg.Address1, &reg.Address2,
		&reg.City, &reg.State, &reg.Zipcode, &reg.PaymentAmount, &reg.PaymentStatus, &reg.PaymentID,
		&reg.RegistrationDate, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	query := `
		INSERT INTO registrations (
			registration_id, event_id, event_name, event_date, event_venue, event_time,
			first_name, middle_name, last_name, email, contact, address1, address2,
			city, state, zipcode, payment_amount, payment_status, payment_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, registration_date, created_at, updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		reg.RegistrationID, reg.EventID, reg.EventName, reg.EventDate, reg.EventVenue, reg.EventTime,
		reg.FirstName, reg.MiddleName, reg.LastName, reg.Email, reg.Contact, reg.Address1, reg.Address2,
		reg.City, reg.State, reg.Zipcode, reg.PaymentAmount, reg.PaymentStatus, reg.PaymentID,
	).Scan(&reg.ID, &reg.RegistrationDate, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return mapErr("insert registration", err)
	}
	return nil
}

func (r *repository) GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE registration_id = $1`

	reg, err := scanRegistration(r.db.Master.QueryRowContext(ctx, query, registrationID))
	if err != nil {
		return nil, mapErr("get registration", err)
	}
	return reg, nil
}

func (r *repository) ListRegistrationsByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE email = $1
		ORDER BY registration_date DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, mapErr("list registrations", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, mapErr("scan registration", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("iterate registrations", err)
	}
	return regs, nil
}

func (r *repository) LinkRegistrationPayment(ctx context.Context, registrationID, paymentID, status string) error {
	query := `
		UPDATE registrations
		SET payment_id = $1, payment_status = $2, updated_at = NOW()
		WHERE registration_id = $3
	`
	res, err := r.db.Master.ExecContext(ctx, query, paymentID, status, registrationID)
	if err != nil {
		return mapErr("link registration payment", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return mapErr("link registration payment", sql.ErrNoRows)
	}
	return nil
}

func (r *repository) UpdateRegistrationStatus(ctx context.Context, registrationID, status string) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET payment_status = $1, updated_at = NOW()
		WHERE registration_id = $2
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.Master.QueryRowContext(ctx, query, status, registrationID))
	if err != nil {
		return nil, mapErr("update registration status", err)
	}
	return reg, nil
}
