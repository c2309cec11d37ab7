package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"artfoundation/internal/model"
	"artfoundation/internal/service"
)

type mockRegistrations struct{ mock.Mock }

func (m *mockRegistrations) Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.RegisterResult)
	return res, args.Error(1)
}

func (m *mockRegistrations) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	args := m.Called(ctx, id)
	reg, _ := args.Get(0).(*model.Registration)
	return reg, args.Error(1)
}

func (m *mockRegistrations) GetRegistrationWithPayment(ctx context.Context, id string) (*service.RegistrationWithPayment, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*service.RegistrationWithPayment)
	return res, args.Error(1)
}

func (m *mockRegistrations) ListByEmail(ctx context.Context, email string) ([]model.Registration, error) {
	args := m.Called(ctx, email)
	regs, _ := args.Get(0).([]model.Registration)
	return regs, args.Error(1)
}

func (m *mockRegistrations) UpdatePaymentStatus(ctx context.Context, id, status string) (*model.Registration, error) {
	args := m.Called(ctx, id, status)
	reg, _ := args.Get(0).(*model.Registration)
	return reg, args.Error(1)
}

func (m *mockRegistrations) Ticket(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) CreatePayment(ctx context.Context, in service.CreatePaymentInput) (*service.CreatePaymentResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*service.CreatePaymentResult)
	return res, args.Error(1)
}

func (m *mockPayments) CreatePaymentIntent(ctx context.Context, amountMinor int64, email string) (string, error) {
	args := m.Called(ctx, amountMinor, email)
	return args.String(0), args.Error(1)
}

func (m *mockPayments) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) ListPayments(ctx context.Context) ([]model.Payment, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

func (m *mockPayments) GetPaymentByRegistrationID(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) SetStatus(ctx context.Context, id, status string) (*model.Payment, error) {
	args := m.Called(ctx, id, status)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

func (m *mockPayments) Confirm(ctx context.Context, gatewayID string) (*model.Payment, error) {
	args := m.Called(ctx, gatewayID)
	p, _ := args.Get(0).(*model.Payment)
	return p, args.Error(1)
}

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) Signup(ctx context.Context, in service.SignupInput) (*model.Artist, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*model.Artist)
	return a, args.Error(1)
}

func (m *mockIdentity) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.LoginResult)
	return res, args.Error(1)
}

func (m *mockIdentity) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockIdentity) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *mockIdentity) VerifyEmail(ctx context.Context, token string) (*model.Artist, error) {
	args := m.Called(ctx, token)
	a, _ := args.Get(0).(*model.Artist)
	return a, args.Error(1)
}

func (m *mockIdentity) GetArtist(ctx context.Context, id int64) (*model.Artist, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Artist)
	return a, args.Error(1)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) Create(ctx context.Context, artistID int64, in service.CreateEventInput) (*model.Event, error) {
	args := m.Called(ctx, artistID, in)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *mockEvents) Get(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*model.Event)
	return e, args.Error(1)
}

func (m *mockEvents) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	es, _ := args.Get(0).([]model.Event)
	return es, args.Error(1)
}
