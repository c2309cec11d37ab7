package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"artfoundation/internal/gateway"
	"artfoundation/internal/mailer"
	"artfoundation/internal/model"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateIntent(ctx context.Context, req gateway.IntentRequest) (*gateway.Intent, error) {
	args := m.Called(ctx, req)
	intent, _ := args.Get(0).(*gateway.Intent)
	return intent, args.Error(1)
}

func (m *mockGateway) RetrieveIntent(ctx context.Context, id string) (*gateway.Intent, error) {
	args := m.Called(ctx, id)
	intent, _ := args.Get(0).(*gateway.Intent)
	return intent, args.Error(1)
}

func (m *mockGateway) CancelIntent(ctx context.Context, id string) (*gateway.Intent, error) {
	args := m.Called(ctx, id)
	intent, _ := args.Get(0).(*gateway.Intent)
	return intent, args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) SendEmail(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockDispatcher) ScheduleReconcile(ctx context.Context, gatewayID, paymentID string) error {
	return m.Called(ctx, gatewayID, paymentID).Error(0)
}

type mockBroadcaster struct{ mock.Mock }

func (m *mockBroadcaster) PaymentStatusChanged(p *model.Payment) {
	m.Called(p)
}

type stubIDs struct{ n int }

func (s *stubIDs) RegistrationID() string {
	s.n++
	return fmt.Sprintf("REG-1-%09d", s.n)
}

func (s *stubIDs) PaymentID() string {
	s.n++
	return fmt.Sprintf("PAY-1-%09d", s.n)
}

func (s *stubIDs) OrderID() string {
	s.n++
	return fmt.Sprintf("ORDER-%d", s.n)
}

// memStore is an in-memory stand-in for the Postgres repository with the same
// not-found and uniqueness behavior.
type memStore struct {
	mu            sync.Mutex
	registrations map[string]*model.Registration
	payments      map[string]*model.Payment
	artists       map[int64]*model.Artist
	events        map[int64]*model.Event
	seq           int64
	failPayments  error
}

func newMemStore() *memStore {
	return &memStore{
		registrations: map[string]*model.Registration{},
		payments:      map[string]*model.Payment{},
		artists:       map[int64]*model.Artist{},
		events:        map[int64]*model.Event{},
	}
}

func (s *memStore) next() int64 {
	s.seq++
	return s.seq
}

func (s *memStore) CreateRegistration(_ context.Context, reg *model.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[reg.RegistrationID]; ok {
		return model.ErrConflict
	}
	reg.ID = s.next()
	reg.RegistrationDate = time.Now()
	cp := *reg
	s.registrations[reg.RegistrationID] = &cp
	return nil
}

func (s *memStore) GetRegistration(_ context.Context, id string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, fmt.Errorf("get registration: %w", model.ErrNotFound)
	}
	cp := *reg
	return &cp, nil
}

func (s *memStore) ListRegistrationsByEmail(_ context.Context, email string) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, reg := range s.registrations {
		if reg.Email == email {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) LinkRegistrationPayment(_ context.Context, id, paymentID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return model.ErrNotFound
	}
	reg.PaymentID = paymentID
	reg.PaymentStatus = status
	return nil
}

func (s *memStore) UpdateRegistrationStatus(_ context.Context, id, status string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	reg.PaymentStatus = status
	cp := *reg
	return &cp, nil
}

func (s *memStore) CreatePayment(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPayments != nil {
		return s.failPayments
	}
	for _, existing := range s.payments {
		if existing.GatewayTransactionID == p.GatewayTransactionID {
			return model.ErrConflict
		}
	}
	p.ID = s.next()
	cp := *p
	s.payments[p.PaymentID] = &cp
	return nil
}

func (s *memStore) GetPaymentByID(_ context.Context, id string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, fmt.Errorf("get payment: %w", model.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) findPayment(match func(*model.Payment) bool) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *model.Payment
	for _, p := range s.payments {
		if match(p) && (found == nil || p.ID > found.ID) {
			found = p
		}
	}
	if found == nil {
		return nil, fmt.Errorf("find payment: %w", model.ErrNotFound)
	}
	cp := *found
	return &cp, nil
}

func (s *memStore) GetPaymentByGatewayID(_ context.Context, id string) (*model.Payment, error) {
	return s.findPayment(func(p *model.Payment) bool { return p.GatewayTransactionID == id })
}

func (s *memStore) GetPaymentByRegistrationID(_ context.Context, id string) (*model.Payment, error) {
	return s.findPayment(func(p *model.Payment) bool { return p.RegistrationID == id })
}

func (s *memStore) ListPayments(_ context.Context) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) TransitionPaymentStatus(_ context.Context, id, status string) (*model.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, false, model.ErrNotFound
	}
	if p.PaymentStatus == status {
		cp := *p
		return &cp, false, nil
	}
	if !model.CanTransitionPayment(p.PaymentStatus, status) {
		return nil, false, model.ErrInvalidTransition
	}
	p.PaymentStatus = status
	if status == model.PaymentCompleted && p.PaymentDate == nil {
		now := time.Now()
		p.PaymentDate = &now
	}
	cp := *p
	return &cp, true, nil
}

func (s *memStore) CreateArtist(_ context.Context, a *model.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.artists {
		if existing.Email == a.Email {
			return model.ErrConflict
		}
	}
	a.ArtistID = s.next()
	cp := *a
	s.artists[a.ArtistID] = &cp
	return nil
}

func (s *memStore) GetArtistByID(_ context.Context, id int64) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) GetArtistByEmail(_ context.Context, email string) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artists {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get artist by email: %w", model.ErrNotFound)
}

func (s *memStore) VerifyArtistByToken(_ context.Context, tokenHash string, now time.Time) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artists {
		if tokenHash != "" && a.VerificationToken == tokenHash && a.VerificationExpires != nil && a.VerificationExpires.After(now) {
			a.IsVerified = true
			a.VerificationToken = ""
			a.VerificationExpires = nil
			cp := *a
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memStore) SetResetToken(_ context.Context, id int64, tokenHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[id]
	if !ok {
		return model.ErrNotFound
	}
	a.ResetPasswordToken = tokenHash
	a.ResetPasswordExpires = &expires
	return nil
}

func (s *memStore) GetArtistByResetToken(_ context.Context, tokenHash string, now time.Time) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artists {
		if tokenHash != "" && a.ResetPasswordToken == tokenHash && a.ResetPasswordExpires != nil && a.ResetPasswordExpires.After(now) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memStore) ResetPasswordByToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (*model.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artists {
		if tokenHash != "" && a.ResetPasswordToken == tokenHash && a.ResetPasswordExpires != nil && a.ResetPasswordExpires.After(now) {
			a.PasswordHash = passwordHash
			a.ResetPasswordToken = ""
			a.ResetPasswordExpires = nil
			cp := *a
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memStore) CreateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

func (s *memStore) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *memStore) GetAllEvents(_ context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *memStore) paymentsFor(registrationID string) []model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		if p.RegistrationID == registrationID {
			out = append(out, *p)
		}
	}
	return out
}
