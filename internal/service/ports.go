package service

import (
	"context"

	"artfoundation/internal/gateway"
	"artfoundation/internal/mailer"
	"artfoundation/internal/model"
)

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req gateway.IntentRequest) (*gateway.Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*gateway.Intent, error)
	CancelIntent(ctx context.Context, id string) (*gateway.Intent, error)
}

type Dispatcher interface {
	SendEmail(ctx context.Context, msg mailer.Message) error
	ScheduleReconcile(ctx context.Context, gatewayID, paymentID string) error
}

type StatusBroadcaster interface {
	PaymentStatusChanged(p *model.Payment)
}

type IDGenerator interface {
	RegistrationID() string
	PaymentID() string
	OrderID() string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(artistID int64, email string) (string, error)
}
