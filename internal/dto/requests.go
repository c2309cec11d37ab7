package dto

type RegisterRequest struct {
	EventID       int64   `json:"event_id"`
	EventName     string  `json:"eventName" validate:"required,max=255"`
	EventDate     string  `json:"eventDate" validate:"max=64"`
	EventVenue    string  `json:"eventVenue" validate:"max=255"`
	EventTime     string  `json:"eventTime" validate:"max=64"`
	FirstName     string  `json:"firstName" validate:"required,max=100"`
	MiddleName    string  `json:"middleName" validate:"max=100"`
	LastName      string  `json:"lastName" validate:"required,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Contact       string  `json:"contact" validate:"max=32"`
	Address1      string  `json:"address1" validate:"max=255"`
	Address2      string  `json:"address2" validate:"max=255"`
	City          string  `json:"city" validate:"max=100"`
	State         string  `json:"state" validate:"max=100"`
	Zipcode       string  `json:"zipcode" validate:"max=20"`
	PaymentAmount float64 `json:"paymentAmount" validate:"amount"`
}

type EventDetailsRequest struct {
	EventName  string `json:"eventName" validate:"max=255"`
	EventDate  string `json:"eventDate" validate:"max=64"`
	EventVenue string `json:"eventVenue" validate:"max=255"`
	EventTime  string `json:"eventTime" validate:"max=64"`
}

type CreatePaymentRequest struct {
	Amount       float64              `json:"amount" validate:"amount,gt=0"`
	Email        string               `json:"email" validate:"required,email"`
	FullName     string               `json:"fullName" validate:"required,max=255"`
	Address1     string               `json:"address1" validate:"max=255"`
	Address2     string               `json:"address2" validate:"max=255"`
	City         string               `json:"city" validate:"max=100"`
	State        string               `json:"state" validate:"max=100"`
	IsEvent      bool                 `json:"isEvent"`
	EventDetails *EventDetailsRequest `json:"eventDetails"`
}

// PaymentIntentRequest carries the amount in minor units.
type PaymentIntentRequest struct {
	Amount int64  `json:"amount" validate:"gt=0"`
	Email  string `json:"email" validate:"required,email"`
}

type PaymentStatusRequest struct {
	Status string `json:"status" validate:"required,paymentstatus"`
}

type RegistrationStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,registrationstatus"`
}

type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	Bio         string `json:"bio" validate:"max=2000"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type CreateEventRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Date     string  `json:"date" validate:"required,max=64"`
	Time     string  `json:"time" validate:"max=64"`
	Location string  `json:"location" validate:"max=255"`
	Price    float64 `json:"price" validate:"amount"`
	Status   string  `json:"status" validate:"omitempty,oneof=upcoming past"`
}
