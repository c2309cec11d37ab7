package model

import "time"

const (
	RegistrationPending   = "pending"
	RegistrationCompleted = "completed"
	RegistrationFree      = "free"
	RegistrationFailed    = "failed"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	PaymentMethodCard = "card"

	EventUpcoming = "upcoming"
	EventPast     = "past"
)

// Registration is one person's attendance record for an event. Event fields
// are copied at registration time and never follow later catalog edits.
type Registration struct {
	ID               int64     `db:"id" json:"-"`
	RegistrationID   string    `db:"registration_id" json:"registration_id"`
	EventID          int64     `db:"event_id" json:"event_id"`
	EventName        string    `db:"event_name" json:"event_name"`
	EventDate        string    `db:"event_date" json:"event_date"`
	EventVenue       string    `db:"event_venue" json:"event_venue"`
	EventTime        string    `db:"event_time" json:"event_time"`
	FirstName        string    `db:"first_name" json:"first_name"`
	MiddleName       string    `db:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName         string    `db:"last_name" json:"last_name"`
	Email            string    `db:"email" json:"email"`
	Contact          string    `db:"contact" json:"contact"`
	Address1         string    `db:"address1" json:"address1"`
	Address2         string    `db:"address2,omitempty" json:"address2,omitempty"`
	City             string    `db:"city" json:"city"`
	State            string    `db:"state" json:"state"`
	Zipcode          string    `db:"zipcode" json:"zipcode"`
	PaymentAmount    float64   `db:"payment_amount" json:"payment_amount"`
	PaymentStatus    string    `db:"payment_status" json:"payment_status"`
	PaymentID        string    `db:"payment_id,omitempty" json:"payment_id,omitempty"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (r *Registration) IsFree() bool {
	return r.PaymentAmount == 0
}

func (r *Registration) FullName() string {
	if r.MiddleName == "" {
		return r.FirstName + " " + r.LastName
	}
	return r.FirstName + " " + r.MiddleName + " " + r.LastName
}

// Payment is one gateway transaction. PaymentID is the canonical external
// identifier; GatewayTransactionID is unique and indexed for lookups coming
// from the gateway side.
type Payment struct {
	ID                   int64      `db:"id" json:"-"`
	PaymentID            string     `db:"payment_id" json:"payment_id"`
	RegistrationID       string     `db:"registration_id,omitempty" json:"registration_id,omitempty"`
	GatewayTransactionID string     `db:"gateway_transaction_id" json:"gateway_transaction_id"`
	OrderID              string     `db:"order_id" json:"order_id"`
	Amount               float64    `db:"amount" json:"amount"`
	Currency             string     `db:"currency" json:"currency"`
	PaymentMethod        string     `db:"payment_method" json:"payment_method"`
	PaymentStatus        string     `db:"payment_status" json:"payment_status"`
	Email                string     `db:"email" json:"email"`
	FullName             string     `db:"full_name" json:"full_name"`
	Address1             string     `db:"address1,omitempty" json:"address1,omitempty"`
	Address2             string     `db:"address2,omitempty" json:"address2,omitempty"`
	City                 string     `db:"city,omitempty" json:"city,omitempty"`
	State                string     `db:"state,omitempty" json:"state,omitempty"`
	IsDonation           bool       `db:"is_donation" json:"is_donation"`
	EventName            string     `db:"event_name,omitempty" json:"event_name,omitempty"`
	EventDate            string     `db:"event_date,omitempty" json:"event_date,omitempty"`
	EventVenue           string     `db:"event_venue,omitempty" json:"event_venue,omitempty"`
	EventTime            string     `db:"event_time,omitempty" json:"event_time,omitempty"`
	PaymentDate          *time.Time `db:"payment_date,omitempty" json:"payment_date,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

type Artist struct {
	ArtistID             int64      `db:"artist_id" json:"artist_id"`
	FirstName            string     `db:"first_name" json:"firstName"`
	LastName             string     `db:"last_name" json:"lastName"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Phone                string     `db:"phone" json:"phone"`
	Bio                  string     `db:"bio,omitempty" json:"bio,omitempty"`
	City                 string     `db:"city,omitempty" json:"city,omitempty"`
	State                string     `db:"state,omitempty" json:"state,omitempty"`
	Country              string     `db:"country,omitempty" json:"country,omitempty"`
	IsVerified           bool       `db:"is_verified" json:"isVerified"`
	VerificationToken    string     `db:"verification_token_hash" json:"-"`
	VerificationExpires  *time.Time `db:"verification_expires" json:"-"`
	ResetPasswordToken   string     `db:"reset_password_token_hash" json:"-"`
	ResetPasswordExpires *time.Time `db:"reset_password_expires" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

type Event struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Date      string    `db:"date" json:"date"`
	Time      string    `db:"time" json:"time"`
	Location  string    `db:"location" json:"location"`
	Price     float64   `db:"price" json:"price"`
	ArtistID  int64     `db:"artist_id" json:"artist_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
