package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"artfoundation/internal/model"
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

var (
	verificationTmpl = template.Must(template.New("verify").Parse(
		`<p>Hello {{.Name}},</p>
<p>Thanks for signing up. Please confirm your email address by opening the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link is valid for {{.TTL}}.</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(
		`<p>Hello {{.Name}},</p>
<p>We received a request to reset your password. Open the link below to choose a new one:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in {{.TTL}}. If you did not ask for a reset you can ignore this email.</p>`))

	registrationTmpl = template.Must(template.New("registration").Parse(
		`<p>Hello {{.Reg.FirstName}},</p>
{{if eq .Reg.PaymentStatus "free"}}<p>You are registered for <b>{{.Reg.EventName}}</b>. Entry is free.</p>
{{else if eq .Reg.PaymentStatus "completed"}}<p>Your payment for <b>{{.Reg.EventName}}</b> is complete. See you there!</p>
{{else}}<p>You started a registration for <b>{{.Reg.EventName}}</b>. It will be confirmed once the payment of ${{printf "%.2f" .Reg.PaymentAmount}} goes through.</p>
{{end}}<p>Date: {{.Reg.EventDate}} {{.Reg.EventTime}}<br>Venue: {{.Reg.EventVenue}}<br>Registration: {{.Reg.RegistrationID}}</p>
<p>Your ticket: <a href="{{.TicketLink}}">{{.TicketLink}}</a></p>`))

	receiptTmpl = template.Must(template.New("receipt").Parse(
		`<p>Hello {{.FullName}},</p>
<p>We received your payment of ${{printf "%.2f" .Amount}}{{if .EventName}} for <b>{{.EventName}}</b>{{else}}. Thank you for your donation{{end}}.</p>
<p>Payment: {{.PaymentID}}<br>Order: {{.OrderID}}</p>`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func VerificationEmail(a *model.Artist, link string, ttl time.Duration) (Message, error) {
	html, err := render(verificationTmpl, map[string]any{"Name": a.FirstName, "Link": link, "TTL": humanize(ttl)})
	return Message{To: a.Email, Subject: "Verify your email address", HTML: html}, err
}

func PasswordResetEmail(a *model.Artist, link string, ttl time.Duration) (Message, error) {
	html, err := render(resetTmpl, map[string]any{"Name": a.FirstName, "Link": link, "TTL": humanize(ttl)})
	return Message{To: a.Email, Subject: "Reset your password", HTML: html}, err
}

func RegistrationEmail(reg *model.Registration, ticketLink string) (Message, error) {
	var subject string
	switch reg.PaymentStatus {
	case model.RegistrationFree:
		subject = "You're registered: " + reg.EventName
	case model.RegistrationCompleted:
		subject = "Registration confirmed: " + reg.EventName
	default:
		subject = "Complete your registration: " + reg.EventName
	}
	html, err := render(registrationTmpl, map[string]any{"Reg": reg, "TicketLink": ticketLink})
	return Message{To: reg.Email, Subject: subject, HTML: html}, err
}

func PaymentReceiptEmail(p *model.Payment) (Message, error) {
	html, err := render(receiptTmpl, p)
	return Message{To: p.Email, Subject: "Payment received " + p.PaymentID, HTML: html}, err
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
