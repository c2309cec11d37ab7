package mailer

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artfoundation/internal/model"
)

func TestMailer_Send(t *testing.T) {
	log := zerolog.Nop()
	m := New(Config{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", Password: "pw"}, &log)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send("a@b.com", "Hi", "<p>body</p>"))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "bot@example.com", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>body</p>"))
}

func TestMailer_SendError(t *testing.T) {
	log := zerolog.Nop()
	m := New(Config{Host: "localhost", Port: 25}, &log)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send("a@b.com", "Hi", "x")
	assert.ErrorContains(t, err, "connection refused")

	assert.Error(t, m.Send("", "Hi", "x"))
}

func TestRegistrationEmail(t *testing.T) {
	reg := &model.Registration{
		RegistrationID: "REG-1-ABC",
		EventName:      "Diwali Art Festival 2024",
		FirstName:      "Asha",
		Email:          "a@b.com",
		PaymentAmount:  20,
		PaymentStatus:  model.RegistrationPending,
	}

	msg, err := RegistrationEmail(reg, "https://example.org/registrations/REG-1-ABC")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", msg.To)
	assert.Contains(t, msg.Subject, "Complete your registration")
	assert.Contains(t, msg.HTML, "$20.00")

	reg.PaymentAmount = 0
	reg.PaymentStatus = model.RegistrationFree
	msg, err = RegistrationEmail(reg, "")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Entry is free")
}

func TestVerificationEmail_EscapesLink(t *testing.T) {
	a := &model.Artist{FirstName: "<b>Ravi</b>", Email: "r@b.com"}
	msg, err := VerificationEmail(a, "https://example.org/verify-email?token=abc", 24*time.Hour)
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ravi&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "token=abc")
	assert.Contains(t, msg.HTML, "24 hours")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1 hour", humanize(time.Hour))
	assert.Equal(t, "30 minutes", humanize(30*time.Minute))
	assert.Equal(t, "24 hours", humanize(24*time.Hour))
}
