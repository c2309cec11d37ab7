package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"artfoundation/internal/model"
)

var testNow = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

// newMockRepo returns a repository over a master and one replica. Neither
// mock tolerates statements it was not told to expect.
func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()
	master, masterMock, err := sqlmock.New()
	require.NoError(t, err)
	replica, replicaMock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, masterMock.ExpectationsWereMet())
		assert.NoError(t, replicaMock.ExpectationsWereMet())
		_ = master.Close()
		_ = replica.Close()
	})

	log := zerolog.Nop()
	db := &dbpg.DB{Master: master, Slaves: []*sql.DB{replica}}
	return &repository{db: db, log: &log}, masterMock, replicaMock
}

func columns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols
}

func paymentRows(status string, paidAt *time.Time) *sqlmock.Rows {
	var paid driver.Value
	if paidAt != nil {
		paid = *paidAt
	}
	return sqlmock.NewRows(columns(paymentColumns)).AddRow(
		int64(1), "PAY-1", "REG-1", "pi_1", "ORDER-1", 20.0, "usd",
		"card", status, "a@b.com", "Asha Rao", "", "", "", "",
		false, "Diwali Art Festival 2024", "", "", "", paid,
		testNow, testNow,
	)
}

func artistRows(verified bool, passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows(columns(artistColumns)).AddRow(
		int64(7), "Meera", "Iyer", "meera@example.com", passwordHash, "555-0100", "", "", "", "",
		verified, "", nil,
		"", nil, testNow, testNow,
	)
}

func TestRepository_WritesAndLookupsUseMaster(t *testing.T) {
	r, master, replica := newMockRepo(t)
	ctx := context.Background()

	master.ExpectQuery(`INSERT INTO registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "registration_date", "created_at", "updated_at"}).
			AddRow(int64(1), testNow, testNow, testNow))
	master.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), testNow, testNow))
	master.ExpectExec(`UPDATE registrations SET payment_id = \$1`).
		WithArgs("PAY-1", model.RegistrationPending, "REG-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	master.ExpectQuery(`(?s)SELECT .* FROM payments WHERE gateway_transaction_id = \$1`).
		WithArgs("pi_1").
		WillReturnRows(paymentRows(model.PaymentPending, nil))
	master.ExpectQuery(`INSERT INTO artists`).
		WillReturnRows(sqlmock.NewRows([]string{"artist_id", "created_at", "updated_at"}).
			AddRow(int64(7), testNow, testNow))
	master.ExpectQuery(`UPDATE artists SET reset_password_token_hash = \$1`).
		WithArgs("tok-hash", testNow.Add(30*time.Minute), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"artist_id"}).AddRow(int64(7)))
	replica.ExpectQuery(`(?s)SELECT .* FROM payments ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(columns(paymentColumns)))

	reg := &model.Registration{RegistrationID: "REG-1", EventName: "Diwali Art Festival 2024", Email: "a@b.com", PaymentStatus: model.RegistrationPending}
	require.NoError(t, r.CreateRegistration(ctx, reg))

	p := &model.Payment{PaymentID: "PAY-1", RegistrationID: "REG-1", GatewayTransactionID: "pi_1", PaymentStatus: model.PaymentPending}
	require.NoError(t, r.CreatePayment(ctx, p))
	require.NoError(t, r.LinkRegistrationPayment(ctx, "REG-1", "PAY-1", model.RegistrationPending))

	got, err := r.GetPaymentByGatewayID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", got.PaymentID)

	a := &model.Artist{Email: "meera@example.com", PasswordHash: "hash"}
	require.NoError(t, r.CreateArtist(ctx, a))
	assert.Equal(t, int64(7), a.ArtistID)
	require.NoError(t, r.SetResetToken(ctx, 7, "tok-hash", testNow.Add(30*time.Minute)))

	list, err := r.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransitionPaymentStatus(t *testing.T) {
	lockQuery := `(?s)SELECT .* FROM payments WHERE payment_id = \$1 FOR UPDATE`
	paidAt := testNow.Add(-time.Hour)

	t.Run("pending to completed stamps payment date", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectBegin()
		master.ExpectQuery(lockQuery).WithArgs("PAY-1").
			WillReturnRows(paymentRows(model.PaymentPending, nil))
		master.ExpectQuery(`(?s)UPDATE payments SET payment_status = \$1, payment_date = CASE WHEN \$1 = 'completed' THEN COALESCE\(payment_date, NOW\(\)\) ELSE payment_date END.*WHERE payment_id = \$2`).
			WithArgs(model.PaymentCompleted, "PAY-1").
			WillReturnRows(paymentRows(model.PaymentCompleted, &paidAt))
		master.ExpectCommit()

		p, changed, err := r.TransitionPaymentStatus(context.Background(), "PAY-1", model.PaymentCompleted)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, model.PaymentCompleted, p.PaymentStatus)
		require.NotNil(t, p.PaymentDate)
		assert.True(t, paidAt.Equal(*p.PaymentDate))
	})

	t.Run("completed again is a no-op", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectBegin()
		master.ExpectQuery(lockQuery).WithArgs("PAY-1").
			WillReturnRows(paymentRows(model.PaymentCompleted, &paidAt))
		master.ExpectRollback()

		p, changed, err := r.TransitionPaymentStatus(context.Background(), "PAY-1", model.PaymentCompleted)
		require.NoError(t, err)
		assert.False(t, changed)
		require.NotNil(t, p.PaymentDate)
		assert.True(t, paidAt.Equal(*p.PaymentDate))
	})

	t.Run("backward move is refused", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectBegin()
		master.ExpectQuery(lockQuery).WithArgs("PAY-1").
			WillReturnRows(paymentRows(model.PaymentCompleted, &paidAt))
		master.ExpectRollback()

		_, changed, err := r.TransitionPaymentStatus(context.Background(), "PAY-1", model.PaymentPending)
		assert.ErrorIs(t, err, model.ErrInvalidTransition)
		assert.False(t, changed)
	})

	t.Run("unknown payment", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectBegin()
		master.ExpectQuery(lockQuery).WithArgs("PAY-404").
			WillReturnRows(sqlmock.NewRows(columns(paymentColumns)))
		master.ExpectRollback()

		_, _, err := r.TransitionPaymentStatus(context.Background(), "PAY-404", model.PaymentCompleted)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestResetPasswordByToken(t *testing.T) {
	resetQuery := `(?s)UPDATE artists SET password_hash = \$1, reset_password_token_hash = '', reset_password_expires = NULL.*` +
		`WHERE reset_password_token_hash = \$2 AND reset_password_token_hash <> '' AND reset_password_expires > \$3`

	t.Run("clears token with the password", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectQuery(resetQuery).WithArgs("new-hash", "tok-hash", testNow).
			WillReturnRows(artistRows(true, "new-hash"))

		a, err := r.ResetPasswordByToken(context.Background(), "tok-hash", "new-hash", testNow)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", a.PasswordHash)
		assert.Empty(t, a.ResetPasswordToken)
		assert.Nil(t, a.ResetPasswordExpires)
	})

	t.Run("expired token matches no row", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectQuery(resetQuery).WithArgs("new-hash", "tok-hash", testNow).
			WillReturnRows(sqlmock.NewRows(columns(artistColumns)))

		_, err := r.ResetPasswordByToken(context.Background(), "tok-hash", "new-hash", testNow)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGetArtistByResetToken(t *testing.T) {
	r, master, _ := newMockRepo(t)
	master.ExpectQuery(`(?s)SELECT .* FROM artists WHERE reset_password_token_hash = \$1 AND reset_password_token_hash <> '' AND reset_password_expires > \$2`).
		WithArgs("tok-hash", testNow).
		WillReturnRows(sqlmock.NewRows(columns(artistColumns)))

	_, err := r.GetArtistByResetToken(context.Background(), "tok-hash", testNow)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestVerifyArtistByToken(t *testing.T) {
	verifyQuery := `(?s)UPDATE artists SET is_verified = TRUE, verification_token_hash = '', verification_expires = NULL.*` +
		`WHERE verification_token_hash = \$1 AND verification_token_hash <> '' AND verification_expires > \$2`

	t.Run("flips flag and clears token", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectQuery(verifyQuery).WithArgs("tok-hash", testNow).
			WillReturnRows(artistRows(true, "hash"))

		a, err := r.VerifyArtistByToken(context.Background(), "tok-hash", testNow)
		require.NoError(t, err)
		assert.True(t, a.IsVerified)
		assert.Empty(t, a.VerificationToken)
		assert.Nil(t, a.VerificationExpires)
	})

	t.Run("expired token matches no row", func(t *testing.T) {
		r, master, _ := newMockRepo(t)
		master.ExpectQuery(verifyQuery).WithArgs("tok-hash", testNow).
			WillReturnRows(sqlmock.NewRows(columns(artistColumns)))

		_, err := r.VerifyArtistByToken(context.Background(), "tok-hash", testNow)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
