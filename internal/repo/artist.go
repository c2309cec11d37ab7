package repo

import (
	"context"
	"time"

	"artfoundation/internal/model"
)

type ArtistRepository interface {
	CreateArtist(ctx context.Context, a *model.Artist) error
	GetArtistByID(ctx context.Context, artistID int64) (*model.Artist, error)
	GetArtistByEmail(ctx context.Context, email string) (*model.Artist, error)
	VerifyArtistByToken(ctx context.Context, tokenHash string, now time.Time) (*model.Artist, error)
	SetResetToken(ctx context.Context, artistID int64, tokenHash string, expires time.Time) error
	GetArtistByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Artist, error)
	ResetPasswordByToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*model.Artist, error)
}

const artistColumns = `
	artist_id, first_name, last_name, email, password_hash, phone, bio, city, state, country,
	is_verified, verification_token_hash, verification_expires,
	reset_password_token_hash, reset_password_expires, created_at, updated_at`

func scanArtist(row scanner) (*model.Artist, error) {
	var a model.Artist
	err := row.Scan(
		&a.ArtistID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Phone, &a.Bio, &a.City, &a.State, &a.Country,
		&a.IsVerified, &a.VerificationToken, &a.VerificationExpires,
		&a.ResetPasswordToken, &a.ResetPasswordExpires, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) CreateArtist(ctx context.Context, a *model.Artist) error {
	query := `
		INSERT INTO artists (
			first_name, last_name, email, password_hash, phone, bio, city, state, country,
			is_verified, verification_token_hash, verification_expires
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING artist_id, created_at, updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.Email, a.PasswordHash, a.Phone, a.Bio, a.City, a.State, a.Country,
		a.IsVerified, a.VerificationToken, a.VerificationExpires,
	).Scan(&a.ArtistID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return mapErr("insert artist", err)
	}
	return nil
}

func (r *repository) GetArtistByID(ctx context.Context, artistID int64) (*model.Artist, error) {
	a, err := scanArtist(r.db.Master.QueryRowContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE artist_id = $1`, artistID))
	if err != nil {
		return nil, mapErr("get artist", err)
	}
	return a, nil
}

func (r *repository) GetArtistByEmail(ctx context.Context, email string) (*model.Artist, error) {
	a, err := scanArtist(r.db.Master.QueryRowContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE email = $1`, email))
	if err != nil {
		return nil, mapErr("get artist by email", err)
	}
	return a, nil
}

// VerifyArtistByToken flips the verified flag and clears the token in one
// statement, so a token can be consumed once.
func (r *repository) VerifyArtistByToken(ctx context.Context, tokenHash string, now time.Time) (*model.Artist, error) {
	query := `
		UPDATE artists
		SET is_verified = TRUE,
		    verification_token_hash = '',
		    verification_expires = NULL,
		    updated_at = NOW()
		WHERE verification_token_hash = $1
		  AND verification_token_hash <> ''
		  AND verification_expires > $2
		RETURNING ` + artistColumns

	a, err := scanArtist(r.db.Master.QueryRowContext(ctx, query, tokenHash, now))
	if err != nil {
		return nil, mapErr("verify artist", err)
	}
	return a, nil
}

func (r *repository) SetResetToken(ctx context.Context, artistID int64, tokenHash string, expires time.Time) error {
	query := `
		UPDATE artists
		SET reset_password_token_hash = $1, reset_password_expires = $2, updated_at = NOW()
		WHERE artist_id = $3
		RETURNING artist_id
	`
	var id int64
	if err := r.db.Master.QueryRowContext(ctx, query, tokenHash, expires, artistID).Scan(&id); err != nil {
		return mapErr("set reset token", err)
	}
	return nil
}

func (r *repository) GetArtistByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Artist, error) {
	query := `SELECT ` + artistColumns + `
		FROM artists
		WHERE reset_password_token_hash = $1
		  AND reset_password_token_hash <> ''
		  AND reset_password_expires > $2`

	a, err := scanArtist(r.db.Master.QueryRowContext(ctx, query, tokenHash, now))
	if err != nil {
		return nil, mapErr("get artist by reset token", err)
	}
	return a, nil
}

// ResetPasswordByToken replaces the password and clears the reset token and
// its expiry in the same statement.
func (r *repository) ResetPasswordByToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*model.Artist, error) {
	query := `
		UPDATE artists
		SET password_hash = $1,
		    reset_password_token_hash = '',
		    reset_password_expires = NULL,
		    updated_at = NOW()
		WHERE reset_password_token_hash = $2
		  AND reset_password_token_hash <> ''
		  AND reset_password_expires > $3
		RETURNING ` + artistColumns

	a, err := scanArtist(r.db.Master.QueryRowContext(ctx, query, passwordHash, tokenHash, now))
	if err != nil {
		return nil, mapErr("reset password", err)
	}
	return a, nil
}
