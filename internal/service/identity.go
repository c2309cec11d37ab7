package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"artfoundation/internal/auth"
	"artfoundation/internal/mailer"
	"artfoundation/internal/model"
	"artfoundation/internal/repo"
)

const minPasswordLength = 8

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Bio       string
	City      string
	State     string
	Country   string
}

type LoginResult struct {
	Token  string
	Artist *model.Artist
}

type IdentityConfig struct {
	FrontendURL     string
	ResetTTL        time.Duration
	VerificationTTL time.Duration
}

// IdentityService owns artist credentials. Raw verification and reset tokens
// only ever leave the process inside an email; the database keeps their hashes.
type IdentityService struct {
	artists    repo.ArtistRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	dispatcher Dispatcher
	cfg        IdentityConfig
	log        *zerolog.Logger

	now       func() time.Time
	newSecret func() (raw, hash string, err error)
}

func NewIdentityService(
	artists repo.ArtistRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	dispatcher Dispatcher,
	cfg IdentityConfig,
	log *zerolog.Logger,
) *IdentityService {
	return &IdentityService{
		artists:    artists,
		hasher:     hasher,
		tokens:     tokens,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
		newSecret:  auth.NewSecret,
	}
}

// Signup creates an unverified account and mails the verification link. No
// session token is issued until the address is verified.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*model.Artist, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		return nil, validationErr("email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationErr("password must be at least %d characters", minPasswordLength)
	}

	_, err := s.artists.GetArtistByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: an account with email %s already exists", model.ErrConflict, in.Email)
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	raw, tokenHash, err := s.newSecret()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.cfg.VerificationTTL)

	a := &model.Artist{
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		Email:               in.Email,
		PasswordHash:        hash,
		Phone:               in.Phone,
		Bio:                 in.Bio,
		City:                in.City,
		State:               in.State,
		Country:             in.Country,
		VerificationToken:   tokenHash,
		VerificationExpires: &expires,
	}
	if err := s.artists.CreateArtist(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Int64("artist_id", a.ArtistID).Msg("artist signed up")

	msg, err := mailer.VerificationEmail(a, s.link("/verify-email", raw), s.cfg.VerificationTTL)
	if err == nil {
		err = s.dispatcher.SendEmail(ctx, msg)
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("artist_id", a.ArtistID).Msg("verification email not sent")
	}

	return a, nil
}

// Login checks the password before the verification state so an unverified
// account is only reported to someone who knows its password.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}

	a, err := s.artists.GetArtistByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotRegistered
		}
		return nil, err
	}

	ok, err := s.hasher.Compare(a.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrInvalidCredentials
	}
	if !a.IsVerified {
		return nil, model.ErrNotVerified
	}

	token, err := s.tokens.Issue(a.ArtistID, a.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Artist: a}, nil
}

func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return validationErr("email is required")
	}

	a, err := s.artists.GetArtistByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw, tokenHash, err := s.newSecret()
	if err != nil {
		return err
	}
	if err := s.artists.SetResetToken(ctx, a.ArtistID, tokenHash, s.now().Add(s.cfg.ResetTTL)); err != nil {
		return err
	}

	msg, err := mailer.PasswordResetEmail(a, s.link("/reset-password", raw), s.cfg.ResetTTL)
	if err != nil {
		return err
	}
	if err := s.dispatcher.SendEmail(ctx, msg); err != nil {
		return fmt.Errorf("%w: send reset email: %v", model.ErrGateway, err)
	}

	s.log.Info().Int64("artist_id", a.ArtistID).Msg("password reset requested")
	return nil
}

func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return model.ErrInvalidOrExpiredToken
	}
	if len(newPassword) < minPasswordLength {
		return validationErr("password must be at least %d characters", minPasswordLength)
	}

	tokenHash := auth.HashSecret(token)
	// Unknown or expired tokens are rejected before the new password is hashed.
	if _, err := s.artists.GetArtistByResetToken(ctx, tokenHash, s.now()); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	a, err := s.artists.ResetPasswordByToken(ctx, tokenHash, hash, s.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrInvalidOrExpiredToken
		}
		return err
	}

	s.log.Info().Int64("artist_id", a.ArtistID).Msg("password reset")
	return nil
}

func (s *IdentityService) VerifyEmail(ctx context.Context, token string) (*model.Artist, error) {
	if token == "" {
		return nil, model.ErrInvalidOrExpiredToken
	}

	a, err := s.artists.VerifyArtistByToken(ctx, auth.HashSecret(token), s.now())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	s.log.Info().Int64("artist_id", a.ArtistID).Msg("email verified")
	return a, nil
}

func (s *IdentityService) GetArtist(ctx context.Context, artistID int64) (*model.Artist, error) {
	return s.artists.GetArtistByID(ctx, artistID)
}

func (s *IdentityService) link(path, token string) string {
	return strings.TrimRight(s.cfg.FrontendURL, "/") + path + "?token=" + url.QueryEscape(token)
}
