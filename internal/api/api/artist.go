package api

import (
	"github.com/wb-go/wbf/ginext"

	"artfoundation/cmd/middleware"
	"artfoundation/internal/dto"
	"artfoundation/internal/model"
	"artfoundation/internal/service"
)

type authResponse struct {
	Token  string        `json:"token,omitempty"`
	Artist *model.Artist `json:"artist"`
}

func (h *Handler) Signup(c *ginext.Context) {
	var req dto.SignupRequest
	if !h.bind(c, &req) {
		return
	}

	artist, err := h.identity.Signup(c.Request.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.PhoneNumber,
		Bio:       req.Bio,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
	})
	if err != nil {
		h.handleError(c, "signup", err)
		return
	}
	dto.SuccessCreatedResponse(c, "Signup successful. Check your email to verify your account.", authResponse{Artist: artist})
}

func (h *Handler) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(c, "login", err)
		return
	}
	dto.SuccessResponse(c, "Login successful", authResponse{Token: res.Token, Artist: res.Artist})
}

func (h *Handler) VerifyEmail(c *ginext.Context) {
	var req dto.VerifyEmailRequest
	if !h.bind(c, &req) {
		return
	}

	artist, err := h.identity.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.handleError(c, "verify email", err)
		return
	}
	dto.SuccessResponse(c, "Email verified", authResponse{Artist: artist})
}

func (h *Handler) RequestPasswordReset(c *ginext.Context) {
	var req dto.PasswordResetRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.identity.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.handleError(c, "request password reset", err)
		return
	}
	dto.SuccessResponse(c, "Password reset email sent", nil)
}

func (h *Handler) ResetPassword(c *ginext.Context) {
	var req dto.ResetPasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.identity.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.handleError(c, "reset password", err)
		return
	}
	dto.SuccessResponse(c, "Password has been reset", nil)
}

func (h *Handler) Me(c *ginext.Context) {
	id, ok := middleware.ArtistID(c)
	if !ok {
		dto.UnauthorizedError(c, "Missing session")
		return
	}

	artist, err := h.identity.GetArtist(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "get current artist", err)
		return
	}
	dto.SuccessResponse(c, "", artist)
}
