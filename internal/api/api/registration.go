package api

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"artfoundation/internal/dto"
	"artfoundation/internal/service"
)

type registerResponse struct {
	Registration  any `json:"registration"`
	Payment       any `json:"payment,omitempty"`
	PaymentIntent any `json:"paymentIntent,omitempty"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *Handler) Register(c *ginext.Context) {
	var req dto.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.registrations.Register(c.Request.Context(), service.RegisterInput{
		EventID:       req.EventID,
		EventName:     req.EventName,
		EventDate:     req.EventDate,
		EventVenue:    req.EventVenue,
		EventTime:     req.EventTime,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		Email:         req.Email,
		Contact:       req.Contact,
		Address1:      req.Address1,
		Address2:      req.Address2,
		City:          req.City,
		State:         req.State,
		Zipcode:       req.Zipcode,
		PaymentAmount: req.PaymentAmount,
	})
	if err != nil {
		h.handleError(c, "register", err)
		return
	}

	body := registerResponse{Registration: res.Registration}
	if res.Payment != nil {
		body.Payment = res.Payment
		body.PaymentIntent = paymentIntentResponse{ClientSecret: res.ClientSecret}
	}
	dto.SuccessCreatedResponse(c, res.Message, body)
}

func (h *Handler) GetRegistration(c *ginext.Context) {
	reg, err := h.registrations.GetRegistration(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "get registration", err)
		return
	}
	dto.SuccessResponse(c, "", reg)
}

func (h *Handler) GetRegistrationWithPayment(c *ginext.Context) {
	res, err := h.registrations.GetRegistrationWithPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "get registration with payment", err)
		return
	}
	dto.SuccessResponse(c, "", res)
}

func (h *Handler) ListRegistrations(c *ginext.Context) {
	email := c.Query("email")
	if email == "" {
		dto.FieldBadFormatError(c, "email")
		return
	}

	regs, err := h.registrations.ListByEmail(c.Request.Context(), email)
	if err != nil {
		h.handleError(c, "list registrations", err)
		return
	}
	dto.SuccessResponse(c, "", regs)
}

func (h *Handler) UpdateRegistrationStatus(c *ginext.Context) {
	var req dto.RegistrationStatusRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.registrations.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	if err != nil {
		h.handleError(c, "update registration status", err)
		return
	}
	dto.SuccessResponse(c, "Registration payment status updated", reg)
}

func (h *Handler) Ticket(c *ginext.Context) {
	png, err := h.registrations.Ticket(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "ticket", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
