package api

import (
	"github.com/wb-go/wbf/ginext"

	"artfoundation/internal/dto"
	"artfoundation/internal/service"
)

type createPaymentResponse struct {
	Payment      any    `json:"payment"`
	ClientSecret string `json:"clientSecret"`
}

func (h *Handler) CreatePayment(c *ginext.Context) {
	var req dto.CreatePaymentRequest
	if !h.bind(c, &req) {
		return
	}

	in := service.CreatePaymentInput{
		Amount:   req.Amount,
		Email:    req.Email,
		FullName: req.FullName,
		Address1: req.Address1,
		Address2: req.Address2,
		City:     req.City,
		State:    req.State,
		IsEvent:  req.IsEvent,
	}
	if d := req.EventDetails; d != nil {
		in.EventDetails = &service.EventDetails{
			EventName:  d.EventName,
			EventDate:  d.EventDate,
			EventVenue: d.EventVenue,
			EventTime:  d.EventTime,
		}
	}

	res, err := h.payments.CreatePayment(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, "create payment", err)
		return
	}
	dto.SuccessCreatedResponse(c, res.Message, createPaymentResponse{
		Payment:      res.Payment,
		ClientSecret: res.ClientSecret,
	})
}

func (h *Handler) CreatePaymentIntent(c *ginext.Context) {
	var req dto.PaymentIntentRequest
	if !h.bind(c, &req) {
		return
	}

	secret, err := h.payments.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Email)
	if err != nil {
		h.handleError(c, "create payment intent", err)
		return
	}
	dto.SuccessResponse(c, "", paymentIntentResponse{ClientSecret: secret})
}

func (h *Handler) ListPayments(c *ginext.Context) {
	payments, err := h.payments.ListPayments(c.Request.Context())
	if err != nil {
		h.handleError(c, "list payments", err)
		return
	}
	dto.SuccessResponse(c, "", payments)
}

func (h *Handler) GetPayment(c *ginext.Context) {
	p, err := h.payments.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "get payment", err)
		return
	}
	dto.SuccessResponse(c, "", p)
}

func (h *Handler) GetPaymentByRegistration(c *ginext.Context) {
	p, err := h.payments.GetPaymentByRegistrationID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "get payment by registration", err)
		return
	}
	dto.SuccessResponse(c, "", p)
}

func (h *Handler) SetPaymentStatus(c *ginext.Context) {
	var req dto.PaymentStatusRequest
	if !h.bind(c, &req) {
		return
	}

	p, err := h.payments.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleError(c, "set payment status", err)
		return
	}
	dto.SuccessResponse(c, "Payment status updated", p)
}

// ConfirmPayment takes the gateway transaction id in the path; the status
// always comes from the gateway.
func (h *Handler) ConfirmPayment(c *ginext.Context) {
	p, err := h.payments.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "confirm payment", err)
		return
	}
	dto.SuccessResponse(c, "Payment confirmed", p)
}
