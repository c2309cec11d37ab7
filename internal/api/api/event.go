package api

import (
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"artfoundation/cmd/middleware"
	"artfoundation/internal/dto"
	"artfoundation/internal/service"
)

func (h *Handler) CreateEvent(c *ginext.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		dto.UnauthorizedError(c, "Missing session")
		return
	}

	var req dto.CreateEventRequest
	if !h.bind(c, &req) {
		return
	}

	e, err := h.events.Create(c.Request.Context(), artistID, service.CreateEventInput{
		Title:    req.Title,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Price:    req.Price,
		Status:   req.Status,
	})
	if err != nil {
		h.handleError(c, "create event", err)
		return
	}
	dto.SuccessCreatedResponse(c, "Event created", e)
}

func (h *Handler) GetEvent(c *ginext.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.FieldBadFormatError(c, "id")
		return
	}

	e, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "get event", err)
		return
	}
	dto.SuccessResponse(c, "", e)
}

func (h *Handler) ListEvents(c *ginext.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		h.handleError(c, "list events", err)
		return
	}
	dto.SuccessResponse(c, "", events)
}
