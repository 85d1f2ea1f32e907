package handlers

import (
	"net/http"

	"classhub/models"
	"classhub/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	svc    booking.BookingService
	logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, logger: logger}
}

type createBookingInput struct {
	SubjectID  string                     `json:"subjectId"`
	PayerID    string                     `json:"payerId"`
	ActivityID string                     `json:"activityId"`
	LineItems  []models.LineItemSelection `json:"lineItems"`
}

// CreateBooking handles POST /api/bookings. Parents book on behalf of their
// child; an admin may name any payer. Non-admin callers always pay
// themselves.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := actorFrom(c)
	payerID := input.PayerID
	if !actor.IsAdmin() || payerID == "" {
		payerID = actor.ID
	}

	created, err := h.svc.CreateBooking(c.Request.Context(), input.SubjectID, payerID, input.ActivityID, input.LineItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type editBookingInput struct {
	LineItems []models.LineItemSelection `json:"lineItems"`
}

// EditBooking handles PUT /api/bookings/:id. The line-item list is replaced
// wholesale.
func (h *BookingHandler) EditBooking(c *gin.Context) {
	var input editBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.svc.EditBooking(c.Request.Context(), actorFrom(c), c.Param("id"), input.LineItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.svc.CancelBooking(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	found, err := h.svc.GetBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// GetOwnBookings handles GET /api/bookings.
func (h *BookingHandler) GetOwnBookings(c *gin.Context) {
	bookings, err := h.svc.GetOwnBookings(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetActivityBookings handles GET /api/activities/:id/bookings (staff/admin).
func (h *BookingHandler) GetActivityBookings(c *gin.Context) {
	bookings, err := h.svc.GetActivityBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
