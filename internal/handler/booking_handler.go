package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/internal/dto"
	"github.com/stayhub/hotel-booking/internal/service"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "missing user identity",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.Int64("room_id", req.RoomID),
	)

	result, err := h.bookingService.CreateBooking(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("booking_id", result.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, err := parseID(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid booking id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid booking id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	span.SetAttributes(attribute.Int64("booking_id", id))

	result, err := h.bookingService.GetBooking(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// GetMyBookings handles GET /bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_mine")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "missing user identity",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	span.SetAttributes(attribute.String("user_id", userID))

	result, err := h.bookingService.GetUserBookings(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// GetAllBookings handles GET /bookings/all
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_all")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.bookingService.GetAllBookings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// CancelBooking handles POST /bookings/:id/cancel and DELETE /bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "missing user identity",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid booking id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid booking id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	span.SetAttributes(
		attribute.Int64("booking_id", id),
		attribute.String("user_id", userID),
	)

	if err := h.bookingService.CancelBooking(ctx, id, userID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.Status(http.StatusNoContent)
}

// CheckAvailability handles GET /bookings/availability
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.availability")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	roomID, err := parseID(c.Query("room_id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid room id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid room_id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	req := dto.CreateBookingRequest{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	start, end, err := req.Dates()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid date range",
			Code:    "INVALID_DATE_RANGE",
			Message: err.Error(),
		})
		return
	}

	var excludeID int64
	if v := c.Query("exclude_booking_id"); v != "" {
		excludeID, err = parseID(v)
		if err != nil {
			span.SetStatus(codes.Error, "invalid exclude_booking_id")
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid exclude_booking_id",
				Code:  "INVALID_REQUEST",
			})
			return
		}
	}

	span.SetAttributes(attribute.Int64("room_id", roomID))

	available, err := h.bookingService.IsRoomAvailable(ctx, roomID, start, end, excludeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Bool("available", available))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		Available: available,
	})
}

// handleError converts domain errors to HTTP responses
func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "BOOKING_NOT_FOUND",
		})
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "ROOM_NOT_FOUND",
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "FORBIDDEN",
		})
	case errors.Is(err, domain.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "ROOM_UNAVAILABLE",
		})
	case errors.Is(err, domain.ErrRoomAlreadyBooked):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "ROOM_ALREADY_BOOKED",
		})
	case errors.Is(err, domain.ErrInvalidBookingStatus):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_BOOKING_STATUS",
		})
	case errors.Is(err, domain.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_DATE_RANGE",
		})
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}

// parseID parses a positive int64 path or query parameter
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}
