package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/internal/dto"
	"github.com/stayhub/hotel-booking/internal/service"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RoomHandler handles room catalog HTTP requests
type RoomHandler struct {
	roomService service.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// ListRooms handles GET /admin/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.roomService.ListRooms(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// GetRoom handles GET /admin/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, err := parseID(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid room id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid room id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	span.SetAttributes(attribute.Int64("room_id", id))

	result, err := h.roomService.GetRoom(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// CreateRoom handles POST /admin/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateRoomRequest
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

	result, err := h.roomService.CreateRoom(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int64("room_id", result.ID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, result)
}

// UpdateRoom handles PUT /admin/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, err := parseID(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid room id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid room id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	var req dto.UpdateRoomRequest
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

	span.SetAttributes(attribute.Int64("room_id", id))

	result, err := h.roomService.UpdateRoom(ctx, id, &req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, result)
}

// DeleteRoom handles DELETE /admin/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id, err := parseID(c.Param("id"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid room id")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid room id",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	span.SetAttributes(attribute.Int64("room_id", id))

	deleted, err := h.roomService.DeleteRoom(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}
	if !deleted {
		span.SetStatus(codes.Error, "room not found")
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: domain.ErrRoomNotFound.Error(),
			Code:  "ROOM_NOT_FOUND",
		})
		return
	}

	span.SetStatus(codes.Ok, "")
	c.Status(http.StatusNoContent)
}

// handleError converts domain errors to HTTP responses
func (h *RoomHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: err.Error(),
			Code:  "ROOM_NOT_FOUND",
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
