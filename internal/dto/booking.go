package dto

import (
	"errors"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
)

// CreateBookingRequest represents the request to book a room.
// Dates are accepted as strings so that zone-less timestamps can be treated
// as UTC instead of failing to bind.
type CreateBookingRequest struct {
	RoomID    int64  `json:"room_id" binding:"required,gt=0"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email" binding:"omitempty,email"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// parseDate parses a timestamp supporting ISO 8601 with and without an
// explicit zone. A zone-less timestamp is interpreted as UTC; a zoned one is
// converted to UTC by the service boundary.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,          // "2006-01-02T15:04:05Z07:00"
		"2006-01-02T15:04:05", // no timezone, treated as UTC
		"2006-01-02",          // date only
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.New("invalid date format, expected ISO 8601 (e.g., 2024-06-01T14:00:00Z or 2024-06-01)")
}

// Dates parses and returns the requested start and end timestamps
func (r *CreateBookingRequest) Dates() (start, end time.Time, err error) {
	start, err = parseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start_date: " + err.Error())
	}
	end, err = parseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end_date: " + err.Error())
	}
	return start, end, nil
}

// BookingResponse represents the response for a booking
type BookingResponse struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	RoomName  string    `json:"room_name"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FromDomain converts a domain Booking to a BookingResponse
func FromDomain(booking *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:        booking.ID,
		RoomID:    booking.RoomID,
		RoomName:  booking.RoomName,
		UserID:    booking.UserID,
		UserName:  booking.UserName,
		UserEmail: booking.UserEmail,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Status:    booking.Status.String(),
		CreatedAt: booking.CreatedAt,
	}
}

// AvailabilityResponse represents the response for an availability check
type AvailabilityResponse struct {
	RoomID    int64     `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Available bool      `json:"available"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
