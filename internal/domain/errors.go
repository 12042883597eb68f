package domain

import "errors"

// Domain errors
var (
	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomUnavailable = errors.New("room is not available")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrRoomAlreadyBooked    = errors.New("room is already booked for the selected dates")
	ErrForbidden            = errors.New("access denied")
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// Validation errors
	ErrInvalidRoomID      = errors.New("invalid room id")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidDateRange   = errors.New("end date must be after start date")
	ErrInvalidRoomName    = errors.New("room name is required and must be at most 100 characters")
	ErrInvalidRoomClass   = errors.New("room class is required and must be at most 50 characters")
	ErrInvalidPrice       = errors.New("price cannot be negative")
	ErrInvalidDescription = errors.New("description must be at most 500 characters")
	ErrInvalidCapacity    = errors.New("capacity must be greater than zero")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRoomID) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidRoomName) ||
		errors.Is(err, ErrInvalidRoomClass) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidDescription) ||
		errors.Is(err, ErrInvalidCapacity)
}

// IsConflictError checks if the error is a business-rule conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrRoomAlreadyBooked) ||
		errors.Is(err, ErrRoomUnavailable) ||
		errors.Is(err, ErrInvalidBookingStatus)
}
