package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents a room reservation.
// Dates are stored in UTC; the range is half-open [StartDate, EndDate).
type Booking struct {
	ID        int64         `json:"id"`
	RoomID    int64         `json:"room_id"`
	RoomName  string        `json:"room_name,omitempty"` // display only, filled by the store
	UserID    string        `json:"user_id"`
	UserName  string        `json:"user_name"`
	UserEmail string        `json:"user_email"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Validate validates all booking fields
func (b *Booking) Validate() error {
	if b.RoomID <= 0 {
		return ErrInvalidRoomID
	}
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if err := b.ValidateDates(); err != nil {
		return err
	}
	if !b.Status.IsValid() {
		return ErrInvalidBookingStatus
	}
	return nil
}

// ValidateDates checks that the date range is strictly positive
func (b *Booking) ValidateDates() error {
	if !b.StartDate.Before(b.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Overlaps reports whether the booking overlaps [start, end).
// Adjacent ranges (EndDate == start or end == StartDate) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}

// IsConfirmed checks if the booking is in confirmed status
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if the booking is in cancelled status
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// IsCompleted checks if the booking is in completed status
func (b *Booking) IsCompleted() bool {
	return b.Status == BookingStatusCompleted
}

// BelongsToUser checks if the booking belongs to the specified user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID == userID
}

// Cancel marks the booking as cancelled. Cancelling an already cancelled
// booking is a no-op; a completed booking cannot be cancelled.
func (b *Booking) Cancel() error {
	switch b.Status {
	case BookingStatusCancelled:
		return nil
	case BookingStatusCompleted:
		return ErrInvalidBookingStatus
	}
	b.Status = BookingStatusCancelled
	return nil
}

// NormalizeUTC converts a timestamp to UTC. Normalization happens once, at
// the service boundary, before any comparison or storage.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC()
}
