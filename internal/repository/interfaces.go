package repository

import (
	"context"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
)

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	// Create persists a new room and assigns its ID
	Create(ctx context.Context, room *domain.Room) error
	// GetByID retrieves a room by ID, returning domain.ErrRoomNotFound if absent
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	// List retrieves all rooms
	List(ctx context.Context) ([]*domain.Room, error)
	// Update replaces a stored room, returning domain.ErrRoomNotFound if absent
	Update(ctx context.Context, room *domain.Room) error
	// Delete removes a room by ID, returning domain.ErrRoomNotFound if absent
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a room with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookingRepository defines the interface for booking data access.
//
// Create must be race-safe with respect to the no-overlap invariant: when two
// concurrent inserts for the same room have overlapping confirmed ranges,
// exactly one succeeds and the other fails with domain.ErrRoomAlreadyBooked.
type BookingRepository interface {
	// Create persists a new booking and assigns its ID
	Create(ctx context.Context, booking *domain.Booking) error
	// GetByID retrieves a booking by ID, returning domain.ErrBookingNotFound if absent
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// ListByUser retrieves all bookings (any status) for a user
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	// ListByRoom retrieves all bookings (any status) for a room
	ListByRoom(ctx context.Context, roomID int64) ([]*domain.Booking, error)
	// ListAll retrieves all bookings in the system
	ListAll(ctx context.Context) ([]*domain.Booking, error)
	// Update replaces a stored booking, returning domain.ErrBookingNotFound if absent
	Update(ctx context.Context, booking *domain.Booking) error
	// HasOverlap reports whether any confirmed booking for the room overlaps
	// [start, end). excludeID > 0 excludes that booking from the check.
	HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error)
}
