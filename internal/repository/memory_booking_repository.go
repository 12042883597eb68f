package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
)

// MemoryBookingRepository implements BookingRepository using in-memory storage.
// Create performs its overlap check and insert under one lock, so the
// no-overlap invariant holds under concurrent callers.
type MemoryBookingRepository struct {
	bookings map[int64]*domain.Booking
	byRoom   map[int64][]int64
	byUser   map[string][]int64
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryBookingRepository creates a new in-memory booking repository
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[int64]*domain.Booking),
		byRoom:   make(map[int64][]int64),
		byUser:   make(map[string][]int64),
		nextID:   1,
	}
}

// Create persists a new booking after an atomic overlap check
func (r *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.IsConfirmed() && r.hasOverlapLocked(booking.RoomID, booking.StartDate, booking.EndDate, 0) {
		return domain.ErrRoomAlreadyBooked
	}

	booking.ID = r.nextID
	r.nextID++

	stored := *booking
	r.bookings[booking.ID] = &stored
	r.byRoom[booking.RoomID] = append(r.byRoom[booking.RoomID], booking.ID)
	r.byUser[booking.UserID] = append(r.byUser[booking.UserID], booking.ID)
	return nil
}

// GetByID retrieves a booking by its ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, exists := r.bookings[id]
	if !exists {
		return nil, domain.ErrBookingNotFound
	}

	copied := *booking
	return &copied, nil
}

// ListByUser retrieves all bookings for a user
func (r *MemoryBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(r.byUser[userID]), nil
}

// ListByRoom retrieves all bookings for a room
func (r *MemoryBookingRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(r.byRoom[roomID]), nil
}

// ListAll retrieves all bookings in the system ordered by ID
func (r *MemoryBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.bookings))
	for id := range r.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return r.collectLocked(ids), nil
}

// Update replaces a stored booking
func (r *MemoryBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; !exists {
		return domain.ErrBookingNotFound
	}

	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

// HasOverlap reports whether any confirmed booking for the room overlaps [start, end)
func (r *MemoryBookingRepository) HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hasOverlapLocked(roomID, start, end, excludeID), nil
}

func (r *MemoryBookingRepository) hasOverlapLocked(roomID int64, start, end time.Time, excludeID int64) bool {
	for _, id := range r.byRoom[roomID] {
		booking := r.bookings[id]
		if excludeID > 0 && booking.ID == excludeID {
			continue
		}
		if booking.IsConfirmed() && booking.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *MemoryBookingRepository) collectLocked(ids []int64) []*domain.Booking {
	bookings := make([]*domain.Booking, 0, len(ids))
	for _, id := range ids {
		copied := *r.bookings[id]
		bookings = append(bookings, &copied)
	}
	return bookings
}
