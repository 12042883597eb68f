package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(roomID int64, userID string, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		RoomID:    roomID,
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryBookingRepositoryCreateRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepository()

	require.NoError(t, repo.Create(ctx, confirmed(1, "u1", day(1), day(5))))

	err := repo.Create(ctx, confirmed(1, "u2", day(4), day(6)))
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyBooked)

	// adjacent booking does not conflict
	require.NoError(t, repo.Create(ctx, confirmed(1, "u2", day(5), day(7))))

	// same range on a different room is fine
	require.NoError(t, repo.Create(ctx, confirmed(2, "u2", day(1), day(5))))
}

func TestMemoryBookingRepositoryHasOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepository()

	booking := confirmed(1, "u1", day(1), day(5))
	require.NoError(t, repo.Create(ctx, booking))

	overlaps, err := repo.HasOverlap(ctx, 1, day(2), day(3), 0)
	require.NoError(t, err)
	assert.True(t, overlaps)

	// excluding the booking itself reports no conflict
	overlaps, err = repo.HasOverlap(ctx, 1, day(2), day(3), booking.ID)
	require.NoError(t, err)
	assert.False(t, overlaps)

	// cancelled bookings are excluded from the overlap set
	require.NoError(t, booking.Cancel())
	require.NoError(t, repo.Update(ctx, booking))

	overlaps, err = repo.HasOverlap(ctx, 1, day(2), day(3), 0)
	require.NoError(t, err)
	assert.False(t, overlaps)
}

func TestMemoryBookingRepositoryConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepository()

	const attempts = 50

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, confirmed(1, "u1", day(1), day(5)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrRoomAlreadyBooked)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create must win")
}

func TestMemoryRoomRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRoomRepository()

	room := &domain.Room{Name: "Standard 101", Class: "standard", Price: 80, Capacity: 2, IsAvailable: true}
	require.NoError(t, repo.Create(ctx, room))
	require.NotZero(t, room.ID)

	got, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room, got)

	room.Name = "Standard 101b"
	require.NoError(t, repo.Update(ctx, room))

	got, err = repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard 101b", got.Name)

	exists, err := repo.Exists(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, room.ID))

	_, err = repo.GetByID(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	err = repo.Delete(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
