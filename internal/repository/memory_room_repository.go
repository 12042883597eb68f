package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/stayhub/hotel-booking/internal/domain"
)

// MemoryRoomRepository implements RoomRepository using in-memory storage.
// This is useful for testing and local development.
type MemoryRoomRepository struct {
	rooms  map[int64]*domain.Room
	nextID int64
	mu     sync.RWMutex
}

// NewMemoryRoomRepository creates a new in-memory room repository
func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms:  make(map[int64]*domain.Room),
		nextID: 1,
	}
}

// Create persists a new room and assigns its ID
func (r *MemoryRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room.ID = r.nextID
	r.nextID++

	// Clone to avoid external modifications
	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

// GetByID retrieves a room by its ID
func (r *MemoryRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	copied := *room
	return &copied, nil
}

// List retrieves all rooms ordered by ID
func (r *MemoryRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// Update replaces a stored room
func (r *MemoryRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; !exists {
		return domain.ErrRoomNotFound
	}

	stored := *room
	r.rooms[room.ID] = &stored
	return nil
}

// Delete removes a room by ID
func (r *MemoryRoomRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[id]; !exists {
		return domain.ErrRoomNotFound
	}

	delete(r.rooms, id)
	return nil
}

// Exists reports whether a room with the given ID exists
func (r *MemoryRoomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.rooms[id]
	return exists, nil
}
