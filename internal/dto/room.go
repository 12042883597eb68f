package dto

import (
	"github.com/stayhub/hotel-booking/internal/domain"
)

// CreateRoomRequest represents the request to create or replace a room.
// Updates are full-field replacements; partial updates are not supported.
type CreateRoomRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Class       string  `json:"class" binding:"required,min=1,max=50"`
	Price       float64 `json:"price" binding:"min=0"`
	Description string  `json:"description" binding:"max=500"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
}

// ToDomain converts the request to a domain Room. New rooms always start
// available; the store assigns the ID.
func (r *CreateRoomRequest) ToDomain() *domain.Room {
	return &domain.Room{
		Name:        r.Name,
		Class:       r.Class,
		Price:       r.Price,
		Description: r.Description,
		Capacity:    r.Capacity,
		IsAvailable: true,
	}
}

// UpdateRoomRequest replaces all fields of an existing room, including the
// availability flag. Marking a room unavailable stops new bookings; existing
// bookings are untouched.
type UpdateRoomRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Class       string  `json:"class" binding:"required,min=1,max=50"`
	Price       float64 `json:"price" binding:"min=0"`
	Description string  `json:"description" binding:"max=500"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	IsAvailable bool    `json:"is_available"`
}

// RoomResponse represents the response for a room
type RoomResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity"`
	IsAvailable bool    `json:"is_available"`
}

// RoomFromDomain converts a domain Room to a RoomResponse
func RoomFromDomain(room *domain.Room) *RoomResponse {
	return &RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Class:       room.Class,
		Price:       room.Price,
		Description: room.Description,
		Capacity:    room.Capacity,
		IsAvailable: room.IsAvailable,
	}
}
