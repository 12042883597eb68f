package service

import (
	"context"

	"github.com/stayhub/hotel-booking/internal/dto"
	"github.com/stayhub/hotel-booking/internal/repository"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RoomService defines the interface for room catalog business logic
type RoomService interface {
	// GetRoom retrieves a room by ID
	GetRoom(ctx context.Context, id int64) (*dto.RoomResponse, error)

	// ListRooms retrieves all rooms
	ListRooms(ctx context.Context) ([]*dto.RoomResponse, error)

	// CreateRoom validates and persists a new room
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)

	// UpdateRoom replaces all mutable fields of an existing room
	UpdateRoom(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)

	// DeleteRoom removes a room; it reports false without error when the room is absent
	DeleteRoom(ctx context.Context, id int64) (bool, error)
}

// roomService implements RoomService
type roomService struct {
	roomRepo repository.RoomRepository
}

// NewRoomService creates a new room service
func NewRoomService(roomRepo repository.RoomRepository) RoomService {
	return &roomService{roomRepo: roomRepo}
}

// GetRoom retrieves a room by ID
func (s *roomService) GetRoom(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// ListRooms retrieves all rooms
func (s *roomService) ListRooms(ctx context.Context) ([]*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.list")
	defer span.End()

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.RoomResponse, len(rooms))
	for i, room := range rooms {
		responses[i] = dto.RoomFromDomain(room)
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// CreateRoom validates and persists a new room
func (s *roomService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.create")
	defer span.End()

	room := req.ToDomain()
	if err := room.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("room_id", room.ID))
	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// UpdateRoom replaces all mutable fields of an existing room. Partial updates
// are not supported; callers supply the full desired state.
func (s *roomService) UpdateRoom(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	room.Name = req.Name
	room.Class = req.Class
	room.Price = req.Price
	room.Description = req.Description
	room.Capacity = req.Capacity
	room.IsAvailable = req.IsAvailable

	if err := room.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.RoomFromDomain(room), nil
}

// DeleteRoom removes a room by ID
func (s *roomService) DeleteRoom(ctx context.Context, id int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	exists, err := s.roomRepo.Exists(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if !exists {
		span.SetStatus(codes.Ok, "")
		return false, nil
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}
