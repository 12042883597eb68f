package service

import (
	"context"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/internal/dto"
	"github.com/stayhub/hotel-booking/internal/repository"
	"github.com/stayhub/hotel-booking/pkg/logger"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// BookingService defines the interface for booking business logic
type BookingService interface {
	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, id int64) (*dto.BookingResponse, error)

	// GetUserBookings retrieves all bookings for a user
	GetUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error)

	// GetAllBookings retrieves all bookings in the system
	GetAllBookings(ctx context.Context) ([]*dto.BookingResponse, error)

	// IsRoomAvailable reports whether the room is free over [start, end).
	// excludeBookingID > 0 excludes that booking from the conflict check.
	IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID int64) (bool, error)

	// CreateBooking books a room for the caller
	CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)

	// CancelBooking cancels the caller's booking
	CancelBooking(ctx context.Context, id int64, userID string) error
}

// bookingService implements BookingService
type bookingService struct {
	bookingRepo repository.BookingRepository
	roomRepo    repository.RoomRepository
	publisher   EventPublisher
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo repository.BookingRepository, roomRepo repository.RoomRepository, publisher EventPublisher) BookingService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		publisher:   publisher,
	}
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, id int64) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get")
	defer span.End()

	span.SetAttributes(attribute.Int64("booking_id", id))

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// GetUserBookings retrieves all bookings for a user
func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = dto.FromDomain(booking)
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// GetAllBookings retrieves all bookings in the system
func (s *bookingService) GetAllBookings(ctx context.Context) ([]*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.list_all")
	defer span.End()

	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	responses := make([]*dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = dto.FromDomain(booking)
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, nil
}

// IsRoomAvailable reports whether the room is free over [start, end).
// Ranges are half-open, so a booking ending exactly when another starts does
// not conflict. Only confirmed bookings count.
func (s *bookingService) IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.availability")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	start = domain.NormalizeUTC(start)
	end = domain.NormalizeUTC(end)

	overlap, err := s.bookingRepo.HasOverlap(ctx, roomID, start, end, excludeBookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("available", !overlap))
	span.SetStatus(codes.Ok, "")
	return !overlap, nil
}

// CreateBooking books a room for the caller. Checks run in a fixed order so
// that error responses are deterministic: room existence, room availability
// flag, date validity, then conflict. The store enforces the no-overlap
// invariant again on insert, which closes the race between the conflict check
// and the write.
func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("room_id", req.RoomID),
		attribute.String("user_id", userID),
	)

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !room.IsAvailable {
		span.SetStatus(codes.Error, domain.ErrRoomUnavailable.Error())
		return nil, domain.ErrRoomUnavailable
	}

	start, end, err := req.Dates()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.ErrInvalidDateRange
	}
	start = domain.NormalizeUTC(start)
	end = domain.NormalizeUTC(end)

	booking := &domain.Booking{
		RoomID:    req.RoomID,
		RoomName:  room.Name,
		UserID:    userID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		StartDate: start,
		EndDate:   end,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}

	if err := booking.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	overlap, err := s.bookingRepo.HasOverlap(ctx, booking.RoomID, booking.StartDate, booking.EndDate, 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if overlap {
		span.SetStatus(codes.Error, domain.ErrRoomAlreadyBooked.Error())
		return nil, domain.ErrRoomAlreadyBooked
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
		// The booking is committed; event delivery failure must not fail it.
		logger.Get().Warn("failed to publish booking created event",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
	}

	span.SetAttributes(attribute.Int64("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return dto.FromDomain(booking), nil
}

// CancelBooking cancels the caller's booking. Only the booking owner may
// cancel; cancelling an already cancelled booking succeeds without effect.
func (s *bookingService) CancelBooking(ctx context.Context, id int64, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", id),
		attribute.String("user_id", userID),
	)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !booking.BelongsToUser(userID) {
		span.SetStatus(codes.Error, domain.ErrForbidden.Error())
		return domain.ErrForbidden
	}

	if booking.IsCancelled() {
		span.SetStatus(codes.Ok, "already cancelled")
		return nil
	}

	if err := booking.Cancel(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.publisher.PublishBookingCancelled(ctx, booking); err != nil {
		logger.Get().Warn("failed to publish booking cancelled event",
			zap.Int64("booking_id", booking.ID),
			zap.Error(err))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
