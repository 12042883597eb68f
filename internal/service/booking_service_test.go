package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/internal/dto"
)

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	CreateFunc  func(ctx context.Context, room *domain.Room) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Room, error)
	ListFunc    func(ctx context.Context) ([]*domain.Room, error)
	UpdateFunc  func(ctx context.Context, room *domain.Room) error
	DeleteFunc  func(ctx context.Context, id int64) error
	ExistsFunc  func(ctx context.Context, id int64) (bool, error)
}

func (m *MockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, room)
	}
	room.ID = 1
	return nil
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrRoomNotFound
}

func (m *MockRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*domain.Room{}, nil
}

func (m *MockRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, room)
	}
	return nil
}

func (m *MockRoomRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRoomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return false, nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	CreateFunc     func(ctx context.Context, booking *domain.Booking) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUserFunc func(ctx context.Context, userID string) ([]*domain.Booking, error)
	ListByRoomFunc func(ctx context.Context, roomID int64) ([]*domain.Booking, error)
	ListAllFunc    func(ctx context.Context) ([]*domain.Booking, error)
	UpdateFunc     func(ctx context.Context, booking *domain.Booking) error
	HasOverlapFunc func(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	booking.ID = 1
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*domain.Booking{}, nil
}

func (m *MockBookingRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Booking, error) {
	if m.ListByRoomFunc != nil {
		return m.ListByRoomFunc(ctx, roomID)
	}
	return []*domain.Booking{}, nil
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*domain.Booking{}, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	if m.HasOverlapFunc != nil {
		return m.HasOverlapFunc(ctx, roomID, start, end, excludeID)
	}
	return false, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Created   []*domain.Booking
	Cancelled []*domain.Booking
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	m.Created = append(m.Created, booking)
	return nil
}

func (m *MockEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	m.Cancelled = append(m.Cancelled, booking)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

func availableRoom(id int64) *domain.Room {
	return &domain.Room{
		ID:          id,
		Name:        "Deluxe 101",
		Class:       "deluxe",
		Price:       120.0,
		Capacity:    2,
		IsAvailable: true,
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		req        *dto.CreateBookingRequest
		setupMocks func(*MockRoomRepository, *MockBookingRepository)
		wantErr    error
	}{
		{
			name:   "successful booking",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				UserName:  "Alice",
				UserEmail: "alice@example.com",
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
			},
			wantErr: nil,
		},
		{
			name:   "room not found",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    99,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return nil, domain.ErrRoomNotFound
				}
			},
			wantErr: domain.ErrRoomNotFound,
		},
		{
			name:   "room unavailable",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					room := availableRoom(id)
					room.IsAvailable = false
					return room, nil
				}
			},
			wantErr: domain.ErrRoomUnavailable,
		},
		{
			// The availability flag is checked before the dates, so an
			// unavailable room wins even when the range is also invalid.
			name:   "unavailable room reported before invalid dates",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-05",
				EndDate:   "2026-06-01",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					room := availableRoom(id)
					room.IsAvailable = false
					return room, nil
				}
			},
			wantErr: domain.ErrRoomUnavailable,
		},
		{
			name:   "end before start",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-05",
				EndDate:   "2026-06-01",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
			},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:   "zero length range",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01T14:00:00Z",
				EndDate:   "2026-06-01T14:00:00Z",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
			},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:   "unparseable date",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "June 1st",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
			},
			wantErr: domain.ErrInvalidDateRange,
		},
		{
			name:   "conflicting booking",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
				br.HasOverlapFunc = func(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
					return true, nil
				}
			},
			wantErr: domain.ErrRoomAlreadyBooked,
		},
		{
			// Lost race: the pre-check passes but the store rejects the
			// insert via its own no-overlap enforcement.
			name:   "conflict detected at insert",
			userID: "user-001",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
				br.CreateFunc = func(ctx context.Context, booking *domain.Booking) error {
					return domain.ErrRoomAlreadyBooked
				}
			},
			wantErr: domain.ErrRoomAlreadyBooked,
		},
		{
			name:   "missing user ID",
			userID: "",
			req: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			setupMocks: func(rr *MockRoomRepository, br *MockBookingRepository) {
				rr.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Room, error) {
					return availableRoom(id), nil
				}
			},
			wantErr: domain.ErrInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roomRepo := &MockRoomRepository{}
			bookingRepo := &MockBookingRepository{}
			publisher := &MockEventPublisher{}

			if tt.setupMocks != nil {
				tt.setupMocks(roomRepo, bookingRepo)
			}

			svc := NewBookingService(bookingRepo, roomRepo, publisher)

			resp, err := svc.CreateBooking(context.Background(), tt.userID, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateBooking() error = %v, wantErr %v", err, tt.wantErr)
				}
				if len(publisher.Created) != 0 {
					t.Errorf("CreateBooking() published %d events on failure", len(publisher.Created))
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateBooking() unexpected error = %v", err)
			}
			if resp.Status != domain.BookingStatusConfirmed.String() {
				t.Errorf("CreateBooking() status = %v, want confirmed", resp.Status)
			}
			if resp.RoomName == "" {
				t.Error("CreateBooking() expected room name on response")
			}
			if len(publisher.Created) != 1 {
				t.Errorf("CreateBooking() published %d created events, want 1", len(publisher.Created))
			}
		})
	}
}

func TestBookingService_CreateBookingNormalizesToUTC(t *testing.T) {
	var stored *domain.Booking

	roomRepo := &MockRoomRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Room, error) {
			return availableRoom(id), nil
		},
	}
	bookingRepo := &MockBookingRepository{
		CreateFunc: func(ctx context.Context, booking *domain.Booking) error {
			booking.ID = 7
			stored = booking
			return nil
		},
	}

	svc := NewBookingService(bookingRepo, roomRepo, nil)

	// +07:00 offset; the same instant is 07:00 UTC.
	_, err := svc.CreateBooking(context.Background(), "user-001", &dto.CreateBookingRequest{
		RoomID:    1,
		StartDate: "2026-06-01T14:00:00+07:00",
		EndDate:   "2026-06-03T14:00:00+07:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking() unexpected error = %v", err)
	}

	want := time.Date(2026, 6, 1, 7, 0, 0, 0, time.UTC)
	if !stored.StartDate.Equal(want) || stored.StartDate.Location() != time.UTC {
		t.Errorf("stored start = %v, want %v in UTC", stored.StartDate, want)
	}
	if stored.EndDate.Location() != time.UTC {
		t.Errorf("stored end location = %v, want UTC", stored.EndDate.Location())
	}
}

func TestBookingService_CancelBooking(t *testing.T) {
	tests := []struct {
		name          string
		bookingID     int64
		userID        string
		setupMocks    func(*MockBookingRepository)
		wantErr       error
		wantUpdated   bool
		wantPublished bool
	}{
		{
			name:      "successful cancellation",
			bookingID: 1,
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository) {
				br.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Booking, error) {
					return &domain.Booking{
						ID:     id,
						RoomID: 1,
						UserID: "user-001",
						Status: domain.BookingStatusConfirmed,
					}, nil
				}
			},
			wantUpdated:   true,
			wantPublished: true,
		},
		{
			name:      "booking not found",
			bookingID: 99,
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository) {
				br.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Booking, error) {
					return nil, domain.ErrBookingNotFound
				}
			},
			wantErr: domain.ErrBookingNotFound,
		},
		{
			name:      "wrong user",
			bookingID: 1,
			userID:    "user-002",
			setupMocks: func(br *MockBookingRepository) {
				br.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Booking, error) {
					return &domain.Booking{
						ID:     id,
						RoomID: 1,
						UserID: "user-001",
						Status: domain.BookingStatusConfirmed,
					}, nil
				}
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:      "already cancelled is a no-op",
			bookingID: 1,
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository) {
				br.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Booking, error) {
					return &domain.Booking{
						ID:     id,
						RoomID: 1,
						UserID: "user-001",
						Status: domain.BookingStatusCancelled,
					}, nil
				}
			},
			wantErr:       nil,
			wantUpdated:   false,
			wantPublished: false,
		},
		{
			name:      "completed cannot be cancelled",
			bookingID: 1,
			userID:    "user-001",
			setupMocks: func(br *MockBookingRepository) {
				br.GetByIDFunc = func(ctx context.Context, id int64) (*domain.Booking, error) {
					return &domain.Booking{
						ID:     id,
						RoomID: 1,
						UserID: "user-001",
						Status: domain.BookingStatusCompleted,
					}, nil
				}
			},
			wantErr: domain.ErrInvalidBookingStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := &MockBookingRepository{}
			publisher := &MockEventPublisher{}

			updated := false
			if tt.setupMocks != nil {
				tt.setupMocks(bookingRepo)
			}
			prevUpdate := bookingRepo.UpdateFunc
			bookingRepo.UpdateFunc = func(ctx context.Context, booking *domain.Booking) error {
				updated = true
				if prevUpdate != nil {
					return prevUpdate(ctx, booking)
				}
				return nil
			}

			svc := NewBookingService(bookingRepo, &MockRoomRepository{}, publisher)

			err := svc.CancelBooking(context.Background(), tt.bookingID, tt.userID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CancelBooking() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("CancelBooking() unexpected error = %v", err)
			}
			if updated != tt.wantUpdated {
				t.Errorf("CancelBooking() updated = %v, want %v", updated, tt.wantUpdated)
			}
			if got := len(publisher.Cancelled) == 1; got != tt.wantPublished {
				t.Errorf("CancelBooking() published = %v, want %v", got, tt.wantPublished)
			}
		})
	}
}

func TestBookingService_IsRoomAvailable(t *testing.T) {
	var gotStart, gotEnd time.Time
	var gotExclude int64

	bookingRepo := &MockBookingRepository{
		HasOverlapFunc: func(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
			gotStart, gotEnd, gotExclude = start, end, excludeID
			return true, nil
		},
	}
	svc := NewBookingService(bookingRepo, &MockRoomRepository{}, nil)

	loc := time.FixedZone("ICT", 7*3600)
	start := time.Date(2026, 6, 1, 14, 0, 0, 0, loc)
	end := time.Date(2026, 6, 3, 14, 0, 0, 0, loc)

	available, err := svc.IsRoomAvailable(context.Background(), 1, start, end, 42)
	if err != nil {
		t.Fatalf("IsRoomAvailable() unexpected error = %v", err)
	}
	if available {
		t.Error("IsRoomAvailable() = true with an overlapping booking, want false")
	}
	if gotStart.Location() != time.UTC || gotEnd.Location() != time.UTC {
		t.Error("IsRoomAvailable() passed non-UTC bounds to the repository")
	}
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Error("IsRoomAvailable() changed the instants while normalizing")
	}
	if gotExclude != 42 {
		t.Errorf("IsRoomAvailable() excludeID = %d, want 42", gotExclude)
	}
}

func TestBookingService_GetUserBookings(t *testing.T) {
	bookingRepo := &MockBookingRepository{
		ListByUserFunc: func(ctx context.Context, userID string) ([]*domain.Booking, error) {
			return []*domain.Booking{
				{ID: 1, RoomID: 1, UserID: userID, Status: domain.BookingStatusConfirmed},
				{ID: 2, RoomID: 2, UserID: userID, Status: domain.BookingStatusCancelled},
			}, nil
		},
	}
	svc := NewBookingService(bookingRepo, &MockRoomRepository{}, nil)

	bookings, err := svc.GetUserBookings(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("GetUserBookings() unexpected error = %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("GetUserBookings() returned %d bookings, want 2", len(bookings))
	}
	if bookings[1].Status != domain.BookingStatusCancelled.String() {
		t.Errorf("GetUserBookings() second status = %v, want cancelled", bookings[1].Status)
	}
}
