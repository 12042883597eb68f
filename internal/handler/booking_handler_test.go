package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/internal/dto"
)

// MockBookingService is a mock implementation of BookingService for testing
type MockBookingService struct {
	GetBookingFunc      func(ctx context.Context, id int64) (*dto.BookingResponse, error)
	GetUserBookingsFunc func(ctx context.Context, userID string) ([]*dto.BookingResponse, error)
	GetAllBookingsFunc  func(ctx context.Context) ([]*dto.BookingResponse, error)
	IsRoomAvailableFunc func(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID int64) (bool, error)
	CreateBookingFunc   func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBookingFunc   func(ctx context.Context, id int64, userID string) error
}

func (m *MockBookingService) GetBooking(ctx context.Context, id int64) (*dto.BookingResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingService) GetUserBookings(ctx context.Context, userID string) ([]*dto.BookingResponse, error) {
	if m.GetUserBookingsFunc != nil {
		return m.GetUserBookingsFunc(ctx, userID)
	}
	return []*dto.BookingResponse{}, nil
}

func (m *MockBookingService) GetAllBookings(ctx context.Context) ([]*dto.BookingResponse, error) {
	if m.GetAllBookingsFunc != nil {
		return m.GetAllBookingsFunc(ctx)
	}
	return []*dto.BookingResponse{}, nil
}

func (m *MockBookingService) IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
	if m.IsRoomAvailableFunc != nil {
		return m.IsRoomAvailableFunc(ctx, roomID, start, end, excludeBookingID)
	}
	return true, nil
}

func (m *MockBookingService) CreateBooking(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id int64, userID string) error {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, id, userID)
	}
	return nil
}

func setupBookingRouter(handler *BookingHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}

	bookings := router.Group("/bookings")
	{
		bookings.GET("", handler.GetMyBookings)
		bookings.GET("/all", handler.GetAllBookings)
		bookings.GET("/availability", handler.CheckAvailability)
		bookings.GET("/:id", handler.GetBooking)
		bookings.POST("", handler.CreateBooking)
		bookings.POST("/:id/cancel", handler.CancelBooking)
		bookings.DELETE("/:id", handler.CancelBooking)
	}

	return router
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		request        *dto.CreateBookingRequest
		mockFunc       func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful booking",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return &dto.BookingResponse{
					ID:     42,
					RoomID: req.RoomID,
					UserID: userID,
					Status: "confirmed",
				}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized without user identity",
			userID:         "",
			request:        &dto.CreateBookingRequest{RoomID: 1, StartDate: "2026-06-01", EndDate: "2026-06-05"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:   "room not found",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				RoomID:    99,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrRoomNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "ROOM_NOT_FOUND",
		},
		{
			name:   "room unavailable",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrRoomUnavailable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ROOM_UNAVAILABLE",
		},
		{
			name:   "conflicting dates",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-01",
				EndDate:   "2026-06-05",
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrRoomAlreadyBooked
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ROOM_ALREADY_BOOKED",
		},
		{
			name:   "invalid date range",
			userID: "user-123",
			request: &dto.CreateBookingRequest{
				RoomID:    1,
				StartDate: "2026-06-05",
				EndDate:   "2026-06-01",
			},
			mockFunc: func(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
				return nil, domain.ErrInvalidDateRange
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_DATE_RANGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingService{CreateBookingFunc: tt.mockFunc}
			handler := NewBookingHandler(mockService)
			router := setupBookingRouter(handler, tt.userID)

			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				var response dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &response); err == nil {
					if response.Code != tt.expectedCode {
						t.Errorf("expected code %s, got %s", tt.expectedCode, response.Code)
					}
				}
			}
		})
	}
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		path           string
		method         string
		mockFunc       func(ctx context.Context, id int64, userID string) error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "successful cancel",
			userID: "user-123",
			path:   "/bookings/1/cancel",
			method: http.MethodPost,
			mockFunc: func(ctx context.Context, id int64, userID string) error {
				return nil
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "delete alias",
			userID: "user-123",
			path:   "/bookings/1",
			method: http.MethodDelete,
			mockFunc: func(ctx context.Context, id int64, userID string) error {
				return nil
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "not found",
			userID: "user-123",
			path:   "/bookings/99/cancel",
			method: http.MethodPost,
			mockFunc: func(ctx context.Context, id int64, userID string) error {
				return domain.ErrBookingNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "BOOKING_NOT_FOUND",
		},
		{
			name:   "forbidden for another user",
			userID: "user-456",
			path:   "/bookings/1/cancel",
			method: http.MethodPost,
			mockFunc: func(ctx context.Context, id int64, userID string) error {
				return domain.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
		{
			name:   "completed booking",
			userID: "user-123",
			path:   "/bookings/1/cancel",
			method: http.MethodPost,
			mockFunc: func(ctx context.Context, id int64, userID string) error {
				return domain.ErrInvalidBookingStatus
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "INVALID_BOOKING_STATUS",
		},
		{
			name:           "invalid id",
			userID:         "user-123",
			path:           "/bookings/abc/cancel",
			method:         http.MethodPost,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingService{CancelBookingFunc: tt.mockFunc}
			handler := NewBookingHandler(mockService)
			router := setupBookingRouter(handler, tt.userID)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedCode != "" {
				var response dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &response); err == nil {
					if response.Code != tt.expectedCode {
						t.Errorf("expected code %s, got %s", tt.expectedCode, response.Code)
					}
				}
			}
		})
	}
}

func TestBookingHandler_CheckAvailability(t *testing.T) {
	mockService := &MockBookingService{
		IsRoomAvailableFunc: func(ctx context.Context, roomID int64, start, end time.Time, excludeBookingID int64) (bool, error) {
			return false, nil
		},
	}
	handler := NewBookingHandler(mockService)
	router := setupBookingRouter(handler, "user-123")

	req := httptest.NewRequest(http.MethodGet,
		"/bookings/availability?room_id=1&start_date=2026-06-01&end_date=2026-06-05", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response dto.AvailabilityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Available {
		t.Error("expected available=false")
	}
	if response.RoomID != 1 {
		t.Errorf("expected room_id=1, got %d", response.RoomID)
	}
}

func TestBookingHandler_CheckAvailabilityBadRange(t *testing.T) {
	handler := NewBookingHandler(&MockBookingService{})
	router := setupBookingRouter(handler, "user-123")

	req := httptest.NewRequest(http.MethodGet,
		"/bookings/availability?room_id=1&start_date=notadate&end_date=2026-06-05", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestBookingHandler_GetBooking(t *testing.T) {
	mockService := &MockBookingService{
		GetBookingFunc: func(ctx context.Context, id int64) (*dto.BookingResponse, error) {
			if id != 7 {
				return nil, domain.ErrBookingNotFound
			}
			return &dto.BookingResponse{ID: 7, RoomID: 1, Status: "confirmed"}, nil
		},
	}
	handler := NewBookingHandler(mockService)
	router := setupBookingRouter(handler, "user-123")

	req := httptest.NewRequest(http.MethodGet, "/bookings/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/bookings/8", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
