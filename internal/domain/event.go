package domain

import (
	"strconv"
	"time"
)

// BookingEventType identifies a booking lifecycle event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// String returns the string representation of BookingEventType
func (t BookingEventType) String() string {
	return string(t)
}

// BookingEvent is the integration event emitted when a booking changes state
type BookingEvent struct {
	EventID    string           `json:"event_id"`
	EventType  BookingEventType `json:"event_type"`
	BookingID  int64            `json:"booking_id"`
	RoomID     int64            `json:"room_id"`
	UserID     string           `json:"user_id"`
	Status     BookingStatus    `json:"status"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    time.Time        `json:"end_date"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewBookingEvent creates a booking event from a booking snapshot
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:    eventID,
		EventType:  eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		OccurredAt: time.Now().UTC(),
	}
}

// Key returns the partition key. Events for the same room stay ordered.
func (e *BookingEvent) Key() string {
	return strconv.FormatInt(e.RoomID, 10)
}
