package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// noOverlapConstraint is the EXCLUDE constraint on bookings that rejects a
// second confirmed booking with an overlapping range for the same room
// (migrations/001_init.sql).
const noOverlapConstraint = "bookings_no_overlap"

// PostgresBookingRepository implements BookingRepository using PostgreSQL with pgxpool
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

// bookingColumns joins rooms for the display-only room name
const bookingColumns = `b.id, b.room_id, COALESCE(r.name, '') as room_name, b.user_id,
	COALESCE(b.user_name, '') as user_name,
	COALESCE(b.user_email, '') as user_email,
	b.start_date, b.end_date, b.status, b.created_at`

const bookingFrom = ` FROM bookings b LEFT JOIN rooms r ON r.id = b.room_id`

// Create persists a new booking. The database-level exclusion constraint
// guarantees that of two concurrent conflicting inserts exactly one commits;
// the loser gets domain.ErrRoomAlreadyBooked.
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("room_id", booking.RoomID),
		attribute.String("user_id", booking.UserID),
	)

	query := `
		INSERT INTO bookings (room_id, user_id, user_name, user_email, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		booking.RoomID,
		booking.UserID,
		booking.UserName,
		booking.UserEmail,
		booking.StartDate,
		booking.EndDate,
		booking.Status.String(),
		booking.CreatedAt,
	).Scan(&booking.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgerrExclusionViolation && pgErr.ConstraintName == noOverlapConstraint:
				span.SetStatus(codes.Error, "overlap conflict")
				return domain.ErrRoomAlreadyBooked
			case pgErr.Code == pgerrForeignKeyViolation:
				span.SetStatus(codes.Error, "room not found")
				return domain.ErrRoomNotFound
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetAttributes(attribute.Int64("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	return nil
}

// SQLSTATE codes the repository interprets; everything else propagates opaquely.
const (
	pgerrExclusionViolation  = "23P01"
	pgerrForeignKeyViolation = "23503"
)

// GetByID retrieves a booking by its ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("booking_id", id))

	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return booking, nil
}

// ListByUser retrieves all bookings for a user, newest first
func (r *PostgresBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.user_id = $1 ORDER BY b.created_at DESC`

	return r.queryBookings(ctx, span, query, userID)
}

// ListByRoom retrieves all bookings for a room
func (r *PostgresBookingRepository) ListByRoom(ctx context.Context, roomID int64) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_room")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.room_id = $1 ORDER BY b.start_date`

	return r.queryBookings(ctx, span, query, roomID)
}

// ListAll retrieves all bookings in the system, newest first
func (r *PostgresBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_all")
	defer span.End()

	query := `SELECT ` + bookingColumns + bookingFrom + ` ORDER BY b.created_at DESC`

	return r.queryBookings(ctx, span, query)
}

// Update replaces a stored booking
func (r *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking_id", booking.ID),
		attribute.String("status", booking.Status.String()),
	)

	query := `
		UPDATE bookings SET
			room_id = $2,
			user_name = $3,
			user_email = $4,
			start_date = $5,
			end_date = $6,
			status = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserName,
		booking.UserEmail,
		booking.StartDate,
		booking.EndDate,
		booking.Status.String(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// HasOverlap reports whether any confirmed booking for the room overlaps
// [start, end), optionally excluding one booking ID.
func (r *PostgresBookingRepository) HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.has_overlap")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", roomID))

	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND status = $2
			  AND start_date < $4
			  AND end_date > $3
			  AND ($5 = 0 OR id != $5)
		)
	`

	var overlaps bool
	err := r.pool.QueryRow(ctx, query, roomID, domain.BookingStatusConfirmed.String(), start, end, excludeID).Scan(&overlaps)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}

	span.SetAttributes(attribute.Bool("overlaps", overlaps))
	span.SetStatus(codes.Ok, "")
	return overlaps, nil
}

func (r *PostgresBookingRepository) queryBookings(ctx context.Context, span trace.Span, query string, args ...interface{}) ([]*domain.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// scanBooking scans a row into a Booking struct
func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var status string

	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.RoomName,
		&booking.UserID,
		&booking.UserName,
		&booking.UserEmail,
		&booking.StartDate,
		&booking.EndDate,
		&status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatus(status)
	return booking, nil
}
