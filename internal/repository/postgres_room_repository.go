package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stayhub/hotel-booking/internal/domain"
	"github.com/stayhub/hotel-booking/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresRoomRepository implements RoomRepository using PostgreSQL with pgxpool
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

const roomColumns = `id, name, class, price, COALESCE(description, '') as description, capacity, is_available`

// Create persists a new room and assigns its ID
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.create")
	defer span.End()

	query := `
		INSERT INTO rooms (name, class, price, description, capacity, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		room.Name,
		room.Class,
		room.Price,
		room.Description,
		room.Capacity,
		room.IsAvailable,
	).Scan(&room.ID)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create room: %w", err)
	}

	span.SetAttributes(attribute.Int64("room_id", room.ID))
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a room by its ID
func (r *PostgresRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room := &domain.Room{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Class,
		&room.Price,
		&room.Description,
		&room.Capacity,
		&room.IsAvailable,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return room, nil
}

// List retrieves all rooms
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.list")
	defer span.End()

	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Class,
			&room.Price,
			&room.Description,
			&room.Capacity,
			&room.IsAvailable,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(rooms)))
	span.SetStatus(codes.Ok, "")
	return rooms, nil
}

// Update replaces all mutable fields of a stored room
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", room.ID))

	query := `
		UPDATE rooms SET
			name = $2,
			class = $3,
			price = $4,
			description = $5,
			capacity = $6,
			is_available = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Class,
		room.Price,
		room.Description,
		room.Capacity,
		room.IsAvailable,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update room: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrRoomNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a room by ID
func (r *PostgresRoomRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	result, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrRoomNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Exists reports whether a room with the given ID exists
func (r *PostgresRoomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.exists")
	defer span.End()

	span.SetAttributes(attribute.Int64("room_id", id))

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check room existence: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return exists, nil
}
