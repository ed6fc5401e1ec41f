// Package repo contains all database access logic for the Trip Board API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripboard/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so repo methods that need their own transaction
// still nest inside the test's.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EventRepo defines the persistence operations for trip events.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type EventRepo interface {
	// Create inserts a new event with its selected offers and returns the
	// persisted record with a DB-generated id.
	Create(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)

	// GetByID retrieves a single event by its UUID primary key.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error)

	// List returns all events ordered by date_from ascending.
	List(ctx context.Context) ([]domain.TripEvent, error)

	// Update overwrites every field of an existing event, including its offer
	// selection. Returns domain.ErrNotFound if no event with that ID exists.
	Update(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error)

	// Delete removes an event by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const selectEvent = `
	SELECT e.id, e.type, e.date_from, e.date_to, e.base_price, e.destination_id, e.is_favorite,
	       ARRAY(SELECT o.offer_id FROM trip_event_offers o
	             WHERE o.event_id = e.id ORDER BY o.position)
	FROM trip_events e`

// Create inserts the event row and its offer links in one transaction.
func (r *pgEventRepo) Create(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	const q = `
		INSERT INTO trip_events (type, date_from, date_to, base_price, destination_id, is_favorite)
		VALUES (@type, @date_from, @date_to, @base_price, @destination_id, @is_favorite)
		RETURNING id`

	var created domain.TripEvent
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var id pgtype.UUID
		if err := tx.QueryRow(ctx, q, eventArgs(event)).Scan(&id); err != nil {
			return err
		}
		eventID := uuid.UUID(id.Bytes)
		if err := replaceOffers(ctx, tx, eventID, event.OfferIDs); err != nil {
			return err
		}
		var err error
		created, err = getEvent(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.EventRepo.Create: %w", mapPgError(err))
	}
	return created, nil
}

// GetByID retrieves an event by primary key.
func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripEvent, error) {
	result, err := getEvent(ctx, r.db, id)
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all events ordered by date_from ascending.
func (r *pgEventRepo) List(ctx context.Context) ([]domain.TripEvent, error) {
	rows, err := r.db.Query(ctx, selectEvent+` ORDER BY e.date_from, e.id`)
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.List: %w", err)
	}
	defer rows.Close()

	events := []domain.TripEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.List: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.List: rows: %w", err)
	}
	return events, nil
}

// Update overwrites the event row and replaces its offer links.
func (r *pgEventRepo) Update(ctx context.Context, event domain.TripEvent) (domain.TripEvent, error) {
	const q = `
		UPDATE trip_events
		SET type           = @type,
		    date_from      = @date_from,
		    date_to        = @date_to,
		    base_price     = @base_price,
		    destination_id = @destination_id,
		    is_favorite    = @is_favorite,
		    updated_at     = now()
		WHERE id = @id`

	var updated domain.TripEvent
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		args := eventArgs(event)
		args["id"] = event.ID
		tag, err := tx.Exec(ctx, q, args)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if err := replaceOffers(ctx, tx, event.ID, event.OfferIDs); err != nil {
			return err
		}
		updated, err = getEvent(ctx, tx, event.ID)
		return err
	})
	if err != nil {
		return domain.TripEvent{}, fmt.Errorf("repo.EventRepo.Update: %w", mapPgError(err))
	}
	return updated, nil
}

// Delete removes an event by primary key. Offer links go with it (ON DELETE CASCADE).
func (r *pgEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trip_events WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func eventArgs(e domain.TripEvent) pgx.NamedArgs {
	return pgx.NamedArgs{
		"type":           string(e.Type),
		"date_from":      e.DateFrom,
		"date_to":        e.DateTo,
		"base_price":     e.BasePrice,
		"destination_id": e.DestinationID,
		"is_favorite":    e.IsFavorite,
	}
}

func getEvent(ctx context.Context, d db, id uuid.UUID) (domain.TripEvent, error) {
	return scanEvent(d.QueryRow(ctx, selectEvent+` WHERE e.id = @id`, pgx.NamedArgs{"id": id}))
}

// inTx runs fn inside a transaction on d, committing only if fn succeeds.
func inTx(ctx context.Context, d db, fn func(tx pgx.Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// mapPgError turns constraint violations into domain.ErrValidation. The
// service validates first; this covers races such as a destination deleted
// between the check and the write.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
		}
	}
	return err
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEvent maps a single database row into a domain.TripEvent.
func scanEvent(s scanner) (domain.TripEvent, error) {
	var (
		e        domain.TripEvent
		id       pgtype.UUID
		destID   pgtype.UUID
		typ      string
		offerIDs []pgtype.UUID
	)

	err := s.Scan(&id, &typ, &e.DateFrom, &e.DateTo, &e.BasePrice, &destID, &e.IsFavorite, &offerIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripEvent{}, domain.ErrNotFound
		}
		return domain.TripEvent{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Type = domain.EventType(typ)
	e.DestinationID = uuid.UUID(destID.Bytes)
	e.OfferIDs = make([]uuid.UUID, len(offerIDs))
	for i, o := range offerIDs {
		e.OfferIDs[i] = uuid.UUID(o.Bytes)
	}
	return e, nil
}
