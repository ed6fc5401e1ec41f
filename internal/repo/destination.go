package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripboard/internal/domain"
)

// DestinationRepo defines read access to the destination catalog.
type DestinationRepo interface {
	// List returns all destinations ordered by name.
	List(ctx context.Context) ([]domain.Destination, error)

	// GetByID retrieves a destination by primary key.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error)
}

// pgDestinationRepo is the Postgres implementation of DestinationRepo.
type pgDestinationRepo struct {
	db db
}

// NewDestinationRepo constructs a DestinationRepo backed by the provided db connection.
func NewDestinationRepo(db db) DestinationRepo {
	return &pgDestinationRepo{db: db}
}

const selectDestination = `SELECT id, name, description, pictures FROM destinations`

func (r *pgDestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	rows, err := r.db.Query(ctx, selectDestination+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.List: %w", err)
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationRepo.List: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	row := r.db.QueryRow(ctx, selectDestination+` WHERE id = @id`, pgx.NamedArgs{"id": id})
	d, err := scanDestination(row)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.GetByID: %w", err)
	}
	return d, nil
}

// scanDestination maps a row into a domain.Destination. The pictures column is
// jsonb and decodes straight into []domain.Picture.
func scanDestination(s scanner) (domain.Destination, error) {
	var (
		d  domain.Destination
		id pgtype.UUID
	)
	if err := s.Scan(&id, &d.Name, &d.Description, &d.Pictures); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Destination{}, domain.ErrNotFound
		}
		return domain.Destination{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	if d.Pictures == nil {
		d.Pictures = []domain.Picture{}
	}
	return d, nil
}
