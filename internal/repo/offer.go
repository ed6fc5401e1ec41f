package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripboard/internal/domain"
)

// OfferRepo defines read access to the offer catalog and the
// trip_event_offers join table.
type OfferRepo interface {
	// List returns one group per event type, in domain.EventTypes order.
	// Types without offers get an empty group.
	List(ctx context.Context) ([]domain.OfferGroup, error)

	// ListByType returns the offers available for t, ordered by title.
	ListByType(ctx context.Context, t domain.EventType) ([]domain.Offer, error)
}

// pgOfferRepo is the Postgres implementation of OfferRepo.
type pgOfferRepo struct {
	db db
}

// NewOfferRepo constructs an OfferRepo backed by the provided db connection.
func NewOfferRepo(db db) OfferRepo {
	return &pgOfferRepo{db: db}
}

func (r *pgOfferRepo) List(ctx context.Context) ([]domain.OfferGroup, error) {
	const q = `SELECT id, event_type, title, price FROM offers ORDER BY event_type, title`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.List: %w", err)
	}
	defer rows.Close()

	byType := map[domain.EventType][]domain.Offer{}
	for rows.Next() {
		o, t, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OfferRepo.List: scan: %w", err)
		}
		byType[t] = append(byType[t], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.List: rows: %w", err)
	}

	groups := make([]domain.OfferGroup, 0, len(domain.EventTypes()))
	for _, t := range domain.EventTypes() {
		offers := byType[t]
		if offers == nil {
			offers = []domain.Offer{}
		}
		groups = append(groups, domain.OfferGroup{Type: t, Offers: offers})
	}
	return groups, nil
}

func (r *pgOfferRepo) ListByType(ctx context.Context, t domain.EventType) ([]domain.Offer, error) {
	const q = `
		SELECT id, event_type, title, price
		FROM offers
		WHERE event_type = @event_type
		ORDER BY title`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"event_type": string(t)})
	if err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.ListByType: %w", err)
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		o, _, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.OfferRepo.ListByType: scan: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.OfferRepo.ListByType: rows: %w", err)
	}
	return offers, nil
}

// replaceOffers rewrites the offer links of an event, keeping the order of ids.
func replaceOffers(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, ids []uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM trip_event_offers WHERE event_id = @event_id`,
		pgx.NamedArgs{"event_id": eventID}); err != nil {
		return fmt.Errorf("clear offers: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	const q = `
		INSERT INTO trip_event_offers (event_id, offer_id, position)
		SELECT @event_id, o.id, o.ord
		FROM unnest(@offer_ids::uuid[]) WITH ORDINALITY AS o(id, ord)`

	pgIDs := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		pgIDs[i] = pgtype.UUID{Bytes: id, Valid: true}
	}
	if _, err := tx.Exec(ctx, q, pgx.NamedArgs{"event_id": eventID, "offer_ids": pgIDs}); err != nil {
		return fmt.Errorf("link offers: %w", err)
	}
	return nil
}

func scanOffer(s scanner) (domain.Offer, domain.EventType, error) {
	var (
		o  domain.Offer
		id pgtype.UUID
		t  string
	)
	if err := s.Scan(&id, &t, &o.Title, &o.Price); err != nil {
		return domain.Offer{}, "", err
	}
	o.ID = uuid.UUID(id.Bytes)
	return o, domain.EventType(t), nil
}
