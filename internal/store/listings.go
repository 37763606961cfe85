package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/amlakhub/listingbot/internal/listing"
)

// ErrAlreadyFinalized means a listing with this confirmation token was
// already persisted, by this turn's race loser or an earlier submission.
var ErrAlreadyFinalized = errors.New("listing already finalized")

// CreateListing inserts one finalized listing tagged with its confirmation
// token. The unique index on confirmation_token makes the insert idempotent
// per logical submission.
func (s *Store) CreateListing(ctx context.Context, ownerID int64, token uuid.UUID, rec *listing.Record) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listings (
			id, confirmation_token, owner_telegram_id,
			transaction_type, property_type, usage_type,
			area, bedroom_count, total_floors, floor, unit_count,
			has_elevator, has_parking, has_storage, build_year,
			price_total, rent,
			city, neighborhood, address, owner_name, owner_phone, features,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		          $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, now())`,
		id, token, ownerID,
		rec.TransactionType, rec.PropertyType, rec.UsageType,
		rec.Area, rec.BedroomCount, rec.TotalFloors, rec.Floor, rec.UnitCount,
		rec.HasElevator, rec.HasParking, rec.HasStorage, rec.BuildYear,
		rec.PriceTotal, rec.Rent,
		rec.City, rec.Neighborhood, rec.Address, rec.OwnerName, rec.OwnerPhone, rec.Features,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, ErrAlreadyFinalized
		}
		return uuid.Nil, fmt.Errorf("insert listing: %w", err)
	}
	return id, nil
}

// ListingByToken reports whether a listing was already persisted under the
// given confirmation token, returning its id when found.
func (s *Store) ListingByToken(ctx context.Context, token uuid.UUID) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM listings WHERE confirmation_token = $1`, token,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("lookup listing by token: %w", err)
	}
	return id, true, nil
}
