package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// VenueRepository reads the venues of a business.
type VenueRepository interface {
	List(ctx context.Context, businessCode string) ([]domain.VenueSummary, error)
}

type venueRepository struct {
	pool *pgxpool.Pool
}

// NewVenueRepository instantiates the repository.
func NewVenueRepository(pool *pgxpool.Pool) VenueRepository {
	return &venueRepository{pool: pool}
}

func (r *venueRepository) List(ctx context.Context, businessCode string) ([]domain.VenueSummary, error) {
	const query = `
        SELECT venue_code, venue_name, venue_address
        FROM venues WHERE business_code=$1 ORDER BY venue_name`

	rows, err := r.pool.Query(ctx, query, businessCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := []domain.VenueSummary{}
	for rows.Next() {
		var v domain.VenueSummary
		if err := rows.Scan(&v.VenueCode, &v.VenueName, &v.VenueAddress); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
