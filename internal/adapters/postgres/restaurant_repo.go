package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// RestaurantRepo implements ports.RestaurantRepository.
type RestaurantRepo struct {
	db        *DB
	locations *LocationRepo
}

func NewRestaurantRepo(db *DB) *RestaurantRepo {
	return &RestaurantRepo{db: db, locations: NewLocationRepo(db)}
}

// Upsert inserts or updates a restaurant keyed by slug and sets r.ID.
func (r *RestaurantRepo) Upsert(ctx context.Context, rest *domain.Restaurant) error {
	status := rest.Status
	if status == "" {
		status = domain.RestaurantActive
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO restaurants (slug, name, cuisine, status)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, cuisine = EXCLUDED.cuisine, status = EXCLUDED.status
		RETURNING id, created_at
	`, rest.Slug, rest.Name, rest.Cuisine, string(status)).Scan(&rest.ID, &rest.CreatedAt)
}

// GetByID returns a restaurant without its locations.
func (r *RestaurantRepo) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var (
		rest   domain.Restaurant
		status string
	)
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(cuisine, ''), status, created_at
		FROM restaurants WHERE id = $1
	`, id).Scan(&rest.ID, &rest.Slug, &rest.Name, &rest.Cuisine, &status, &rest.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	rest.Status = domain.RestaurantStatus(status)
	return &rest, nil
}

// ListActive returns active restaurants ordered by name, each with all of
// its locations in listing order.
func (r *RestaurantRepo) ListActive(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(cuisine, ''), status, created_at
		FROM restaurants
		WHERE status = 'active'
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		restaurants []domain.Restaurant
		ids         []string
	)
	for rows.Next() {
		var (
			rest   domain.Restaurant
			status string
		)
		if err := rows.Scan(&rest.ID, &rest.Slug, &rest.Name, &rest.Cuisine, &status, &rest.CreatedAt); err != nil {
			return nil, err
		}
		rest.Status = domain.RestaurantStatus(status)
		restaurants = append(restaurants, rest)
		ids = append(ids, rest.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return restaurants, nil
	}

	byRestaurant, err := r.locations.listByRestaurants(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	for i := range restaurants {
		restaurants[i].Locations = byRestaurant[restaurants[i].ID]
	}
	return restaurants, nil
}
