package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

const locationColumns = `
	id, restaurant_id, name, COALESCE(address, ''),
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lng,
	settings, status, created_at`

const upsertLocationSQL = `
	INSERT INTO restaurant_locations (restaurant_id, name, address, location, settings, status)
	VALUES ($1, $2, NULLIF($3, ''),
	        CASE WHEN $4::float8 IS NULL OR $5::float8 IS NULL THEN NULL
	             ELSE ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography END,
	        $6, $7)
	ON CONFLICT (restaurant_id, name) DO UPDATE
	SET address = EXCLUDED.address,
	    location = COALESCE(EXCLUDED.location, restaurant_locations.location),
	    settings = EXCLUDED.settings,
	    status = EXCLUDED.status`

// LocationRepo implements ports.LocationRepository. Coordinates live in a
// nullable PostGIS geography column.
type LocationRepo struct {
	db *DB
}

func NewLocationRepo(db *DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*domain.RestaurantLocation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.db.Pool.QueryRow(ctx, `SELECT `+locationColumns+` FROM restaurant_locations WHERE id = $1`, id)
	l, err := scanLocation(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// ListByRestaurant returns the restaurant's locations in listing order.
func (r *LocationRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.RestaurantLocation, error) {
	if !validID(restaurantID) {
		return nil, nil
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM restaurant_locations
		WHERE restaurant_id = $1
		ORDER BY created_at, id
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.RestaurantLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// ListMissingCoordinates returns locations that have an address but no point yet.
func (r *LocationRepo) ListMissingCoordinates(ctx context.Context, limit int) ([]domain.RestaurantLocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM restaurant_locations
		WHERE location IS NULL AND address IS NOT NULL
		ORDER BY created_at, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.RestaurantLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *LocationRepo) UpdateCoordinates(ctx context.Context, id string, point domain.Coordinate) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE restaurant_locations
		SET location = ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography
		WHERE id = $1
	`, id, point.Lng, point.Lat)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertBatch inserts many locations using pgx.Batch. Existing coordinates
// are kept when the incoming row has none.
func (r *LocationRepo) UpsertBatch(ctx context.Context, locations []domain.RestaurantLocation) error {
	if len(locations) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range locations {
		settings := l.Settings
		if settings == nil {
			settings = map[string]any{}
		}
		status := l.Status
		if status == "" {
			status = domain.LocationOpen
		}
		batch.Queue(upsertLocationSQL, l.RestaurantID, l.Name, l.Address, l.Lat, l.Lng, settings, string(status))
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range locations {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// listByRestaurants loads locations for several restaurants in one query.
func (r *LocationRepo) listByRestaurants(ctx context.Context, restaurantIDs []string) (map[string][]domain.RestaurantLocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+locationColumns+`
		FROM restaurant_locations
		WHERE restaurant_id = ANY($1)
		ORDER BY restaurant_id, created_at, id
	`, restaurantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.RestaurantLocation, len(restaurantIDs))
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out[l.RestaurantID] = append(out[l.RestaurantID], l)
	}
	return out, rows.Err()
}

func scanLocation(row pgx.Row) (domain.RestaurantLocation, error) {
	var (
		l      domain.RestaurantLocation
		status string
	)
	err := row.Scan(
		&l.ID, &l.RestaurantID, &l.Name, &l.Address,
		&l.Lat, &l.Lng,
		&l.Settings, &status, &l.CreatedAt,
	)
	l.Status = domain.LocationStatus(status)
	return l, err
}
