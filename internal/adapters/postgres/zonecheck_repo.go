package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/tiffin/internal/core/domain"
)

// ZoneCheckRepo stores zone-check events as JSONB rows.
type ZoneCheckRepo struct {
	db *DB
}

func NewZoneCheckRepo(db *DB) *ZoneCheckRepo {
	return &ZoneCheckRepo{db: db}
}

// Insert is idempotent on event ID so redelivered messages are harmless.
func (r *ZoneCheckRepo) Insert(ctx context.Context, e *domain.ZoneCheckEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal zone check: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO zone_checks (id, restaurant_id, can_deliver, policy, payload, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.RestaurantID, e.CanDeliver, string(e.Policy), payload, e.CheckedAt)
	return err
}

// ListByRestaurant returns the most recent checks first.
func (r *ZoneCheckRepo) ListByRestaurant(ctx context.Context, restaurantID string, limit int) ([]domain.ZoneCheckEvent, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT payload FROM zone_checks
		WHERE restaurant_id = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`, restaurantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ZoneCheckEvent
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e domain.ZoneCheckEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode zone check: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
