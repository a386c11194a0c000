package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/usecases"
)

func TestAuditService_Record(t *testing.T) {
	var stored []string
	repo := &mockZoneCheckRepo{
		insertFn: func(ctx context.Context, e *domain.ZoneCheckEvent) error {
			stored = append(stored, e.ID)
			return nil
		},
	}
	svc := usecases.NewAuditService(repo)

	err := svc.Record(context.Background(), &domain.ZoneCheckEvent{
		ID:           "e1",
		RestaurantID: "r1",
		Point:        domain.Coordinate{Lat: 31.5, Lng: 74.3},
		Policy:       domain.ZonePolicyRadius,
		CheckedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0] != "e1" {
		t.Errorf("expected e1 stored, got %v", stored)
	}
}

func TestAuditService_RecordRejectsIncomplete(t *testing.T) {
	svc := usecases.NewAuditService(&mockZoneCheckRepo{
		insertFn: func(ctx context.Context, e *domain.ZoneCheckEvent) error {
			t.Fatal("insert must not be called")
			return nil
		},
	})

	for _, e := range []*domain.ZoneCheckEvent{{RestaurantID: "r1"}, {ID: "e1"}} {
		var vErr *domain.ValidationError
		if err := svc.Record(context.Background(), e); !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError for %+v, got %v", e, err)
		}
	}
}

func TestAuditService_RecordWrapsStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := usecases.NewAuditService(&mockZoneCheckRepo{
		insertFn: func(ctx context.Context, e *domain.ZoneCheckEvent) error { return boom },
	})

	err := svc.Record(context.Background(), &domain.ZoneCheckEvent{ID: "e1", RestaurantID: "r1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
