package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/tiffin/internal/core/domain"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/pkg/metrics"
)

// AuditService persists zone-check events consumed from the broker.
type AuditService struct {
	zoneChecks ports.ZoneCheckRepository
}

func NewAuditService(zoneChecks ports.ZoneCheckRepository) *AuditService {
	return &AuditService{zoneChecks: zoneChecks}
}

// Record stores one event. Events without an ID or restaurant are rejected.
func (s *AuditService) Record(ctx context.Context, event *domain.ZoneCheckEvent) error {
	if event.ID == "" || event.RestaurantID == "" {
		return &domain.ValidationError{Field: "event", Reason: "id and restaurant_id are required"}
	}
	if err := s.zoneChecks.Insert(ctx, event); err != nil {
		return fmt.Errorf("store zone check %s: %w", event.ID, err)
	}
	metrics.ZoneChecksAudited.Inc()
	return nil
}
