package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tiffin/internal/core/usecases"
)

// Pinger is a backing service that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Restaurants *usecases.RestaurantService
	Delivery    *usecases.DeliveryService
	Geo         *usecases.GeoService
	NATS        *nats.Conn
	DB          Pinger
	Cache       Pinger
	Version     string
}
