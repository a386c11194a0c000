// Package geo selects the configured geo provider adapter.
package geo

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/tiffin/internal/adapters/geoapify"
	"github.com/samirrijal/tiffin/internal/adapters/googlemaps"
	"github.com/samirrijal/tiffin/internal/core/ports"
	"github.com/samirrijal/tiffin/internal/pkg/config"
)

const (
	ProviderGeoapify = "geoapify"
	ProviderGoogle   = "google"
)

// NewProvider builds the provider named by cfg.Provider. A missing API key
// is not an error; the returned provider reports Configured() == false.
func NewProvider(cfg config.GeoConfig, logger *slog.Logger) (ports.GeoProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.Provider {
	case ProviderGeoapify, "":
		return geoapify.New(cfg.APIKey, timeout,
			geoapify.WithBaseURL(cfg.BaseURL),
			geoapify.WithLogger(logger),
		), nil
	case ProviderGoogle:
		p, err := googlemaps.New(cfg.APIKey, cfg.BaseURL, timeout, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown geo provider %q", cfg.Provider)
	}
}
