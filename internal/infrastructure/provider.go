package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/domain/repository"
	"github.com/route-gateway/internal/infrastructure/awslocation"
	"github.com/route-gateway/internal/infrastructure/mapbox"
)

// NewLocationRepository - клиент провайдера геолокации, выбранного в PROVIDER
func NewLocationRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.LocationRepository, error) {
	switch cfg.Provider.Name {
	case config.ProviderAWS:
		return awslocation.NewLocationClient(ctx, &cfg.AWS, logger)
	case config.ProviderMapbox:
		return mapbox.NewMapboxClient(&cfg.Mapbox, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}
