package repository

import (
	"context"

	"github.com/route-gateway/internal/domain"
)

// LocationRepository - порт внешнего провайдера геолокации и маршрутизации.
// Реализации должны быть безопасны для конкурентного использования.
type LocationRepository interface {
	// SearchPlaces ищет места по тексту в индексе мест провайдера
	SearchPlaces(ctx context.Context, query domain.PlaceSearchQuery) (domain.PlaceSearchResult, error)

	// CalculateRoute рассчитывает маршрут на заданное время отправления
	CalculateRoute(ctx context.Context, query domain.RouteQuery) (domain.RouteResult, error)

	// Name возвращает имя провайдера для логов и health
	Name() string
}
