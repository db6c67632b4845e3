package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
	"github.com/route-gateway/internal/usecase/dto"
)

// DefaultMaxResults - значение maxResults, если клиент его не передал
const DefaultMaxResults = 5

// SearchUseCase - текстовый поиск мест у провайдера
type SearchUseCase struct {
	locationRepo repository.LocationRepository
	logger       *zap.Logger
}

// NewSearchUseCase - создание нового SearchUseCase
func NewSearchUseCase(locationRepo repository.LocationRepository, logger *zap.Logger) *SearchUseCase {
	return &SearchUseCase{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// Search - поиск по индексу мест. MaxResults не ограничивается локально.
func (uc *SearchUseCase) Search(ctx context.Context, req dto.PlaceSearchRequest) (domain.PlaceSearchResult, error) {
	result, err := uc.locationRepo.SearchPlaces(ctx, domain.PlaceSearchQuery{
		Text:       req.Text,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		uc.logger.Error("Failed to search places",
			zap.String("provider", uc.locationRepo.Name()),
			zap.String("text", req.Text),
			zap.Error(err))
		return nil, toAppError(err)
	}

	return result, nil
}
