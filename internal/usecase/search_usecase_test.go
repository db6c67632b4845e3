package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/pkg/errors"
	"github.com/route-gateway/internal/usecase"
	"github.com/route-gateway/internal/usecase/dto"
)

func TestSearchUseCase_Search(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("returns provider payload verbatim", func(t *testing.T) {
		repo := &MockLocationRepository{}
		uc := usecase.NewSearchUseCase(repo, logger)

		payload := domain.PlaceSearchResult(`{"Summary":{"Text":"Indiranagar"},"Results":[{"Place":{"Label":"Indiranagar, Bengaluru"}}]}`)
		repo.On("SearchPlaces", ctx, domain.PlaceSearchQuery{Text: "Indiranagar", MaxResults: 5}).Return(payload, nil).Once()

		result, err := uc.Search(ctx, dto.PlaceSearchRequest{Text: "Indiranagar", MaxResults: 5})
		require.NoError(t, err)
		assert.Equal(t, payload, result)
		repo.AssertExpectations(t)
	})

	t.Run("max results boundaries are not clamped", func(t *testing.T) {
		for _, n := range []int{0, 1000} {
			repo := &MockLocationRepository{}
			uc := usecase.NewSearchUseCase(repo, logger)

			repo.On("SearchPlaces", ctx, domain.PlaceSearchQuery{Text: "cafe", MaxResults: n}).
				Return(domain.PlaceSearchResult(`{}`), nil).Once()

			_, err := uc.Search(ctx, dto.PlaceSearchRequest{Text: "cafe", MaxResults: n})
			require.NoError(t, err)
			repo.AssertExpectations(t)
		}
	})

	t.Run("provider failure becomes provider error", func(t *testing.T) {
		repo := &MockLocationRepository{}
		uc := usecase.NewSearchUseCase(repo, logger)

		repo.On("SearchPlaces", ctx, domain.PlaceSearchQuery{Text: "cafe", MaxResults: 5}).
			Return(nil, stderrors.New("network unreachable"))

		result, err := uc.Search(ctx, dto.PlaceSearchRequest{Text: "cafe", MaxResults: 5})
		assert.Nil(t, result)

		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, "PROVIDER_ERROR", appErr.Code)
		assert.Equal(t, "network unreachable", appErr.Details["provider_message"])
	})
}
