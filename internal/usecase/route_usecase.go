package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
	"github.com/route-gateway/internal/pkg/errors"
	"github.com/route-gateway/internal/usecase/dto"
)

// RouteUseCase - расчёт одного маршрута и маршрутов по расписанию
type RouteUseCase struct {
	locationRepo repository.LocationRepository
	schedule     *domain.DepartureSchedule
	concurrent   bool
	now          func() time.Time
	logger       *zap.Logger
}

// NewRouteUseCase - создание нового RouteUseCase.
// concurrent=true запускает вызовы расписания параллельно, порядок ответа при этом не меняется.
func NewRouteUseCase(
	locationRepo repository.LocationRepository,
	schedule *domain.DepartureSchedule,
	concurrent bool,
	logger *zap.Logger,
) *RouteUseCase {
	return &RouteUseCase{
		locationRepo: locationRepo,
		schedule:     schedule,
		concurrent:   concurrent,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock подменяет источник текущего времени
func (uc *RouteUseCase) WithClock(now func() time.Time) *RouteUseCase {
	uc.now = now
	return uc
}

// GetRoute - один маршрут. Без DepartureTime используется время обработки запроса.
func (uc *RouteUseCase) GetRoute(ctx context.Context, req dto.RouteRequest) (domain.RouteResult, error) {
	departureTime := uc.now()
	if req.DepartureTime != "" {
		parsed, err := domain.ParseDepartureTime(req.DepartureTime, uc.schedule.Location)
		if err != nil {
			return nil, errors.ErrInvalidDepartureTime.WithDetails(map[string]interface{}{
				"DepartureTime": req.DepartureTime,
			})
		}
		departureTime = parsed
	}

	query := domain.RouteQuery{
		DeparturePosition:   domain.PositionFromSlice(req.DeparturePosition),
		DestinationPosition: domain.PositionFromSlice(req.DestinationPosition),
		DepartureTime:       departureTime,
	}

	uc.logger.Debug("Calculating route",
		zap.Time("departure_time", departureTime),
		zap.Float64("straight_line_km", straightLineKm(query)))

	result, err := uc.locationRepo.CalculateRoute(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to calculate route",
			zap.String("provider", uc.locationRepo.Name()),
			zap.Error(err))
		return nil, toAppError(err)
	}

	return result, nil
}

// GetRoutes - маршруты на каждое время расписания завтрашнего дня.
// DepartureTime из запроса не используется.
func (uc *RouteUseCase) GetRoutes(ctx context.Context, req dto.RouteRequest) (*dto.MultiRouteResponse, error) {
	if req.DepartureTime != "" {
		uc.logger.Debug("DepartureTime is ignored for scheduled routes",
			zap.String("departure_time", req.DepartureTime))
	}

	result, err := uc.CalculateSchedule(
		ctx,
		domain.PositionFromSlice(req.DeparturePosition),
		domain.PositionFromSlice(req.DestinationPosition),
	)
	if err != nil {
		return nil, toAppError(err)
	}

	return &dto.MultiRouteResponse{Data: result.Data}, nil
}

// CalculateSchedule выполняет по одному вызову провайдера на каждое время расписания.
// Data[i] всегда соответствует i-му времени. Ошибка любого вызова - ошибка всей операции.
func (uc *RouteUseCase) CalculateSchedule(
	ctx context.Context,
	departure, destination domain.Position,
) (*domain.MultiRouteResult, error) {
	departureTimes := uc.schedule.DepartureTimes(uc.now())

	queries := make([]domain.RouteQuery, len(departureTimes))
	for i, t := range departureTimes {
		queries[i] = domain.RouteQuery{
			DeparturePosition:   departure,
			DestinationPosition: destination,
			DepartureTime:       t,
		}
	}

	uc.logger.Debug("Calculating scheduled routes",
		zap.Int("count", len(queries)),
		zap.Bool("concurrent", uc.concurrent),
		zap.Float64("straight_line_km", straightLineKm(domain.RouteQuery{
			DeparturePosition:   departure,
			DestinationPosition: destination,
		})))

	var (
		results []domain.RouteResult
		err     error
	)
	if uc.concurrent {
		results, err = uc.calculateConcurrently(ctx, queries)
	} else {
		results, err = uc.calculateSequentially(ctx, queries)
	}
	if err != nil {
		return nil, err
	}

	return &domain.MultiRouteResult{Data: results}, nil
}

func (uc *RouteUseCase) calculateSequentially(ctx context.Context, queries []domain.RouteQuery) ([]domain.RouteResult, error) {
	results := make([]domain.RouteResult, 0, len(queries))
	for i, q := range queries {
		r, err := uc.locationRepo.CalculateRoute(ctx, q)
		if err != nil {
			uc.logScheduleFailure(i, q, err)
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (uc *RouteUseCase) calculateConcurrently(ctx context.Context, queries []domain.RouteQuery) ([]domain.RouteResult, error) {
	results := make([]domain.RouteResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			r, err := uc.locationRepo.CalculateRoute(gctx, q)
			if err != nil {
				uc.logScheduleFailure(i, q, err)
				return err
			}
			// каждая горутина пишет только в свой индекс
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (uc *RouteUseCase) logScheduleFailure(index int, q domain.RouteQuery, err error) {
	uc.logger.Error("Scheduled route failed",
		zap.String("provider", uc.locationRepo.Name()),
		zap.Int("index", index),
		zap.String("departure_time", q.DepartureTime.Format(time.RFC3339)),
		zap.Error(err))
}

func straightLineKm(q domain.RouteQuery) float64 {
	return q.DeparturePosition.DistanceKm(q.DestinationPosition)
}
