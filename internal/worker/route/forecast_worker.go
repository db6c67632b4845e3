package route

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
	"github.com/route-gateway/internal/worker"
)

const (
	defaultBatchSize = 10
	emptyQueueSleep  = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep       = time.Second
)

// ScheduleCalculator - расчёт маршрутов на все времена расписания
type ScheduleCalculator interface {
	CalculateSchedule(ctx context.Context, departure, destination domain.Position) (*domain.MultiRouteResult, error)
}

// ForecastWorker обрабатывает события stream:route:forecast
// и публикует результаты в stream:route:forecast:done
type ForecastWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	calculator ScheduleCalculator
	batchSize  int
}

func NewForecastWorker(
	streamRepo repository.StreamRepository,
	calculator ScheduleCalculator,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *ForecastWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &ForecastWorker{
		BaseWorker: worker.NewBaseWorker("route-forecast", consumerGroup, logger),
		streamRepo: streamRepo,
		calculator: calculator,
		batchSize:  batchSize,
	}
}

// Start запускает цикл чтения стрима до Stop или отмены ctx
func (w *ForecastWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ForecastWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamRouteForecast, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		pause := time.Duration(0)
		switch {
		case err != nil:
			logger.Error("Failed to process batch", zap.Error(err))
			pause = errorSleep
		case processed == 0:
			pause = emptyQueueSleep
		}

		if pause > 0 && !w.Pause(ctx, pause) {
			continue
		}
	}
}

// ProcessBatch читает до batchSize сообщений и обрабатывает их по очереди.
// Возвращает количество прочитанных сообщений.
func (w *ForecastWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamRouteForecast,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Malformed forecast event, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		done := w.forecast(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamRouteForecastDone, done); err != nil {
			// без ACK сообщение останется в pending
			logger.Error("Failed to publish forecast result",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			continue
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if len(ackIDs) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamRouteForecast, w.ConsumerGroup(), ackIDs); err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	return len(messages), nil
}

func (w *ForecastWorker) forecast(ctx context.Context, event *domain.RouteForecastEvent) *domain.RouteForecastDoneEvent {
	done := &domain.RouteForecastDoneEvent{RequestID: event.RequestID}

	result, err := w.calculator.CalculateSchedule(
		ctx,
		domain.PositionFromSlice(event.DeparturePosition),
		domain.PositionFromSlice(event.DestinationPosition),
	)
	if err != nil {
		w.Logger().Warn("Route forecast failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		done.Error = err.Error()
		return done
	}

	done.Data = result.Data
	return done
}

func parseMessage(msg domain.StreamMessage) (*domain.RouteForecastEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("empty data")
	}

	var event domain.RouteForecastEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if !event.Valid() {
		return nil, fmt.Errorf("event requires request_id and two [lon, lat] positions")
	}
	return &event, nil
}
