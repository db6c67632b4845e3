package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamRouteForecast     = "stream:route:forecast"
	StreamRouteForecastDone = "stream:route:forecast:done"
)

// RouteForecastEvent - входящее событие на расчёт маршрутов по расписанию
type RouteForecastEvent struct {
	RequestID           uuid.UUID `json:"request_id"`
	DeparturePosition   []float64 `json:"DeparturePosition"`
	DestinationPosition []float64 `json:"DestinationPosition"`
}

// Valid проверяет форму события до обращения к провайдеру
func (e *RouteForecastEvent) Valid() bool {
	return e.RequestID != uuid.Nil &&
		len(e.DeparturePosition) == 2 &&
		len(e.DestinationPosition) == 2
}

// RouteForecastDoneEvent - результат: либо все маршруты, либо ошибка
type RouteForecastDoneEvent struct {
	RequestID uuid.UUID     `json:"request_id"`
	Data      []RouteResult `json:"data,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
