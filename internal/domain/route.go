package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RouteQuery - запрос на расчёт одного маршрута
type RouteQuery struct {
	DeparturePosition   Position
	DestinationPosition Position
	DepartureTime       time.Time
}

// PlaceSearchQuery - текстовый поиск по индексу мест
type PlaceSearchQuery struct {
	Text       string
	MaxResults int
}

// RouteResult - ответ провайдера на расчёт маршрута (legs, distance, duration).
// Передаётся клиенту без изменений.
type RouteResult = json.RawMessage

// PlaceSearchResult - ответ провайдера на текстовый поиск, без изменений
type PlaceSearchResult = json.RawMessage

// MultiRouteResult - маршруты на каждое время из расписания.
// Data[i] соответствует i-му времени расписания.
type MultiRouteResult struct {
	Data []RouteResult `json:"data"`
}

// departureLayouts - ISO 8601 с зоной и без неё (как datetime.isoformat)
var departureLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDepartureTime разбирает время отправления. Время без зоны трактуется
// в часовом поясе loc.
func ParseDepartureTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty departure time")
	}

	for _, layout := range departureLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported departure time format: %q", value)
}
