package domain

import (
	"fmt"
	"time"
)

// TimeOfDay - время суток без даты
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseTimeOfDay принимает 15:04:05 или 15:04
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

// DepartureSchedule - упорядоченный набор времён отправления на следующий день.
// Порядок времён определяет порядок маршрутов в ответе.
type DepartureSchedule struct {
	Times    []TimeOfDay
	Location *time.Location
}

// DefaultSchedule - ночь, утренний час пик, полдень, вечерний час пик
var DefaultSchedule = []TimeOfDay{
	{Hour: 1},
	{Hour: 9},
	{Hour: 12},
	{Hour: 17, Minute: 15},
}

// NewDepartureSchedule разбирает времена из конфигурации
func NewDepartureSchedule(times []string, loc *time.Location) (*DepartureSchedule, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("departure schedule is empty")
	}
	if loc == nil {
		loc = time.Local
	}

	parsed := make([]TimeOfDay, 0, len(times))
	for _, s := range times {
		tod, err := ParseTimeOfDay(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, tod)
	}

	return &DepartureSchedule{Times: parsed, Location: loc}, nil
}

// DepartureTimes возвращает времена отправления на календарный день после now.
// Всегда завтра: сегодняшние времена могут быть уже в прошлом.
func (s *DepartureSchedule) DepartureTimes(now time.Time) []time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}

	y, m, d := now.In(loc).Date()
	result := make([]time.Time, len(s.Times))
	for i, tod := range s.Times {
		// time.Date нормализует d+1 через границу месяца и года
		result[i] = time.Date(y, m, d+1, tod.Hour, tod.Minute, tod.Second, 0, loc)
	}
	return result
}
