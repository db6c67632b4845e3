package dto

// PlaceSearchRequest - текстовый поиск мест
type PlaceSearchRequest struct {
	Text       string `json:"text" validate:"required"`
	MaxResults int    `json:"maxResults"`
}

// RouteRequest - запрос маршрута. Имена полей совпадают с API провайдера.
// Для /api/getRoutes поле DepartureTime не используется: времена берутся из расписания.
type RouteRequest struct {
	DeparturePosition   []float64 `json:"DeparturePosition" validate:"required,len=2"`
	DestinationPosition []float64 `json:"DestinationPosition" validate:"required,len=2"`
	DepartureTime       string    `json:"DepartureTime,omitempty"`
}
