package dto

import "encoding/json"

// MultiRouteResponse - маршруты на каждое время расписания, по порядку
type MultiRouteResponse struct {
	Data []json.RawMessage `json:"data"`
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Time     string `json:"time"`
}
