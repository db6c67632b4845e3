package domain

import "math"

const earthRadiusKm = 6371.0

// Position - точка [долгота, широта] в градусах WGS84.
// Границы не проверяются: некорректные координаты отклоняет провайдер.
type Position [2]float64

func (p Position) Lon() float64 { return p[0] }
func (p Position) Lat() float64 { return p[1] }

// Slice возвращает позицию в виде, который ожидают SDK провайдеров
func (p Position) Slice() []float64 {
	return []float64{p[0], p[1]}
}

// PositionFromSlice собирает позицию из пары [lon, lat].
// Длину проверяет валидатор на границе HTTP.
func PositionFromSlice(v []float64) Position {
	var p Position
	copy(p[:], v)
	return p
}

// DistanceKm - расстояние по дуге большого круга (haversine) до q
func (p Position) DistanceKm(q Position) float64 {
	lat1, lat2 := p.Lat()*math.Pi/180, q.Lat()*math.Pi/180
	dLat := lat2 - lat1
	dLon := (q.Lon() - p.Lon()) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
