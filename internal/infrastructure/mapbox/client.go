package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
	"go.uber.org/zap"
)

const providerName = "mapbox"

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	profile     string
	logger      *zap.Logger
}

// apiStatus - общие поля ответа Mapbox, по которым определяется ошибка
type apiStatus struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMapboxClient создает новый клиент для Mapbox Geocoding и Directions API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.LocationRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		profile:     cfg.RoutingProfile,
		logger:      logger,
	}
}

func (c *client) Name() string {
	return providerName
}

// SearchPlaces ищет места через Geocoding API (mapbox.places).
// limit передаётся без ограничения, проверку диапазона делает Mapbox.
func (c *client) SearchPlaces(ctx context.Context, query domain.PlaceSearchQuery) (domain.PlaceSearchResult, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(query.MaxResults))
	params.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL,
		url.PathEscape(query.Text),
		params.Encode(),
	)

	c.logger.Debug("Calling Mapbox Geocoding API",
		zap.String("text", query.Text),
		zap.Int("limit", query.MaxResults))

	return c.get(ctx, "geocoding", endpoint)
}

// CalculateRoute строит маршрут через Directions API с depart_at
func (c *client) CalculateRoute(ctx context.Context, query domain.RouteQuery) (domain.RouteResult, error) {
	coordinates := formatCoordinate(query.DeparturePosition.Lon()) + "," +
		formatCoordinate(query.DeparturePosition.Lat()) + ";" +
		formatCoordinate(query.DestinationPosition.Lon()) + "," +
		formatCoordinate(query.DestinationPosition.Lat())

	params := url.Values{}
	params.Set("depart_at", query.DepartureTime.Format("2006-01-02T15:04Z07:00"))
	params.Set("geometries", "geojson")
	params.Set("overview", "full")
	params.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/directions/v5/%s/%s?%s",
		c.baseURL,
		c.profile,
		coordinates,
		params.Encode(),
	)

	c.logger.Debug("Calling Mapbox Directions API",
		zap.String("profile", c.profile),
		zap.String("coordinates", coordinates),
		zap.Time("depart_at", query.DepartureTime))

	body, err := c.get(ctx, "directions", endpoint)
	if err != nil {
		return nil, err
	}

	// Directions отвечает 200 и для части ошибок (NoRoute, NoSegment)
	var status apiStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, c.providerError("directions", 0, "", fmt.Sprintf("failed to decode response: %v", err), err)
	}
	if status.Code != "Ok" {
		return nil, c.providerError("directions", http.StatusOK, status.Code, status.Message, nil)
	}

	return body, nil
}

func (c *client) get(ctx context.Context, operation, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		err = c.stripURL(err)
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = c.stripURL(err)
		return nil, c.providerError(operation, 0, "", err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.providerError(operation, resp.StatusCode, "", err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		var status apiStatus
		_ = json.Unmarshal(body, &status)
		if status.Message == "" {
			status.Message = string(body)
		}
		return nil, c.providerError(operation, resp.StatusCode, status.Code, status.Message, nil)
	}

	c.logger.Debug("Mapbox API call successful",
		zap.String("operation", operation),
		zap.Int("bytes", len(body)))

	return body, nil
}

func (c *client) providerError(operation string, statusCode int, code, message string, cause error) error {
	c.logger.Error("Mapbox API returned error",
		zap.String("operation", operation),
		zap.Int("status_code", statusCode),
		zap.String("code", code),
		zap.String("message", message))

	return &domain.ProviderError{
		Provider:   providerName,
		Operation:  operation,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        cause,
	}
}

// stripURL убирает из ошибки net/http адрес запроса: в query лежит access_token
func (c *client) stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	if c.accessToken != "" && strings.Contains(err.Error(), c.accessToken) {
		return errors.New(strings.ReplaceAll(err.Error(), c.accessToken, "REDACTED"))
	}
	return err
}

// formatCoordinate - координата без округления, в кратчайшей точной записи
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
