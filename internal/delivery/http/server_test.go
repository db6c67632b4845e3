package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-gateway/internal/config"
	httpDelivery "github.com/route-gateway/internal/delivery/http"
	"github.com/route-gateway/internal/delivery/http/handler"
	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
	"github.com/route-gateway/internal/infrastructure/mapbox"
	"github.com/route-gateway/internal/usecase"
)

// fakeProvider записывает запросы и отвечает предопределёнными данными
type fakeProvider struct {
	mu       sync.Mutex
	searches []domain.PlaceSearchQuery
	routes   []domain.RouteQuery
	failAt   map[string]error // по времени отправления 15:04
}

func (f *fakeProvider) SearchPlaces(_ context.Context, q domain.PlaceSearchQuery) (domain.PlaceSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	return domain.PlaceSearchResult(fmt.Sprintf(`{"Summary":{"Text":%q,"MaxResults":%d},"Results":[]}`, q.Text, q.MaxResults)), nil
}

func (f *fakeProvider) CalculateRoute(_ context.Context, q domain.RouteQuery) (domain.RouteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, q)
	if err, ok := f.failAt[q.DepartureTime.Format("15:04")]; ok {
		return nil, err
	}
	return domain.RouteResult(fmt.Sprintf(`{"Summary":{"Departure":%q}}`, q.DepartureTime.Format("2006-01-02T15:04:05"))), nil
}

func (f *fakeProvider) Name() string { return "fake" }

var testNow = time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, provider repository.LocationRepository) *httpDelivery.Server {
	t.Helper()
	logger := zap.NewNop()

	schedule := &domain.DepartureSchedule{Times: domain.DefaultSchedule, Location: time.UTC}
	routeUC := usecase.NewRouteUseCase(provider, schedule, true, logger).
		WithClock(func() time.Time { return testNow })
	searchUC := usecase.NewSearchUseCase(provider, logger)

	cfg := &config.Config{CORS: config.CORSConfig{AllowOrigins: "*"}}

	return httpDelivery.NewServer(
		cfg,
		logger,
		provider.Name(),
		handler.NewSearchHandler(searchUC, logger),
		handler.NewRouteHandler(routeUC, logger),
	)
}

func doRequest(t *testing.T, s *httpDelivery.Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type errorBody struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func TestServer_Search(t *testing.T) {
	t.Run("default max results", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search/?text=MG%20Road", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"Summary":{"Text":"MG Road","MaxResults":5},"Results":[]}`, string(body))
		require.Len(t, provider.searches, 1)
		assert.Equal(t, 5, provider.searches[0].MaxResults)
	})

	t.Run("max results passed through", func(t *testing.T) {
		for _, n := range []int{0, 1000} {
			provider := &fakeProvider{}
			s := newTestServer(t, provider)

			resp, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/search/?text=cafe&maxResults=%d", n), nil))
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			require.Len(t, provider.searches, 1)
			assert.Equal(t, n, provider.searches[0].MaxResults)
		}
	})

	t.Run("path without trailing slash", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search?text=cafe", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing text", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search/", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var e errorBody
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, "INVALID_REQUEST", e.Error.Code)
		assert.Empty(t, provider.searches)
	})

	t.Run("non integer max results", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, _ := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search/?text=cafe&maxResults=many", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, provider.searches)
	})

	t.Run("max results outside int32", func(t *testing.T) {
		for _, raw := range []string{"4294967301", "2147483648", "-2147483649"} {
			provider := &fakeProvider{}
			s := newTestServer(t, provider)

			resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search/?text=cafe&maxResults="+raw, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)

			var e errorBody
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, "INVALID_REQUEST", e.Error.Code)
			assert.Empty(t, provider.searches, raw)
		}
	})

	t.Run("mapbox transport failure hides access token", func(t *testing.T) {
		const token = "pk.secret-token-value"
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		upstream.Close()

		provider := mapbox.NewMapboxClient(&config.MapboxConfig{
			AccessToken:    token,
			BaseURL:        upstream.URL,
			RoutingProfile: "mapbox/driving-traffic",
			RequestTimeout: 5,
		}, zap.NewNop())
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/search/?text=cafe", nil))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.NotContains(t, string(body), token)

		var e errorBody
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, "PROVIDER_ERROR", e.Error.Code)
		assert.Equal(t, "mapbox", e.Error.Details["provider"])

		resp, body = doRequest(t, s, postJSON("/api/getRoute/",
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90]}`))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.NotContains(t, string(body), token)
	})
}

func TestServer_GetRoute(t *testing.T) {
	t.Run("explicit departure time", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, postJSON("/api/getRoute/",
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90],"DepartureTime":"2026-10-25T08:45:00"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"Summary":{"Departure":"2026-10-25T08:45:00"}}`, string(body))

		require.Len(t, provider.routes, 1)
		assert.Equal(t, domain.Position{77.59, 12.97}, provider.routes[0].DeparturePosition)
		assert.Equal(t, domain.Position{77.64, 12.90}, provider.routes[0].DestinationPosition)
	})

	t.Run("departure time defaults to now", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, _ := doRequest(t, s, postJSON("/api/getRoute/",
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90]}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, provider.routes, 1)
		assert.True(t, testNow.Equal(provider.routes[0].DepartureTime))
	})

	t.Run("structural validation", func(t *testing.T) {
		bodies := []string{
			`{"DeparturePosition":[77.59],"DestinationPosition":[77.64,12.90]}`,
			`{"DestinationPosition":[77.64,12.90]}`,
			`{"DeparturePosition":"77.59,12.97","DestinationPosition":[77.64,12.90]}`,
			`{not json`,
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90],"DepartureTime":"soon"}`,
		}
		for _, b := range bodies {
			provider := &fakeProvider{}
			s := newTestServer(t, provider)

			resp, _ := doRequest(t, s, postJSON("/api/getRoute/", b))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, b)
			assert.Empty(t, provider.routes, b)
		}
	})
}

func TestServer_GetRoutes(t *testing.T) {
	t.Run("four scheduled routes for tomorrow", func(t *testing.T) {
		provider := &fakeProvider{}
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, postJSON("/api/getRoutes",
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90]}`))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		assert.JSONEq(t, `{"data":[
			{"Summary":{"Departure":"2026-10-20T01:00:00"}},
			{"Summary":{"Departure":"2026-10-20T09:00:00"}},
			{"Summary":{"Departure":"2026-10-20T12:00:00"}},
			{"Summary":{"Departure":"2026-10-20T17:15:00"}}
		]}`, string(body))
		assert.Len(t, provider.routes, 4)
	})

	t.Run("provider failure on one slot fails the request", func(t *testing.T) {
		provider := &fakeProvider{failAt: map[string]error{
			"12:00": &domain.ProviderError{
				Provider:   "fake",
				Operation:  "CalculateRoute",
				Code:       "ResourceNotFoundException",
				Message:    "Route calculator not found",
				StatusCode: http.StatusNotFound,
			},
		}}
		s := newTestServer(t, provider)

		resp, body := doRequest(t, s, postJSON("/api/getRoutes",
			`{"DeparturePosition":[77.59,12.97],"DestinationPosition":[77.64,12.90]}`))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var e errorBody
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, "PROVIDER_ERROR", e.Error.Code)
		assert.Equal(t, "ResourceNotFoundException", e.Error.Details["provider_code"])
		assert.NotContains(t, string(body), `"data"`)
	})
}

func TestServer_CORSAndHealth(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)

	t.Run("preflight allows any origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/getRoutes", nil)
		req.Header.Set("Origin", "http://example.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")

		resp, _ := doRequest(t, s, req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "X-Custom-Header", resp.Header.Get("Access-Control-Allow-Headers"))
	})

	t.Run("health", func(t *testing.T) {
		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"provider":"fake"`)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-Request-ID", "abc-123")

		resp, _ := doRequest(t, s, req)
		assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
	})

	t.Run("unknown route uses error envelope", func(t *testing.T) {
		resp, body := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var e errorBody
		require.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, "NOT_FOUND", e.Error.Code)
	})
}
