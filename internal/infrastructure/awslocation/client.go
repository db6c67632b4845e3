package awslocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/location"
	"github.com/aws/aws-sdk-go-v2/service/location/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/domain"
	"github.com/route-gateway/internal/domain/repository"
)

const providerName = "aws-location"

// locationAPI - подмножество location.Client, которое нужно адаптеру
type locationAPI interface {
	SearchPlaceIndexForText(ctx context.Context, params *location.SearchPlaceIndexForTextInput, optFns ...func(*location.Options)) (*location.SearchPlaceIndexForTextOutput, error)
	CalculateRoute(ctx context.Context, params *location.CalculateRouteInput, optFns ...func(*location.Options)) (*location.CalculateRouteOutput, error)
}

type client struct {
	api             locationAPI
	placeIndex      string
	routeCalculator string
	logger          *zap.Logger
}

// searchResponse и routeResponse повторяют тело ответа Location Service
// без служебных ResultMetadata
type searchResponse struct {
	Summary *types.SearchPlaceIndexForTextSummary
	Results []types.SearchForTextResult
}

type routeResponse struct {
	Legs    []types.Leg
	Summary *types.CalculateRouteSummary
}

// NewLocationClient создает клиент Amazon Location Service.
// Учётные данные берутся из стандартной цепочки AWS (env, профиль, роль).
func NewLocationClient(ctx context.Context, cfg *config.AWSLocationConfig, logger *zap.Logger) (repository.LocationRepository, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	logger.Info("AWS Location client configured",
		zap.String("region", cfg.Region),
		zap.String("place_index", cfg.PlaceIndex),
		zap.String("route_calculator", cfg.RouteCalculator))

	return newClient(location.NewFromConfig(awsCfg), cfg, logger), nil
}

func newClient(api locationAPI, cfg *config.AWSLocationConfig, logger *zap.Logger) *client {
	return &client{
		api:             api,
		placeIndex:      cfg.PlaceIndex,
		routeCalculator: cfg.RouteCalculator,
		logger:          logger,
	}
}

func (c *client) Name() string {
	return providerName
}

// SearchPlaces вызывает SearchPlaceIndexForText. MaxResults передаётся как есть.
func (c *client) SearchPlaces(ctx context.Context, query domain.PlaceSearchQuery) (domain.PlaceSearchResult, error) {
	c.logger.Debug("Calling SearchPlaceIndexForText",
		zap.String("index", c.placeIndex),
		zap.String("text", query.Text),
		zap.Int("max_results", query.MaxResults))

	if query.MaxResults < math.MinInt32 || query.MaxResults > math.MaxInt32 {
		return nil, fmt.Errorf("max results %d out of int32 range", query.MaxResults)
	}

	out, err := c.api.SearchPlaceIndexForText(ctx, &location.SearchPlaceIndexForTextInput{
		IndexName:  aws.String(c.placeIndex),
		Text:       aws.String(query.Text),
		MaxResults: aws.Int32(int32(query.MaxResults)),
	})
	if err != nil {
		return nil, c.providerError("SearchPlaceIndexForText", err)
	}

	return marshal(searchResponse{Summary: out.Summary, Results: out.Results})
}

// CalculateRoute вызывает CalculateRoute для одной пары точек
func (c *client) CalculateRoute(ctx context.Context, query domain.RouteQuery) (domain.RouteResult, error) {
	c.logger.Debug("Calling CalculateRoute",
		zap.String("calculator", c.routeCalculator),
		zap.Float64s("departure", query.DeparturePosition.Slice()),
		zap.Float64s("destination", query.DestinationPosition.Slice()),
		zap.Time("departure_time", query.DepartureTime))

	out, err := c.api.CalculateRoute(ctx, &location.CalculateRouteInput{
		CalculatorName:      aws.String(c.routeCalculator),
		DeparturePosition:   query.DeparturePosition.Slice(),
		DestinationPosition: query.DestinationPosition.Slice(),
		DepartureTime:       aws.Time(query.DepartureTime),
	})
	if err != nil {
		return nil, c.providerError("CalculateRoute", err)
	}

	return marshal(routeResponse{Legs: out.Legs, Summary: out.Summary})
}

// providerError сохраняет код и сообщение AWS, чтобы отдать их клиенту
func (c *client) providerError(operation string, err error) error {
	pe := &domain.ProviderError{
		Provider:  providerName,
		Operation: operation,
		Message:   err.Error(),
		Err:       err,
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
		pe.Message = apiErr.ErrorMessage()
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.StatusCode = respErr.HTTPStatusCode()
	}

	c.logger.Error("AWS Location call failed",
		zap.String("operation", operation),
		zap.String("code", pe.Code),
		zap.Int("status_code", pe.StatusCode),
		zap.Error(err))

	return pe
}

func marshal(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider response: %w", err)
	}
	return data, nil
}
