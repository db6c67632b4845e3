package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderAWS    = "aws"
	ProviderMapbox = "mapbox"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	AWS      AWSLocationConfig
	Mapbox   MapboxConfig
	Routes   RoutesConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// ProviderConfig - выбор бэкенда геолокации
type ProviderConfig struct {
	Name string
}

// AWSLocationConfig - ресурсы Amazon Location Service
type AWSLocationConfig struct {
	Region          string
	PlaceIndex      string
	RouteCalculator string
}

type MapboxConfig struct {
	AccessToken    string
	BaseURL        string
	RoutingProfile string
	RequestTimeout int // seconds
}

// RoutesConfig - параметры пакетного расчёта маршрутов
type RoutesConfig struct {
	// DepartureTimes - время суток в формате 15:04:05, порядок сохраняется в ответе
	DepartureTimes []string
	Timezone       string
	Concurrent     bool
}

type CORSConfig struct {
	AllowOrigins string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
}

// DefaultDepartureTimes - ночь, утренний час пик, полдень, вечерний час пик
var DefaultDepartureTimes = []string{"01:00:00", "09:00:00", "12:00:00", "17:15:00"}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8000)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("PROVIDER", ProviderAWS)
	viper.SetDefault("AWS_REGION", "ap-south-1")
	viper.SetDefault("LOCATION_PLACE_INDEX", "GypsyPlaceIndex")
	viper.SetDefault("LOCATION_ROUTE_CALCULATOR", "GypsyRouteCalculator")

	viper.SetDefault("MAPBOX_BASE_URL", "https://api.mapbox.com")
	viper.SetDefault("MAPBOX_ROUTING_PROFILE", "mapbox/driving-traffic")
	viper.SetDefault("MAPBOX_REQUEST_TIMEOUT", 30)

	viper.SetDefault("ROUTES_DEPARTURE_TIMES", strings.Join(DefaultDepartureTimes, ","))
	viper.SetDefault("ROUTES_TIMEZONE", "Local")
	viper.SetDefault("ROUTES_CONCURRENT", true)

	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("WORKER_ENABLED", false)
	viper.SetDefault("WORKER_CONSUMER_GROUP", "route-forecast-workers")
	viper.SetDefault("WORKER_BATCH_SIZE", 10)
}

func Load() (*Config, error) {
	setDefaults()
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env необязателен: в контейнере всё приходит из окружения
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Provider: ProviderConfig{
			Name: strings.ToLower(strings.TrimSpace(viper.GetString("PROVIDER"))),
		},
		AWS: AWSLocationConfig{
			Region:          viper.GetString("AWS_REGION"),
			PlaceIndex:      viper.GetString("LOCATION_PLACE_INDEX"),
			RouteCalculator: viper.GetString("LOCATION_ROUTE_CALCULATOR"),
		},
		Mapbox: MapboxConfig{
			AccessToken:    viper.GetString("MAPBOX_ACCESS_TOKEN"),
			BaseURL:        viper.GetString("MAPBOX_BASE_URL"),
			RoutingProfile: viper.GetString("MAPBOX_ROUTING_PROFILE"),
			RequestTimeout: viper.GetInt("MAPBOX_REQUEST_TIMEOUT"),
		},
		Routes: RoutesConfig{
			DepartureTimes: parseList(viper.GetString("ROUTES_DEPARTURE_TIMES")),
			Timezone:       viper.GetString("ROUTES_TIMEZONE"),
			Concurrent:     viper.GetBool("ROUTES_CONCURRENT"),
		},
		CORS: CORSConfig{
			AllowOrigins: viper.GetString("CORS_ALLOW_ORIGINS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     viper.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	if len(cfg.Routes.DepartureTimes) == 0 {
		cfg.Routes.DepartureTimes = DefaultDepartureTimes
	}
	if cfg.Worker.BatchSize <= 0 {
		cfg.Worker.BatchSize = 10
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек провайдера
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderAWS:
		if c.AWS.PlaceIndex == "" || c.AWS.RouteCalculator == "" {
			return fmt.Errorf("LOCATION_PLACE_INDEX and LOCATION_ROUTE_CALCULATOR are required for provider %q", ProviderAWS)
		}
	case ProviderMapbox:
		if c.Mapbox.AccessToken == "" {
			return fmt.Errorf("MAPBOX_ACCESS_TOKEN is required for provider %q", ProviderMapbox)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	return nil
}

// Location возвращает часовой пояс для расчёта "завтрашней" даты
func (c *Config) Location() (*time.Location, error) {
	if c.Routes.Timezone == "" || c.Routes.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Routes.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ROUTES_TIMEZONE %q: %w", c.Routes.Timezone, err)
	}
	return loc, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
