package redis_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-gateway/internal/config"
	"github.com/route-gateway/internal/domain"
	redisRepo "github.com/route-gateway/internal/repository/redis"
)

const (
	testStream = "test:stream:route:forecast"
	testGroup  = "test-group"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client, mr := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	assert.True(t, mr.Exists(testStream))

	// повторное создание не ошибка
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
}

func TestStreamRepository_PublishAndConsume(t *testing.T) {
	client, _ := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	event := domain.RouteForecastEvent{
		RequestID:           uuid.New(),
		DeparturePosition:   []float64{77.59, 12.97},
		DestinationPosition: []float64{77.64, 12.90},
	}
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))
	require.NoError(t, repo.PublishToStream(ctx, testStream, event))

	batch, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	var got domain.RouteForecastEvent
	require.NoError(t, json.Unmarshal([]byte(batch[0].Data), &got))
	assert.Equal(t, event.RequestID, got.RequestID)
	assert.Equal(t, event.DeparturePosition, got.DeparturePosition)

	rest, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	empty, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStreamRepository_AckMessages(t *testing.T) {
	client, _ := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	require.NoError(t, repo.PublishToStream(ctx, testStream, map[string]string{"k": "v"}))

	batch, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.Count)

	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, []string{batch[0].ID}))

	pending, err = client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending.Count)

	// пустой список не обращается к Redis
	assert.NoError(t, repo.AckMessages(ctx, testStream, testGroup, nil))
}

func TestStreamRepository_MessageWithoutData(t *testing.T) {
	client, _ := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: testStream,
		Values: map[string]interface{}{"other": "x"},
	}).Err())

	batch, err := repo.ConsumeBatch(ctx, testStream, testGroup, "consumer-1", 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.NotEmpty(t, batch[0].ID)
	assert.Empty(t, batch[0].Data)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host := mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	r, err := redisRepo.NewRedis(&config.RedisConfig{Host: host, Port: port}, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.NoError(t, r.Health(context.Background()))
	assert.NotNil(t, r.Client())

	// после остановки сервера адрес берём из сохранённых значений
	mr.Close()
	_, err = redisRepo.NewRedis(&config.RedisConfig{Host: host, Port: port}, zap.NewNop())
	assert.Error(t, err)
}
