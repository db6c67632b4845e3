//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	forecastStream = "stream:route:forecast"
	doneStream     = "stream:route:forecast:done"
)

type routeForecastEvent struct {
	RequestID           uuid.UUID `json:"request_id"`
	DeparturePosition   []float64 `json:"DeparturePosition"`
	DestinationPosition []float64 `json:"DestinationPosition"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	from := flag.String("from", "77.5946,12.9716", "departure lon,lat")
	to := flag.String("to", "77.6412,12.9081", "destination lon,lat")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for the result")
	flag.Parse()

	departure, err := parsePosition(*from)
	if err != nil {
		log.Fatalf("Invalid -from: %v", err)
	}
	destination, err := parsePosition(*to)
	if err != nil {
		log.Fatalf("Invalid -to: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := routeForecastEvent{
		RequestID:           uuid.New(),
		DeparturePosition:   departure,
		DestinationPosition: destination,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// результат читаем начиная с текущего конца стрима
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, doneStream, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: forecastStream,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", forecastStream)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("\nWaiting for response in %s...\n", doneStream)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{doneStream, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			log.Fatalf("Failed to read %s: %v", doneStream, err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}

				if response["request_id"] == event.RequestID.String() {
					pretty, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("\nResponse received:\n%s\n", pretty)
					return
				}
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}

func parsePosition(s string) ([]float64, error) {
	var lon, lat float64
	if _, err := fmt.Sscanf(s, "%g,%g", &lon, &lat); err != nil {
		return nil, err
	}
	return []float64{lon, lat}, nil
}
