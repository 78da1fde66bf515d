package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/shopfront/internal/infrastructure/feed"
	"github.com/example/shopfront/internal/infrastructure/journal"
)

// feed tails the shopfront event topic and logs every state change. It
// stands in for a remote presentation adapter following the outbound
// notification feed.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9092")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "shopfront-events")
	consumerGroup := getEnv("KAFKA_CONSUMER_GROUP", "feed-listener")

	log.Println("[Feed] ========================================")
	log.Println("[Feed] Shopfront - Event Feed Listener")
	log.Println("[Feed] ========================================")
	log.Printf("[Feed] Kafka: %v", kafkaBrokers)
	log.Printf("[Feed] Topic: %s", kafkaTopic)
	log.Printf("[Feed] Group: %s", consumerGroup)

	listener := feed.NewListener(kafkaBrokers, kafkaTopic, consumerGroup)
	defer listener.Close()

	go func() {
		log.Println("[Feed] Listening for state changes...")
		if err := listener.Listen(ctx, logEvent); err != nil {
			if ctx.Err() == nil {
				log.Printf("[Feed] Listener error: %v", err)
			}
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Feed] Shutting down...")
	cancel()
}

func logEvent(ctx context.Context, key, value []byte) error {
	var event journal.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Feed] %s v%d %s/%s data=%s",
		event.Timestamp.Format("15:04:05"),
		event.Version,
		event.AggregateType,
		event.EventType,
		string(event.Data),
	)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
