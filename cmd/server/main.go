package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/shopfront/internal/api"
	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/domain/catalog"
	"github.com/example/shopfront/internal/domain/session"
	"github.com/example/shopfront/internal/infrastructure/feed"
	"github.com/example/shopfront/internal/infrastructure/journal"
	"github.com/example/shopfront/internal/shop"
)

func main() {
	// Configuration from environment variables
	addr := getEnv("LISTEN_ADDR", ":8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("[Server] JWT_SECRET environment variable is required")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("[Server] JWT_SECRET must be at least 32 characters long")
	}

	log.Println("[Server] ========================================")
	log.Println("[Server] Shopfront")
	log.Println("[Server] ========================================")

	// Optional Kafka feed for out-of-process presentation adapters
	var publisher *feed.Publisher
	if brokersStr := os.Getenv("KAFKA_BROKERS"); brokersStr != "" {
		brokers := strings.Split(brokersStr, ",")
		topic := getEnv("KAFKA_TOPIC", "shopfront-events")
		publisher = feed.NewPublisher(brokers, topic)
		defer publisher.Close()
		log.Printf("[Server] Feed: Kafka %v topic %s", brokers, topic)
	} else {
		log.Println("[Server] Feed: disabled (KAFKA_BROKERS not set)")
	}

	// Journal: Postgres when configured, in-memory otherwise
	var j journal.Journal
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := journal.Connect(connStr)
		if err != nil {
			log.Fatalf("[Server] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()
		j = journal.NewPostgres(db, publisher)
		log.Println("[Server] Journal: PostgreSQL (events table)")
	} else {
		j = journal.NewMemory(publisher)
		log.Println("[Server] Journal: in-memory")
	}

	// Seed data
	directory, err := session.DefaultDirectory()
	if err != nil {
		log.Fatalf("[Server] Failed to build user directory: %v", err)
	}

	s := shop.New(catalog.Default(), directory, j)
	s.Subscribe(func(v shop.View) {
		log.Printf("[Render] user=%q lines=%d total=%s", v.User, len(v.Cart.Lines), v.Cart.Total)
	})

	tokens := auth.NewTokenService(jwtSecret, 15*time.Minute)

	handlers := api.NewHandlers(s, tokens)
	router := api.NewRouter(handlers, tokens)

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] Listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Server] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Server] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
