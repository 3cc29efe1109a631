package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/financial-monitor/internal/api"
	"github.com/honeynil/financial-monitor/internal/broadcast"
	"github.com/honeynil/financial-monitor/internal/config"
	"github.com/honeynil/financial-monitor/internal/handler"
	kafkainfra "github.com/honeynil/financial-monitor/internal/infrastructure/kafka"
	redisinfra "github.com/honeynil/financial-monitor/internal/infrastructure/redis"
	"github.com/honeynil/financial-monitor/internal/observability"
	"github.com/honeynil/financial-monitor/internal/repository"
	"github.com/honeynil/financial-monitor/internal/repository/memory"
	postgres "github.com/honeynil/financial-monitor/internal/repository/postgres"
	service "github.com/honeynil/financial-monitor/internal/services"
	_ "github.com/lib/pq"
)

func main() {
	// Инициализируем логи, метрики, трейсы
	shutdown, _ := observability.Setup("financial-monitor")
	defer shutdown(context.Background())

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Выбираем хранилище: Postgres при заданном DSN, иначе in-memory
	var store repository.TransactionStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer db.Close()

		pgStore := postgres.NewPostgresTransactionStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		store = pgStore
	} else {
		store = memory.NewStore()
	}

	// Фан-аут: локальный хаб, при заданном REDIS_ADDR — через бекплейн
	hub := broadcast.NewHub()
	var broadcaster service.Broadcaster = hub
	if cfg.RedisAddr != "" {
		redisClient := redisinfra.NewClient(cfg.RedisAddr)
		defer redisClient.Close()

		backplane := broadcast.NewRedisBackplane(redisClient, hub)
		go backplane.Run(ctx)
		broadcaster = backplane
	}

	var audit kafkainfra.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafkainfra.NewProducer(cfg.KafkaBrokers, "transactions")
		defer producer.Close()
		audit = producer
	}

	svc := service.NewTransactionService(store, broadcaster, audit)
	h := handler.NewHandler(svc)
	router := api.SetupRouter(h, broadcast.NewStreamHandler(hub), cfg.CORSOrigins)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}
	go func() {
		log.Printf("Starting server on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
