package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"uploadkit-go/internal/handler/docs"
	mediahandler "uploadkit-go/internal/handler/media"
	database "uploadkit-go/internal/pkg/db"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/jwt"
	"uploadkit-go/internal/pkg/logger"
	"uploadkit-go/internal/pkg/middleware"
	"uploadkit-go/internal/pkg/mqtt"
	"uploadkit-go/internal/pkg/rabbitmq"
	"uploadkit-go/internal/pkg/redis"
	"uploadkit-go/internal/pkg/validation"
	cloudstorage "uploadkit-go/internal/service/cloud-storage"
	"uploadkit-go/internal/service/media"
	"uploadkit-go/internal/service/worker"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	logger.Setup()
	if err := helper.LoadEnv(); err != nil {
		panic(err)
	}
	if err := validation.Setup(); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	rds, err := redis.Setup(ctx, &redis.Config{
		Host:     helper.GetEnvOrDefault("REDIS_HOST", "localhost"),
		Port:     helper.GetEnvAsInt("REDIS_PORT", 6379),
		Password: helper.GetEnv("REDIS_PASSWORD"),
		PoolSize: helper.GetEnvAsInt("REDIS_POOL_SIZE", 10),
	})
	if err != nil {
		panic(err)
	}

	db, err := database.Setup(&database.Config{
		Host:     helper.GetEnvOrDefault("DB_HOST", "localhost"),
		Port:     helper.GetEnvAsInt("DB_PORT", 5432),
		User:     helper.GetEnvOrDefault("DB_USER", "postgres"),
		Password: helper.GetEnv("DB_PASSWORD"),
		Database: helper.GetEnvOrDefault("DB_NAME", "uploadkit"),
		SSLMode:  "disable",
	})
	if err != nil {
		panic(err)
	}
	if err := db.RunMigrations(); err != nil {
		panic(err)
	}

	rb, err := rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: helper.GetEnvOrDefault("RABBIT_USER", "guest"),
		Password: helper.GetEnvOrDefault("RABBIT_PASSWORD", "guest"),
		Host:     helper.GetEnvOrDefault("RABBIT_HOST", "localhost"),
		Port:     helper.GetEnvAsInt("RABBIT_PORT", 5672),
	})
	if err != nil {
		panic(err)
	}

	publisher, err := rabbitmq.NewPublisher(ctx, rb)
	if err != nil {
		panic(err)
	}

	broker, err := mqtt.Setup(&mqtt.Config{
		URL:      helper.GetEnvOrDefault("MQTT_URL", "tcp://localhost:1883"),
		ClientID: "uploadkit-api",
		Username: helper.GetEnv("MQTT_USERNAME"),
		Password: helper.GetEnv("MQTT_PASSWORD"),
	})
	if err != nil {
		panic(err)
	}

	jwtOpts := jwt.DefaultOptions(helper.GetEnvOrDefault("JWT_SECRET", "bismillah"))
	jwtOpts.SaveMethod = jwt.REDIS
	auth := jwt.New(rds, jwtOpts)

	storage, err := cloudstorage.NewService(ctx, rds, auth)
	if err != nil {
		panic(err)
	}

	mediaService := media.NewService(ctx, db, storage, auth, publisher)

	w, err := worker.NewService(ctx, rb, mediaService, broker)
	if err != nil {
		panic(err)
	}
	if err := w.Start(); err != nil {
		panic(err)
	}

	// mirror the fanout the worker produces, so a demo run shows the full
	// upload -> event -> notification loop on stdout
	broker.Subscribe("media/#", 1, func(_ paho.Client, msg paho.Message) {
		logger.Info.Println("Notification on ", msg.Topic(), ": ", string(msg.Payload()))
	})

	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(helper.GetEnvOrDefault("API_KEY", "local-dev-key")), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	doc, err := docs.NewDocument("uploadkit", "1.0.0")
	if err != nil {
		panic(err)
	}

	r := gin.Default()
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit())

	api := r.Group("/api")
	mediahandler.NewHandler(mediaService).NewRoutes(api, auth, []string{string(apiKeyHash)})
	docs.NewHandler(doc).NewRoutes(api)

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		if !w.IsHealthy() || rb.IsClosed() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"worker":   w.IsHealthy(),
			"eventBus": !rb.IsClosed(),
		})
	})

	go func() {
		if err := r.Run(":" + helper.GetEnvOrDefault("PORT", "8001")); err != nil {
			logger.Error.Println(err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	if err := w.Stop(); err != nil {
		logger.Error.Println(err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error.Println(err)
	}
	if err := rb.Close(); err != nil {
		logger.Error.Println(err)
	}
	broker.Close()
	if err := rds.Close(); err != nil {
		logger.Error.Println(err)
	}
	cancel()
}
