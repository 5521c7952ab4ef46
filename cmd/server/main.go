package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cincodev/cinco-billing/internal/auth"
	"github.com/cincodev/cinco-billing/internal/config"
	"github.com/cincodev/cinco-billing/internal/db"
	"github.com/cincodev/cinco-billing/internal/handlers"
	"github.com/cincodev/cinco-billing/internal/middleware"
	"github.com/cincodev/cinco-billing/internal/notify"
	"github.com/cincodev/cinco-billing/internal/sync"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Errorf("Failed to disconnect from MongoDB: %v", err)
		}
	}()
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDatabase)
	sites := &db.MongoSiteCollection{Collection: database.Collection("sites")}
	tenants := &db.MongoTenantCollection{Collection: database.Collection("tenants")}
	records := &db.MongoBillingRecordCollection{Collection: database.Collection("billing_records")}
	state := &db.MongoSyncStateCollection{Collection: database.Collection("sync_state")}
	drafts := &db.MongoDraftCollection{Collection: database.Collection("drafts")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	var notifier sync.Notifier
	if cfg.MQTTBroker != "" {
		mqttPub, err := notify.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
		if err != nil {
			log.Fatalf("Failed to connect to MQTT broker: %v", err)
		}
		defer mqttPub.Close()
		notifier = mqttPub
		log.WithField("broker", cfg.MQTTBroker).Info("Change notifications enabled")
	} else {
		notifier = notify.NopPublisher{}
	}

	engine := sync.New(sync.Config{
		Sites:          sites,
		Tenants:        tenants,
		BillingRecords: records,
		State:          state,
		Remote:         sync.NewHTTPRemote(cfg.SharedDataURL, cfg.SharedDataTimeout),
		Notifier:       notifier,
		Interval:       cfg.SyncInterval,
		Logger:         log.StandardLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start sync engine: %v", err)
	}
	defer engine.Stop()

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:    handlers.NewAuthHandler(authService, users),
		Sites:   handlers.NewSiteHandler(engine),
		Tenants: handlers.NewTenantHandler(engine),
		Billing: handlers.NewBillingHandler(engine, drafts),
		Export:  handlers.NewExportHandler(engine),
		Import:  handlers.NewImportHandler(engine),
		AuthMW:  middleware.NewAuthMiddleware(authService),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
}
