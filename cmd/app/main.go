package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	httpin "customer_service/internal/adapters/inbound/http"
	kafkain "customer_service/internal/adapters/inbound/kafka"
	"customer_service/internal/adapters/outbound/fallback"
	"customer_service/internal/adapters/outbound/localstore"
	"customer_service/internal/adapters/outbound/postgres"
	"customer_service/internal/app/config"
	"customer_service/internal/app/runtime"
	"customer_service/internal/core/service"
)

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	local, err := localstore.New(cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("local store")
	}

	// The remote target is best-effort: an unreachable database downgrades
	// the session to the local target, it never stops startup.
	var remote fallback.RemoteTarget
	var db *postgres.DB
	if cfg.DatabaseURL != "" {
		connCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
		db, err = postgres.New(connCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.WithError(err).Warn("database unreachable, running on local target")
		} else {
			defer db.Close()
			remote = postgres.NewRepository(db.Pool)
		}
	}

	backend := fallback.New(ctx, remote, local)
	store := service.NewCustomerStore(backend)
	if err := store.Initialize(ctx); err != nil {
		log.WithError(err).Fatal("initialize store")
	}
	log.WithField("target", backend.State().String()).
		WithField("customers", len(store.Customers())).
		Info("store initialized")

	handlers := httpin.NewHandlers(store)
	mux := httpin.NewMux(handlers, store)
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, mux)
	httpSrv.Start()

	if len(cfg.KafkaBrokers) > 0 {
		consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaConsumerGroup,
			MinBytes: cfg.KafkaMinBytes,
			MaxBytes: cfg.KafkaMaxBytes,
		}, store)
		defer func() { _ = consumer.Close() }()
		go consumer.Run(ctx)
	}

	<-ctx.Done()
	log.Info("signal received, shutting down")

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("bye")
}
