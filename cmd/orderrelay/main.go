package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	. "github.com/DrGermanius/OrderRelay/internal"
)

func main() {
	//decimals at json as numbers
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := NewConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	z, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()
	defer sugaredLogger.Sync()

	db, dialect, err := OpenDB(context.Background(), cfg.DatabaseURI, sugaredLogger)
	if err != nil {
		sugaredLogger.Fatal(err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	repository := NewRepository(db, dialect, sugaredLogger)
	service := NewService(repository, cfg.Options(), NewMetrics(registry), sugaredLogger)
	handlers := NewHandlers(service, sugaredLogger)

	app := NewApp(handlers, registry)

	go func() {
		if err := app.Listen(cfg.RunAddress); err != nil {
			sugaredLogger.Fatal(err)
		}
	}()
	sugaredLogger.Infow("order relay started", "address", cfg.RunAddress, "options", cfg.Options())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("Shutting down service...")

	if err = app.Shutdown(); err != nil {
		sugaredLogger.Errorf("shutdown: %s", err.Error())
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(l)
	return config.Build()
}
