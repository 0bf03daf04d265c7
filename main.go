package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mtaylor91/pairing-server/pkg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env file: ", err)
	}

	config, err := pkg.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	pkg.ConfigureLogging(config)

	manager := pkg.NewManager(config)

	pairingServer := &http.Server{
		Addr:              config.Addr,
		Handler:           pkg.NewRouter(manager, config),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var metricsServer *http.Server
	if config.MetricsAddr != "" {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.Handler())

		metricsServer = &http.Server{
			Addr:              config.MetricsAddr,
			Handler:           metricsRouter,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Infof("Starting pairing server on %s...", config.Addr)
	go func() {
		err := pairingServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Pairing server failed: ", err)
		}
	}()

	if metricsServer != nil {
		log.Infof("Starting metrics server on %s...", config.MetricsAddr)
		go func() {
			err := metricsServer.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				log.Fatal("Metrics server failed: ", err)
			}
		}()
	}

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down pairing server...")
	if err := pairingServer.Shutdown(ctx); err != nil {
		log.Fatal("Pairing server shutdown failed: ", err)
	}

	if metricsServer != nil {
		log.Info("Shutting down metrics server...")
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Fatal("Metrics server shutdown failed: ", err)
		}
	}
}
