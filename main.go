package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"lg/energy-ledger/internal/config"
	"lg/energy-ledger/internal/events"
	"lg/energy-ledger/internal/ledger"
	"lg/energy-ledger/internal/store"
)

// newRouter wires the API routes plus /metrics and /healthz onto a gin engine.
func newRouter(h *Handler, userHeader string) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.registerRoutes(router, userHeader)
	return router
}

func main() {
	log.SetPrefix("lg/energy-ledger: ")
	log.SetFlags(log.LstdFlags)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer backend.Close()

	opts := []ledger.Option{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.PublishTimeout)
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher))
		log.Printf("publishing ledger events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	} else {
		log.Printf("KAFKA_BROKERS not set, ledger events are not published")
	}
	svc := ledger.NewService(backend, opts...)

	router := newRouter(newHandler(svc), cfg.UserHeader)
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", cfg.UserHeader},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      c.Handler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("energy ledger listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
