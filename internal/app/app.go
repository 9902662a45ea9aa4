package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jamspace/server/internal/controller"
	connInmemory "github.com/jamspace/server/internal/repository/connection/inmemory"
	presenceRedis "github.com/jamspace/server/internal/repository/presence/redis"
	"github.com/jamspace/server/internal/service/session"
	"github.com/jamspace/server/pkg/ctxlogger"
	"github.com/jamspace/server/pkg/randcode"
	"github.com/jamspace/server/pkg/redisclient"
)

const (
	// roomTTL bounds the lifetime of a room and every key derived from
	// it; there is no explicit room-close operation.
	roomTTL = 24 * time.Hour

	roomCodeLength = 6
)

type AppConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	LogLevel      string `json:"log_level"`
	RedisPort     int    `json:"redis_port"`
	RedisHost     string `json:"redis_host"`
	RedisPassword string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	presenceRepo := presenceRedis.NewRepo(rc, roomTTL, logger)
	connRepo := connInmemory.NewRepo()
	sessionService := session.NewService(presenceRepo, connRepo, randcode.New(roomCodeLength), logger)
	controller := controller.NewController(sessionService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
