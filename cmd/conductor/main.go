package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jamspace/server/internal/conductor"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	serverURL = configVar[string]{
		envKey:       "CONDUCTOR_SERVER_URL",
		flagKey:      "server-url",
		defaultValue: "ws://localhost:3001/api/v1/ws",
	}
	logLevel = configVar[string]{
		envKey:       "CONDUCTOR_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
)

func main() {
	pflag.String(serverURL.flagKey, serverURL.defaultValue, "Coordinator websocket URL")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)
	viper.BindEnv(serverURL.flagKey, serverURL.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.SetDefault(serverURL.flagKey, serverURL.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(strings.ToUpper(viper.GetString(logLevel.flagKey)))); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := conductor.Run(ctx, &conductor.Config{
		ServerURL: viper.GetString(serverURL.flagKey),
		NewSynth:  conductor.NewStubSynthFactory(logger),
		Logger:    logger,
	}); err != nil {
		log.Fatal(err)
	}
}
