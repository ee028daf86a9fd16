package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phsym/console-slog"

	"i4.energy/across/fonagw/fona"
)

func main() {
	flag.String("serial-port", "/dev/ttyAMA0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("sim-pin", "", "SIM card PIN code (if required)")
	flag.Bool("verbose", false, "Trace modem requests and responses")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("log-format", "json", "Log format (json, console)")
	flag.String("http-token", "", "Bearer token required on /sms routes (empty disables auth)")
	flag.String("mqtt-broker", "", "MQTT broker URL (empty disables MQTT)")
	flag.String("mqtt-topic", "sms/send", "MQTT topic carrying send requests")
	flag.Int("rate-per-min", 30, "Maximum outgoing messages per minute")
	flag.Int("max-retries", 3, "Maximum delivery attempts per message")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if config.LogFormat == "console" {
		handler = console.NewHandler(os.Stderr, &console.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	sessionConfig, err := fona.NewConfigBuilder().
		WithPort(config.SerialPort).
		WithBaudRate(config.BaudRate).
		WithPIN(config.SimPIN).
		WithVerbose(config.Verbose).
		WithLogger(logger.With("component", "fona")).
		Build()
	if err != nil {
		logger.Error("Failed to create session config", "error", err)
		os.Exit(1)
	}

	session := fona.New(sessionConfig)
	if err := session.Establish(); err != nil {
		logger.Error("Failed to establish modem session",
			"error", err,
			"state", session.State(),
			"last_error", session.LastError())
		session.Close()
		os.Exit(1)
	}

	logger.Info("Starting SMS gateway", "port", config.SerialPort, "state", session.State())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gateway := NewGateway(config, session, logger.With("component", "gateway"))
	go gateway.Run(ctx)

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger:  logger.With("component", "server"),
			Gateway: gateway,
			Token:   config.HTTPToken,
		},
	}

	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	startMQTT(ctx, config, gateway, logger.With("component", "mqtt"))

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
	}

	logger.Info("Closing modem session")
	if err := session.Close(); err != nil {
		logger.Error("Failed to close modem session", "error", err)
	}
}
