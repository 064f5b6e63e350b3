package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/flow-layout/internal/application"
	"github.com/eugenenazirov/flow-layout/internal/config"
	"github.com/eugenenazirov/flow-layout/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	overrides, err := parseFlags(os.Args[1:])
	kingpin.FatalIfError(err, "parse flags")

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// parseFlags turns command-line flags into config overrides. Only flags the
// user actually passed are set, so an explicit negative value reaches
// validation instead of being mistaken for "unset".
func parseFlags(args []string) (*config.CLIOverrides, error) {
	kingpinApp := kingpin.New("flow-layout", "Flow Layout - arranges labeled items with five layout algorithms")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	algorithm := kingpinApp.Flag("algorithm", "Initially selected algorithm (vstack, hstack, zstack, circle, flow)").String()

	var spacingSet, radiusSet, inlineFirstSet, rpsSet, burstSet bool
	spacing := kingpinApp.Flag("spacing", "Spacing between items and rows").IsSetByUser(&spacingSet).Float64()
	radius := kingpinApp.Flag("radius", "Circle layout radius").IsSetByUser(&radiusSet).Float64()
	inlineFirst := kingpinApp.Flag("inline-first", "Keep an oversized first flow item at the origin").IsSetByUser(&inlineFirstSet).Bool()
	rateLimitRPS := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").IsSetByUser(&rpsSet).Float64()
	rateLimitBurst := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").IsSetByUser(&burstSet).Int()

	if _, err := kingpinApp.Parse(args); err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	if *port != "" {
		overrides.Port = port
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if *algorithm != "" {
		overrides.Algorithm = algorithm
	}
	if spacingSet {
		overrides.Spacing = spacing
	}
	if radiusSet {
		overrides.Radius = radius
	}
	if inlineFirstSet {
		overrides.InlineFirst = inlineFirst
	}
	if rpsSet {
		overrides.RateLimitRPS = rateLimitRPS
	}
	if burstSet {
		overrides.RateLimitBurst = rateLimitBurst
	}

	return overrides, nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
