package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/scroll-deploy-config/internal/application"
	"github.com/eugenenazirov/scroll-deploy-config/internal/config"
	"github.com/eugenenazirov/scroll-deploy-config/internal/export"
	"github.com/eugenenazirov/scroll-deploy-config/internal/logging"
	"github.com/eugenenazirov/scroll-deploy-config/internal/registry"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "deployconfig: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	kingpinApp := kingpin.New("deployconfig", "Deploy configuration loader - resolves compiler, network and explorer settings for contract deployment")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file (default: nearest "+config.DefaultFileName+")").String()
	envFile := kingpinApp.Flag("env-file", "Path to a dotenv file holding credential variables").String()
	logLevel := kingpinApp.Flag("log-level", "Log level: debug, info, warn or error").String()

	showCmd := kingpinApp.Command("show", "Print the resolved configuration")
	format := showCmd.Flag("format", "Output format").Default(string(export.FormatJSON)).Enum(export.Formats()...)
	revealSecrets := showCmd.Flag("reveal-secrets", "Print account secrets instead of ${VAR} references").Bool()

	validateCmd := kingpinApp.Command("validate", "Validate the configuration and report configured networks")

	serveCmd := kingpinApp.Command("serve", "Serve the resolved configuration over HTTP").Default()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return err
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		EnvFile:    *envFile,
	}
	if overrides.ConfigFile == "" {
		if path, err := config.Discover(config.DefaultFileName); err == nil {
			overrides.ConfigFile = path
		}
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if *port != "" {
		overrides.Port = port
	}
	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}
	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	if overrides.ConfigFile != "" {
		logger.Debug("configuration file loaded", zap.String("path", overrides.ConfigFile))
	}

	switch command {
	case showCmd.FullCommand():
		data, err := export.Render(cfg, export.Format(*format), export.Options{IncludeSecrets: *revealSecrets})
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err

	case validateCmd.FullCommand():
		application.ReportNetworks(registry.New(cfg), logger)
		_, err := fmt.Fprintf(stdout, "configuration is valid: compiler %s, %d network(s)\n", cfg.Solidity.Version, len(cfg.Networks))
		return err

	case serveCmd.FullCommand():
		app, err := application.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
		if err := app.Start(); err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		shutdown(app.Server(), cfg.Server.ShutdownGracePeriod, logger)
		return nil
	}

	return errors.New("unknown command " + command)
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
