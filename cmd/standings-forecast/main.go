package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/metrics"
	"github.com/iwvelando/standings-forecast/internal/search"
	"github.com/iwvelando/standings-forecast/internal/server"
	"github.com/iwvelando/standings-forecast/internal/source"
	"github.com/iwvelando/standings-forecast/pkg/constants"
	"github.com/iwvelando/standings-forecast/pkg/output"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	printStandings := flag.Bool("print-standings", false, "print the ranked points table and exit")
	seed := flag.Bool("seed", false, "copy the file seed into the configured postgres or redis source and exit")
	flag.Parse()

	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range conf.Warnings() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := runSeed(ctx, logger, conf.Standings); err != nil {
			logger.Fatal("failed to seed standings",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	src, err := source.New(conf.Standings, logger)
	if err != nil {
		logger.Fatal("failed to open standings source",
			zap.String("op", "main"),
			zap.String("source", conf.Standings.Source),
			zap.Error(err),
		)
	}
	defer func() {
		_ = src.Close()
	}()

	table, err := source.LoadTable(ctx, src)
	if err != nil {
		logger.Fatal("failed to load standings",
			zap.String("op", "main"),
			zap.String("source", conf.Standings.Source),
			zap.Error(err),
		)
	}
	logger.Info("standings loaded",
		zap.String("op", "main"),
		zap.String("source", conf.Standings.Source),
		zap.Int("teams", table.Len()),
	)
	for _, d := range table.RateDiscrepancies(constants.TableNRRDecimals) {
		logger.Warn("stored NRR disagrees with runs for and against",
			zap.String("op", "main"),
			zap.String("team", d.Team),
			zap.Float64("stored", d.Stored),
			zap.Float64("computed", d.Computed),
		)
	}

	if *printStandings {
		if err := output.Write(os.Stdout, conf.Output.Format, table.Sorted()); err != nil {
			logger.Fatal("failed to print standings",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	engine, err := search.NewEngine(logger, table,
		search.WithWindow(search.Window{
			BattingLowFraction: conf.Search.BattingLowFraction,
			ChaseLowFraction:   conf.Search.ChaseLowFraction,
			ChaseHighFraction:  conf.Search.ChaseHighFraction,
		}),
		search.WithMaxOvers(conf.Search.MaxOvers),
		search.WithObserver(m),
	)
	if err != nil {
		logger.Fatal("failed to create search engine",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	serverConfig, err := server.NewConfig(conf.Server)
	if err != nil {
		logger.Fatal("invalid server configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	handler, err := server.NewHandler(logger, engine, serverConfig,
		server.WithRequestObserver(m),
		server.WithGatherer(reg),
	)
	if err != nil {
		logger.Fatal("failed to create HTTP handler",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:              serverConfig.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      serverConfig.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server started",
			zap.String("op", "main"),
			zap.String("address", serverConfig.Address),
			zap.String("version", serverConfig.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down gracefully", zap.String("op", "main"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
