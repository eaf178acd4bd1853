package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/logtally/internal/config"
	"github.com/logtally/internal/health"
	"github.com/logtally/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	conf, err := config.LoadHealth()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&conf.LogFile, "log-file", conf.LogFile, "file warnings are appended to, - for stderr (env HEALTHCHECK_LOG_FILE)")
	fs.DurationVar(&conf.Interval, "interval", conf.Interval, "poll interval, 0 runs a single check (env HEALTHCHECK_INTERVAL)")
	fs.DurationVar(&conf.SampleWindow, "window", conf.SampleWindow, "cpu sampling window (env HEALTHCHECK_SAMPLE_WINDOW)")
	fs.StringVar(&conf.DiskPath, "disk", conf.DiskPath, "path whose filesystem is checked (env HEALTHCHECK_DISK_PATH)")
	fs.StringVar(&conf.MetricsAddr, "metrics-addr", conf.MetricsAddr, "serve Prometheus metrics on this address (env HEALTHCHECK_METRICS_ADDR)")
	fs.StringVar(&conf.LogLevel, "log-level", conf.LogLevel, "log level (env HEALTHCHECK_LOG_LEVEL)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: healthcheck [options]\n\n")
		fmt.Fprintf(stderr, "Warns when CPU, memory, disk or a single process goes above %.0f%%.\n\n", health.CPUThreshold)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := conf.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	out := stderr
	if conf.LogFile != "-" {
		f, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	log := config.NewLogger(out, conf.LogLevel)

	sampler, err := health.NewProcSampler("", conf.DiskPath, conf.SampleWindow)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	checker := &health.Checker{Sampler: sampler, Log: log}

	if conf.MetricsAddr != "" {
		checker.Metrics = health.NewMetrics()
		server, _, err := checker.Metrics.StartServer(conf.MetricsAddr, log)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Debug("metrics server shutdown")
			}
		}()
	}

	poller := &worker.Poller{
		Interval: conf.Interval,
		Task:     checker.Run,
		Log:      log,
	}

	if err := poller.Run(ctx); err != nil {
		log.WithError(err).Error("health check failed")
		if conf.LogFile != "-" {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
