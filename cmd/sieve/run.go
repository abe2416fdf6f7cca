package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/pkg/file"
	"github.com/zoobzio/sieve/pkg/metrics"
	"github.com/zoobzio/sieve/pkg/redis"
)

const shutdownTimeout = 5 * time.Second

type runOptions struct {
	config      string
	source      string
	capacity    int
	consumers   int
	speed       int
	control     string
	redisAddr   string
	redisKey    string
	metricsAddr string
	duration    time.Duration
	logLevel    string
	development bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long: `Run starts the producer and consumers and keeps them running until
SIGINT or SIGTERM is received or --duration elapses. SIGHUP drains the buffer
and restarts from the beginning of the source. Final sums are printed on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runPipeline(cmd, cfg, opts)
		},
	}

	defaults := sieve.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "configuration file (YAML or JSON)")
	f.StringVarP(&opts.source, "source", "s", defaults.Source, "number file to read")
	f.IntVar(&opts.capacity, "capacity", defaults.Capacity, "buffer capacity")
	f.IntVar(&opts.consumers, "consumers", defaults.Consumers, "number of consumers, a multiple of three")
	f.IntVar(&opts.speed, "speed", int(defaults.Speed), "speed preset from 1 (slowest) to 5 (fastest)")
	f.StringVar(&opts.control, "control", "", "control document to watch for pause, speed and reset")
	f.StringVar(&opts.redisAddr, "control-redis", "", "read the control document from a Redis server at this address")
	f.StringVar(&opts.redisKey, "control-key", "sieve:control", "Redis key holding the control document")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.DurationVar(&opts.duration, "duration", 0, "stop after this long, 0 to run until interrupted")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.development, "dev", false, "human readable logs")
	return cmd
}

// resolveConfig loads --config over the defaults, then applies every flag the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (sieve.Config, error) {
	cfg := sieve.DefaultConfig()
	if opts.config != "" {
		loaded, err := sieve.LoadConfig(opts.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Source = opts.source
	}
	if f.Changed("capacity") {
		cfg.Capacity = opts.capacity
	}
	if f.Changed("consumers") {
		cfg.Consumers = opts.consumers
	}
	if f.Changed("speed") {
		cfg.Speed = sieve.Speed(opts.speed)
	}
	return cfg, cfg.Validate()
}

func runPipeline(cmd *cobra.Command, cfg sieve.Config, opts *runOptions) error {
	logger, err := newLogger(opts.logLevel, opts.development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	hookSignals(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	pipeline := sieve.New(cfg, nil)

	if opts.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		exporter, err := metrics.New("sieve", reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		pipeline.Observer(exporter)

		srv := serveMetrics(opts.metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := pipeline.Start(ctx); err != nil {
		return err
	}

	if watcher, closeWatcher := controlWatcher(opts); watcher != nil {
		defer closeWatcher()
		control := sieve.NewControl(watcher, pipeline, sieve.WithRetry(3))
		if err := control.Start(ctx); err != nil {
			logger.Warn("control document not applied", zap.Error(err))
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	waitLoop(ctx, hup, func() {
		if err := pipeline.Reset(ctx); err != nil {
			logger.Error("reset failed", zap.Error(err))
		}
	})

	stopErr := pipeline.Stop()
	renderReport(cmd.OutOrStdout(), pipeline.Sums(), pipeline.Stats())
	for _, d := range pipeline.Diagnostics() {
		logger.Warn("diagnostic", zap.String("run", d.Run), zap.Time("at", d.At), zap.Error(d.Err))
	}
	return stopErr
}

// controlWatcher returns the configured control source, preferring Redis over
// a local file, and a function releasing it. It returns nil when neither is
// set.
func controlWatcher(opts *runOptions) (sieve.Watcher, func()) {
	switch {
	case opts.redisAddr != "":
		client := goredis.NewClient(&goredis.Options{Addr: opts.redisAddr})
		return redis.New(client, opts.redisKey), func() { _ = client.Close() }
	case opts.control != "":
		return file.New(opts.control), func() {}
	default:
		return nil, nil
	}
}

// waitLoop blocks until ctx is done, calling reset for every value on hup.
func waitLoop(ctx context.Context, hup <-chan os.Signal, reset func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			reset()
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}
