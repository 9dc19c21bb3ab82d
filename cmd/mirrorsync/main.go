package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"github.com/thecodeteam/goodbye"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simplesurance/mirrorsync/internal/cfg"
	"github.com/simplesurance/mirrorsync/internal/githubclt"
	"github.com/simplesurance/mirrorsync/internal/logfields"
	"github.com/simplesurance/mirrorsync/internal/mirror"
	"github.com/simplesurance/mirrorsync/internal/syncerr"
)

const appName = "mirrorsync"

var logger *zap.Logger

// Version is set via a ldflag on compilation
var Version = "unknown"

func exitOnErr(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "ERROR:", msg+", error:", err.Error())
	os.Exit(1)
}

func panicHandler() {
	if r := recover(); r != nil {
		logger.Info(
			"panic caught , terminating gracefully",
			zap.String("panic", fmt.Sprintf("%v", r)),
			zap.StackSkip("stacktrace", 1),
		)

		ctx, cancelFn := context.WithTimeout(context.Background(), time.Minute)
		defer cancelFn()

		goodbye.Exit(ctx, 1)
	}
}

type arguments struct {
	Verbose     *bool
	ConfigFile  *string
	EnvFile     *string
	DryRun      *bool
	MetricsFile *string
	ShowVersion *bool
}

var args arguments

func mustParseCommandlineParams() {
	args = arguments{
		Verbose: pflag.BoolP(
			"verbose",
			"v",
			false,
			"enable verbose logging",
		),
		ConfigFile: pflag.StringP(
			"cfg-file",
			"c",
			"",
			"path to the configuration file, if unset the defaults are used",
		),
		EnvFile: pflag.String(
			"env-file",
			"",
			"path to a .env file with environment variables, variables that are already set are not overwritten",
		),
		DryRun: pflag.Bool(
			"dry-run",
			false,
			"do not trigger CI workflows, only log which would be triggered",
		),
		MetricsFile: pflag.String(
			"metrics-file",
			"",
			"write prometheus metrics of the run to this file, in the format of the node-exporter textfile collector",
		),
		ShowVersion: pflag.Bool(
			"version",
			false,
			"print the version and exit",
		),
	}

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]\nTrigger mobile CI workflows for upstream pull requests with outdated mirror branches.\n", appName)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()
}

func mustParseCfg() *cfg.Config {
	// we use exitOnErr in this function instead of logger.Fatal() because
	// the logger is not initialized yet

	var config *cfg.Config

	if *args.ConfigFile == "" {
		config = cfg.Default()
	} else {
		file, err := os.Open(*args.ConfigFile)
		exitOnErr("could not open configuration file", err)
		defer file.Close()

		config, err = cfg.Load(file)
		exitOnErr(fmt.Sprintf("could not load configuration file: %s", *args.ConfigFile), err)
	}

	if *args.EnvFile != "" {
		err := godotenv.Load(*args.EnvFile)
		exitOnErr(fmt.Sprintf("could not load env file: %s", *args.EnvFile), err)
	}

	if err := config.LoadEnv(); err != nil {
		exitOnErr("could not read environment variables", &syncerr.ConfigError{Err: err})
	}

	if err := config.Validate(); err != nil {
		exitOnErr("configuration is invalid", &syncerr.ConfigError{Err: err})
	}

	return config
}

func initLogFmtLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zapEncoderConfig(config)

	logger := zap.New(zapcore.NewCore(
		zaplogfmt.NewEncoder(cfg),
		os.Stdout,
		logLevel),
	)

	return logger
}

func zapEncoderConfig(config *cfg.Config) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()

	cfg.LevelKey = "loglevel"
	cfg.TimeKey = config.LogTimeKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	return cfg
}

func mustInitZapFormatLogger(config *cfg.Config, logLevel zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig = zapEncoderConfig(config)
	cfg.OutputPaths = []string{"stdout"}
	cfg.Encoding = config.LogFormat
	cfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := cfg.Build()
	exitOnErr("could not initialize logger", err)

	return logger
}

func mustInitLogger(config *cfg.Config) {
	var logLevel zapcore.Level
	if *args.Verbose {
		logLevel = zapcore.DebugLevel
	} else {
		if err := (&logLevel).Set(config.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "can not set log level to %q: %s \n", config.LogLevel, err)
			os.Exit(2)
		}
	}

	switch config.LogFormat {
	case "logfmt":
		logger = initLogFmtLogger(config, logLevel)
	case "console", "json":
		logger = mustInitZapFormatLogger(config, logLevel)
	default:
		fmt.Fprintf(os.Stderr, "unsupported log-format argument: %q\n", config.LogFormat)
		os.Exit(2)
	}

	logger = logger.Named("main")
	zap.ReplaceGlobals(logger)

	goodbye.Register(func(context.Context, os.Signal) {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "flushing logs failed: %s\n", err)
		}
	})
}

func hide(in string) string {
	if in == "" {
		return in
	}

	return "**hidden**"
}

func writeMetricsFile() {
	if *args.MetricsFile == "" {
		return
	}

	err := prometheus.WriteToTextfile(*args.MetricsFile, prometheus.DefaultGatherer)
	if err != nil {
		logger.Warn(
			"writing metrics file failed",
			logfields.Event("metrics_file_write_failed"),
			zap.String("metrics_file", *args.MetricsFile),
			zap.Error(err),
		)
	}
}

func main() {
	defer panicHandler()

	defer goodbye.Exit(context.Background(), 1)
	goodbye.Notify(context.Background())

	mustParseCommandlineParams()

	if *args.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		os.Exit(0) // nolint:gocritic // defer functions won't run
	}

	config := mustParseCfg()

	mustInitLogger(config)

	httpTimeout, err := config.HTTPTimeoutDuration()
	exitOnErr("invalid http timeout", err)

	var ghClient mirror.GithubClient = githubclt.New(config.GithubAPIToken, httpTimeout)
	if *args.DryRun {
		ghClient = mirror.NewDryGithubClient(ghClient, logger)
	}

	reconciler, err := mirror.NewReconciler(
		ghClient,
		config,
		mirror.WithTaskDeferFunc(panicHandler),
	)
	if err != nil {
		exitOnErr("could not create reconciler", &syncerr.ConfigError{Err: err})
	}

	logger.Info(
		"loaded configuration",
		logfields.Event("cfg_loaded"),
		zap.String("cfg_file", *args.ConfigFile),
		zap.Bool("dry_run", *args.DryRun),
		zap.String("upstream_repository", config.Upstream.Owner+"/"+config.Upstream.RepositoryName),
		zap.String("upstream_labels", strings.Join(config.Upstream.Labels, ",")),
		zap.String("upstream_canonical_owner", config.Upstream.CanonicalOwner),
		zap.String("control_repository", config.Control.Owner+"/"+config.Control.RepositoryName),
		zap.String("control_content_path", config.Control.ContentPath),
		zap.String("control_workflow_file", config.Control.WorkflowFile),
		zap.String("control_default_branch", config.Control.DefaultBranch),
		zap.String("pull_request_filter", config.PullRequestFilter),
		zap.Int("concurrency", config.Concurrency),
		zap.Duration("http_timeout", httpTimeout),
		zap.String("github_api_token", hide(config.GithubAPIToken)),
		zap.String("log_format", config.LogFormat),
		zap.String("log_level", config.LogLevel),
	)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	goodbye.Register(func(_ context.Context, sig os.Signal) {
		if sig != nil {
			logger.Info(fmt.Sprintf("terminating, received signal %s", sig.String()))
		}
		cancelFn()
	})

	_, err = reconciler.Run(ctx)
	writeMetricsFile()
	if err != nil {
		logger.Error(
			"reconciliation failed",
			append(
				syncerr.LogFields(err),
				logfields.Event("reconciliation_failed"),
				zap.Error(err),
			)...,
		)

		goodbye.Exit(context.Background(), 1)
	}

	goodbye.Exit(context.Background(), 0)
}
