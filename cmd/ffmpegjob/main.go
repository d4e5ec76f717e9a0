// Package main provides the ffmpegjob CLI entry point.
//
// ffmpegjob drives a single ffmpeg invocation described by command-line
// flags: one or more inputs, one or more outputs, and a set of global
// options, reporting the parsed final result or a typed failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomwye/ffmpegjob/internal/config"
	"github.com/tomwye/ffmpegjob/internal/ffmpegerr"
	"github.com/tomwye/ffmpegjob/internal/ffmpegparser"
	"github.com/tomwye/ffmpegjob/internal/jobstats"
	"github.com/tomwye/ffmpegjob/internal/logging"
	"github.com/tomwye/ffmpegjob/internal/metrics"
	"github.com/tomwye/ffmpegjob/internal/option"
	"github.com/tomwye/ffmpegjob/internal/platform"
	"github.com/tomwye/ffmpegjob/internal/preflight"
	"github.com/tomwye/ffmpegjob/internal/supervisor"
	"github.com/tomwye/ffmpegjob/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/ffmpegjob
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-version", "--version", "version":
			fmt.Printf("ffmpegjob %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	var logger *slog.Logger
	if cfg.TUIEnabled && !cfg.PrintCmd && !cfg.Check {
		logger = logging.NewLoggerWithWriter(io.Discard, "json", "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	if cfg.Check {
		config.ApplyCheckMode(cfg)
	}

	job := config.BuildJob(cfg)

	if cfg.PrintCmd {
		printFFmpegCommand(cfg, job)
		return 0
	}

	logger.Info("starting",
		"version", version,
		"inputs", cfg.Inputs,
		"outputs", cfg.Outputs,
		"ffmpeg", cfg.FFmpegPath,
	)

	if cfg.Check {
		logger.Info("check_mode_ok", "argv", option.QuoteForLog(job.BuildArgv()))
		return 0
	}

	if !cfg.SkipPreflight {
		result := preflight.RunAll(cfg.FFmpegPath)
		preflight.PrintResults(result)
		if !result.Passed {
			return 1
		}
	}

	metricsServer := metrics.NewServer(cfg.MetricsAddr, logger)
	if err := metricsServer.Start(); err != nil {
		logger.Warn("metrics_server_failed_to_start", "error", err)
	}
	defer metricsServer.Shutdown(context.Background())

	stats := jobstats.New()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var program *tea.Program
	var model tui.Model
	if cfg.TUIEnabled {
		model = tui.New("ffmpegjob")
		program = tea.NewProgram(model)
		go func() {
			if _, err := program.Run(); err != nil {
				logger.Warn("tui_stopped", "error", err)
			}
		}()
	}

	result, err := executeJob(ctx, cfg, job, logger, stats, program, metricsServer)

	if program != nil {
		program.Send(tui.DoneMsg{Err: err})
	}

	logJobStats(logger, stats)

	if err != nil {
		metrics.ExitCode.WithLabelValues(outcomeLabel(err)).Inc()
		fmt.Fprintf(os.Stderr, "ffmpeg job failed: %v\n", err)
		return 1
	}

	metrics.ExitCode.WithLabelValues("ok").Inc()
	fmt.Printf("done: video=%.1fkB audio=%.1fkB\n", result.VideoKB, result.AudioKB)
	return 0
}

// logJobStats surfaces the Recorder's percentiles at exit. A single CLI
// invocation only ever contributes one duration sample, so p50/p95/p99
// coincide with that sample here; the digest exists to make the
// numbers meaningful once a caller wires stats across invocations
// (e.g. loading/saving the digest around a batch of ffmpegjob runs).
func logJobStats(logger *slog.Logger, stats *jobstats.Recorder) {
	durP50, durP95, durP99 := stats.DurationPercentiles()
	speedP50, speedP95, speedP99 := stats.SpeedPercentiles()
	logger.Info("job_stats",
		"job_count", stats.JobCount(),
		"duration_p50_s", durP50, "duration_p95_s", durP95, "duration_p99_s", durP99,
		"speed_p50", speedP50, "speed_p95", speedP95, "speed_p99", speedP99,
	)
}

func executeJob(
	ctx context.Context,
	cfg *config.Config,
	job *option.Job,
	logger *slog.Logger,
	stats *jobstats.Recorder,
	program *tea.Program,
	metricsServer *metrics.Server,
) (ffmpegparser.FinalResult, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	listener := func(ev ffmpegparser.ProgressEvent) {
		stats.RecordSpeed(ev.Speed)
		if program != nil {
			program.Send(tui.ProgressMsg(ev))
		}
	}

	execPath := cfg.FFmpegPath
	if execPath == "" || execPath == "ffmpeg" {
		execPath = platform.ExecutableName(runtime.GOOS)
	}

	sup := supervisor.New[ffmpegparser.FinalResult](supervisorConfig(job, execPath, "ffmpegjob", listener, logger, metricsServer, cfg.Verbose))

	start := time.Now()
	result, err := sup.Execute(ctx)
	duration := time.Since(start)
	stats.RecordDuration(duration)
	metrics.ObserveJob(outcomeLabel(err), duration)
	return result, err
}

func supervisorConfig(
	job *option.Job,
	execPath string,
	contextName string,
	listener ffmpegparser.ProgressListener,
	logger *slog.Logger,
	metricsServer *metrics.Server,
	verbose bool,
) supervisor.Config[ffmpegparser.FinalResult] {
	base := supervisor.ConfigFromJob[ffmpegparser.FinalResult](job, contextName)
	base.ExecutablePath = execPath
	base.Logger = logger
	base.OnChildRunning = func(running bool) {
		if running {
			metrics.ActiveJobs.Inc()
		} else {
			metrics.ActiveJobs.Dec()
		}
		metricsServer.SetJobRunning(running)
	}
	base.OnHelperWorkerDone = func(outcome string) {
		metrics.HelperWorkers.WithLabelValues(outcome).Inc()
	}
	base.OnReaderWorkerDone = func(stream, outcome string) {
		metrics.ReaderWorkers.WithLabelValues(stream, outcome).Inc()
	}

	p := ffmpegparser.New(listener)
	base.StdoutHandler = func(line string, trySet func(ffmpegparser.FinalResult) bool) error {
		if err := p.HandleLine(line); err != nil {
			return err
		}
		if res, ok := p.Result(); ok {
			trySet(res)
		}
		return nil
	}

	classifier := logging.NewStderrClassifier(contextName, logger, verbose)
	base.StderrHandler = func(line string, trySet func(ffmpegparser.FinalResult) bool) error {
		classifier.HandleLine(line)
		return nil
	}

	return base
}

// printFFmpegCommand prints the argv the job would invoke, for --print-cmd mode.
func printFFmpegCommand(cfg *config.Config, job *option.Job) {
	argv := job.BuildArgv()
	fmt.Printf("%s %s\n", cfg.FFmpegPath, option.QuoteForLog(argv))
}

// outcomeLabel classifies err into the fixed set of Prometheus outcome
// label values, matching the priority order the supervisor itself uses
// to pick a failure.
func outcomeLabel(err error) string {
	var wErr *ffmpegerr.WorkerError
	var iErr *ffmpegerr.InterruptedError
	var eErr *ffmpegerr.NonZeroExitError
	var nErr *ffmpegerr.NoResultError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &wErr):
		return "worker_error"
	case errors.As(err, &iErr):
		return "interrupted"
	case errors.As(err, &eErr):
		return "non_zero_exit"
	case errors.As(err, &nErr):
		return "no_result"
	default:
		return "error"
	}
}
