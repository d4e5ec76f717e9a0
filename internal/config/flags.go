package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// repeatableFlag is a custom flag type for flags that may be repeated,
// such as -input, -output, and -opt.
type repeatableFlag []string

func (r *repeatableFlag) String() string {
	return strings.Join(*r, ", ")
}

func (r *repeatableFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// ParseFlags parses command-line flags and returns a Config.
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()
	var inputs, outputs, opts repeatableFlag

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `ffmpegjob - drive one ffmpeg invocation from a declarative Job

Usage:
  ffmpegjob -input <url> [-input <url> ...] -output <url> [-output <url> ...] [flags]

Job Flags:
`)
		printFlagCategory([]string{"input", "output", "opt", "overwrite", "filter-complex"})

		fmt.Fprintf(os.Stderr, "\nFFmpeg:\n")
		printFlagCategory([]string{"ffmpeg", "timeout"})

		fmt.Fprintf(os.Stderr, "\nSafety & Diagnostics:\n")
		printFlagCategory([]string{"print-cmd", "check", "skip-preflight"})

		fmt.Fprintf(os.Stderr, "\nObservability:\n")
		printFlagCategory([]string{"metrics", "v", "log-format", "tui"})

		fmt.Fprintf(os.Stderr, `
Examples:
  # Transcode a file
  ffmpegjob -input in.mp4 -opt "-c:v=libx264" -output out.mkv

  # Print the argv ffmpeg would receive without running it
  ffmpegjob -input in.mp4 -output out.mkv --print-cmd

`)
	}

	flag.Var(&inputs, "input", "Input URL or path (can repeat)")
	flag.Var(&outputs, "output", "Output URL or path (can repeat)")
	flag.Var(&opts, "opt", `Global ffmpeg option, "-flag" or "-name=value" (can repeat)`)
	flag.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Overwrite output files without prompting (-y instead of -n)")
	flag.StringVar(&cfg.FilterComplex, "filter-complex", cfg.FilterComplex, "filter_complex graph string")

	flag.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "Path to the ffmpeg binary")
	flag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Job deadline (0 = none)")

	flag.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the ffmpeg argv and exit")
	flag.BoolVar(&cfg.Check, "check", cfg.Check, "Validate the job and exit without running ffmpeg")
	flag.BoolVar(&cfg.SkipPreflight, "skip-preflight", cfg.SkipPreflight, "Skip the ffmpeg-binary preflight check")

	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	flag.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Enable live terminal progress view (use -tui=false to disable)")

	flag.Parse()

	cfg.Inputs = inputs
	cfg.Outputs = outputs
	cfg.GlobalOpts = opts

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" && f.DefValue != "[]" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	switch f.DefValue {
	case "true", "false":
		return ""
	}
	if strings.HasSuffix(f.DefValue, "s") || strings.HasSuffix(f.DefValue, "m") || strings.HasSuffix(f.DefValue, "h") {
		return "duration"
	}
	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}
	return "string"
}
