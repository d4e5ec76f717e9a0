package config

import (
	"strings"

	"github.com/tomwye/ffmpegjob/internal/option"
)

// BuildJob turns a validated Config into a declarative Job. Inputs and
// outputs are plain files or URLs (option.FixedURL) — the CLI demo has
// no socket-backed endpoints of its own; callers embedding this
// package as a library reach for internal/netloop directly when they
// need one.
func BuildJob(cfg *Config) *option.Job {
	job := &option.Job{
		Overwrite:     cfg.Overwrite,
		FilterComplex: cfg.FilterComplex,
	}

	for _, u := range cfg.Inputs {
		job.Inputs = append(job.Inputs, &option.Input{URL: option.FixedURL(u)})
	}
	for _, u := range cfg.Outputs {
		job.Outputs = append(job.Outputs, &option.Output{URL: option.FixedURL(u)})
	}
	for _, o := range cfg.GlobalOpts {
		job.GlobalOptions = append(job.GlobalOptions, parseOpt(o))
	}

	return job
}

// parseOpt turns a "-flag" or "-name=value" string into an Option.
func parseOpt(s string) option.Option {
	if name, value, ok := strings.Cut(s, "="); ok {
		return option.KV(name, value)
	}
	return option.Flag(s)
}
