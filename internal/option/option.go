// Package option implements the declarative Job description and the
// deferred-URL slot socket-backed inputs and outputs publish their
// loopback port into.
//
// Grounded on spec §4.5/§9's "cleaner design" note: rather than the
// original source's base-class field mutated from within a port-sink
// closure, URLSlot is an explicit publish-once value with an
// IllegalStateError guard against double-publish or publish-on-fixed,
// adapted from the teacher's option-string builders in
// internal/orchestrator and named after kokorin/jaffree's UrlInput /
// UrlOutput split.
package option

import (
	"context"
	"strconv"
	"strings"

	"github.com/tomwye/ffmpegjob/internal/ffmpegerr"
)

// Option is a single ffmpeg flag and its optional value.
type Option struct {
	Name  string
	Value string
	// HasValue distinguishes a bare flag ("-y") from an empty-string value.
	HasValue bool
}

// Flag builds a bare option with no value, e.g. Flag("-y").
func Flag(name string) Option { return Option{Name: name} }

// KV builds a name/value option, e.g. KV("-b:v", "2M").
func KV(name, value string) Option { return Option{Name: name, Value: value, HasValue: true} }

// Args renders the option as the argv tokens ffmpeg expects.
func (o Option) Args() []string {
	if !o.HasValue {
		return []string{o.Name}
	}
	return []string{o.Name, o.Value}
}

// URLSlot holds an input or output URL that is either fixed at
// construction time (a filesystem path) or deferred until a loopback
// helper publishes the port it bound. A deferred slot may be
// published exactly once, and only via Publish; Get before
// publication on a deferred slot returns ok=false.
type URLSlot struct {
	fixed     bool
	value     string
	scheme    string
	suffix    string
	published bool
	ready     chan struct{}
}

// FixedURL builds a slot whose value is already known, such as a file path.
func FixedURL(value string) *URLSlot {
	s := &URLSlot{fixed: true, value: value, published: true, ready: make(chan struct{})}
	close(s.ready)
	return s
}

// DeferredURL builds a slot that will be filled by Publish once a
// loopback helper has bound its port. scheme and suffix compose the
// final URL as "scheme://127.0.0.1:<port><suffix>".
func DeferredURL(scheme, suffix string) *URLSlot {
	return &URLSlot{scheme: scheme, suffix: suffix, ready: make(chan struct{})}
}

// Publish fills a deferred slot with the port a loopback helper bound.
// Calling Publish on a fixed slot, or more than once on a deferred
// slot, is rejected with IllegalStateError.
func (s *URLSlot) Publish(port int) error {
	if s.fixed {
		return &ffmpegerr.IllegalStateError{Msg: "cannot publish a port into a fixed URL slot"}
	}
	if s.published {
		return &ffmpegerr.IllegalStateError{Msg: "URL slot already published"}
	}
	s.value = s.scheme + "://127.0.0.1:" + strconv.Itoa(port) + s.suffix
	s.published = true
	close(s.ready)
	return nil
}

// Get returns the slot's value and whether it has been published yet.
func (s *URLSlot) Get() (string, bool) {
	return s.value, s.published
}

// Ready returns a channel that closes the instant the slot becomes
// usable: immediately for a fixed slot, or on a successful Publish for
// a deferred one. It never closes if the slot is deferred and never
// published.
func (s *URLSlot) Ready() <-chan struct{} {
	return s.ready
}

// HelperWorker is started by the supervisor before the child is
// spawned. Inputs and Outputs backed by a loopback socket supply one,
// typically a *netloop.Helper's Run method bound via publish=slot.Publish.
// ctx is the same context Execute was called with, so a socket helper
// can unblock its Accept when the caller cancels.
type HelperWorker func(ctx context.Context, publish func(port int) error) error

// Input is one ffmpeg input: its options culminate in "-i <url>".
type Input struct {
	Options []Option
	URL     *URLSlot
	Helper  HelperWorker
}

func (in *Input) argv() []string {
	var out []string
	for _, o := range in.Options {
		out = append(out, o.Args()...)
	}
	url, _ := in.URL.Get()
	return append(out, "-i", url)
}

// Output is one ffmpeg output: its options culminate in an output URL
// (or "-" for stdout).
type Output struct {
	Options []Option
	URL     *URLSlot
	Helper  HelperWorker
	// StdoutReader marks an output that streams its result back over
	// stdout rather than a socket. It is only a marker: neither BuildArgv
	// nor supervisor.ConfigFromJob reads it, so the supervisor's stdout
	// handler is whatever the caller sets on the Config.
	StdoutReader bool
}

func (out *Output) argv() []string {
	var res []string
	for _, o := range out.Options {
		res = append(res, o.Args()...)
	}
	url, _ := out.URL.Get()
	return append(res, url)
}

// Job is the declarative description of one ffmpeg invocation.
type Job struct {
	Inputs        []*Input
	Overwrite     bool
	FilterComplex string
	GlobalOptions []Option
	Outputs       []*Output
}

// BuildArgv materialises the argument vector in the fixed order the
// external contract requires: each input's options in order, exactly
// one of -y/-n, -filter_complex if set, global options in order, then
// each output's options in order. Call only after every socket-backed
// input/output's URLSlot has been published.
func (j *Job) BuildArgv() []string {
	var argv []string

	for _, in := range j.Inputs {
		argv = append(argv, in.argv()...)
	}

	if j.Overwrite {
		argv = append(argv, "-y")
	} else {
		argv = append(argv, "-n")
	}

	if j.FilterComplex != "" {
		argv = append(argv, "-filter_complex", j.FilterComplex)
	}

	for _, o := range j.GlobalOptions {
		argv = append(argv, o.Args()...)
	}

	for _, out := range j.Outputs {
		argv = append(argv, out.argv()...)
	}

	return argv
}

// QuoteForLog joins argv the way §4.4 step 1 requires for a log line:
// tokens containing a space are wrapped in double quotes, nothing
// else is escaped. This mirrors kokorin/jaffree's joinArguments
// exactly, including its documented limitation.
func QuoteForLog(argv []string) string {
	quoted := make([]string, len(argv))
	for i, tok := range argv {
		if strings.Contains(tok, " ") {
			quoted[i] = `"` + tok + `"`
		} else {
			quoted[i] = tok
		}
	}
	return strings.Join(quoted, " ")
}

// HelperWorkers collects every non-nil helper factory across a Job's
// inputs and outputs, paired with the URLSlot it must publish into.
func (j *Job) HelperWorkers() []func(ctx context.Context) error {
	var fns []func(ctx context.Context) error
	for _, in := range j.Inputs {
		if in.Helper == nil {
			continue
		}
		slot := in.URL
		fn := in.Helper
		fns = append(fns, func(ctx context.Context) error { return fn(ctx, slot.Publish) })
	}
	for _, out := range j.Outputs {
		if out.Helper == nil {
			continue
		}
		slot := out.URL
		fn := out.Helper
		fns = append(fns, func(ctx context.Context) error { return fn(ctx, slot.Publish) })
	}
	return fns
}

// HelpersReady returns a channel that closes once every socket-backed
// input's and output's URLSlot has been published, so a caller can
// block until BuildArgv is guaranteed to observe real bound ports
// rather than the zero value of an unpublished deferred slot. The
// channel is already closed if the Job has no deferred slots at all.
func (j *Job) HelpersReady() <-chan struct{} {
	var pending []<-chan struct{}
	for _, in := range j.Inputs {
		if in.Helper != nil {
			pending = append(pending, in.URL.Ready())
		}
	}
	for _, out := range j.Outputs {
		if out.Helper != nil {
			pending = append(pending, out.URL.Ready())
		}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, c := range pending {
			<-c
		}
	}()
	return done
}
