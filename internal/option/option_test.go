package option

import (
	"context"
	"reflect"
	"testing"
)

func TestBuildArgvOrderOverwriteTrue(t *testing.T) {
	j := &Job{
		Inputs:    []*Input{{URL: FixedURL("a.mp4")}},
		Overwrite: true,
		Outputs:   []*Output{{URL: FixedURL("b.mp4")}},
	}

	got := j.BuildArgv()
	want := []string{"-i", "a.mp4", "-y", "b.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgv() = %v, want %v", got, want)
	}
}

func TestBuildArgvOverwriteFalse(t *testing.T) {
	j := &Job{
		Inputs:    []*Input{{URL: FixedURL("a.mp4")}},
		Overwrite: false,
		Outputs:   []*Output{{URL: FixedURL("b.mp4")}},
	}

	got := j.BuildArgv()
	if !contains(got, "-n") {
		t.Errorf("BuildArgv() = %v, want -n present", got)
	}
	if contains(got, "-y") {
		t.Errorf("BuildArgv() = %v, want -y absent", got)
	}
}

func TestBuildArgvFullOrder(t *testing.T) {
	j := &Job{
		Inputs: []*Input{
			{Options: []Option{KV("-r", "30")}, URL: FixedURL("a.mp4")},
		},
		Overwrite:     true,
		FilterComplex: "scale=1280:-1",
		GlobalOptions: []Option{Flag("-hide_banner")},
		Outputs: []*Output{
			{Options: []Option{KV("-b:v", "2M")}, URL: FixedURL("b.mp4")},
		},
	}

	got := j.BuildArgv()
	want := []string{
		"-r", "30", "-i", "a.mp4",
		"-y",
		"-filter_complex", "scale=1280:-1",
		"-hide_banner",
		"-b:v", "2M", "b.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildArgv() = %v, want %v", got, want)
	}
}

func TestDeferredURLSlotPublishOnce(t *testing.T) {
	slot := DeferredURL("tcp", "")

	if _, ok := slot.Get(); ok {
		t.Fatal("unpublished deferred slot should report ok=false")
	}

	if err := slot.Publish(4123); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	url, ok := slot.Get()
	if !ok || url != "tcp://127.0.0.1:4123" {
		t.Errorf("Get() = (%q, %v), want (%q, true)", url, ok, "tcp://127.0.0.1:4123")
	}

	if err := slot.Publish(9999); err == nil {
		t.Error("second Publish() should be rejected")
	}
}

func TestFixedURLSlotRejectsPublish(t *testing.T) {
	slot := FixedURL("a.mp4")
	if err := slot.Publish(1234); err == nil {
		t.Error("Publish() on a fixed slot should be rejected")
	}
}

func TestQuoteForLogWrapsOnlySpaceBearingTokens(t *testing.T) {
	got := QuoteForLog([]string{"-i", "my file.mp4", "-y", "out.mp4"})
	want := `-i "my file.mp4" -y out.mp4`
	if got != want {
		t.Errorf("QuoteForLog() = %q, want %q", got, want)
	}
}

func TestHelperWorkersPublishesIntoOwnSlot(t *testing.T) {
	slot := DeferredURL("tcp", "")
	in := &Input{
		URL: slot,
		Helper: func(ctx context.Context, publish func(int) error) error {
			return publish(5000)
		},
	}
	j := &Job{Inputs: []*Input{in}}

	fns := j.HelperWorkers()
	if len(fns) != 1 {
		t.Fatalf("HelperWorkers() returned %d workers, want 1", len(fns))
	}
	if err := fns[0](context.Background()); err != nil {
		t.Fatalf("helper worker error = %v", err)
	}
	url, ok := slot.Get()
	if !ok || url != "tcp://127.0.0.1:5000" {
		t.Errorf("slot.Get() = (%q, %v)", url, ok)
	}
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
