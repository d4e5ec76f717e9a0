// Package platform isolates the OS-specific process-group behavior the
// supervisor's Stopper needs for a forceful kill.
//
// Grounded on internal/supervisor/supervisor.go's own POSIX handling
// (Setpgid at spawn time, Kill(-pgid, SIGKILL) at forceful-stop time),
// rewired from the teacher's direct syscall package use onto
// golang.org/x/sys/unix per SPEC_FULL.md's DOMAIN STACK wiring —
// x/sys already rides along in the module graph as bubbletea's
// terminal-control dependency, and using it directly here gives it a
// component of its own instead of remaining a transitive-only
// dependency.
package platform

// IsWindows reports whether osName (typically runtime.GOOS) names a
// Windows-family OS. Injected as a plain string, per spec §9's design
// note, so tests do not depend on the build host.
func IsWindows(osName string) bool {
	return osName == "windows"
}

// ExecutableName returns the ffmpeg binary name for osName, appending
// ".exe" on Windows-family OS names.
func ExecutableName(osName string) string {
	if IsWindows(osName) {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}
